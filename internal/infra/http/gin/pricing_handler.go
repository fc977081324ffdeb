package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"smartrent/internal/app/dto"
	quotesvc "smartrent/internal/app/services/quote"
	"smartrent/internal/domain/pricing"
)

// PricingHandler exposes the quote engine over HTTP.
type PricingHandler struct {
	Service *quotesvc.Service
	Logger  *slog.Logger
}

// Quote prices a product for the requested window.
//
// GET /api/v1/pricing/quote?product_id=...&start=...&end=...
func (h PricingHandler) Quote(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "pricing unavailable"})
		return
	}
	productID := c.Query("product_id")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}
	start, ok := parseTimestamp(c.Query("start"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date"})
		return
	}
	end, ok := parseTimestamp(c.Query("end"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
		return
	}

	quote, err := h.Service.ComputeQuote(c.Request.Context(), productID, start, end)
	if err != nil {
		h.respondQuoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// ProductRules lists every rule that could apply to a product.
//
// GET /api/v1/products/:id/pricing-rules
func (h PricingHandler) ProductRules(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "pricing unavailable"})
		return
	}
	productID := c.Param("id")
	rules, err := h.Service.ListRules(c.Request.Context(), productID)
	if err != nil {
		h.respondQuoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product_id": productID,
		"rules":      dto.MapPriceRules(rules),
	})
}

func (h PricingHandler) respondQuoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pricing.ErrInvalidWindow):
		c.JSON(http.StatusBadRequest, gin.H{"error": "end date must be after start date"})
	case errors.Is(err, pricing.ErrProductUnavailable):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found or not available for rental"})
	case errors.Is(err, pricing.ErrNoPricingRule):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no pricing rules found for this product"})
	default:
		if h.Logger != nil {
			h.Logger.Error("quote computation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to calculate pricing"})
	}
}

var _ PricingHTTP = PricingHandler{}

func parseTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
