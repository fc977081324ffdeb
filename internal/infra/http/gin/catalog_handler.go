package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"smartrent/internal/app/dto"
	catalogsvc "smartrent/internal/app/services/catalog"
	domaincatalog "smartrent/internal/domain/catalog"
)

type CatalogHandler struct {
	Service *catalogsvc.Service
	Logger  *slog.Logger
}

// ListProducts serves the public catalog listing.
//
// GET /api/v1/products?category=...&search=...&rentable=true&limit=12&offset=0
func (h CatalogHandler) ListProducts(c *gin.Context) {
	params := domaincatalog.ListParams{
		CategoryID:   domaincatalog.CategoryID(c.Query("category")),
		Search:       c.Query("search"),
		OnlyRentable: c.Query("rentable") == "true",
		Limit:        queryInt(c, "limit", 0),
		Offset:       queryInt(c, "offset", 0),
	}.Normalized()

	result, err := h.Service.ListProducts(c.Request.Context(), params)
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductPage(result, params.Limit, params.Offset))
}

func (h CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.Service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapProductDetail(product))
}

func (h CatalogHandler) ListCategories(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	categories, err := h.Service.ListCategories(c.Request.Context(), includeInactive)
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	views := make([]dto.CategoryView, 0, len(categories))
	for _, entry := range categories {
		views = append(views, dto.MapCategory(entry.Category, entry.ProductCount))
	}
	c.JSON(http.StatusOK, gin.H{"items": views})
}

type createProductRequest struct {
	SKU           string `json:"sku" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	CategoryID    string `json:"category_id" binding:"required"`
	DailyDeposit  string `json:"daily_deposit"`
	IsRentable    *bool  `json:"is_rentable"`
	TotalQuantity int    `json:"total_quantity"`
}

func (h CatalogHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	deposit := decimal.Zero
	if req.DailyDeposit != "" {
		parsed, err := decimal.NewFromString(req.DailyDeposit)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid daily_deposit"})
			return
		}
		deposit = parsed
	}
	rentable := true
	if req.IsRentable != nil {
		rentable = *req.IsRentable
	}
	product, err := h.Service.CreateProduct(c.Request.Context(), catalogsvc.CreateProductParams{
		SKU:           req.SKU,
		Name:          req.Name,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		DailyDeposit:  deposit,
		IsRentable:    rentable,
		TotalQuantity: req.TotalQuantity,
	})
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapProductDetail(product))
}

type updateProductRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	SKU           *string `json:"sku"`
	CategoryID    *string `json:"category_id"`
	DailyDeposit  *string `json:"daily_deposit"`
	IsRentable    *bool   `json:"is_rentable"`
	TotalQuantity *int    `json:"total_quantity"`
}

func (h CatalogHandler) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	params := domaincatalog.UpdateProductParams{
		Name:          req.Name,
		Description:   req.Description,
		SKU:           req.SKU,
		IsRentable:    req.IsRentable,
		TotalQuantity: req.TotalQuantity,
	}
	if req.CategoryID != nil {
		id := domaincatalog.CategoryID(*req.CategoryID)
		params.CategoryID = &id
	}
	if req.DailyDeposit != nil {
		deposit, err := decimal.NewFromString(*req.DailyDeposit)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid daily_deposit"})
			return
		}
		params.DailyDeposit = &deposit
	}
	product, err := h.Service.UpdateProduct(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapProductDetail(product))
}

func (h CatalogHandler) DeleteProduct(c *gin.Context) {
	if err := h.Service.DeactivateProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h CatalogHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	category, err := h.Service.CreateCategory(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapCategory(category, 0))
}

func (h CatalogHandler) UpdateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	category, err := h.Service.UpdateCategory(c.Request.Context(), c.Param("id"), req.Name, req.Description)
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapCategory(category, 0))
}

func (h CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.Service.DeactivateCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadPhoto accepts a multipart "photo" file and stores it as a
// product image. "primary=true" promotes it to the listing photo.
func (h CatalogHandler) UploadPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	reader, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read photo file"})
		return
	}
	defer reader.Close()

	primary := c.Query("primary") == "true" || c.PostForm("primary") == "true"
	product, err := h.Service.AttachPhoto(c.Request.Context(), c.Param("id"), reader, file.Header.Get("Content-Type"), primary)
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapProductDetail(product))
}

func (h CatalogHandler) respondCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domaincatalog.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, domaincatalog.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
	case errors.Is(err, domaincatalog.ErrNameRequired),
		errors.Is(err, domaincatalog.ErrSKURequired),
		errors.Is(err, domaincatalog.ErrCategoryRequired),
		errors.Is(err, domaincatalog.ErrNegativeDeposit),
		errors.Is(err, domaincatalog.ErrNegativeQuantity),
		errors.Is(err, domaincatalog.ErrCategoryNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("catalog request failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var _ CatalogHTTP = CatalogHandler{}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
