package ginserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	quotesvc "smartrent/internal/app/services/quote"
	"smartrent/internal/domain/catalog"
	"smartrent/internal/domain/pricing"
	"smartrent/internal/infra/obs"
	"smartrent/internal/infra/storage/memory"
)

func newTestRouter(t *testing.T) (*gin.Engine, *memory.ProductRepository, *memory.RuleRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	products := memory.NewProductRepository()
	rules := memory.NewRuleRepository()
	service := quotesvc.NewService(products, rules, nil, nil)

	router := NewRouter(obs.Middleware{}, obs.HealthHandlers{}, Handlers{
		Pricing: PricingHandler{Service: service},
	})
	return router, products, rules
}

func seedCameraProduct(t *testing.T, products *memory.ProductRepository, rules *memory.RuleRepository) {
	t.Helper()
	ctx := context.Background()

	product, err := catalog.NewProduct(catalog.CreateProductParams{
		ID:           "cam-1",
		SKU:          "CAM-001",
		Name:         "DSLR Camera",
		CategoryID:   "cat-electronics",
		DailyDeposit: decimal.NewFromInt(200),
		IsRentable:   true,
	})
	if err != nil {
		t.Fatalf("NewProduct: %v", err)
	}
	if err := products.Save(ctx, product); err != nil {
		t.Fatalf("Save product: %v", err)
	}

	if err := rules.SavePricelist(ctx, memory.Pricelist{ID: "base", Name: "Base Pricing", Active: true}); err != nil {
		t.Fatalf("SavePricelist: %v", err)
	}
	for _, rule := range []pricing.PriceRule{
		{ID: "r-hour", Unit: pricing.UnitHour, Rate: decimal.NewFromInt(10), Scope: pricing.ProductScope("cam-1"), PricelistID: "base"},
		{ID: "r-day", Unit: pricing.UnitDay, Rate: decimal.NewFromInt(50), Scope: pricing.ProductScope("cam-1"), PricelistID: "base"},
	} {
		if err := rules.AddRule(ctx, rule); err != nil {
			t.Fatalf("AddRule: %v", err)
		}
	}
}

func TestQuoteEndpoint(t *testing.T) {
	router, products, rules := newTestRouter(t)
	seedCameraProduct(t, products, rules)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/pricing/quote?product_id=cam-1&start=2026-03-01T00:00:00Z&end=2026-03-03T02:00:00Z", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ProductID string `json:"product_id"`
		Window    struct {
			Hours float64 `json:"hours"`
		} `json:"window"`
		Breakdown []struct {
			Unit     string `json:"unit"`
			Quantity int64  `json:"quantity"`
		} `json:"breakdown"`
		Subtotal string `json:"subtotal"`
		Deposit  string `json:"deposit"`
		Total    string `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.ProductID != "cam-1" {
		t.Errorf("product_id = %q", resp.ProductID)
	}
	if resp.Window.Hours != 50 {
		t.Errorf("window hours = %v, want 50", resp.Window.Hours)
	}
	// 50h decomposes as 2 days + 2 hours: 2*50 + 2*10 = 120, plus the
	// flat 200 deposit.
	if len(resp.Breakdown) != 2 {
		t.Fatalf("breakdown entries = %d, want 2", len(resp.Breakdown))
	}
	if resp.Breakdown[0].Unit != "day" || resp.Breakdown[0].Quantity != 2 {
		t.Errorf("first line = %+v, want 2 days", resp.Breakdown[0])
	}
	if resp.Subtotal != "120" {
		t.Errorf("subtotal = %s, want 120", resp.Subtotal)
	}
	if resp.Total != "320" {
		t.Errorf("total = %s, want 320", resp.Total)
	}
}

func TestQuoteEndpointDateOnlyWindow(t *testing.T) {
	router, products, rules := newTestRouter(t)
	seedCameraProduct(t, products, rules)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/pricing/quote?product_id=cam-1&start=2026-03-01&end=2026-03-02", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestQuoteEndpointValidation(t *testing.T) {
	router, products, rules := newTestRouter(t)
	seedCameraProduct(t, products, rules)

	cases := []struct {
		name   string
		target string
		status int
	}{
		{"missing product", "/api/v1/pricing/quote?start=2026-03-01&end=2026-03-02", http.StatusBadRequest},
		{"bad start", "/api/v1/pricing/quote?product_id=cam-1&start=yesterday&end=2026-03-02", http.StatusBadRequest},
		{"inverted window", "/api/v1/pricing/quote?product_id=cam-1&start=2026-03-02&end=2026-03-01", http.StatusBadRequest},
		{"unknown product", "/api/v1/pricing/quote?product_id=ghost&start=2026-03-01&end=2026-03-02", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
}

func TestQuoteEndpointNoRules(t *testing.T) {
	router, products, rules := newTestRouter(t)
	ctx := context.Background()

	product, err := catalog.NewProduct(catalog.CreateProductParams{
		ID:         "bare-1",
		SKU:        "BARE-001",
		Name:       "Unpriced Item",
		CategoryID: "cat-misc",
		IsRentable: true,
	})
	if err != nil {
		t.Fatalf("NewProduct: %v", err)
	}
	if err := products.Save(ctx, product); err != nil {
		t.Fatalf("Save product: %v", err)
	}
	_ = rules

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/pricing/quote?product_id=bare-1&start=2026-03-01&end=2026-03-02", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestProductRulesEndpoint(t *testing.T) {
	router, products, rules := newTestRouter(t)
	seedCameraProduct(t, products, rules)

	// Expired rules stay visible here; the endpoint reports configuration,
	// not applicability.
	expired := pricing.PriceRule{
		ID:          "r-old",
		Unit:        pricing.UnitWeek,
		Rate:        decimal.NewFromInt(250),
		Scope:       pricing.ProductScope("cam-1"),
		PricelistID: "base",
		ValidTo:     time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := rules.AddRule(context.Background(), expired); err != nil {
		t.Fatalf("AddRule: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/cam-1/pricing-rules", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ProductID string `json:"product_id"`
		Rules     []struct {
			ID        string `json:"id"`
			Source    string `json:"source"`
			Pricelist string `json:"pricelist"`
		} `json:"rules"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Rules) != 3 {
		t.Fatalf("rules = %d, want 3", len(resp.Rules))
	}
	for _, rule := range resp.Rules {
		if rule.Source != "product" {
			t.Errorf("rule %s source = %q, want product", rule.ID, rule.Source)
		}
		if rule.Pricelist != "Base Pricing" {
			t.Errorf("rule %s pricelist = %q", rule.ID, rule.Pricelist)
		}
	}
}
