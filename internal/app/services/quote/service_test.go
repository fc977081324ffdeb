package quote

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"smartrent/internal/domain/catalog"
	"smartrent/internal/domain/pricing"
)

type productRepoMock struct {
	products map[catalog.ProductID]*catalog.Product
}

func (m *productRepoMock) ByID(ctx context.Context, id catalog.ProductID) (*catalog.Product, error) {
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, catalog.ErrProductNotFound
}

func (m *productRepoMock) Save(ctx context.Context, product *catalog.Product) error { return nil }

func (m *productRepoMock) List(ctx context.Context, params catalog.ListParams) (catalog.ListResult, error) {
	return catalog.ListResult{}, nil
}

func (m *productRepoMock) CountByCategory(ctx context.Context, id catalog.CategoryID, onlyRentable bool) (int, error) {
	return 0, nil
}

type ruleCatalogMock struct {
	rules []pricing.PriceRule
}

func (m *ruleCatalogMock) GetApplicablePriceRules(ctx context.Context, productID, categoryID string) ([]pricing.PriceRule, error) {
	return m.rules, nil
}

type publisherMock struct {
	topic   string
	key     string
	payload []byte
	err     error
	calls   int
}

func (m *publisherMock) Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error {
	m.calls++
	m.topic = topic
	m.key = key
	m.payload = payload
	return m.err
}

func testProduct() *catalog.Product {
	return &catalog.Product{
		ID:           "prod-camera",
		SKU:          "CAM-001",
		Name:         "Professional DSLR Camera",
		CategoryID:   "cat-electronics",
		DailyDeposit: decimal.RequireFromString("200"),
		IsActive:     true,
		IsRentable:   true,
	}
}

func defaultRule(unit pricing.Unit, rate string) pricing.PriceRule {
	return pricing.PriceRule{
		ID:              string(unit) + "-rule",
		Unit:            unit,
		Rate:            decimal.RequireFromString(rate),
		Scope:           pricing.DefaultScope(),
		PricelistActive: true,
	}
}

func fixedClock() time.Time {
	return time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
}

func TestComputeQuotePublishesEvent(t *testing.T) {
	products := &productRepoMock{products: map[catalog.ProductID]*catalog.Product{"prod-camera": testProduct()}}
	rules := &ruleCatalogMock{rules: []pricing.PriceRule{
		defaultRule(pricing.UnitHour, "10"),
		defaultRule(pricing.UnitDay, "50"),
	}}
	publisher := &publisherMock{}

	svc := NewService(products, rules, publisher, nil)
	svc.Clock = fixedClock

	start := time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)
	result, err := svc.ComputeQuote(context.Background(), "prod-camera", start, start.Add(50*time.Hour))
	if err != nil {
		t.Fatalf("ComputeQuote: %v", err)
	}
	if !result.Total.Equal(decimal.RequireFromString("320")) {
		t.Errorf("total = %s, want 320", result.Total)
	}

	if publisher.calls != 1 {
		t.Fatalf("publisher called %d times, want 1", publisher.calls)
	}
	if publisher.topic != TopicQuoteComputed {
		t.Errorf("topic = %s, want %s", publisher.topic, TopicQuoteComputed)
	}
	if publisher.key != "prod-camera" {
		t.Errorf("key = %s, want prod-camera", publisher.key)
	}
	var event quoteComputedEvent
	if err := json.Unmarshal(publisher.payload, &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if event.Total != "320" || event.Units != 2 {
		t.Errorf("event = %+v, want total 320 across 2 units", event)
	}
}

func TestComputeQuotePublishFailureDoesNotFailQuote(t *testing.T) {
	products := &productRepoMock{products: map[catalog.ProductID]*catalog.Product{"prod-camera": testProduct()}}
	rules := &ruleCatalogMock{rules: []pricing.PriceRule{defaultRule(pricing.UnitHour, "10")}}
	publisher := &publisherMock{err: errors.New("broker down")}

	svc := NewService(products, rules, publisher, nil)
	svc.Clock = fixedClock

	start := time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)
	if _, err := svc.ComputeQuote(context.Background(), "prod-camera", start, start.Add(time.Hour)); err != nil {
		t.Fatalf("ComputeQuote: %v", err)
	}
}

func TestComputeQuoteMapsMissingProduct(t *testing.T) {
	svc := NewService(&productRepoMock{}, &ruleCatalogMock{}, nil, nil)
	svc.Clock = fixedClock

	start := time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)
	_, err := svc.ComputeQuote(context.Background(), "prod-ghost", start, start.Add(time.Hour))
	if !errors.Is(err, pricing.ErrProductUnavailable) {
		t.Errorf("error = %v, want ErrProductUnavailable", err)
	}
}

func TestListRulesReturnsUnfilteredCandidates(t *testing.T) {
	expired := defaultRule(pricing.UnitDay, "40")
	expired.ValidTo = fixedClock().Add(-time.Hour)
	products := &productRepoMock{products: map[catalog.ProductID]*catalog.Product{"prod-camera": testProduct()}}
	rules := &ruleCatalogMock{rules: []pricing.PriceRule{expired, defaultRule(pricing.UnitHour, "10")}}

	svc := NewService(products, rules, nil, nil)
	listed, err := svc.ListRules(context.Background(), "prod-camera")
	if err != nil {
		t.Fatalf("ListRules: %v", err)
	}
	if len(listed) != 2 {
		t.Errorf("listed %d rules, want 2 (validity is not filtered here)", len(listed))
	}
}
