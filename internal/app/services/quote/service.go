package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"smartrent/internal/domain/catalog"
	"smartrent/internal/domain/pricing"
)

// EventPublisher pushes quote events to the broker. Matches the Kafka
// producer; a nil publisher disables events.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// TopicQuoteComputed receives one event per successful quote.
const TopicQuoteComputed = "pricing.quote.computed"

// Service exposes quote computation to the transport layer: it injects
// the clock, logs operational conditions, and emits quote events.
type Service struct {
	Calculator pricing.Calculator
	Events     EventPublisher
	Clock      func() time.Time
	Logger     *slog.Logger
}

// NewService wires the calculator against catalog repositories.
func NewService(products catalog.ProductRepository, rules pricing.RuleCatalog, events EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		Calculator: pricing.Calculator{
			Products: productView{repo: products},
			Rules:    rules,
		},
		Events: events,
		Logger: logger,
	}
}

// ComputeQuote prices the window [start, end) for the product as of the
// current wall clock.
func (s *Service) ComputeQuote(ctx context.Context, productID string, start, end time.Time) (*pricing.Quote, error) {
	now := time.Now()
	if s.Clock != nil {
		now = s.Clock()
	}

	result, err := s.Calculator.Quote(ctx, productID, start, end, now)
	if err != nil {
		if errors.Is(err, pricing.ErrNoPricingRule) && s.Logger != nil {
			// Configuration problem, not a bad request: the catalog has no
			// pricing data for this product.
			s.Logger.Error("no pricing rules configured", "product_id", productID)
		}
		return nil, err
	}

	if result.UncoveredHours > 0 && s.Logger != nil {
		// The resolved rules could not bill the whole window; the leftover
		// goes unbilled.
		s.Logger.Warn("quote leaves hours unbilled",
			"product_id", productID,
			"uncovered_hours", result.UncoveredHours,
			"duration_hours", result.DurationHours)
	}

	s.publishComputed(ctx, result)
	return result, nil
}

// ListRules returns every rule that could apply to the product, without
// validity filtering, for the admin rules endpoint.
func (s *Service) ListRules(ctx context.Context, productID string) ([]pricing.PriceRule, error) {
	product, err := s.Calculator.Products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	rules, err := s.Calculator.Rules.GetApplicablePriceRules(ctx, productID, product.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("quote: fetch rules for product %s: %w", productID, err)
	}
	return rules, nil
}

type quoteComputedEvent struct {
	ProductID     string    `json:"product_id"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	DurationHours float64   `json:"duration_hours"`
	Subtotal      string    `json:"subtotal"`
	Deposit       string    `json:"deposit"`
	Total         string    `json:"total"`
	Units         int       `json:"units"`
}

// publishComputed is best effort: a broker outage never fails a quote.
func (s *Service) publishComputed(ctx context.Context, q *pricing.Quote) {
	if s.Events == nil {
		return
	}
	payload, err := json.Marshal(quoteComputedEvent{
		ProductID:     q.ProductID,
		Start:         q.Start,
		End:           q.End,
		DurationHours: q.DurationHours,
		Subtotal:      q.Subtotal.String(),
		Deposit:       q.Deposit.String(),
		Total:         q.Total.String(),
		Units:         len(q.Breakdown),
	})
	if err != nil {
		return
	}
	if err := s.Events.Publish(ctx, TopicQuoteComputed, q.ProductID, payload, nil); err != nil && s.Logger != nil {
		s.Logger.Warn("quote event publish failed", "product_id", q.ProductID, "error", err)
	}
}

// productView adapts the catalog repository to the narrow read model the
// pricing core consumes.
type productView struct {
	repo catalog.ProductRepository
}

func (v productView) GetProduct(ctx context.Context, productID string) (pricing.Product, error) {
	product, err := v.repo.ByID(ctx, catalog.ProductID(productID))
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return pricing.Product{}, pricing.ErrProductUnavailable
		}
		return pricing.Product{}, err
	}
	return pricing.Product{
		ID:           string(product.ID),
		CategoryID:   string(product.CategoryID),
		IsActive:     product.IsActive,
		IsRentable:   product.IsRentable,
		DailyDeposit: product.DailyDeposit,
	}, nil
}
