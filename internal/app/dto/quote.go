package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"smartrent/internal/domain/pricing"
)

type QuoteWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Hours float64   `json:"hours"`
}

type QuoteLine struct {
	Unit     string          `json:"unit"`
	Quantity int64           `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	Cost     decimal.Decimal `json:"cost"`
	RuleID   string          `json:"rule_id,omitempty"`
	Source   string          `json:"source,omitempty"`
}

type QuoteResponse struct {
	ProductID string          `json:"product_id"`
	Window    QuoteWindow     `json:"window"`
	Breakdown []QuoteLine     `json:"breakdown"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Deposit   decimal.Decimal `json:"deposit"`
	Total     decimal.Decimal `json:"total"`
}

func NewQuoteResponse(q *pricing.Quote) QuoteResponse {
	lines := make([]QuoteLine, 0, len(q.Breakdown))
	for _, entry := range q.Breakdown {
		lines = append(lines, QuoteLine{
			Unit:     string(entry.Unit),
			Quantity: entry.Quantity,
			Rate:     entry.Rate,
			Cost:     entry.Cost,
			RuleID:   entry.RuleID,
			Source:   entry.RuleScope.String(),
		})
	}
	return QuoteResponse{
		ProductID: q.ProductID,
		Window:    QuoteWindow{Start: q.Start, End: q.End, Hours: q.DurationHours},
		Breakdown: lines,
		Subtotal:  q.Subtotal,
		Deposit:   q.Deposit,
		Total:     q.Total,
	}
}

type PriceRuleView struct {
	ID          string          `json:"id"`
	Unit        string          `json:"unit"`
	Rate        decimal.Decimal `json:"rate"`
	MinDuration int64           `json:"min_duration,omitempty"`
	MaxDuration int64           `json:"max_duration,omitempty"`
	ValidFrom   *time.Time      `json:"valid_from,omitempty"`
	ValidTo     *time.Time      `json:"valid_to,omitempty"`
	Source      string          `json:"source"`
	Specificity int             `json:"specificity"`
	Pricelist   string          `json:"pricelist,omitempty"`
}

func MapPriceRules(rules []pricing.PriceRule) []PriceRuleView {
	views := make([]PriceRuleView, 0, len(rules))
	for _, rule := range rules {
		view := PriceRuleView{
			ID:          rule.ID,
			Unit:        string(rule.Unit),
			Rate:        rule.Rate,
			MinDuration: rule.MinDuration,
			MaxDuration: rule.MaxDuration,
			Source:      rule.Scope.Kind.String(),
			Specificity: rule.Scope.Specificity(),
			Pricelist:   rule.PricelistName,
		}
		if !rule.ValidFrom.IsZero() {
			from := rule.ValidFrom
			view.ValidFrom = &from
		}
		if !rule.ValidTo.IsZero() {
			to := rule.ValidTo
			view.ValidTo = &to
		}
		views = append(views, view)
	}
	return views
}
