package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// BreakdownEntry is one billed line of a quote: quantity units at rate.
type BreakdownEntry struct {
	Unit      Unit
	Quantity  int64
	Rate      decimal.Decimal
	Cost      decimal.Decimal
	RuleID    string
	RuleScope ScopeKind
}

// Decompose converts a raw duration in hours into billable unit
// quantities using the resolved rules, greedily consuming the largest
// unit first.
//
// Coarse units bill floor(remaining/unitHours); the hour unit rounds any
// partial remainder up to a whole billable hour. A rule whose minimum
// duration is not reached contributes nothing, and a maximum duration
// caps the quantity. Entries come out in descending unit size and only
// for positive quantities.
//
// The third return value is the uncovered remainder in hours. It is zero
// whenever an unconstrained hour rule is present; if the hour rule is
// absent or suppressed by its own bounds, the leftover goes unbilled and
// the caller decides what to do about it.
func Decompose(durationHours float64, rules map[Unit]PriceRule) ([]BreakdownEntry, decimal.Decimal, float64) {
	var breakdown []BreakdownEntry
	subtotal := decimal.Zero
	remaining := durationHours

	for _, unit := range unitsLargestFirst {
		if remaining <= 0 {
			break
		}
		rule, ok := rules[unit]
		if !ok {
			continue
		}

		var quantity int64
		if unit == UnitHour {
			quantity = int64(math.Ceil(remaining))
		} else {
			quantity = int64(math.Floor(remaining / unit.Hours()))
		}
		if rule.MinDuration > 0 && quantity < rule.MinDuration {
			quantity = 0
		}
		if rule.MaxDuration > 0 && quantity > rule.MaxDuration {
			quantity = rule.MaxDuration
		}
		if quantity <= 0 {
			continue
		}

		cost := rule.Rate.Mul(decimal.NewFromInt(quantity))
		breakdown = append(breakdown, BreakdownEntry{
			Unit:      unit,
			Quantity:  quantity,
			Rate:      rule.Rate,
			Cost:      cost,
			RuleID:    rule.ID,
			RuleScope: rule.Scope.Kind,
		})
		subtotal = subtotal.Add(cost)
		remaining -= float64(quantity) * unit.Hours()
	}

	if remaining < 0 {
		remaining = 0
	}
	return breakdown, subtotal, remaining
}
