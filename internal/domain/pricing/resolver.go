package pricing

import "time"

// Resolve selects the single best rule per unit from the candidate set.
//
// Candidates are filtered to rules on an active pricelist whose validity
// window contains now. Pricing tiers are evaluated as of today, not as of
// the rental window, so a rule expiring next week still prices a rental
// that happens next month. Among surviving rules for the same unit, the
// highest specificity wins; on equal specificity the earlier rule in
// input order is kept, which makes resolution deterministic for an
// unchanged catalog.
func Resolve(rules []PriceRule, now time.Time) (map[Unit]PriceRule, error) {
	best := make(map[Unit]PriceRule, len(unitsLargestFirst))
	for _, rule := range rules {
		if !rule.PricelistActive {
			continue
		}
		if !rule.ValidAt(now) {
			continue
		}
		if !rule.Unit.Valid() || rule.Rate.Sign() <= 0 {
			continue
		}
		current, ok := best[rule.Unit]
		if !ok || rule.Scope.Specificity() > current.Scope.Specificity() {
			best[rule.Unit] = rule
		}
	}
	if len(best) == 0 {
		return nil, ErrNoPricingRule
	}
	return best, nil
}
