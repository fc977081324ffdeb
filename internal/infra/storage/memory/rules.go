package memory

import (
	"context"
	"sync"

	"smartrent/internal/domain/pricing"
)

// Pricelist is a named, independently activatable collection of price
// rules. Rules on an inactive pricelist never price anything.
type Pricelist struct {
	ID     string
	Name   string
	Active bool
}

// RuleRepository keeps pricelists and their rules in memory and serves
// as the rule catalog accessor for the quote engine.
type RuleRepository struct {
	mu         sync.RWMutex
	pricelists map[string]Pricelist
	rules      []pricing.PriceRule
}

func NewRuleRepository() *RuleRepository {
	return &RuleRepository{pricelists: make(map[string]Pricelist)}
}

// SavePricelist stores or updates a pricelist.
func (r *RuleRepository) SavePricelist(ctx context.Context, pricelist Pricelist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pricelists[pricelist.ID] = pricelist
	return nil
}

// AddRule appends a rule. Rules are append-only snapshots; repricing is
// done by adding rules on a fresh pricelist and deactivating the old one.
func (r *RuleRepository) AddRule(ctx context.Context, rule pricing.PriceRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule)
	return nil
}

// GetApplicablePriceRules returns every rule whose scope matches the
// product, its category, or the default scope, annotated with its
// pricelist's name and active flag. Validity filtering is left to the
// resolver.
func (r *RuleRepository) GetApplicablePriceRules(ctx context.Context, productID, categoryID string) ([]pricing.PriceRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []pricing.PriceRule
	for _, rule := range r.rules {
		switch rule.Scope.Kind {
		case pricing.ScopeProduct:
			if rule.Scope.ProductID != productID {
				continue
			}
		case pricing.ScopeCategory:
			if rule.Scope.CategoryID != categoryID {
				continue
			}
		case pricing.ScopeDefault:
		default:
			continue
		}
		if pricelist, ok := r.pricelists[rule.PricelistID]; ok {
			rule.PricelistName = pricelist.Name
			rule.PricelistActive = pricelist.Active
		} else {
			rule.PricelistActive = false
		}
		out = append(out, rule)
	}
	return out, nil
}
