package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"smartrent/internal/domain/pricing"
)

func seedRule(t *testing.T, repo *RuleRepository, id string, scope pricing.Scope, pricelistID string) {
	t.Helper()
	err := repo.AddRule(context.Background(), pricing.PriceRule{
		ID:          id,
		Unit:        pricing.UnitDay,
		Rate:        decimal.NewFromInt(50),
		Scope:       scope,
		PricelistID: pricelistID,
	})
	if err != nil {
		t.Fatalf("AddRule(%s): %v", id, err)
	}
}

func TestGetApplicablePriceRulesMatchesScopes(t *testing.T) {
	repo := NewRuleRepository()
	ctx := context.Background()
	if err := repo.SavePricelist(ctx, Pricelist{ID: "pl-base", Name: "Base Pricing", Active: true}); err != nil {
		t.Fatalf("SavePricelist: %v", err)
	}

	seedRule(t, repo, "for-product", pricing.ProductScope("prod-1"), "pl-base")
	seedRule(t, repo, "for-other-product", pricing.ProductScope("prod-2"), "pl-base")
	seedRule(t, repo, "for-category", pricing.CategoryScope("cat-1"), "pl-base")
	seedRule(t, repo, "for-other-category", pricing.CategoryScope("cat-2"), "pl-base")
	seedRule(t, repo, "default", pricing.DefaultScope(), "pl-base")

	rules, err := repo.GetApplicablePriceRules(ctx, "prod-1", "cat-1")
	if err != nil {
		t.Fatalf("GetApplicablePriceRules: %v", err)
	}

	got := map[string]bool{}
	for _, rule := range rules {
		got[rule.ID] = true
		if !rule.PricelistActive || rule.PricelistName != "Base Pricing" {
			t.Errorf("rule %s not annotated with its pricelist: %+v", rule.ID, rule)
		}
	}
	for _, want := range []string{"for-product", "for-category", "default"} {
		if !got[want] {
			t.Errorf("rule %s missing from result %v", want, got)
		}
	}
	for _, excluded := range []string{"for-other-product", "for-other-category"} {
		if got[excluded] {
			t.Errorf("rule %s should not match prod-1/cat-1", excluded)
		}
	}
}

func TestGetApplicablePriceRulesAnnotatesInactivePricelists(t *testing.T) {
	repo := NewRuleRepository()
	ctx := context.Background()
	if err := repo.SavePricelist(ctx, Pricelist{ID: "pl-old", Name: "Legacy", Active: false}); err != nil {
		t.Fatalf("SavePricelist: %v", err)
	}
	seedRule(t, repo, "legacy-rule", pricing.DefaultScope(), "pl-old")
	seedRule(t, repo, "orphan-rule", pricing.DefaultScope(), "pl-missing")

	rules, err := repo.GetApplicablePriceRules(ctx, "prod-1", "cat-1")
	if err != nil {
		t.Fatalf("GetApplicablePriceRules: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
	for _, rule := range rules {
		if rule.PricelistActive {
			t.Errorf("rule %s should be flagged inactive", rule.ID)
		}
	}
}
