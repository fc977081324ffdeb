package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domaincatalog "smartrent/internal/domain/catalog"
	"smartrent/internal/domain/pricing"
	"smartrent/internal/infra/storage/memory"
)

// loadCatalogFixtures seeds the in-memory catalog from a JSON file so a
// fresh dev instance has something to quote against. Missing file is not
// an error; a malformed file is.
func loadCatalogFixtures(ctx context.Context, path string, app *application, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("catalog fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}

	var fixtures catalogFixtures
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	now := time.Now()
	for _, fx := range fixtures.Categories {
		category, err := domaincatalog.NewCategory(domaincatalog.CategoryID(fx.ID), fx.Name, fx.Description, now)
		if err != nil {
			logger.Error("category fixture invalid", "category_id", fx.ID, "error", err)
			continue
		}
		if err := app.memCategories.Save(ctx, category); err != nil {
			logger.Error("cannot store fixture category", "category_id", fx.ID, "error", err)
		}
	}

	for _, fx := range fixtures.Products {
		deposit := decimal.Zero
		if fx.DailyDeposit != "" {
			parsed, err := decimal.NewFromString(fx.DailyDeposit)
			if err != nil {
				logger.Error("product fixture has bad deposit", "product_id", fx.ID, "error", err)
				continue
			}
			deposit = parsed
		}
		product, err := domaincatalog.NewProduct(domaincatalog.CreateProductParams{
			ID:            domaincatalog.ProductID(fx.ID),
			SKU:           fx.SKU,
			Name:          fx.Name,
			Description:   fx.Description,
			CategoryID:    domaincatalog.CategoryID(fx.CategoryID),
			DailyDeposit:  deposit,
			IsRentable:    fx.IsRentable,
			TotalQuantity: fx.TotalQuantity,
			Now:           now,
		})
		if err != nil {
			logger.Error("product fixture invalid", "product_id", fx.ID, "error", err)
			continue
		}
		if fx.Image != "" {
			product.AttachImage(fx.Image, product.Name, true, now)
		}
		if err := app.memProducts.Save(ctx, product); err != nil {
			logger.Error("cannot store fixture product", "product_id", fx.ID, "error", err)
		}
	}

	for _, fx := range fixtures.Pricelists {
		if err := app.memRules.SavePricelist(ctx, memory.Pricelist{ID: fx.ID, Name: fx.Name, Active: fx.Active}); err != nil {
			logger.Error("cannot store fixture pricelist", "pricelist_id", fx.ID, "error", err)
		}
	}

	imported := 0
	for _, fx := range fixtures.Rules {
		rule, err := fixtureRule(fx)
		if err != nil {
			logger.Error("rule fixture invalid", "rule_id", fx.ID, "error", err)
			continue
		}
		if err := app.memRules.AddRule(ctx, rule); err != nil {
			logger.Error("cannot store fixture rule", "rule_id", fx.ID, "error", err)
			continue
		}
		imported++
	}

	logger.Info("catalog fixtures imported",
		"categories", len(fixtures.Categories),
		"products", len(fixtures.Products),
		"rules", imported)
	return nil
}

type catalogFixtures struct {
	Categories []categoryFixture  `json:"categories"`
	Products   []productFixture   `json:"products"`
	Pricelists []pricelistFixture `json:"pricelists"`
	Rules      []ruleFixture      `json:"rules"`
}

type categoryFixture struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type productFixture struct {
	ID            string `json:"id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	CategoryID    string `json:"category_id"`
	DailyDeposit  string `json:"daily_deposit"`
	IsRentable    bool   `json:"is_rentable"`
	TotalQuantity int    `json:"total_quantity"`
	Image         string `json:"image"`
}

type pricelistFixture struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type ruleFixture struct {
	ID          string `json:"id"`
	Unit        string `json:"unit"`
	Rate        string `json:"rate"`
	Scope       string `json:"scope"`
	ProductID   string `json:"product_id"`
	CategoryID  string `json:"category_id"`
	MinDuration int64  `json:"min_duration"`
	MaxDuration int64  `json:"max_duration"`
	ValidFrom   string `json:"valid_from"`
	ValidTo     string `json:"valid_to"`
	PricelistID string `json:"pricelist_id"`
}

func fixtureRule(fx ruleFixture) (pricing.PriceRule, error) {
	rate, err := decimal.NewFromString(fx.Rate)
	if err != nil {
		return pricing.PriceRule{}, fmt.Errorf("rate: %w", err)
	}

	var scope pricing.Scope
	switch strings.ToLower(fx.Scope) {
	case "product":
		scope = pricing.ProductScope(fx.ProductID)
	case "category":
		scope = pricing.CategoryScope(fx.CategoryID)
	case "default", "":
		scope = pricing.DefaultScope()
	default:
		return pricing.PriceRule{}, fmt.Errorf("unknown scope %q", fx.Scope)
	}

	validFrom, err := fixtureTime(fx.ValidFrom)
	if err != nil {
		return pricing.PriceRule{}, fmt.Errorf("valid_from: %w", err)
	}
	validTo, err := fixtureTime(fx.ValidTo)
	if err != nil {
		return pricing.PriceRule{}, fmt.Errorf("valid_to: %w", err)
	}

	return pricing.PriceRule{
		ID:          fx.ID,
		Unit:        pricing.Unit(strings.ToLower(fx.Unit)),
		Rate:        rate,
		Scope:       scope,
		MinDuration: fx.MinDuration,
		MaxDuration: fx.MaxDuration,
		ValidFrom:   validFrom,
		ValidTo:     validTo,
		PricelistID: fx.PricelistID,
	}, nil
}

func fixtureTime(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, value)
}
