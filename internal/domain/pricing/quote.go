package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidWindow is returned when the requested window does not end
	// strictly after it starts.
	ErrInvalidWindow = errors.New("pricing: rental window end must be after start")
	// ErrProductUnavailable is returned when the product is missing,
	// inactive or not offered for rental.
	ErrProductUnavailable = errors.New("pricing: product not available for rental")
	// ErrNoPricingRule is returned when no rule of any scope resolves for
	// the product. It signals an incomplete catalog, not bad input.
	ErrNoPricingRule = errors.New("pricing: no pricing rule found for product")
)

// Product is the read-only view of a catalog product the quote engine
// needs.
type Product struct {
	ID           string
	CategoryID   string
	IsActive     bool
	IsRentable   bool
	DailyDeposit decimal.Decimal
}

// Quote is the priced result for one requested window. It lives only for
// the request that produced it.
type Quote struct {
	ProductID     string
	Start         time.Time
	End           time.Time
	DurationHours float64

	Breakdown []BreakdownEntry
	Subtotal  decimal.Decimal
	Deposit   decimal.Decimal
	Total     decimal.Decimal

	// UncoveredHours is the part of the window no resolved rule could
	// bill. Non-zero only when the hour rule is absent or shut out by its
	// own duration bounds.
	UncoveredHours float64
}

// ProductCatalog supplies product snapshots for quoting.
type ProductCatalog interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}

// RuleCatalog supplies every rule whose scope matches the product, its
// category, or the default scope, annotated with pricelist activity and
// validity. Filtering to currently valid rules happens in Resolve.
type RuleCatalog interface {
	GetApplicablePriceRules(ctx context.Context, productID, categoryID string) ([]PriceRule, error)
}

// Calculator orchestrates rule resolution and duration decomposition
// into a deposit-inclusive quote. It is pure given its collaborators and
// the explicit now, so concurrent quotes need no coordination.
type Calculator struct {
	Products ProductCatalog
	Rules    RuleCatalog
}

// Quote prices the window [start, end) for the product as of now.
func (c Calculator) Quote(ctx context.Context, productID string, start, end, now time.Time) (*Quote, error) {
	if !end.After(start) {
		return nil, ErrInvalidWindow
	}

	product, err := c.Products.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrProductUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("pricing: fetch product %s: %w", productID, err)
	}
	if !product.IsActive || !product.IsRentable {
		return nil, ErrProductUnavailable
	}

	durationHours := end.Sub(start).Hours()

	candidates, err := c.Rules.GetApplicablePriceRules(ctx, productID, product.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("pricing: fetch rules for product %s: %w", productID, err)
	}
	resolved, err := Resolve(candidates, now)
	if err != nil {
		return nil, err
	}

	breakdown, subtotal, uncovered := Decompose(durationHours, resolved)

	deposit := product.DailyDeposit
	return &Quote{
		ProductID:      productID,
		Start:          start,
		End:            end,
		DurationHours:  durationHours,
		Breakdown:      breakdown,
		Subtotal:       subtotal,
		Deposit:        deposit,
		Total:          subtotal.Add(deposit),
		UncoveredHours: uncovered,
	}, nil
}
