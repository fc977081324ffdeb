package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unit is a billable time granularity with a fixed hour equivalent.
type Unit string

const (
	UnitHour  Unit = "hour"
	UnitWeek  Unit = "week"
	UnitDay   Unit = "day"
	UnitMonth Unit = "month"
)

const (
	hoursPerDay   = 24
	hoursPerWeek  = 7 * hoursPerDay
	hoursPerMonth = 30 * hoursPerDay
)

// Hours returns the hour equivalent of one unit. Months are approximated
// at 30 days.
func (u Unit) Hours() float64 {
	switch u {
	case UnitMonth:
		return hoursPerMonth
	case UnitWeek:
		return hoursPerWeek
	case UnitDay:
		return hoursPerDay
	default:
		return 1
	}
}

// Valid reports whether the unit is one of the four known granularities.
func (u Unit) Valid() bool {
	switch u {
	case UnitHour, UnitDay, UnitWeek, UnitMonth:
		return true
	}
	return false
}

// unitsLargestFirst is the decomposition order: coarse units are consumed
// before fine ones.
var unitsLargestFirst = [...]Unit{UnitMonth, UnitWeek, UnitDay, UnitHour}

// ScopeKind enumerates the specificity tiers a rule can target. The
// ordinal doubles as the specificity rank: a higher value wins when
// several scopes supply a rule for the same unit.
type ScopeKind int

const (
	ScopeDefault ScopeKind = iota + 1
	ScopeCategory
	ScopeProduct
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeProduct:
		return "product"
	case ScopeCategory:
		return "category"
	default:
		return "default"
	}
}

// Scope is a tagged union: exactly one of Product, Category or Default,
// carrying the matching identifier when the kind requires one.
type Scope struct {
	Kind       ScopeKind
	ProductID  string
	CategoryID string
}

func ProductScope(productID string) Scope {
	return Scope{Kind: ScopeProduct, ProductID: productID}
}

func CategoryScope(categoryID string) Scope {
	return Scope{Kind: ScopeCategory, CategoryID: categoryID}
}

func DefaultScope() Scope {
	return Scope{Kind: ScopeDefault}
}

// Specificity returns the rank used to pick one rule per unit.
func (s Scope) Specificity() int {
	return int(s.Kind)
}

// PriceRule is an immutable snapshot of one rate for one time unit, read
// from the rule catalog at quote time.
type PriceRule struct {
	ID    string
	Unit  Unit
	Rate  decimal.Decimal
	Scope Scope

	// MinDuration and MaxDuration bound the unit count this rule may
	// bill. Zero means unconstrained.
	MinDuration int64
	MaxDuration int64

	// ValidFrom and ValidTo delimit the validity window. A zero time
	// leaves that end open.
	ValidFrom time.Time
	ValidTo   time.Time

	PricelistID     string
	PricelistName   string
	PricelistActive bool
}

// ValidAt reports whether the rule's validity window contains t.
func (r PriceRule) ValidAt(t time.Time) bool {
	if !r.ValidFrom.IsZero() && t.Before(r.ValidFrom) {
		return false
	}
	if !r.ValidTo.IsZero() && t.After(r.ValidTo) {
		return false
	}
	return true
}
