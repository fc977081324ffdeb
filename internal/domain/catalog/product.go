package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound  = errors.New("catalog: product not found")
	ErrNameRequired     = errors.New("catalog: product name is required")
	ErrSKURequired      = errors.New("catalog: product sku is required")
	ErrCategoryRequired = errors.New("catalog: product category is required")
	ErrNegativeDeposit  = errors.New("catalog: daily deposit cannot be negative")
	ErrNegativeQuantity = errors.New("catalog: total quantity cannot be negative")
)

type ProductID string

// Image is a stored product photo. The primary image is the one shown in
// listings.
type Image struct {
	URL       string
	AltText   string
	Primary   bool
	CreatedAt time.Time
}

// Product is a rentable catalog item. The deposit is a flat amount added
// once per quote regardless of rental length.
type Product struct {
	ID            ProductID
	SKU           string
	Name          string
	Description   string
	CategoryID    CategoryID
	DailyDeposit  decimal.Decimal
	IsActive      bool
	IsRentable    bool
	TotalQuantity int
	Images        []Image
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CreateProductParams struct {
	ID            ProductID
	SKU           string
	Name          string
	Description   string
	CategoryID    CategoryID
	DailyDeposit  decimal.Decimal
	IsRentable    bool
	TotalQuantity int
	Now           time.Time
}

// NewProduct validates and builds an active product.
func NewProduct(params CreateProductParams) (*Product, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	sku := strings.TrimSpace(params.SKU)
	if sku == "" {
		return nil, ErrSKURequired
	}
	if params.CategoryID == "" {
		return nil, ErrCategoryRequired
	}
	if params.DailyDeposit.Sign() < 0 {
		return nil, ErrNegativeDeposit
	}
	if params.TotalQuantity < 0 {
		return nil, ErrNegativeQuantity
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	return &Product{
		ID:            params.ID,
		SKU:           sku,
		Name:          name,
		Description:   strings.TrimSpace(params.Description),
		CategoryID:    params.CategoryID,
		DailyDeposit:  params.DailyDeposit,
		IsActive:      true,
		IsRentable:    params.IsRentable,
		TotalQuantity: params.TotalQuantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

type UpdateProductParams struct {
	Name          *string
	Description   *string
	SKU           *string
	CategoryID    *CategoryID
	DailyDeposit  *decimal.Decimal
	IsRentable    *bool
	TotalQuantity *int
}

// Apply patches the product with the provided fields.
func (p *Product) Apply(params UpdateProductParams, now time.Time) error {
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return ErrNameRequired
		}
		p.Name = name
	}
	if params.Description != nil {
		p.Description = strings.TrimSpace(*params.Description)
	}
	if params.SKU != nil {
		sku := strings.TrimSpace(*params.SKU)
		if sku == "" {
			return ErrSKURequired
		}
		p.SKU = sku
	}
	if params.CategoryID != nil {
		if *params.CategoryID == "" {
			return ErrCategoryRequired
		}
		p.CategoryID = *params.CategoryID
	}
	if params.DailyDeposit != nil {
		if params.DailyDeposit.Sign() < 0 {
			return ErrNegativeDeposit
		}
		p.DailyDeposit = *params.DailyDeposit
	}
	if params.IsRentable != nil {
		p.IsRentable = *params.IsRentable
	}
	if params.TotalQuantity != nil {
		if *params.TotalQuantity < 0 {
			return ErrNegativeQuantity
		}
		p.TotalQuantity = *params.TotalQuantity
	}
	p.UpdatedAt = now
	return nil
}

// Deactivate soft-deletes the product; quotes and listings stop seeing it.
func (p *Product) Deactivate(now time.Time) {
	p.IsActive = false
	p.UpdatedAt = now
}

// AttachImage appends a photo. The first image, or one explicitly marked
// primary, becomes the primary photo; marking primary demotes the rest.
func (p *Product) AttachImage(url, altText string, primary bool, now time.Time) {
	if len(p.Images) == 0 {
		primary = true
	}
	if primary {
		for i := range p.Images {
			p.Images[i].Primary = false
		}
	}
	p.Images = append(p.Images, Image{URL: url, AltText: altText, Primary: primary, CreatedAt: now})
	p.UpdatedAt = now
}

// PrimaryImageURL returns the primary photo URL, or the first photo, or
// empty.
func (p *Product) PrimaryImageURL() string {
	for _, img := range p.Images {
		if img.Primary {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}

// ListParams filters and pages the public product listing.
type ListParams struct {
	CategoryID      CategoryID
	Search          string
	OnlyRentable    bool
	IncludeInactive bool
	Limit           int
	Offset          int
}

// Normalized applies listing defaults.
func (p ListParams) Normalized() ListParams {
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 12
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	p.Search = strings.ToLower(strings.TrimSpace(p.Search))
	return p
}

type ListResult struct {
	Items []*Product
	Total int
}

type ProductRepository interface {
	ByID(ctx context.Context, id ProductID) (*Product, error)
	Save(ctx context.Context, product *Product) error
	List(ctx context.Context, params ListParams) (ListResult, error)
	CountByCategory(ctx context.Context, id CategoryID, onlyRentable bool) (int, error)
}
