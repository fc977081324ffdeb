package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"smartrent/internal/domain/catalog"
)

type ProductImage struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text,omitempty"`
	Primary bool   `json:"primary"`
}

type ProductSummary struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	CategoryID   string          `json:"category_id"`
	DailyDeposit decimal.Decimal `json:"daily_deposit"`
	IsRentable   bool            `json:"is_rentable"`
	Image        string          `json:"image,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type ProductDetail struct {
	ProductSummary
	TotalQuantity int            `json:"total_quantity"`
	Images        []ProductImage `json:"images"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type ProductPage struct {
	Items  []ProductSummary `json:"items"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

func MapProductSummary(p *catalog.Product) ProductSummary {
	return ProductSummary{
		ID:           string(p.ID),
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		CategoryID:   string(p.CategoryID),
		DailyDeposit: p.DailyDeposit,
		IsRentable:   p.IsRentable,
		Image:        p.PrimaryImageURL(),
		CreatedAt:    p.CreatedAt,
	}
}

func MapProductDetail(p *catalog.Product) ProductDetail {
	images := make([]ProductImage, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, ProductImage{URL: img.URL, AltText: img.AltText, Primary: img.Primary})
	}
	return ProductDetail{
		ProductSummary: MapProductSummary(p),
		TotalQuantity:  p.TotalQuantity,
		Images:         images,
		UpdatedAt:      p.UpdatedAt,
	}
}

func NewProductPage(result catalog.ListResult, limit, offset int) ProductPage {
	items := make([]ProductSummary, 0, len(result.Items))
	for _, p := range result.Items {
		items = append(items, MapProductSummary(p))
	}
	return ProductPage{Items: items, Total: result.Total, Limit: limit, Offset: offset}
}
