package dto

import (
	"time"

	"smartrent/internal/domain/catalog"
)

type CategoryView struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	ProductCount int       `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
}

func MapCategory(c *catalog.Category, productCount int) CategoryView {
	return CategoryView{
		ID:           string(c.ID),
		Name:         c.Name,
		Description:  c.Description,
		ProductCount: productCount,
		CreatedAt:    c.CreatedAt,
	}
}
