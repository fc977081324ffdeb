package catalog

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrCategoryNotFound     = errors.New("catalog: category not found")
	ErrCategoryNameRequired = errors.New("catalog: category name is required")
)

type CategoryID string

// Category groups products and can carry its own pricing rules.
type Category struct {
	ID          CategoryID
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCategory validates and builds an active category.
func NewCategory(id CategoryID, name, description string, now time.Time) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}
	if now.IsZero() {
		now = time.Now()
	}
	return &Category{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(description),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Rename updates name and description.
func (c *Category) Rename(name, description string, now time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrCategoryNameRequired
	}
	c.Name = name
	c.Description = strings.TrimSpace(description)
	c.UpdatedAt = now
	return nil
}

// Deactivate soft-deletes the category.
func (c *Category) Deactivate(now time.Time) {
	c.IsActive = false
	c.UpdatedAt = now
}

type CategoryRepository interface {
	ByID(ctx context.Context, id CategoryID) (*Category, error)
	Save(ctx context.Context, category *Category) error
	// List returns categories sorted by name; inactive ones only when
	// includeInactive is set.
	List(ctx context.Context, includeInactive bool) ([]*Category, error)
}
