package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"smartrent/internal/domain/catalog"
)

// ProductRepository is an in-memory implementation for dev mode and
// tests.
type ProductRepository struct {
	mu    sync.RWMutex
	items map[catalog.ProductID]*catalog.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{items: make(map[catalog.ProductID]*catalog.Product)}
}

// ByID returns a product or catalog.ErrProductNotFound.
func (r *ProductRepository) ByID(ctx context.Context, id catalog.ProductID) (*catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.items[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return product, nil
}

// Save stores or updates a product entry.
func (r *ProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[product.ID] = product
	return nil
}

// List returns products matching the filters, newest first.
func (r *ProductRepository) List(ctx context.Context, params catalog.ListParams) (catalog.ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	opts := params.Normalized()
	matches := make([]*catalog.Product, 0, len(r.items))
	for _, product := range r.items {
		if !opts.IncludeInactive && !product.IsActive {
			continue
		}
		if opts.OnlyRentable && !product.IsRentable {
			continue
		}
		if opts.CategoryID != "" && product.CategoryID != opts.CategoryID {
			continue
		}
		if opts.Search != "" && !matchesSearch(product, opts.Search) {
			continue
		}
		matches = append(matches, product)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	total := len(matches)
	start := opts.Offset
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return catalog.ListResult{Items: matches[start:end], Total: total}, nil
}

// CountByCategory counts active products in a category.
func (r *ProductRepository) CountByCategory(ctx context.Context, id catalog.CategoryID, onlyRentable bool) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, product := range r.items {
		if !product.IsActive || product.CategoryID != id {
			continue
		}
		if onlyRentable && !product.IsRentable {
			continue
		}
		count++
	}
	return count, nil
}

func matchesSearch(product *catalog.Product, needle string) bool {
	haystack := strings.ToLower(product.Name + " " + product.Description + " " + product.SKU)
	return strings.Contains(haystack, needle)
}

// CategoryRepository keeps categories in memory.
type CategoryRepository struct {
	mu    sync.RWMutex
	items map[catalog.CategoryID]*catalog.Category
}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{items: make(map[catalog.CategoryID]*catalog.Category)}
}

func (r *CategoryRepository) ByID(ctx context.Context, id catalog.CategoryID) (*catalog.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	category, ok := r.items[id]
	if !ok {
		return nil, catalog.ErrCategoryNotFound
	}
	return category, nil
}

func (r *CategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[category.ID] = category
	return nil
}

func (r *CategoryRepository) List(ctx context.Context, includeInactive bool) ([]*catalog.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*catalog.Category, 0, len(r.items))
	for _, category := range r.items {
		if !includeInactive && !category.IsActive {
			continue
		}
		out = append(out, category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
