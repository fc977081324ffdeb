package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domaincatalog "smartrent/internal/domain/catalog"
)

// Uploader stores a photo and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
}

// Service covers catalog reads plus the admin mutations.
type Service struct {
	Products   domaincatalog.ProductRepository
	Categories domaincatalog.CategoryRepository
	Photos     Uploader
	Logger     *slog.Logger
}

type CreateProductParams struct {
	SKU           string
	Name          string
	Description   string
	CategoryID    string
	DailyDeposit  decimal.Decimal
	IsRentable    bool
	TotalQuantity int
}

func (s *Service) CreateProduct(ctx context.Context, params CreateProductParams) (*domaincatalog.Product, error) {
	if _, err := s.Categories.ByID(ctx, domaincatalog.CategoryID(params.CategoryID)); err != nil {
		return nil, err
	}
	product, err := domaincatalog.NewProduct(domaincatalog.CreateProductParams{
		ID:            domaincatalog.ProductID(uuid.NewString()),
		SKU:           params.SKU,
		Name:          params.Name,
		Description:   params.Description,
		CategoryID:    domaincatalog.CategoryID(params.CategoryID),
		DailyDeposit:  params.DailyDeposit,
		IsRentable:    params.IsRentable,
		TotalQuantity: params.TotalQuantity,
		Now:           time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Products.Save(ctx, product); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("product created", "product_id", product.ID, "sku", product.SKU)
	}
	return product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, params domaincatalog.UpdateProductParams) (*domaincatalog.Product, error) {
	product, err := s.Products.ByID(ctx, domaincatalog.ProductID(id))
	if err != nil {
		return nil, err
	}
	if params.CategoryID != nil {
		if _, err := s.Categories.ByID(ctx, *params.CategoryID); err != nil {
			return nil, err
		}
	}
	if err := product.Apply(params, time.Now()); err != nil {
		return nil, err
	}
	if err := s.Products.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) DeactivateProduct(ctx context.Context, id string) error {
	product, err := s.Products.ByID(ctx, domaincatalog.ProductID(id))
	if err != nil {
		return err
	}
	product.Deactivate(time.Now())
	if err := s.Products.Save(ctx, product); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("product deactivated", "product_id", product.ID)
	}
	return nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domaincatalog.Product, error) {
	return s.Products.ByID(ctx, domaincatalog.ProductID(id))
}

func (s *Service) ListProducts(ctx context.Context, params domaincatalog.ListParams) (domaincatalog.ListResult, error) {
	return s.Products.List(ctx, params)
}

type CategoryWithCount struct {
	Category     *domaincatalog.Category
	ProductCount int
}

func (s *Service) ListCategories(ctx context.Context, includeInactive bool) ([]CategoryWithCount, error) {
	categories, err := s.Categories.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryWithCount, 0, len(categories))
	for _, category := range categories {
		count, err := s.Products.CountByCategory(ctx, category.ID, true)
		if err != nil {
			return nil, err
		}
		out = append(out, CategoryWithCount{Category: category, ProductCount: count})
	}
	return out, nil
}

func (s *Service) CreateCategory(ctx context.Context, name, description string) (*domaincatalog.Category, error) {
	category, err := domaincatalog.NewCategory(domaincatalog.CategoryID(uuid.NewString()), name, description, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.Categories.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id, name, description string) (*domaincatalog.Category, error) {
	category, err := s.Categories.ByID(ctx, domaincatalog.CategoryID(id))
	if err != nil {
		return nil, err
	}
	if err := category.Rename(name, description, time.Now()); err != nil {
		return nil, err
	}
	if err := s.Categories.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Service) DeactivateCategory(ctx context.Context, id string) error {
	category, err := s.Categories.ByID(ctx, domaincatalog.CategoryID(id))
	if err != nil {
		return err
	}
	category.Deactivate(time.Now())
	return s.Categories.Save(ctx, category)
}

// AttachPhoto uploads an image and records it on the product.
func (s *Service) AttachPhoto(ctx context.Context, productID string, reader io.Reader, contentType string, primary bool) (*domaincatalog.Product, error) {
	if s.Photos == nil {
		return nil, fmt.Errorf("catalog: photo storage not configured")
	}
	product, err := s.Products.ByID(ctx, domaincatalog.ProductID(productID))
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("products/%s/%s", productID, uuid.NewString())
	url, err := s.Photos.Upload(ctx, key, reader, contentType)
	if err != nil {
		return nil, fmt.Errorf("catalog: upload photo: %w", err)
	}
	product.AttachImage(url, product.Name+" photo", primary, time.Now())
	if err := s.Products.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}
