package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"smartrent/internal/domain/catalog"
)

type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection("products")}
}

func (r *ProductRepository) ByID(ctx context.Context, id catalog.ProductID) (*catalog.Product, error) {
	var doc productDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *ProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	doc := newProductDocument(product)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *ProductRepository) List(ctx context.Context, params catalog.ListParams) (catalog.ListResult, error) {
	opts := params.Normalized()

	filter := bson.M{}
	if !opts.IncludeInactive {
		filter["is_active"] = true
	}
	if opts.OnlyRentable {
		filter["is_rentable"] = true
	}
	if opts.CategoryID != "" {
		filter["category_id"] = string(opts.CategoryID)
	}
	if opts.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(opts.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
			bson.M{"sku": pattern},
		}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return catalog.ListResult{}, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(opts.Offset)).
		SetLimit(int64(opts.Limit))
	cursor, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return catalog.ListResult{}, err
	}
	defer cursor.Close(ctx)

	var items []*catalog.Product
	for cursor.Next(ctx) {
		var doc productDocument
		if err := cursor.Decode(&doc); err != nil {
			return catalog.ListResult{}, err
		}
		product, err := doc.toAggregate()
		if err != nil {
			return catalog.ListResult{}, err
		}
		items = append(items, product)
	}
	if err := cursor.Err(); err != nil {
		return catalog.ListResult{}, err
	}
	return catalog.ListResult{Items: items, Total: int(total)}, nil
}

func (r *ProductRepository) CountByCategory(ctx context.Context, id catalog.CategoryID, onlyRentable bool) (int, error) {
	filter := bson.M{"is_active": true, "category_id": string(id)}
	if onlyRentable {
		filter["is_rentable"] = true
	}
	count, err := r.col.CountDocuments(ctx, filter)
	return int(count), err
}

type productDocument struct {
	ID            string          `bson:"_id"`
	SKU           string          `bson:"sku"`
	Name          string          `bson:"name"`
	Description   string          `bson:"description,omitempty"`
	CategoryID    string          `bson:"category_id"`
	DailyDeposit  string          `bson:"daily_deposit"`
	IsActive      bool            `bson:"is_active"`
	IsRentable    bool            `bson:"is_rentable"`
	TotalQuantity int             `bson:"total_quantity"`
	Images        []imageDocument `bson:"images,omitempty"`
	CreatedAt     int64           `bson:"created_at"`
	UpdatedAt     int64           `bson:"updated_at"`
}

type imageDocument struct {
	URL       string `bson:"url"`
	AltText   string `bson:"alt_text,omitempty"`
	Primary   bool   `bson:"primary"`
	CreatedAt int64  `bson:"created_at"`
}

func newProductDocument(p *catalog.Product) productDocument {
	images := make([]imageDocument, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, imageDocument{
			URL:       img.URL,
			AltText:   img.AltText,
			Primary:   img.Primary,
			CreatedAt: img.CreatedAt.UnixMilli(),
		})
	}
	return productDocument{
		ID:            string(p.ID),
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    string(p.CategoryID),
		DailyDeposit:  p.DailyDeposit.String(),
		IsActive:      p.IsActive,
		IsRentable:    p.IsRentable,
		TotalQuantity: p.TotalQuantity,
		Images:        images,
		CreatedAt:     p.CreatedAt.UnixMilli(),
		UpdatedAt:     p.UpdatedAt.UnixMilli(),
	}
}

func (d productDocument) toAggregate() (*catalog.Product, error) {
	deposit, err := decimal.NewFromString(d.DailyDeposit)
	if err != nil {
		return nil, err
	}
	images := make([]catalog.Image, 0, len(d.Images))
	for _, img := range d.Images {
		images = append(images, catalog.Image{
			URL:       img.URL,
			AltText:   img.AltText,
			Primary:   img.Primary,
			CreatedAt: timestampToTime(img.CreatedAt),
		})
	}
	return &catalog.Product{
		ID:            catalog.ProductID(d.ID),
		SKU:           d.SKU,
		Name:          d.Name,
		Description:   d.Description,
		CategoryID:    catalog.CategoryID(d.CategoryID),
		DailyDeposit:  deposit,
		IsActive:      d.IsActive,
		IsRentable:    d.IsRentable,
		TotalQuantity: d.TotalQuantity,
		Images:        images,
		CreatedAt:     timestampToTime(d.CreatedAt),
		UpdatedAt:     timestampToTime(d.UpdatedAt),
	}, nil
}

func timestampToTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
