package mongo

import (
	"context"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"smartrent/internal/domain/pricing"
)

// PricelistRepository serves price rules out of two collections:
// pricelists and their rule items. It implements the rule catalog
// accessor the quote engine reads from.
type PricelistRepository struct {
	lists *mongo.Collection
	items *mongo.Collection
}

func NewPricelistRepository(db *mongo.Database) *PricelistRepository {
	return &PricelistRepository{
		lists: db.Collection("pricelists"),
		items: db.Collection("pricelist_items"),
	}
}

// SavePricelist stores or updates a pricelist header.
func (r *PricelistRepository) SavePricelist(ctx context.Context, id, name string, active bool) error {
	doc := pricelistDocument{ID: id, Name: name, Active: active}
	opts := options.Update().SetUpsert(true)
	_, err := r.lists.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": doc}, opts)
	return err
}

// AddRule stores a rule item under its pricelist.
func (r *PricelistRepository) AddRule(ctx context.Context, rule pricing.PriceRule) error {
	doc := newRuleDocument(rule)
	opts := options.Update().SetUpsert(true)
	_, err := r.items.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

// GetApplicablePriceRules returns rules whose scope matches the product,
// its category, or the default scope, annotated with pricelist state.
// Validity filtering happens in the resolver.
func (r *PricelistRepository) GetApplicablePriceRules(ctx context.Context, productID, categoryID string) ([]pricing.PriceRule, error) {
	lists, err := r.loadPricelists(ctx)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"$or": bson.A{
		bson.M{"scope": "product", "product_id": productID},
		bson.M{"scope": "category", "category_id": categoryID},
		bson.M{"scope": "default"},
	}}
	cursor, err := r.items.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []pricing.PriceRule
	for cursor.Next(ctx) {
		var doc ruleDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		rule, err := doc.toRule()
		if err != nil {
			return nil, err
		}
		if pricelist, ok := lists[doc.PricelistID]; ok {
			rule.PricelistName = pricelist.Name
			rule.PricelistActive = pricelist.Active
		}
		out = append(out, rule)
	}
	return out, cursor.Err()
}

func (r *PricelistRepository) loadPricelists(ctx context.Context) (map[string]pricelistDocument, error) {
	cursor, err := r.lists.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make(map[string]pricelistDocument)
	for cursor.Next(ctx) {
		var doc pricelistDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out[doc.ID] = doc
	}
	return out, cursor.Err()
}

type pricelistDocument struct {
	ID     string `bson:"_id"`
	Name   string `bson:"name"`
	Active bool   `bson:"active"`
}

type ruleDocument struct {
	ID          string `bson:"_id"`
	PricelistID string `bson:"pricelist_id"`
	Scope       string `bson:"scope"`
	ProductID   string `bson:"product_id,omitempty"`
	CategoryID  string `bson:"category_id,omitempty"`
	Unit        string `bson:"unit"`
	Rate        string `bson:"rate"`
	MinDuration int64  `bson:"min_duration,omitempty"`
	MaxDuration int64  `bson:"max_duration,omitempty"`
	ValidFrom   int64  `bson:"valid_from,omitempty"`
	ValidTo     int64  `bson:"valid_to,omitempty"`
}

func newRuleDocument(rule pricing.PriceRule) ruleDocument {
	doc := ruleDocument{
		ID:          rule.ID,
		PricelistID: rule.PricelistID,
		Scope:       rule.Scope.Kind.String(),
		ProductID:   rule.Scope.ProductID,
		CategoryID:  rule.Scope.CategoryID,
		Unit:        string(rule.Unit),
		Rate:        rule.Rate.String(),
		MinDuration: rule.MinDuration,
		MaxDuration: rule.MaxDuration,
	}
	if !rule.ValidFrom.IsZero() {
		doc.ValidFrom = rule.ValidFrom.UnixMilli()
	}
	if !rule.ValidTo.IsZero() {
		doc.ValidTo = rule.ValidTo.UnixMilli()
	}
	return doc
}

func (d ruleDocument) toRule() (pricing.PriceRule, error) {
	rate, err := decimal.NewFromString(d.Rate)
	if err != nil {
		return pricing.PriceRule{}, err
	}
	var scope pricing.Scope
	switch d.Scope {
	case "product":
		scope = pricing.ProductScope(d.ProductID)
	case "category":
		scope = pricing.CategoryScope(d.CategoryID)
	default:
		scope = pricing.DefaultScope()
	}
	return pricing.PriceRule{
		ID:          d.ID,
		Unit:        pricing.Unit(d.Unit),
		Rate:        rate,
		Scope:       scope,
		MinDuration: d.MinDuration,
		MaxDuration: d.MaxDuration,
		ValidFrom:   timestampToTime(d.ValidFrom),
		ValidTo:     timestampToTime(d.ValidTo),
		PricelistID: d.PricelistID,
	}, nil
}
