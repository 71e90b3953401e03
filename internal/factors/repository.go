package factors

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Catalog is the read/write surface over the emission factor collection.
type Catalog interface {
	ListActive(ctx context.Context, category Category, subcategory string) ([]EmissionFactor, error)
	ListAll(ctx context.Context) ([]EmissionFactor, error)
	ListByCategory(ctx context.Context, category Category) ([]EmissionFactor, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	DistinctSubcategories(ctx context.Context, category Category) ([]string, error)
	Insert(ctx context.Context, factor *EmissionFactor) error
}

type mongoCatalog struct {
	coll *mongo.Collection
}

// NewCatalog returns a Catalog backed by the emission_factors collection.
func NewCatalog(db *mongo.Database) Catalog {
	return &mongoCatalog{coll: db.Collection("emission_factors")}
}

func (c *mongoCatalog) ListActive(ctx context.Context, category Category, subcategory string) ([]EmissionFactor, error) {
	filter := bson.M{
		"category":    category,
		"subcategory": subcategory,
		"isActive":    true,
	}
	cursor, err := c.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var out []EmissionFactor
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mongoCatalog) ListAll(ctx context.Context) ([]EmissionFactor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "subcategory", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := c.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var out []EmissionFactor
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mongoCatalog) ListByCategory(ctx context.Context, category Category) ([]EmissionFactor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "subcategory", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := c.coll.Find(ctx, bson.M{"category": category, "isActive": true}, opts)
	if err != nil {
		return nil, err
	}
	var out []EmissionFactor
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mongoCatalog) DistinctCategories(ctx context.Context) ([]string, error) {
	values, err := c.coll.Distinct(ctx, "category", bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}
	return toStrings(values), nil
}

func (c *mongoCatalog) DistinctSubcategories(ctx context.Context, category Category) ([]string, error) {
	values, err := c.coll.Distinct(ctx, "subcategory", bson.M{"category": category, "isActive": true})
	if err != nil {
		return nil, err
	}
	return toStrings(values), nil
}

func (c *mongoCatalog) Insert(ctx context.Context, factor *EmissionFactor) error {
	now := time.Now()
	if factor.CreatedAt.IsZero() {
		factor.CreatedAt = now
	}
	factor.UpdatedAt = now
	if factor.Version == 0 {
		factor.Version = 1
	}
	res, err := c.coll.InsertOne(ctx, factor)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		factor.ID = id
	}
	return nil
}

func toStrings(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
