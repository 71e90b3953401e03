package activities

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"carbon-track/footprint-backend/internal/factors"
)

// ErrNotFound is returned when no activity matches the lookup.
var ErrNotFound = errors.New("activity not found")

// ListFilter selects and pages a user's activities.
type ListFilter struct {
	UserID    primitive.ObjectID
	Category  factors.Category
	StartDate *time.Time
	EndDate   *time.Time
	Page      int64
	Limit     int64
	SortBy    string
	SortDesc  bool
}

// Repository is the persistence surface for activities.
type Repository interface {
	Insert(ctx context.Context, activity *Activity) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Activity, error)
	Update(ctx context.Context, activity *Activity) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter ListFilter) ([]Activity, int64, error)
	ListByUserPeriod(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]Activity, error)
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	Recent(ctx context.Context, limit int64) ([]Activity, error)
	Count(ctx context.Context) (int64, error)
	TotalEmissions(ctx context.Context) (float64, error)
}

type mongoRepository struct {
	coll *mongo.Collection
}

// NewRepository returns a Repository backed by the activities collection.
func NewRepository(db *mongo.Database) Repository {
	return &mongoRepository{coll: db.Collection("activities")}
}

func (r *mongoRepository) Insert(ctx context.Context, activity *Activity) error {
	now := time.Now()
	activity.CreatedAt = now
	activity.UpdatedAt = now
	res, err := r.coll.InsertOne(ctx, activity)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		activity.ID = id
	}
	return nil
}

func (r *mongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Activity, error) {
	var activity Activity
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&activity)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

func (r *mongoRepository) Update(ctx context.Context, activity *Activity) error {
	activity.UpdatedAt = time.Now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": activity.ID}, activity)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoRepository) List(ctx context.Context, filter ListFilter) ([]Activity, int64, error) {
	query := bson.M{"user": filter.UserID}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.StartDate != nil || filter.EndDate != nil {
		dateRange := bson.M{}
		if filter.StartDate != nil {
			dateRange["$gte"] = *filter.StartDate
		}
		if filter.EndDate != nil {
			dateRange["$lte"] = *filter.EndDate
		}
		query["date"] = dateRange
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "date"
	}
	order := 1
	if filter.SortDesc {
		order = -1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: order}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	var out []Activity
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, err
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *mongoRepository) ListByUserPeriod(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]Activity, error) {
	query := bson.M{
		"user": userID,
		"date": bson.M{"$gte": start, "$lte": end},
	}
	cursor, err := r.coll.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	var out []Activity
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *mongoRepository) Recent(ctx context.Context, limit int64) ([]Activity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var out []Activity
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *mongoRepository) TotalEmissions(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$totalEmissions"},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}
