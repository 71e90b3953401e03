package challenges

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no challenge matches the lookup.
var ErrNotFound = errors.New("challenge not found")

// Repository is the persistence surface for challenge aggregates. Writes
// replace the whole document; the storage layer is expected to serialize
// writers per challenge.
type Repository interface {
	Insert(ctx context.Context, challenge *Challenge) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Challenge, error)
	ListActive(ctx context.Context) ([]Challenge, error)
	ListByParticipant(ctx context.Context, userID primitive.ObjectID) ([]Challenge, error)
	Save(ctx context.Context, challenge *Challenge) error
	Count(ctx context.Context) (int64, error)
}

type mongoRepository struct {
	coll *mongo.Collection
}

// NewRepository returns a Repository backed by the challenges collection.
func NewRepository(db *mongo.Database) Repository {
	return &mongoRepository{coll: db.Collection("challenges")}
}

func (r *mongoRepository) Insert(ctx context.Context, challenge *Challenge) error {
	now := time.Now()
	challenge.CreatedAt = now
	challenge.UpdatedAt = now
	if challenge.Participants == nil {
		challenge.Participants = []Participant{}
	}
	if challenge.Leaderboard == nil {
		challenge.Leaderboard = []LeaderboardEntry{}
	}
	res, err := r.coll.InsertOne(ctx, challenge)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		challenge.ID = id
	}
	return nil
}

func (r *mongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Challenge, error) {
	var challenge Challenge
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&challenge)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *mongoRepository) ListActive(ctx context.Context) ([]Challenge, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"status": StatusActive}, opts)
	if err != nil {
		return nil, err
	}
	var out []Challenge
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoRepository) ListByParticipant(ctx context.Context, userID primitive.ObjectID) ([]Challenge, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"participants.user": userID})
	if err != nil {
		return nil, err
	}
	var out []Challenge
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoRepository) Save(ctx context.Context, challenge *Challenge) error {
	challenge.UpdatedAt = time.Now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": challenge.ID}, challenge)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
