package users

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

// Repository is the persistence surface for user accounts.
type Repository interface {
	Insert(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, profile Profile) error
	UpdateStats(ctx context.Context, id primitive.ObjectID, stats Stats) error
	UpdateRole(ctx context.Context, id primitive.ObjectID, role Role) error
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context) ([]User, error)
	Leaderboard(ctx context.Context, limit int64) ([]LeaderboardRow, error)
	Count(ctx context.Context) (int64, error)
	CountActiveSince(ctx context.Context, since time.Time) (int64, error)
}

type mongoRepository struct {
	coll *mongo.Collection
}

// NewRepository returns a Repository backed by the users collection.
func NewRepository(db *mongo.Database) Repository {
	return &mongoRepository{coll: db.Collection("users")}
}

func (r *mongoRepository) Insert(ctx context.Context, user *User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

func (r *mongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *mongoRepository) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var user User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *mongoRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, profile Profile) error {
	return r.set(ctx, id, bson.M{"profile": profile})
}

func (r *mongoRepository) UpdateStats(ctx context.Context, id primitive.ObjectID, stats Stats) error {
	return r.set(ctx, id, bson.M{"stats": stats})
}

func (r *mongoRepository) UpdateRole(ctx context.Context, id primitive.ObjectID, role Role) error {
	return r.set(ctx, id, bson.M{"role": role})
}

func (r *mongoRepository) UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	return r.set(ctx, id, bson.M{"lastLogin": at})
}

func (r *mongoRepository) set(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": fields})
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

func (r *mongoRepository) List(ctx context.Context) ([]User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var out []User
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Leaderboard ranks users by lowest total emissions, longest streak first on
// ties.
func (r *mongoRepository) Leaderboard(ctx context.Context, limit int64) ([]LeaderboardRow, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "stats.totalEmissions", Value: 1},
			{Key: "stats.streakDays", Value: -1},
		}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.M{
			"username":       1,
			"totalEmissions": "$stats.totalEmissions",
			"streakDays":     "$stats.streakDays",
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var out []LeaderboardRow
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *mongoRepository) CountActiveSince(ctx context.Context, since time.Time) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"stats.lastActivityDate": bson.M{"$gte": since}})
}
