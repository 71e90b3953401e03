package users

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service maintains user accounts and their embedded stats.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns one user by ID.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile replaces the user's profile.
func (s *Service) UpdateProfile(ctx context.Context, id primitive.ObjectID, profile Profile) (*User, error) {
	if err := s.repo.UpdateProfile(ctx, id, profile); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// ApplyStatsDelta adjusts a user's running totals by the given deltas.
// activityDate is non-nil only for activity creation, which additionally
// advances the streak; edits and deletes pass nil so the streak tracks
// activity occurrence, not emission magnitude.
func (s *Service) ApplyStatsDelta(ctx context.Context, userID primitive.ObjectID, emissionsDelta, offsetDelta float64, activityDate *time.Time) (*Stats, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", userID.Hex(), err)
	}

	ApplyDelta(&user.Stats, emissionsDelta, offsetDelta)
	if activityDate != nil {
		Touch(&user.Stats, *activityDate)
	}

	if err := s.repo.UpdateStats(ctx, userID, user.Stats); err != nil {
		return nil, fmt.Errorf("save stats for %s: %w", userID.Hex(), err)
	}
	return &user.Stats, nil
}

// Stats returns the user's current stats.
func (s *Service) Stats(ctx context.Context, id primitive.ObjectID) (*Stats, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &user.Stats, nil
}

// Leaderboard returns the lowest-emission users.
func (s *Service) Leaderboard(ctx context.Context, limit int64) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.Leaderboard(ctx, limit)
}
