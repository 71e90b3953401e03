package admin

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"carbon-track/footprint-backend/internal/activities"
	"carbon-track/footprint-backend/internal/challenges"
	"carbon-track/footprint-backend/internal/users"
)

// SystemStats is a snapshot of platform-wide counters.
type SystemStats struct {
	TotalUsers      int64   `json:"totalUsers"`
	TotalActivities int64   `json:"totalActivities"`
	TotalChallenges int64   `json:"totalChallenges"`
	ActiveUsers     int64   `json:"activeUsers"`
	TotalEmissions  float64 `json:"totalEmissions"`
}

// Service implements admin-only operations across aggregates.
type Service struct {
	users      users.Repository
	activities activities.Repository
	challenges challenges.Repository
	logger     *zap.Logger
}

func NewService(userRepo users.Repository, activityRepo activities.Repository, challengeRepo challenges.Repository, logger *zap.Logger) *Service {
	return &Service{
		users:      userRepo,
		activities: activityRepo,
		challenges: challengeRepo,
		logger:     logger,
	}
}

// ListUsers returns every account.
func (s *Service) ListUsers(ctx context.Context) ([]users.User, error) {
	return s.users.List(ctx)
}

// GetUser returns one account.
func (s *Service) GetUser(ctx context.Context, id primitive.ObjectID) (*users.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpdateRole changes an account's role.
func (s *Service) UpdateRole(ctx context.Context, id primitive.ObjectID, role users.Role) (*users.User, error) {
	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

// DeleteUser removes an account together with its activities. The user's
// stats die with the document, so no delta reversal is needed beyond the
// cascade itself.
func (s *Service) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}

	removed, err := s.activities.DeleteByUser(ctx, id)
	if err != nil {
		return fmt.Errorf("delete activities: %w", err)
	}
	s.logger.Info("cascading user delete",
		zap.String("user_id", id.Hex()),
		zap.Int64("activities_removed", removed))

	return s.users.Delete(ctx, id)
}

// Stats gathers system-wide counters.
func (s *Service) Stats(ctx context.Context) (*SystemStats, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	totalActivities, err := s.activities.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count activities: %w", err)
	}
	totalChallenges, err := s.challenges.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count challenges: %w", err)
	}
	activeUsers, err := s.users.CountActiveSince(ctx, time.Now().AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("count active users: %w", err)
	}
	totalEmissions, err := s.activities.TotalEmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum emissions: %w", err)
	}

	return &SystemStats{
		TotalUsers:      totalUsers,
		TotalActivities: totalActivities,
		TotalChallenges: totalChallenges,
		ActiveUsers:     activeUsers,
		TotalEmissions:  totalEmissions,
	}, nil
}

// RecentActivities returns the newest activities across all users.
func (s *Service) RecentActivities(ctx context.Context, limit int64) ([]activities.Activity, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.activities.Recent(ctx, limit)
}
