package challenges

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Service coordinates challenge membership, progress and leaderboards.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create stores a new challenge.
func (s *Service) Create(ctx context.Context, challenge *Challenge) error {
	if challenge.Goal.Target < 0 {
		return fmt.Errorf("goal target must be non-negative")
	}
	if challenge.Status == "" {
		challenge.Status = StatusActive
	}
	return s.repo.Insert(ctx, challenge)
}

// Get returns one challenge.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*Challenge, error) {
	return s.repo.FindByID(ctx, id)
}

// ListActive returns all active challenges, newest first.
func (s *Service) ListActive(ctx context.Context) ([]Challenge, error) {
	return s.repo.ListActive(ctx)
}

// ListForUser returns the challenges a user participates in.
func (s *Service) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]Challenge, error) {
	return s.repo.ListByParticipant(ctx, userID)
}

// Join adds the user to the challenge. A repeat join is an idempotent no-op:
// the unchanged challenge is returned together with ErrAlreadyJoined so the
// caller can surface it as success.
func (s *Service) Join(ctx context.Context, challengeID, userID primitive.ObjectID) (*Challenge, error) {
	challenge, err := s.repo.FindByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	err = challenge.Join(userID, time.Now())
	if errors.Is(err, ErrAlreadyJoined) {
		return challenge, ErrAlreadyJoined
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, challenge); err != nil {
		return nil, fmt.Errorf("save challenge: %w", err)
	}
	return challenge, nil
}

// UpdateProgress sets a participant's progress and persists the challenge.
func (s *Service) UpdateProgress(ctx context.Context, challengeID, userID primitive.ObjectID, newCurrent float64) (*Challenge, error) {
	challenge, err := s.repo.FindByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if err := challenge.UpdateProgress(userID, newCurrent, time.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, challenge); err != nil {
		return nil, fmt.Errorf("save challenge: %w", err)
	}
	return challenge, nil
}

// Leave removes the user from the challenge.
func (s *Service) Leave(ctx context.Context, challengeID, userID primitive.ObjectID) (*Challenge, error) {
	challenge, err := s.repo.FindByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if err := challenge.Leave(userID); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, challenge); err != nil {
		return nil, fmt.Errorf("save challenge: %w", err)
	}
	return challenge, nil
}

// RecomputeLeaderboard rebuilds one challenge's leaderboard.
func (s *Service) RecomputeLeaderboard(ctx context.Context, challengeID primitive.ObjectID) (*Challenge, error) {
	challenge, err := s.repo.FindByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	challenge.RecomputeLeaderboard(time.Now())
	if err := s.repo.Save(ctx, challenge); err != nil {
		return nil, fmt.Errorf("save challenge: %w", err)
	}
	return challenge, nil
}

// RefreshLeaderboards rebuilds the leaderboard of every active challenge.
// Failures on individual challenges are logged and skipped so one bad
// document does not stall the rest.
func (s *Service) RefreshLeaderboards(ctx context.Context) (int, error) {
	active, err := s.repo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active challenges: %w", err)
	}

	refreshed := 0
	now := time.Now()
	for i := range active {
		challenge := &active[i]
		challenge.RecomputeLeaderboard(now)
		if err := s.repo.Save(ctx, challenge); err != nil {
			s.logger.Warn("failed to refresh leaderboard",
				zap.String("challenge_id", challenge.ID.Hex()),
				zap.Error(err))
			continue
		}
		refreshed++
	}
	return refreshed, nil
}
