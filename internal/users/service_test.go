package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Insert(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, profile Profile) error {
	args := m.Called(ctx, id, profile)
	return args.Error(0)
}

func (m *MockRepository) UpdateStats(ctx context.Context, id primitive.ObjectID, stats Stats) error {
	args := m.Called(ctx, id, stats)
	return args.Error(0)
}

func (m *MockRepository) UpdateRole(ctx context.Context, id primitive.ObjectID, role Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockRepository) UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context) ([]User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]User), args.Error(1)
}

func (m *MockRepository) Leaderboard(ctx context.Context, limit int64) ([]LeaderboardRow, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]LeaderboardRow), args.Error(1)
}

func (m *MockRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CountActiveSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func TestApplyStatsDeltaCreation(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo)

	userID := primitive.NewObjectID()
	user := &User{ID: userID, Stats: Stats{TotalEmissions: 10, NetEmissions: 10}}
	repo.On("FindByID", mock.Anything, userID).Return(user, nil)

	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	var saved Stats
	repo.On("UpdateStats", mock.Anything, userID, mock.AnythingOfType("users.Stats")).
		Run(func(args mock.Arguments) { saved = args.Get(2).(Stats) }).
		Return(nil)

	stats, err := service.ApplyStatsDelta(context.Background(), userID, 4.2, 0, &now)
	require.NoError(t, err)
	assert.InDelta(t, 14.2, stats.TotalEmissions, 1e-9)
	assert.Equal(t, 1, stats.StreakDays)
	assert.Equal(t, now, stats.LastActivityDate)
	assert.Equal(t, *stats, saved)
	repo.AssertExpectations(t)
}

func TestApplyStatsDeltaEditSkipsStreak(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo)

	userID := primitive.NewObjectID()
	last := time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC)
	user := &User{ID: userID, Stats: Stats{TotalEmissions: 20, NetEmissions: 20, StreakDays: 5, LastActivityDate: last}}
	repo.On("FindByID", mock.Anything, userID).Return(user, nil)
	repo.On("UpdateStats", mock.Anything, userID, mock.AnythingOfType("users.Stats")).Return(nil)

	// An edit that shrinks an activity passes a negative delta with no date.
	stats, err := service.ApplyStatsDelta(context.Background(), userID, -3.5, 0, nil)
	require.NoError(t, err)
	assert.InDelta(t, 16.5, stats.TotalEmissions, 1e-9)
	assert.Equal(t, 5, stats.StreakDays)
	assert.Equal(t, last, stats.LastActivityDate)
}

func TestApplyStatsDeltaUserMissing(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo)

	userID := primitive.NewObjectID()
	repo.On("FindByID", mock.Anything, userID).Return(nil, ErrNotFound)

	_, err := service.ApplyStatsDelta(context.Background(), userID, 1, 0, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
