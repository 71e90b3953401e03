package activities

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"carbon-track/footprint-backend/internal/carbon"
	"carbon-track/footprint-backend/internal/factors"
	"carbon-track/footprint-backend/internal/users"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Insert(ctx context.Context, activity *Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Activity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Activity), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, activity *Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context, filter ListFilter) ([]Activity, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]Activity), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) ListByUserPeriod(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]Activity, error) {
	args := m.Called(ctx, userID, start, end)
	return args.Get(0).([]Activity), args.Error(1)
}

func (m *MockRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Recent(ctx context.Context, limit int64) ([]Activity, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]Activity), args.Error(1)
}

func (m *MockRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) TotalEmissions(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

type mockCalculator struct {
	mock.Mock
}

func (m *mockCalculator) CalculateEmissions(ctx context.Context, input carbon.Input) (*carbon.Result, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*carbon.Result), args.Error(1)
}

type mockStats struct {
	mock.Mock
}

func (m *mockStats) ApplyStatsDelta(ctx context.Context, userID primitive.ObjectID, emissionsDelta, offsetDelta float64, activityDate *time.Time) (*users.Stats, error) {
	args := m.Called(ctx, userID, emissionsDelta, offsetDelta, activityDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.Stats), args.Error(1)
}

func petrolResult(total float64) *carbon.Result {
	return &carbon.Result{
		TotalEmissions: total,
		FactorUsed: &factors.EmissionFactor{
			Category:    factors.CategoryTransport,
			Subcategory: "car_petrol",
			Factor:      factors.Factor{Value: 2.31, Unit: "kg CO2e", PerUnit: "L"},
			IsActive:    true,
		},
	}
}

func TestCreateAppliesStatsDeltaWithStreak(t *testing.T) {
	repo := new(MockRepository)
	calc := new(mockCalculator)
	stats := new(mockStats)
	service := NewService(repo, calc, stats)

	userID := primitive.NewObjectID()
	calc.On("CalculateEmissions", mock.Anything, mock.MatchedBy(func(in carbon.Input) bool {
		return in.Category == factors.CategoryTransport && in.Subcategory == "car_petrol" && in.Quantity == 40
	})).Return(petrolResult(92.4), nil)
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*activities.Activity")).Return(nil)
	// Creation passes an activity date so the streak advances.
	stats.On("ApplyStatsDelta", mock.Anything, userID, 92.4, 0.0, mock.MatchedBy(func(at *time.Time) bool {
		return at != nil
	})).Return(&users.Stats{TotalEmissions: 92.4, NetEmissions: 92.4, StreakDays: 1}, nil)

	activity, err := service.Create(context.Background(), userID, CreateInput{
		Category:    factors.CategoryTransport,
		Subcategory: "car_petrol",
		Title:       "Commute fill-up",
		Quantity:    40,
		Unit:        "L",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 92.4, activity.TotalEmissions)
	assert.Equal(t, 2.31, activity.EmissionFactor)
	repo.AssertExpectations(t)
	stats.AssertExpectations(t)
}

func TestCreateFactorNotFound(t *testing.T) {
	repo := new(MockRepository)
	calc := new(mockCalculator)
	stats := new(mockStats)
	service := NewService(repo, calc, stats)

	calc.On("CalculateEmissions", mock.Anything, mock.Anything).Return(nil, factors.ErrNotFound)

	_, err := service.Create(context.Background(), primitive.NewObjectID(), CreateInput{
		Category:    factors.CategoryOther,
		Subcategory: "mystery",
		Title:       "Unknown",
		Quantity:    1,
		Unit:        "kg",
	}, nil)
	assert.ErrorIs(t, err, factors.ErrNotFound)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	stats.AssertNotCalled(t, "ApplyStatsDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateQuantityRecomputesAndAppliesDiff(t *testing.T) {
	repo := new(MockRepository)
	calc := new(mockCalculator)
	stats := new(mockStats)
	service := NewService(repo, calc, stats)

	userID := primitive.NewObjectID()
	activityID := primitive.NewObjectID()
	existing := &Activity{
		ID:             activityID,
		User:           userID,
		Category:       factors.CategoryTransport,
		Subcategory:    "car_petrol",
		Quantity:       40,
		Unit:           "L",
		EmissionFactor: 2.31,
		TotalEmissions: 92.4,
	}
	repo.On("FindByID", mock.Anything, activityID).Return(existing, nil)
	calc.On("CalculateEmissions", mock.Anything, mock.MatchedBy(func(in carbon.Input) bool {
		return in.Quantity == 20 && in.Unit == "L"
	})).Return(petrolResult(46.2), nil)
	// The edit applies only the difference and never advances the streak.
	stats.On("ApplyStatsDelta", mock.Anything, userID, mock.MatchedBy(func(d float64) bool {
		return d < -46.1 && d > -46.3
	}), 0.0, (*time.Time)(nil)).Return(&users.Stats{}, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*activities.Activity")).Return(nil)

	quantity := 20.0
	updated, err := service.Update(context.Background(), activityID, userID, users.RoleUser, UpdateInput{Quantity: &quantity}, nil)
	require.NoError(t, err)
	assert.Equal(t, 46.2, updated.TotalEmissions)
	assert.Equal(t, 20.0, updated.Quantity)
	stats.AssertExpectations(t)
}

func TestUpdateTitleOnlySkipsRecompute(t *testing.T) {
	repo := new(MockRepository)
	calc := new(mockCalculator)
	stats := new(mockStats)
	service := NewService(repo, calc, stats)

	userID := primitive.NewObjectID()
	activityID := primitive.NewObjectID()
	existing := &Activity{ID: activityID, User: userID, TotalEmissions: 10, Title: "Old"}
	repo.On("FindByID", mock.Anything, activityID).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*activities.Activity")).Return(nil)

	title := "New"
	updated, err := service.Update(context.Background(), activityID, userID, users.RoleUser, UpdateInput{Title: &title}, nil)
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, 10.0, updated.TotalEmissions)
	calc.AssertNotCalled(t, "CalculateEmissions", mock.Anything, mock.Anything)
	stats.AssertNotCalled(t, "ApplyStatsDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateForbiddenForOtherUser(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, new(mockCalculator), new(mockStats))

	activityID := primitive.NewObjectID()
	existing := &Activity{ID: activityID, User: primitive.NewObjectID()}
	repo.On("FindByID", mock.Anything, activityID).Return(existing, nil)

	title := "Hijack"
	_, err := service.Update(context.Background(), activityID, primitive.NewObjectID(), users.RoleUser, UpdateInput{Title: &title}, nil)
	assert.ErrorIs(t, err, ErrForbidden)

	// Admins may edit other users' activities.
	repo.On("Update", mock.Anything, mock.AnythingOfType("*activities.Activity")).Return(nil)
	_, err = service.Update(context.Background(), activityID, primitive.NewObjectID(), users.RoleAdmin, UpdateInput{Title: &title}, nil)
	assert.NoError(t, err)
}

func TestUpdatePersistFailureLeavesStatsUntouched(t *testing.T) {
	repo := new(MockRepository)
	calc := new(mockCalculator)
	stats := new(mockStats)
	service := NewService(repo, calc, stats)

	userID := primitive.NewObjectID()
	activityID := primitive.NewObjectID()
	existing := &Activity{
		ID:             activityID,
		User:           userID,
		Category:       factors.CategoryTransport,
		Subcategory:    "car_petrol",
		Quantity:       40,
		Unit:           "L",
		EmissionFactor: 2.31,
		TotalEmissions: 92.4,
	}
	repo.On("FindByID", mock.Anything, activityID).Return(existing, nil)
	calc.On("CalculateEmissions", mock.Anything, mock.Anything).Return(petrolResult(46.2), nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*activities.Activity")).Return(errors.New("write failed"))

	quantity := 20.0
	_, err := service.Update(context.Background(), activityID, userID, users.RoleUser, UpdateInput{Quantity: &quantity}, nil)
	require.Error(t, err)
	// Totals only move once the write lands; a failed persist must not drift them.
	stats.AssertNotCalled(t, "ApplyStatsDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeletePersistFailureLeavesStatsUntouched(t *testing.T) {
	repo := new(MockRepository)
	calc := new(mockCalculator)
	stats := new(mockStats)
	service := NewService(repo, calc, stats)

	userID := primitive.NewObjectID()
	activityID := primitive.NewObjectID()
	existing := &Activity{ID: activityID, User: userID, TotalEmissions: 33.3}
	repo.On("FindByID", mock.Anything, activityID).Return(existing, nil)
	repo.On("Delete", mock.Anything, activityID).Return(errors.New("delete failed"))

	err := service.Delete(context.Background(), activityID, userID, users.RoleUser)
	require.Error(t, err)
	stats.AssertNotCalled(t, "ApplyStatsDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteReversesEmissions(t *testing.T) {
	repo := new(MockRepository)
	calc := new(mockCalculator)
	stats := new(mockStats)
	service := NewService(repo, calc, stats)

	userID := primitive.NewObjectID()
	activityID := primitive.NewObjectID()
	existing := &Activity{ID: activityID, User: userID, TotalEmissions: 33.3}
	repo.On("FindByID", mock.Anything, activityID).Return(existing, nil)
	stats.On("ApplyStatsDelta", mock.Anything, userID, -33.3, 0.0, (*time.Time)(nil)).Return(&users.Stats{}, nil)
	repo.On("Delete", mock.Anything, activityID).Return(nil)

	err := service.Delete(context.Background(), activityID, userID, users.RoleUser)
	require.NoError(t, err)
	stats.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestSummarize(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, new(mockCalculator), new(mockStats))

	userID := primitive.NewObjectID()
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	repo.On("ListByUserPeriod", mock.Anything, userID, start, end).Return([]Activity{
		{Category: factors.CategoryTransport, TotalEmissions: 60},
		{Category: factors.CategoryFood, TotalEmissions: 30},
		{Category: factors.CategoryTransport, TotalEmissions: 10},
	}, nil)

	summary, err := service.Summarize(context.Background(), userID, start, end)
	require.NoError(t, err)
	assert.Equal(t, 100.0, summary.TotalEmissions)
	assert.Equal(t, 3, summary.ActivityCount)
	require.Len(t, summary.CategoryBreakdown, 2)
	assert.Equal(t, factors.CategoryFood, summary.CategoryBreakdown[0].Category)
	assert.Equal(t, 30.0, summary.CategoryBreakdown[0].Emissions)
	assert.InDelta(t, 30.0, summary.CategoryBreakdown[0].Percentage, 1e-9)
	assert.Equal(t, factors.CategoryTransport, summary.CategoryBreakdown[1].Category)
	assert.InDelta(t, 70.0, summary.CategoryBreakdown[1].Percentage, 1e-9)
}
