package activities

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"carbon-track/footprint-backend/internal/carbon"
	"carbon-track/footprint-backend/internal/factors"
	"carbon-track/footprint-backend/internal/users"
)

// ErrForbidden means the caller may not touch this activity.
var ErrForbidden = errors.New("access denied")

// EmissionsCalculator prices an activity input in emissions.
type EmissionsCalculator interface {
	CalculateEmissions(ctx context.Context, input carbon.Input) (*carbon.Result, error)
}

// StatsApplier applies emission/offset deltas to a user's running stats.
type StatsApplier interface {
	ApplyStatsDelta(ctx context.Context, userID primitive.ObjectID, emissionsDelta, offsetDelta float64, activityDate *time.Time) (*users.Stats, error)
}

// CreateInput are the caller-supplied fields of a new activity.
type CreateInput struct {
	Category    factors.Category `json:"category" binding:"required"`
	Subcategory string           `json:"subcategory" binding:"required"`
	Title       string           `json:"title" binding:"required,max=100"`
	Description string           `json:"description" binding:"max=500"`
	Date        *time.Time       `json:"date"`
	Quantity    float64          `json:"quantity" binding:"min=0"`
	Unit        string           `json:"unit" binding:"required"`
	Location    *Location        `json:"location"`
	Metadata    *Metadata        `json:"metadata"`
	Tags        []string         `json:"tags"`
	Notes       string           `json:"notes" binding:"max=1000"`
}

// UpdateInput carries the optional fields of an activity edit. Nil fields are
// left untouched.
type UpdateInput struct {
	Category    *factors.Category `json:"category"`
	Subcategory *string           `json:"subcategory"`
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Date        *time.Time        `json:"date"`
	Quantity    *float64          `json:"quantity"`
	Unit        *string           `json:"unit"`
	Location    *Location         `json:"location"`
	Metadata    *Metadata         `json:"metadata"`
	Tags        []string          `json:"tags"`
	Notes       *string           `json:"notes"`
}

// Service owns the activity lifecycle: every create, edit and delete keeps the
// stored emissions and the owner's running stats consistent.
type Service struct {
	repo       Repository
	calculator EmissionsCalculator
	stats      StatsApplier
}

func NewService(repo Repository, calculator EmissionsCalculator, stats StatsApplier) *Service {
	return &Service{repo: repo, calculator: calculator, stats: stats}
}

// Create resolves the emission factor, computes total emissions, stores the
// activity and applies a positive stats delta including the streak update.
func (s *Service) Create(ctx context.Context, userID primitive.ObjectID, input CreateInput, region *factors.Region) (*Activity, error) {
	result, err := s.calculator.CalculateEmissions(ctx, carbon.Input{
		Category:    input.Category,
		Subcategory: input.Subcategory,
		Quantity:    input.Quantity,
		Unit:        input.Unit,
		Region:      region,
	})
	if err != nil {
		return nil, err
	}

	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}

	activity := &Activity{
		User:           userID,
		Category:       input.Category,
		Subcategory:    input.Subcategory,
		Title:          input.Title,
		Description:    input.Description,
		Date:           date,
		Quantity:       input.Quantity,
		Unit:           input.Unit,
		EmissionFactor: result.FactorUsed.Factor.Value,
		TotalEmissions: result.TotalEmissions,
		Location:       input.Location,
		Metadata:       input.Metadata,
		Tags:           input.Tags,
		Notes:          input.Notes,
	}
	if err := s.repo.Insert(ctx, activity); err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}

	now := time.Now()
	if _, err := s.stats.ApplyStatsDelta(ctx, userID, result.TotalEmissions, 0, &now); err != nil {
		return nil, fmt.Errorf("apply stats delta: %w", err)
	}
	return activity, nil
}

// Get returns one activity, enforcing ownership unless the caller is admin.
func (s *Service) Get(ctx context.Context, id, callerID primitive.ObjectID, callerRole users.Role) (*Activity, error) {
	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if activity.User != callerID && !callerRole.IsAdmin() {
		return nil, ErrForbidden
	}
	return activity, nil
}

// Update edits an activity. When category, subcategory, quantity or unit
// change, emissions are recomputed with a freshly resolved factor and the
// difference is applied to the owner's totals. The streak is never touched by
// an edit.
func (s *Service) Update(ctx context.Context, id, callerID primitive.ObjectID, callerRole users.Role, input UpdateInput, region *factors.Region) (*Activity, error) {
	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if activity.User != callerID && !callerRole.IsAdmin() {
		return nil, ErrForbidden
	}

	recompute := input.Category != nil || input.Subcategory != nil || input.Quantity != nil || input.Unit != nil
	var delta float64
	if recompute {
		category := activity.Category
		if input.Category != nil {
			category = *input.Category
		}
		subcategory := activity.Subcategory
		if input.Subcategory != nil {
			subcategory = *input.Subcategory
		}
		quantity := activity.Quantity
		if input.Quantity != nil {
			quantity = *input.Quantity
		}
		unit := activity.Unit
		if input.Unit != nil {
			unit = *input.Unit
		}

		result, err := s.calculator.CalculateEmissions(ctx, carbon.Input{
			Category:    category,
			Subcategory: subcategory,
			Quantity:    quantity,
			Unit:        unit,
			Region:      region,
		})
		if err != nil {
			return nil, err
		}

		delta = result.TotalEmissions - activity.TotalEmissions

		activity.Category = category
		activity.Subcategory = subcategory
		activity.Quantity = quantity
		activity.Unit = unit
		activity.EmissionFactor = result.FactorUsed.Factor.Value
		activity.TotalEmissions = result.TotalEmissions
	}

	if input.Title != nil {
		activity.Title = *input.Title
	}
	if input.Description != nil {
		activity.Description = *input.Description
	}
	if input.Date != nil {
		activity.Date = *input.Date
	}
	if input.Location != nil {
		activity.Location = input.Location
	}
	if input.Metadata != nil {
		activity.Metadata = input.Metadata
	}
	if input.Tags != nil {
		activity.Tags = input.Tags
	}
	if input.Notes != nil {
		activity.Notes = *input.Notes
	}

	if err := s.repo.Update(ctx, activity); err != nil {
		return nil, fmt.Errorf("update activity: %w", err)
	}

	// The delta lands only after the write, so a failed persist cannot drift
	// the owner's totals away from their live activities.
	if delta != 0 {
		if _, err := s.stats.ApplyStatsDelta(ctx, activity.User, delta, 0, nil); err != nil {
			return nil, fmt.Errorf("apply stats delta: %w", err)
		}
	}
	return activity, nil
}

// Delete removes an activity and reverses its emissions from the owner's
// totals. The streak is not adjusted.
func (s *Service) Delete(ctx context.Context, id, callerID primitive.ObjectID, callerRole users.Role) error {
	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if activity.User != callerID && !callerRole.IsAdmin() {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if _, err := s.stats.ApplyStatsDelta(ctx, activity.User, -activity.TotalEmissions, 0, nil); err != nil {
		return fmt.Errorf("apply stats delta: %w", err)
	}
	return nil
}

// List pages a user's activities.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Activity, int64, error) {
	return s.repo.List(ctx, filter)
}

// Summarize aggregates a user's activities over a period into a total, a
// per-category breakdown with percentages and a count.
func (s *Service) Summarize(ctx context.Context, userID primitive.ObjectID, start, end time.Time) (*Summary, error) {
	activities, err := s.repo.ListByUserPeriod(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	var total float64
	byCategory := make(map[factors.Category]float64)
	for _, a := range activities {
		total += a.TotalEmissions
		byCategory[a.Category] += a.TotalEmissions
	}

	breakdown := make([]CategoryEmissions, 0, len(byCategory))
	for category, emissions := range byCategory {
		entry := CategoryEmissions{Category: category, Emissions: emissions}
		if total > 0 {
			entry.Percentage = emissions / total * 100
		}
		breakdown = append(breakdown, entry)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Category < breakdown[j].Category
	})

	return &Summary{
		TotalEmissions:    total,
		CategoryBreakdown: breakdown,
		ActivityCount:     len(activities),
	}, nil
}
