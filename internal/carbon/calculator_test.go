package carbon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"carbon-track/footprint-backend/internal/factors"
)

func petrolFactor() *factors.EmissionFactor {
	return &factors.EmissionFactor{
		Category:    factors.CategoryTransport,
		Subcategory: "car_petrol",
		Factor:      factors.Factor{Value: 2.31, Unit: "kg CO2e", PerUnit: "L"},
		IsActive:    true,
		Version:     1,
	}
}

func TestCalculateSameUnit(t *testing.T) {
	got := Calculate(petrolFactor(), 40, "L")
	assert.InDelta(t, 92.4, got, 1e-9)
}

func TestCalculateConvertsUnit(t *testing.T) {
	// 1 gal = 3.78541 L
	got := Calculate(petrolFactor(), 1, "gal")
	assert.InDelta(t, 3.78541*2.31, got, 1e-9)
}

func TestCalculateNonNegative(t *testing.T) {
	for _, quantity := range []float64{0, 0.001, 1, 1000} {
		assert.GreaterOrEqual(t, Calculate(petrolFactor(), quantity, "L"), 0.0)
	}
	zero := petrolFactor()
	zero.Factor.Value = 0
	assert.Equal(t, 0.0, Calculate(zero, 123, "L"))
}

func TestCalculateUnknownUnitPassesThrough(t *testing.T) {
	// No conversion path from kWh to L: the quantity is used as-is.
	got := Calculate(petrolFactor(), 10, "kWh")
	assert.InDelta(t, 23.1, got, 1e-9)
}

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, category factors.Category, subcategory string, region *factors.Region) (*factors.EmissionFactor, error) {
	args := m.Called(ctx, category, subcategory, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*factors.EmissionFactor), args.Error(1)
}

func TestCalculateEmissions(t *testing.T) {
	resolver := new(mockResolver)
	resolver.On("Resolve", mock.Anything, factors.CategoryTransport, "car_petrol", (*factors.Region)(nil)).
		Return(petrolFactor(), nil)

	service := NewService(resolver)
	result, err := service.CalculateEmissions(context.Background(), Input{
		Category:    factors.CategoryTransport,
		Subcategory: "car_petrol",
		Quantity:    40,
		Unit:        "L",
	})
	require.NoError(t, err)
	assert.InDelta(t, 92.4, result.TotalEmissions, 1e-9)
	assert.Equal(t, 2.31, result.FactorUsed.Factor.Value)
	resolver.AssertExpectations(t)
}

func TestCalculateEmissionsNotFound(t *testing.T) {
	resolver := new(mockResolver)
	resolver.On("Resolve", mock.Anything, factors.CategoryFood, "unknown", (*factors.Region)(nil)).
		Return(nil, factors.ErrNotFound)

	service := NewService(resolver)
	_, err := service.CalculateEmissions(context.Background(), Input{
		Category:    factors.CategoryFood,
		Subcategory: "unknown",
		Quantity:    1,
		Unit:        "kg",
	})
	assert.ErrorIs(t, err, factors.ErrNotFound)
}

func TestOffsetCost(t *testing.T) {
	costPerTon, total := OffsetCost(2.5, "renewable-energy")
	assert.Equal(t, 15.0, costPerTon)
	assert.Equal(t, 37.5, total)

	// 1.333*25*100 sits just under 3332.5 in float64, so rounding lands on
	// 33.32 rather than 33.33.
	costPerTon, total = OffsetCost(1.333, "no-such-program")
	assert.Equal(t, 25.0, costPerTon)
	assert.Equal(t, 33.32, total)
	assert.InDelta(t, 1.333*25, total, 0.005)
}
