package carbon

import (
	"context"
	"fmt"

	"carbon-track/footprint-backend/internal/factors"
)

// Resolver resolves emission factors for the calculator.
type Resolver interface {
	Resolve(ctx context.Context, category factors.Category, subcategory string, region *factors.Region) (*factors.EmissionFactor, error)
}

// Input describes one activity to price in emissions.
type Input struct {
	Category    factors.Category `json:"category" binding:"required"`
	Subcategory string           `json:"subcategory" binding:"required"`
	Quantity    float64          `json:"quantity" binding:"min=0"`
	Unit        string           `json:"unit" binding:"required"`
	Region      *factors.Region  `json:"region,omitempty"`
}

// Result is the outcome of an emissions computation.
type Result struct {
	TotalEmissions float64                 `json:"totalEmissions"`
	FactorUsed     *factors.EmissionFactor `json:"factorUsed"`
}

// Service computes emissions for activity inputs.
type Service struct {
	resolver Resolver
}

func NewService(resolver Resolver) *Service {
	return &Service{resolver: resolver}
}

// CalculateEmissions resolves the factor for the input and computes its total
// emissions. Returns factors.ErrNotFound when no factor covers the input.
func (s *Service) CalculateEmissions(ctx context.Context, input Input) (*Result, error) {
	factor, err := s.resolver.Resolve(ctx, input.Category, input.Subcategory, input.Region)
	if err != nil {
		return nil, fmt.Errorf("resolve factor for %s/%s: %w", input.Category, input.Subcategory, err)
	}
	return &Result{
		TotalEmissions: Calculate(factor, input.Quantity, input.Unit),
		FactorUsed:     factor,
	}, nil
}
