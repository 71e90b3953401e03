package factors

import (
	"context"
	"fmt"
)

// Service resolves emission factors against the catalog.
type Service struct {
	catalog Catalog
}

func NewService(catalog Catalog) *Service {
	return &Service{catalog: catalog}
}

// Resolve returns the canonical active factor for a category/subcategory,
// optionally preferring a region. Returns ErrNotFound when the catalog has no
// matching active factor.
func (s *Service) Resolve(ctx context.Context, category Category, subcategory string, region *Region) (*EmissionFactor, error) {
	candidates, err := s.catalog.ListActive(ctx, category, subcategory)
	if err != nil {
		return nil, fmt.Errorf("list active factors: %w", err)
	}
	return Resolve(candidates, category, subcategory, region)
}

// ListAll returns every catalog entry, active or not.
func (s *Service) ListAll(ctx context.Context) ([]EmissionFactor, error) {
	return s.catalog.ListAll(ctx)
}

// ListByCategory returns active factors for one category.
func (s *Service) ListByCategory(ctx context.Context, category Category) ([]EmissionFactor, error) {
	return s.catalog.ListByCategory(ctx, category)
}

// Categories returns the distinct active categories and, per category, their
// subcategories.
func (s *Service) Categories(ctx context.Context) ([]string, map[string][]string, error) {
	categories, err := s.catalog.DistinctCategories(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("distinct categories: %w", err)
	}
	subcategories := make(map[string][]string, len(categories))
	for _, category := range categories {
		subs, err := s.catalog.DistinctSubcategories(ctx, Category(category))
		if err != nil {
			return nil, nil, fmt.Errorf("distinct subcategories for %s: %w", category, err)
		}
		subcategories[category] = subs
	}
	return categories, subcategories, nil
}

// Create adds a factor to the catalog.
func (s *Service) Create(ctx context.Context, factor *EmissionFactor) error {
	if !factor.Category.Valid() {
		return fmt.Errorf("invalid category %q", factor.Category)
	}
	if factor.Factor.Value < 0 {
		return fmt.Errorf("factor value must be non-negative")
	}
	return s.catalog.Insert(ctx, factor)
}
