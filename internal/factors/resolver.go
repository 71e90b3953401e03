package factors

import (
	"errors"
	"sort"
	"strings"
)

// ErrNotFound is returned when no active factor matches a category and
// subcategory.
var ErrNotFound = errors.New("emission factor not found")

// Resolve selects the canonical factor for a category/subcategory from the
// supplied candidates. Candidates are filtered to active records matching the
// category and subcategory exactly. When a region is given, factors pinned to
// a different country are excluded; region-less factors remain as fallbacks.
// The remaining candidates are ordered by region match, then version, then
// lowest factor value, then ID, so duplicate catalog entries still resolve to
// one deterministic record.
func Resolve(candidates []EmissionFactor, category Category, subcategory string, region *Region) (*EmissionFactor, error) {
	var base []EmissionFactor
	for _, f := range candidates {
		if f.IsActive && f.Category == category && f.Subcategory == subcategory {
			base = append(base, f)
		}
	}
	if len(base) == 0 {
		return nil, ErrNotFound
	}

	matched := base
	if region != nil && region.Country != "" {
		var scoped []EmissionFactor
		for _, f := range base {
			if !f.HasCountry() || f.Region.Country == region.Country {
				scoped = append(scoped, f)
			}
		}
		if len(scoped) > 0 {
			matched = scoped
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		am, bm := regionMatches(&a, region), regionMatches(&b, region)
		if am != bm {
			return am
		}
		if a.Version != b.Version {
			return a.Version > b.Version
		}
		if a.Factor.Value != b.Factor.Value {
			return a.Factor.Value < b.Factor.Value
		}
		return strings.Compare(a.ID.Hex(), b.ID.Hex()) < 0
	})

	best := matched[0]
	return &best, nil
}

func regionMatches(f *EmissionFactor, region *Region) bool {
	if region == nil || region.Country == "" {
		return false
	}
	return f.HasCountry() && f.Region.Country == region.Country
}
