package carbon

import (
	"carbon-track/footprint-backend/internal/factors"
	"carbon-track/footprint-backend/pkg/units"
)

// Calculate computes total emissions for a quantity against a resolved factor.
// The quantity is first expressed in the factor's per-unit, then multiplied by
// the factor value. No rounding is applied; display formatting is the caller's
// concern.
func Calculate(factor *factors.EmissionFactor, quantity float64, unit string) float64 {
	converted := quantity
	if unit != factor.Factor.PerUnit {
		converted = units.Convert(quantity, unit, factor.Factor.PerUnit)
	}
	return converted * factor.Factor.Value
}
