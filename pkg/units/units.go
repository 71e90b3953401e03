// Package units converts quantities between compatible measurement units.
// It supports four unit families: distance (km, miles, m), mass (kg, g, lbs),
// volume (L, mL, gal) and energy (kWh, Wh, MJ).
package units

import "errors"

// ErrUnsupportedConversion is returned by ConvertStrict when no conversion
// path exists between the two units.
var ErrUnsupportedConversion = errors.New("unsupported unit conversion")

// conversions maps fromUnit -> toUnit -> multiplier.
var conversions = map[string]map[string]float64{
	// Distance
	"km":    {"miles": 0.621371, "m": 1000},
	"miles": {"km": 1.60934, "m": 1609.34},
	"m":     {"km": 0.001, "miles": 0.000621371},

	// Mass
	"kg":  {"g": 1000, "lbs": 2.20462},
	"g":   {"kg": 0.001, "lbs": 0.00220462},
	"lbs": {"kg": 0.453592, "g": 453.592},

	// Volume
	"L":   {"mL": 1000, "gal": 0.264172},
	"mL":  {"L": 0.001, "gal": 0.000264172},
	"gal": {"L": 3.78541, "mL": 3785.41},

	// Energy
	"kWh": {"Wh": 1000, "MJ": 3.6},
	"Wh":  {"kWh": 0.001, "MJ": 0.0036},
	"MJ":  {"kWh": 0.277778, "Wh": 277.778},
}

// Convert converts value from one unit to another. Identical units return the
// value unchanged. Unknown unit pairs also return the value unchanged; upstream
// validation is expected to reject nonsensical unit/category combinations
// before a quantity reaches this point.
func Convert(value float64, from, to string) float64 {
	if from == to {
		return value
	}
	if targets, ok := conversions[from]; ok {
		if factor, ok := targets[to]; ok {
			return value * factor
		}
	}
	return value
}

// ConvertStrict behaves like Convert but reports ErrUnsupportedConversion
// instead of silently passing the value through on an unknown pair.
func ConvertStrict(value float64, from, to string) (float64, error) {
	if from == to {
		return value, nil
	}
	if targets, ok := conversions[from]; ok {
		if factor, ok := targets[to]; ok {
			return value * factor, nil
		}
	}
	return 0, ErrUnsupportedConversion
}

// Convertible reports whether a conversion path exists between the two units.
func Convertible(from, to string) bool {
	if from == to {
		return true
	}
	targets, ok := conversions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}
