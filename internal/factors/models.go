package factors

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is the top-level grouping of an activity.
type Category string

const (
	CategoryTransport Category = "transport"
	CategoryEnergy    Category = "energy"
	CategoryFood      Category = "food"
	CategoryShopping  Category = "shopping"
	CategoryWaste     Category = "waste"
	CategoryOther     Category = "other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryTransport, CategoryEnergy, CategoryFood, CategoryShopping, CategoryWaste, CategoryOther:
		return true
	}
	return false
}

// Reliability of a factor's source.
type Reliability string

const (
	ReliabilityHigh   Reliability = "high"
	ReliabilityMedium Reliability = "medium"
	ReliabilityLow    Reliability = "low"
)

// Factor is the conversion constant itself: Value kg CO2e (Unit) per PerUnit
// of activity, e.g. 2.31 kg CO2e per L of petrol.
type Factor struct {
	Value   float64 `bson:"value" json:"value"`
	Unit    string  `bson:"unit" json:"unit"`
	PerUnit string  `bson:"perUnit" json:"perUnit"`
}

// Region constrains a factor to a geography. An empty Region means the factor
// applies globally.
type Region struct {
	Country string `bson:"country,omitempty" json:"country,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
}

// Source records where a factor value came from.
type Source struct {
	Name        string      `bson:"name,omitempty" json:"name,omitempty"`
	URL         string      `bson:"url,omitempty" json:"url,omitempty"`
	Year        int         `bson:"year,omitempty" json:"year,omitempty"`
	Reliability Reliability `bson:"reliability,omitempty" json:"reliability,omitempty"`
}

// Conditions optionally restricts the value range a factor is valid for.
type Conditions struct {
	MinValue *float64 `bson:"minValue,omitempty" json:"minValue,omitempty"`
	MaxValue *float64 `bson:"maxValue,omitempty" json:"maxValue,omitempty"`
	Unit     string   `bson:"unit,omitempty" json:"unit,omitempty"`
	Notes    string   `bson:"notes,omitempty" json:"notes,omitempty"`
}

// EmissionFactor maps a quantity of activity to kg of CO2 equivalent.
type EmissionFactor struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Category    Category           `bson:"category" json:"category"`
	Subcategory string             `bson:"subcategory" json:"subcategory"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Factor      Factor             `bson:"factor" json:"factor"`
	Region      *Region            `bson:"region,omitempty" json:"region,omitempty"`
	Source      Source             `bson:"source,omitempty" json:"source,omitempty"`
	Conditions  *Conditions        `bson:"conditions,omitempty" json:"conditions,omitempty"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	Version     int                `bson:"version" json:"version"`
	CreatedBy   primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasCountry reports whether the factor is constrained to a country.
func (f *EmissionFactor) HasCountry() bool {
	return f.Region != nil && f.Region.Country != ""
}
