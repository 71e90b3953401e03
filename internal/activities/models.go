package activities

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"carbon-track/footprint-backend/internal/factors"
)

// Location where the activity took place.
type Location struct {
	Country string `bson:"country,omitempty" json:"country,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
}

// Metadata carries category-specific detail fields.
type Metadata struct {
	// Transport
	VehicleType string  `bson:"vehicleType,omitempty" json:"vehicleType,omitempty"`
	FuelType    string  `bson:"fuelType,omitempty" json:"fuelType,omitempty"`
	Distance    float64 `bson:"distance,omitempty" json:"distance,omitempty"`
	Passengers  int     `bson:"passengers,omitempty" json:"passengers,omitempty"`

	// Energy
	EnergySource string  `bson:"energySource,omitempty" json:"energySource,omitempty"`
	Efficiency   float64 `bson:"efficiency,omitempty" json:"efficiency,omitempty"`

	// Food
	FoodType  string `bson:"foodType,omitempty" json:"foodType,omitempty"`
	Origin    string `bson:"origin,omitempty" json:"origin,omitempty"`
	Packaging string `bson:"packaging,omitempty" json:"packaging,omitempty"`

	// Shopping
	ProductType    string `bson:"productType,omitempty" json:"productType,omitempty"`
	Brand          string `bson:"brand,omitempty" json:"brand,omitempty"`
	DeliveryMethod string `bson:"deliveryMethod,omitempty" json:"deliveryMethod,omitempty"`

	// Waste
	WasteType      string `bson:"wasteType,omitempty" json:"wasteType,omitempty"`
	DisposalMethod string `bson:"disposalMethod,omitempty" json:"disposalMethod,omitempty"`
	Recycled       bool   `bson:"recycled,omitempty" json:"recycled,omitempty"`
}

// Activity is one logged emission event. EmissionFactor and TotalEmissions are
// fixed at save time: TotalEmissions is always the stored factor applied to
// the stored quantity, never re-derived lazily. Any change to category,
// subcategory, quantity or unit recomputes both and emits a stats delta.
type Activity struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User           primitive.ObjectID `bson:"user" json:"user"`
	Category       factors.Category   `bson:"category" json:"category"`
	Subcategory    string             `bson:"subcategory" json:"subcategory"`
	Title          string             `bson:"title" json:"title"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Date           time.Time          `bson:"date" json:"date"`
	Quantity       float64            `bson:"quantity" json:"quantity"`
	Unit           string             `bson:"unit" json:"unit"`
	EmissionFactor float64            `bson:"emissionFactor" json:"emissionFactor"`
	TotalEmissions float64            `bson:"totalEmissions" json:"totalEmissions"`
	Location       *Location          `bson:"location,omitempty" json:"location,omitempty"`
	Metadata       *Metadata          `bson:"metadata,omitempty" json:"metadata,omitempty"`
	Tags           []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Summary aggregates a user's activities over a period.
type Summary struct {
	TotalEmissions    float64             `json:"totalEmissions"`
	CategoryBreakdown []CategoryEmissions `json:"categoryBreakdown"`
	ActivityCount     int                 `json:"activityCount"`
}

// CategoryEmissions is one category's share of a summary.
type CategoryEmissions struct {
	Category   factors.Category `json:"category"`
	Emissions  float64          `json:"emissions"`
	Percentage float64          `json:"percentage"`
}
