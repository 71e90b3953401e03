package carbon

import "math"

// OffsetOption is a purchasable carbon offset program.
type OffsetOption struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	CostPerTon    float64 `json:"costPerTon"`
	Effectiveness string  `json:"effectiveness"`
	Duration      string  `json:"duration"`
}

const defaultCostPerTon = 25

var offsetOptions = []OffsetOption{
	{
		ID:            "tree-planting",
		Name:          "Tree Planting",
		Description:   "Plant trees to absorb CO2",
		CostPerTon:    25,
		Effectiveness: "High",
		Duration:      "20-50 years",
	},
	{
		ID:            "renewable-energy",
		Name:          "Renewable Energy",
		Description:   "Support renewable energy projects",
		CostPerTon:    15,
		Effectiveness: "High",
		Duration:      "Immediate",
	},
	{
		ID:            "ocean-conservation",
		Name:          "Ocean Conservation",
		Description:   "Protect marine ecosystems",
		CostPerTon:    30,
		Effectiveness: "Medium",
		Duration:      "Ongoing",
	},
}

// OffsetOptions lists the available offset programs.
func OffsetOptions() []OffsetOption {
	out := make([]OffsetOption, len(offsetOptions))
	copy(out, offsetOptions)
	return out
}

// OffsetCost prices emissions against an offset program, rounded to cents.
// Unknown offset types fall back to the default rate.
func OffsetCost(emissions float64, offsetType string) (costPerTon, totalCost float64) {
	costPerTon = defaultCostPerTon
	for _, opt := range offsetOptions {
		if opt.ID == offsetType {
			costPerTon = opt.CostPerTon
			break
		}
	}
	totalCost = math.Round(emissions*costPerTon*100) / 100
	return costPerTon, totalCost
}
