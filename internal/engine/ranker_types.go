package engine

import (
	"github.com/rshade/ecosort/internal/catalog"
)

// DefaultTopN is how many products a ranking returns unless the deployment
// configures another cap with WithTopN.
const DefaultTopN = 10

// MaxTopN bounds configured caps.
const MaxTopN = 1000

// Query selects the products to rank.
type Query struct {
	// MaterialType must match a material type present in the catalog.
	MaterialType string `json:"material_type"`

	// WeightKg, when non-nil, keeps only products with exactly this weight.
	// Weights come from a small fixed set, so exact comparison is intended.
	WeightKg *float64 `json:"weight_kg,omitempty"`

	// Where is an optional CEL boolean expression over the product fields
	// (industry, material_type, weight_kg, emission_factor_per_kg,
	// transport_mode).
	Where string `json:"where,omitempty"`
}

// Weight returns a pointer to w for use in Query.WeightKg.
func Weight(w float64) *float64 { return &w }

// ScoredProduct is a catalog product plus the emissions derived for one
// query. It is a fresh value per query; the catalog is never modified.
type ScoredProduct struct {
	catalog.Product

	Mode                catalog.TransportMode `json:"mode"`
	DistanceKm          float64               `json:"distance_km"`
	ProductionEmissions float64               `json:"production_emissions"`
	LogisticsEmissions  float64               `json:"logistics_emissions"`
	TotalEmissions      float64               `json:"total_emissions"`
}

// AverageResult is the mean total emissions over a filtered population.
// IsEmpty is true, and MeanKg zero, when no product matched.
type AverageResult struct {
	MeanKg  float64 `json:"mean_kg"`
	Count   int     `json:"count"`
	IsEmpty bool    `json:"is_empty"`
}

// Result bundles a ranking with the average computed from the same draws.
type Result struct {
	Query   Query           `json:"query"`
	Top     []ScoredProduct `json:"top"`
	Average AverageResult   `json:"average"`
	TopN    int             `json:"top_n"`
}
