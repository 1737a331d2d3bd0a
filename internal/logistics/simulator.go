// Package logistics simulates the transport share of a product's emissions.
//
// A route distance is drawn from a small representative set (this is a
// simulation, not a routing lookup) and combined with the weight and a
// per-mode factor:
//
//	emissions_kg = distance_km * weight_kg * factor / 1000
package logistics

import (
	"math"
	"strconv"

	"github.com/rshade/ecosort/internal/catalog"
)

// Estimate is the simulated logistics footprint of one product.
type Estimate struct {
	EmissionsKg float64
	DistanceKm  float64
	Factor      float64
	Mode        catalog.TransportMode
}

// Simulate estimates logistics emissions for weightKg shipped by mode. The
// distance comes from sampler, keyed by key.
//
// Returns a catalog.InvalidInputError if weightKg is not a positive finite
// number or sampler is nil.
func Simulate(weightKg float64, mode catalog.TransportMode, sampler Sampler, key uint64) (Estimate, error) {
	if math.IsNaN(weightKg) || math.IsInf(weightKg, 0) || weightKg <= 0 {
		return Estimate{}, catalog.NewInvalidInput(
			"weight_kg", strconv.FormatFloat(weightKg, 'g', -1, 64), "must be a positive number")
	}
	if sampler == nil {
		return Estimate{}, catalog.NewInvalidInput("sampler", "", "a distance sampler is required")
	}

	distance := sampler.DistanceKm(key)
	factor := Factor(mode)

	return Estimate{
		EmissionsKg: distance * weightKg * factor / EmissionUnitDivisor,
		DistanceKm:  distance,
		Factor:      factor,
		Mode:        mode,
	}, nil
}
