package logistics

import "github.com/rshade/ecosort/internal/catalog"

// Mode emission factors in kg CO2e per km per kg shipped.
const (
	AirFactor  = 0.5
	SeaFactor  = 0.02
	LandFactor = 0.15
)

// EmissionUnitDivisor converts distance x weight x factor into kg CO2e.
// It must stay exactly 1000 for results to match published figures.
const EmissionUnitDivisor = 1000.0

// Distance bounds of the representative route set, in km.
const (
	MinDistanceKm  = 50.0
	MaxDistanceKm  = 500.0
	distanceStepKm = 50.0
)

// Distances returns the representative route distances a sampler draws
// from: 50, 100, ..., 500 km.
func Distances() []float64 {
	n := int(MaxDistanceKm/distanceStepKm) - int(MinDistanceKm/distanceStepKm) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = MinDistanceKm + float64(i)*distanceStepKm
	}
	return out
}

// Factor returns the emission factor for mode. Modes outside the
// enumeration get the land/road factor.
func Factor(mode catalog.TransportMode) float64 {
	switch mode {
	case catalog.ModeAir:
		return AirFactor
	case catalog.ModeSea:
		return SeaFactor
	case catalog.ModeLand:
		return LandFactor
	default:
		return LandFactor
	}
}

// Bounds returns the smallest and largest logistics emissions any sampler
// and mode can produce for weightKg.
func Bounds(weightKg float64) (lo, hi float64) {
	lo = MinDistanceKm * weightKg * SeaFactor / EmissionUnitDivisor
	hi = MaxDistanceKm * weightKg * AirFactor / EmissionUnitDivisor
	return lo, hi
}
