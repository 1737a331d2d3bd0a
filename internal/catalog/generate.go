package catalog

import (
	"errors"
	"math"
	"math/rand/v2"
)

// StandardWeights are the unit weights synthetic catalogs draw from.
func StandardWeights() []float64 {
	return []float64{1.0, 1.2, 1.4, 1.6, 1.8, 2.0}
}

// sourceTransportModes are the mode labels written by the generator, in the
// road/sea/air spelling most datasets use.
//
//nolint:gochecknoglobals // Lookup table.
var sourceTransportModes = []string{"road", "sea", "air"}

// materialProfile seeds synthetic rows for one material.
type materialProfile struct {
	industry     string
	material     string
	baseFactorKg float64
}

//nolint:gochecknoglobals // Lookup table.
var defaultProfiles = []materialProfile{
	{industry: "Packaging", material: "Plastic", baseFactorKg: 2.5},
	{industry: "Packaging", material: "Glass", baseFactorKg: 0.9},
	{industry: "Packaging", material: "Paper", baseFactorKg: 1.1},
	{industry: "Construction", material: "Steel", baseFactorKg: 1.9},
	{industry: "Electronics", material: "Aluminium", baseFactorKg: 8.2},
	{industry: "Textiles", material: "Cotton", baseFactorKg: 5.9},
	{industry: "Textiles", material: "Polyester", baseFactorKg: 6.4},
	{industry: "Furniture", material: "Wood", baseFactorKg: 0.4},
}

// Generator limits.
const (
	DefaultGenerateRows = 200
	MaxGenerateRows     = 1_000_000

	// factorJitter is the +/- fraction applied to a material's base factor.
	factorJitter = 0.2
	// factorDecimals is how many decimals generated factors keep.
	factorDecimals = 3
)

// ErrInvalidRowCount is returned for a non-positive or oversized row count.
var ErrInvalidRowCount = errors.New("row count must be between 1 and 1000000")

// GenerateOptions configures Generate.
type GenerateOptions struct {
	Rows int
	Seed uint64
}

// Generate builds a balanced synthetic catalog. Materials are assigned
// round-robin so every material gets an equal share; weight, transport mode
// and a jittered emission factor are drawn from a PRNG seeded with
// opts.Seed, so the same options always yield the same rows.
func Generate(opts GenerateOptions) ([]Product, error) {
	if opts.Rows < 1 || opts.Rows > MaxGenerateRows {
		return nil, ErrInvalidRowCount
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)) //nolint:gosec // Synthetic data.
	weights := StandardWeights()
	scale := math.Pow(10, factorDecimals)

	products := make([]Product, opts.Rows)
	for i := range products {
		profile := defaultProfiles[i%len(defaultProfiles)]
		jitter := 1 + factorJitter*(2*rng.Float64()-1)
		factor := math.Round(profile.baseFactorKg*jitter*scale) / scale

		products[i] = Product{
			Industry:            profile.industry,
			MaterialType:        profile.material,
			WeightKg:            weights[rng.IntN(len(weights))],
			EmissionFactorPerKg: factor,
			TransportMode:       sourceTransportModes[rng.IntN(len(sourceTransportModes))],
			Row:                 i,
		}
	}

	return products, nil
}
