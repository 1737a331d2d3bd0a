package engine

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecosort/internal/catalog"
	"github.com/rshade/ecosort/internal/logistics"
)

const floatTolerance = 1e-9

func plasticCatalog() *catalog.Catalog {
	return catalog.New("test", []catalog.Product{
		{Industry: "Packaging", MaterialType: "Plastic", WeightKg: 1.0, EmissionFactorPerKg: 0.1, TransportMode: "land"},
		{Industry: "Consumer Goods", MaterialType: "Plastic", WeightKg: 1.2, EmissionFactorPerKg: 0.2, TransportMode: "land"},
		{Industry: "Automotive", MaterialType: "Plastic", WeightKg: 1.4, EmissionFactorPerKg: 0.05, TransportMode: "land"},
	})
}

func mixedCatalog() *catalog.Catalog {
	var products []catalog.Product
	materials := []string{"Plastic", "Steel", "Cotton"}
	modes := []string{"air", "sea", "road", "water", "land", "rail"}
	for i := range 36 {
		products = append(products, catalog.Product{
			Industry:            "Industry",
			MaterialType:        materials[i%len(materials)],
			WeightKg:            catalog.StandardWeights()[i%len(catalog.StandardWeights())],
			EmissionFactorPerKg: float64(i%7) * 0.75,
			TransportMode:       modes[i%len(modes)],
		})
	}
	return catalog.New("mixed", products)
}

func newRanker(t *testing.T, c *catalog.Catalog, opts ...Option) *Ranker {
	t.Helper()
	r, err := NewRanker(c, opts...)
	require.NoError(t, err)
	return r
}

func TestNewRanker_NilCatalog(t *testing.T) {
	_, err := NewRanker(nil)
	require.ErrorIs(t, err, ErrNilCatalog)
}

func TestWithTopN(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{"default", 0, DefaultTopN},
		{"negative", -3, DefaultTopN},
		{"custom", 3, 3},
		{"clamped", MaxTopN + 1, MaxTopN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRanker(t, plasticCatalog(), WithTopN(tt.n))
			assert.Equal(t, tt.want, r.TopN())
		})
	}
}

func TestRank_PlasticScenario(t *testing.T) {
	r := newRanker(t, plasticCatalog())

	got, err := r.Rank(context.Background(), Query{MaterialType: "Plastic"}, logistics.Fixed(100))
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Ascending by total: 1.4 kg (0.091), 1.0 kg (0.115), 1.2 kg (0.258).
	assert.InDelta(t, 1.4, got[0].WeightKg, floatTolerance)
	assert.InDelta(t, 1.0, got[1].WeightKg, floatTolerance)
	assert.InDelta(t, 1.2, got[2].WeightKg, floatTolerance)

	assert.InDelta(t, 0.07, got[0].ProductionEmissions, floatTolerance)
	assert.InDelta(t, 0.1, got[1].ProductionEmissions, floatTolerance)
	assert.InDelta(t, 0.24, got[2].ProductionEmissions, floatTolerance)

	for _, sp := range got {
		assert.InDelta(t, 100*sp.WeightKg*0.15/1000, sp.LogisticsEmissions, floatTolerance)
		assert.InDelta(t, 100.0, sp.DistanceKm, floatTolerance)
		assert.Equal(t, catalog.ModeLand, sp.Mode)
	}
}

func TestRank_Invariants(t *testing.T) {
	c := mixedCatalog()
	r := newRanker(t, c, WithTopN(5))
	ctx := context.Background()

	for _, material := range c.MaterialTypes() {
		for _, w := range []*float64{nil, Weight(1.2), Weight(2.0)} {
			got, err := r.Rank(ctx, Query{MaterialType: material, WeightKg: w}, logistics.NewRandomSampler(7))
			require.NoError(t, err)
			assert.LessOrEqual(t, len(got), 5)

			for i, sp := range got {
				assert.Equal(t, material, sp.MaterialType)
				if w != nil {
					assert.Equal(t, *w, sp.WeightKg)
				}
				assert.Equal(t, sp.ProductionEmissions+sp.LogisticsEmissions, sp.TotalEmissions)
				assert.Equal(t, sp.WeightKg*sp.EmissionFactorPerKg, sp.ProductionEmissions)

				lo, hi := logistics.Bounds(sp.WeightKg)
				assert.GreaterOrEqual(t, sp.LogisticsEmissions, lo-floatTolerance)
				assert.LessOrEqual(t, sp.LogisticsEmissions, hi+floatTolerance)

				if i > 0 {
					assert.LessOrEqual(t, got[i-1].TotalEmissions, sp.TotalEmissions)
				}
			}
		}
	}
}

func TestRank_TruncatesToTopN(t *testing.T) {
	c := mixedCatalog()
	r := newRanker(t, c, WithTopN(2))

	got, err := r.Rank(context.Background(), Query{MaterialType: "Steel"}, logistics.Fixed(250))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	all, err := r.Score(context.Background(), Query{MaterialType: "Steel"}, logistics.Fixed(250))
	require.NoError(t, err)
	assert.Len(t, all, c.Count("Steel"))
}

func TestRank_TiesKeepCatalogOrder(t *testing.T) {
	c := catalog.New("ties", []catalog.Product{
		{Industry: "A", MaterialType: "Glass", WeightKg: 1.0, EmissionFactorPerKg: 0.9, TransportMode: "sea"},
		{Industry: "B", MaterialType: "Glass", WeightKg: 1.0, EmissionFactorPerKg: 0.9, TransportMode: "water"},
		{Industry: "C", MaterialType: "Glass", WeightKg: 1.0, EmissionFactorPerKg: 0.9, TransportMode: "SEA"},
	})
	r := newRanker(t, c)

	got, err := r.Rank(context.Background(), Query{MaterialType: "Glass"}, logistics.Fixed(50))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{got[0].Industry, got[1].Industry, got[2].Industry})
}

func TestRank_UnknownTransportModeUsesLandFactor(t *testing.T) {
	c := catalog.New("modes", []catalog.Product{
		{Industry: "Rail", MaterialType: "Steel", WeightKg: 2.0, EmissionFactorPerKg: 1.9, TransportMode: "rail"},
	})
	r := newRanker(t, c)

	got, err := r.Rank(context.Background(), Query{MaterialType: "Steel"}, logistics.Fixed(200))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, catalog.ModeLand, got[0].Mode)
	assert.InDelta(t, 200*2.0*logistics.LandFactor/1000, got[0].LogisticsEmissions, floatTolerance)
}

func TestRank_WeightWithoutMatchesIsEmpty(t *testing.T) {
	r := newRanker(t, plasticCatalog())

	got, err := r.Rank(context.Background(), Query{MaterialType: "Plastic", WeightKg: Weight(2.0)}, logistics.Fixed(100))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	avg, err := r.Average(context.Background(), Query{MaterialType: "Plastic", WeightKg: Weight(2.0)}, logistics.Fixed(100))
	require.NoError(t, err)
	assert.Equal(t, AverageResult{IsEmpty: true}, avg)
}

func TestRank_AbsentMaterial(t *testing.T) {
	ctx := context.Background()
	q := Query{MaterialType: "Glass"}

	t.Run("strict rejects", func(t *testing.T) {
		r := newRanker(t, plasticCatalog())

		_, err := r.Rank(ctx, q, logistics.Fixed(100))
		require.ErrorIs(t, err, catalog.ErrInvalidInput)

		var inputErr *catalog.InvalidInputError
		require.ErrorAs(t, err, &inputErr)
		assert.Equal(t, "material_type", inputErr.Field)
		assert.Equal(t, "Glass", inputErr.Value)
	})

	t.Run("lenient is empty", func(t *testing.T) {
		r := newRanker(t, plasticCatalog(), WithLenientMaterials())

		got, err := r.Rank(ctx, q, logistics.Fixed(100))
		require.NoError(t, err)
		assert.Empty(t, got)

		avg, err := r.Average(ctx, q, logistics.Fixed(100))
		require.NoError(t, err)
		assert.True(t, avg.IsEmpty)
		assert.Zero(t, avg.MeanKg)
	})
}

func TestRank_InvalidQueries(t *testing.T) {
	r := newRanker(t, plasticCatalog())

	tests := []struct {
		name    string
		query   Query
		sampler logistics.Sampler
		field   string
	}{
		{"empty material", Query{}, logistics.Fixed(100), "material_type"},
		{"zero weight", Query{MaterialType: "Plastic", WeightKg: Weight(0)}, logistics.Fixed(100), "weight_kg"},
		{"negative weight", Query{MaterialType: "Plastic", WeightKg: Weight(-1)}, logistics.Fixed(100), "weight_kg"},
		{"NaN weight", Query{MaterialType: "Plastic", WeightKg: Weight(math.NaN())}, logistics.Fixed(100), "weight_kg"},
		{"nil sampler", Query{MaterialType: "Plastic"}, nil, "sampler"},
		{"bad where", Query{MaterialType: "Plastic", Where: "weight_kg >"}, logistics.Fixed(100), "where"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Rank(context.Background(), tt.query, tt.sampler)
			require.Error(t, err)

			var inputErr *catalog.InvalidInputError
			require.True(t, errors.As(err, &inputErr), "got %T: %v", err, err)
			assert.Equal(t, tt.field, inputErr.Field)
		})
	}
}

func TestRank_Where(t *testing.T) {
	r := newRanker(t, plasticCatalog())

	got, err := r.Rank(context.Background(),
		Query{MaterialType: "Plastic", Where: `emission_factor_per_kg >= 0.1 && industry != "Packaging"`},
		logistics.Fixed(100))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Consumer Goods", got[0].Industry)
}

func TestRank_Idempotent(t *testing.T) {
	c := mixedCatalog()
	r := newRanker(t, c)
	ctx := context.Background()
	q := Query{MaterialType: "Cotton"}

	for _, kind := range []string{logistics.SamplerRandom, logistics.SamplerKeyed} {
		t.Run(kind, func(t *testing.T) {
			s1, err := logistics.NewSampler(kind, 42)
			require.NoError(t, err)
			s2, err := logistics.NewSampler(kind, 42)
			require.NoError(t, err)

			first, err := r.Evaluate(ctx, q, s1)
			require.NoError(t, err)
			second, err := r.Evaluate(ctx, q, s2)
			require.NoError(t, err)

			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("Evaluate not reproducible (-first +second):\n%s", diff)
			}
		})
	}
}

func TestRank_DoesNotMutateCatalog(t *testing.T) {
	c := plasticCatalog()
	before := c.Products()
	r := newRanker(t, c)

	_, err := r.Rank(context.Background(), Query{MaterialType: "Plastic"}, logistics.NewRandomSampler(1))
	require.NoError(t, err)

	if diff := cmp.Diff(before, c.Products()); diff != "" {
		t.Errorf("catalog changed (-before +after):\n%s", diff)
	}
}

func TestRank_CancelledContext(t *testing.T) {
	r := newRanker(t, plasticCatalog())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Rank(ctx, Query{MaterialType: "Plastic"}, logistics.Fixed(100))
	require.ErrorIs(t, err, context.Canceled)
}

func TestAverage(t *testing.T) {
	r := newRanker(t, plasticCatalog(), WithTopN(1))

	avg, err := r.Average(context.Background(), Query{MaterialType: "Plastic"}, logistics.Fixed(100))
	require.NoError(t, err)

	assert.Equal(t, 3, avg.Count)
	assert.False(t, avg.IsEmpty)
	// The cap does not apply to the average.
	want := (0.1 + 0.015 + 0.24 + 0.018 + 0.07 + 0.021) / 3
	assert.InDelta(t, want, avg.MeanKg, floatTolerance)
}

func TestEvaluate_AverageMatchesScoredSet(t *testing.T) {
	c := mixedCatalog()
	r := newRanker(t, c, WithTopN(3))

	res, err := r.Evaluate(context.Background(), Query{MaterialType: "Plastic"}, logistics.NewKeyedSampler(9))
	require.NoError(t, err)

	all, err := r.Score(context.Background(), Query{MaterialType: "Plastic"}, logistics.NewKeyedSampler(9))
	require.NoError(t, err)

	var sum float64
	for _, sp := range all {
		sum += sp.TotalEmissions
	}
	assert.Equal(t, len(all), res.Average.Count)
	assert.InDelta(t, sum/float64(len(all)), res.Average.MeanKg, floatTolerance)
	assert.Len(t, res.Top, 3)
	assert.Equal(t, 3, res.TopN)
}
