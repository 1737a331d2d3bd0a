package engine

import (
	"cmp"
	"context"
	"errors"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/rshade/ecosort/internal/catalog"
	"github.com/rshade/ecosort/internal/logging"
	"github.com/rshade/ecosort/internal/logistics"
)

// ErrNilCatalog is returned by NewRanker when no catalog is given.
var ErrNilCatalog = errors.New("ranker requires a catalog")

// Ranker answers ranking and averaging queries over one catalog. It holds
// no per-query state, so one Ranker can serve concurrent queries as long as
// each brings its own sampler.
type Ranker struct {
	catalog *catalog.Catalog
	topN    int
	lenient bool
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithTopN caps rankings at n products. Values <= 0 keep DefaultTopN and
// values above MaxTopN are clamped.
func WithTopN(n int) Option {
	return func(r *Ranker) {
		switch {
		case n <= 0:
			r.topN = DefaultTopN
		case n > MaxTopN:
			r.topN = MaxTopN
		default:
			r.topN = n
		}
	}
}

// WithLenientMaterials treats a material type absent from the catalog as a
// query with no matches instead of rejecting it.
func WithLenientMaterials() Option {
	return func(r *Ranker) { r.lenient = true }
}

// NewRanker returns a ranker over c.
func NewRanker(c *catalog.Catalog, opts ...Option) (*Ranker, error) {
	if c == nil {
		return nil, ErrNilCatalog
	}
	r := &Ranker{catalog: c, topN: DefaultTopN}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// TopN returns the ranking cap.
func (r *Ranker) TopN() int { return r.topN }

// Catalog returns the catalog the ranker reads.
func (r *Ranker) Catalog() *catalog.Catalog { return r.catalog }

// Rank returns the lowest-emission products matching q, ascending by total
// emissions and capped at TopN. Ties keep catalog order. No match yields an
// empty slice and a nil error.
func (r *Ranker) Rank(ctx context.Context, q Query, sampler logistics.Sampler) ([]ScoredProduct, error) {
	res, err := r.Evaluate(ctx, q, sampler)
	if err != nil {
		return nil, err
	}
	return res.Top, nil
}

// Average returns the mean total emissions over every product matching q,
// without the TopN cap.
func (r *Ranker) Average(ctx context.Context, q Query, sampler logistics.Sampler) (AverageResult, error) {
	scored, err := r.Score(ctx, q, sampler)
	if err != nil {
		return AverageResult{}, err
	}
	return average(scored), nil
}

// Evaluate scores the filtered population once and derives both the
// ranking and the average from it.
func (r *Ranker) Evaluate(ctx context.Context, q Query, sampler logistics.Sampler) (Result, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	scored, err := r.Score(ctx, q, sampler)
	if err != nil {
		return Result{}, err
	}

	avg := average(scored)
	top := sortAndTruncate(scored, r.topN)

	event := log.Debug()
	if len(top) == 0 {
		event = log.Info()
	}
	event.
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "evaluate").
		Str("material_type", q.MaterialType).
		Int("matched", avg.Count).
		Int("returned", len(top)).
		Float64("mean_kg", avg.MeanKg).
		Dur("duration", time.Since(start)).
		Msg(rankMessage(len(top)))

	return Result{Query: q, Top: top, Average: avg, TopN: r.topN}, nil
}

func rankMessage(n int) string {
	if n == 0 {
		return "no products match query"
	}
	return "ranked products"
}

// Score filters the catalog by q and computes emissions for every match,
// in catalog order. It is the shared first half of Rank and Average.
func (r *Ranker) Score(ctx context.Context, q Query, sampler logistics.Sampler) ([]ScoredProduct, error) {
	if err := r.validate(q); err != nil {
		return nil, err
	}
	if sampler == nil {
		return nil, catalog.NewInvalidInput("sampler", "", "a distance sampler is required")
	}

	pred, err := CompileWhere(q.Where)
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)
	candidates := r.catalog.ByMaterial(q.MaterialType)
	scored := make([]ScoredProduct, 0, len(candidates))

	for _, p := range candidates {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if q.WeightKg != nil && p.WeightKg != *q.WeightKg {
			continue
		}
		if pred != nil {
			ok, matchErr := pred.Match(p)
			if matchErr != nil {
				return nil, matchErr
			}
			if !ok {
				continue
			}
		}

		mode, known := p.Mode()
		if !known {
			log.Debug().
				Ctx(ctx).
				Str("component", "engine").
				Str("operation", "score").
				Int("row", p.Row).
				Str("transport_mode", p.TransportMode).
				Str("fallback", catalog.DefaultTransportMode.String()).
				Msg("unrecognized transport mode, using default factor")
		}

		sp, scoreErr := scoreProduct(p, mode, sampler)
		if scoreErr != nil {
			return nil, scoreErr
		}
		scored = append(scored, sp)
	}

	return scored, nil
}

func (r *Ranker) validate(q Query) error {
	if q.MaterialType == "" {
		return catalog.NewInvalidInput("material_type", "", "a material type is required")
	}
	if !r.lenient && !r.catalog.HasMaterialType(q.MaterialType) {
		return catalog.NewInvalidInput("material_type", q.MaterialType, "not present in the catalog")
	}
	if q.WeightKg != nil {
		w := *q.WeightKg
		if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
			return catalog.NewInvalidInput("weight_kg", strconv.FormatFloat(w, 'g', -1, 64), "must be a positive number")
		}
	}
	return nil
}

func scoreProduct(p catalog.Product, mode catalog.TransportMode, sampler logistics.Sampler) (ScoredProduct, error) {
	production := p.WeightKg * p.EmissionFactorPerKg

	est, err := logistics.Simulate(p.WeightKg, mode, sampler, uint64(p.Row)) //nolint:gosec // Row is never negative.
	if err != nil {
		return ScoredProduct{}, err
	}

	return ScoredProduct{
		Product:             p,
		Mode:                mode,
		DistanceKm:          est.DistanceKm,
		ProductionEmissions: production,
		LogisticsEmissions:  est.EmissionsKg,
		TotalEmissions:      production + est.EmissionsKg,
	}, nil
}

// sortAndTruncate stable-sorts a copy of scored ascending by total and keeps
// the first n.
func sortAndTruncate(scored []ScoredProduct, n int) []ScoredProduct {
	sorted := slices.Clone(scored)
	slices.SortStableFunc(sorted, func(a, b ScoredProduct) int {
		return cmp.Compare(a.TotalEmissions, b.TotalEmissions)
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	if sorted == nil {
		sorted = []ScoredProduct{}
	}
	return sorted
}

func average(scored []ScoredProduct) AverageResult {
	if len(scored) == 0 {
		return AverageResult{IsEmpty: true}
	}
	var sum float64
	for _, sp := range scored {
		sum += sp.TotalEmissions
	}
	return AverageResult{MeanKg: sum / float64(len(scored)), Count: len(scored)}
}
