package engine

import (
	"context"
	"encoding/binary"
	"fmt"
	"runtime"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/ecosort/internal/logging"
	"github.com/rshade/ecosort/internal/logistics"
)

// MaterialSummary is the per-material line of a catalog summary.
type MaterialSummary struct {
	MaterialType string         `json:"material_type"`
	Average      AverageResult  `json:"average"`
	Lowest       *ScoredProduct `json:"lowest,omitempty"`
}

// SummaryOptions controls Summarize.
type SummaryOptions struct {
	// WeightKg optionally restricts every material to one weight.
	WeightKg *float64
	// Sampler is the sampler kind passed to logistics.NewSampler.
	Sampler string
	// Seed is the request seed. Each material derives its own seed from it.
	Seed uint64
}

// MaterialSeed derives the sampler seed for one material from the request
// seed, so results do not depend on goroutine scheduling.
func MaterialSeed(seed uint64, material string) uint64 {
	d := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], seed)
	_, _ = d.Write(buf[:])
	_, _ = d.WriteString(material)
	return d.Sum64()
}

// Summarize evaluates every material type in the catalog concurrently and
// returns one summary per material in catalog first-seen order.
func (r *Ranker) Summarize(ctx context.Context, opts SummaryOptions) ([]MaterialSummary, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	materials := r.catalog.MaterialTypes()
	out := make([]MaterialSummary, len(materials))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, material := range materials {
		g.Go(func() error {
			sampler, err := logistics.NewSampler(opts.Sampler, MaterialSeed(opts.Seed, material))
			if err != nil {
				return err
			}

			res, err := r.Evaluate(gctx, Query{MaterialType: material, WeightKg: opts.WeightKg}, sampler)
			if err != nil {
				return fmt.Errorf("summarizing %s: %w", material, err)
			}

			summary := MaterialSummary{MaterialType: material, Average: res.Average}
			if len(res.Top) > 0 {
				lowest := res.Top[0]
				summary.Lowest = &lowest
			}
			out[i] = summary
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "summarize").
		Int("materials", len(materials)).
		Dur("duration", time.Since(start)).
		Msg("catalog summarized")

	return out, nil
}
