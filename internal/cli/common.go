package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshade/ecosort/internal/catalog"
	"github.com/rshade/ecosort/internal/config"
	"github.com/rshade/ecosort/internal/engine"
	"github.com/rshade/ecosort/internal/logistics"
)

// errNoCatalog is returned when neither --catalog nor catalog.path is set.
var errNoCatalog = errors.New("no catalog given: pass --catalog or set catalog.path (ECOSORT_CATALOG)")

// catalogFlags selects the product catalog.
type catalogFlags struct {
	Path  string
	Sheet string
}

func (f *catalogFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Path, "catalog", "", "product catalog (.csv or .xlsx); defaults to catalog.path")
	cmd.Flags().StringVar(&f.Sheet, "sheet", "", "XLSX sheet name (default: first sheet)")
}

// load reads the catalog named by the flags or, failing that, the config.
func (f *catalogFlags) load(ctx context.Context) (*catalog.Catalog, error) {
	cfg := config.GetGlobalConfig()
	path, sheet := f.Path, f.Sheet
	if path == "" {
		path = cfg.Catalog.Path
	}
	if sheet == "" {
		sheet = cfg.Catalog.Sheet
	}
	if path == "" {
		return nil, errNoCatalog
	}

	c, err := catalog.LoadWithOptions(ctx, path, catalog.LoadOptions{Sheet: sheet})
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return c, nil
}

// samplingFlags chooses the distance sampler.
type samplingFlags struct {
	Sampler string
	Seed    uint64
}

func (f *samplingFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Sampler, "sampler", "",
		"distance sampler: random or keyed (default: simulation.sampler)")
	cmd.Flags().Uint64Var(&f.Seed, "seed", 0, "sampler seed (default: simulation.seed)")
}

// resolve applies flag-over-config precedence and returns the sampler kind
// and seed.
func (f *samplingFlags) resolve(cmd *cobra.Command) (string, uint64) {
	cfg := config.GetGlobalConfig()
	kind, seed := cfg.Simulation.Sampler, cfg.Simulation.Seed
	if f.Sampler != "" {
		kind = f.Sampler
	}
	if cmd.Flags().Changed("seed") {
		seed = f.Seed
	}
	return kind, seed
}

func (f *samplingFlags) sampler(cmd *cobra.Command) (logistics.Sampler, error) {
	kind, seed := f.resolve(cmd)
	s, err := logistics.NewSampler(kind, seed)
	if err != nil {
		return nil, fmt.Errorf("--sampler: %w", err)
	}
	return s, nil
}

// queryFlags are the filters shared by rank and average.
type queryFlags struct {
	Material string
	Weight   float64
	Where    string
	Lenient  bool
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Material, "material", "", "material type to rank (e.g. Plastic)")
	cmd.Flags().Float64Var(&f.Weight, "weight", 0, "only products with exactly this weight in kg")
	cmd.Flags().StringVar(&f.Where, "where", "", "extra filter expression over industry, material_type, "+
		"weight_kg, emission_factor_per_kg and transport_mode")
	cmd.Flags().BoolVar(&f.Lenient, "lenient", false,
		"treat an unknown material type as an empty result instead of an error")
	_ = cmd.MarkFlagRequired("material")
}

func (f *queryFlags) query(cmd *cobra.Command) engine.Query {
	q := engine.Query{MaterialType: f.Material, Where: f.Where}
	if cmd.Flags().Changed("weight") {
		q.WeightKg = engine.Weight(f.Weight)
	}
	return q
}

// newRanker builds a ranker honoring ranking.* config and explicit overrides.
// topN <= 0 defers to ranking.top_n.
func newRanker(c *catalog.Catalog, topN int, lenient bool) (*engine.Ranker, error) {
	cfg := config.GetGlobalConfig()
	if topN <= 0 {
		topN = cfg.Ranking.TopN
	}
	if topN > engine.MaxTopN {
		return nil, catalog.NewInvalidInput("top", strconv.Itoa(topN), fmt.Sprintf("must be at most %d", engine.MaxTopN))
	}

	opts := []engine.Option{engine.WithTopN(topN)}
	if lenient || cfg.Ranking.LenientMaterials {
		opts = append(opts, engine.WithLenientMaterials())
	}
	return engine.NewRanker(c, opts...)
}

// outputFormat resolves --output against output.default_format and rejects
// unknown values.
func outputFormat(flag string) (engine.OutputFormat, error) {
	format, ok := engine.ParseOutputFormat(config.GetOutputFormat(flag))
	if !ok {
		return "", fmt.Errorf("--output must be one of %v", engine.OutputFormats())
	}
	return format, nil
}

// outputUnit is the configured display unit for emission values.
func outputUnit() string {
	return config.GetGlobalConfig().Output.Unit
}
