// Package factormodel fits per-material emission factors from a catalog.
//
// Each material gets an ordinary least-squares line
//
//	factor = intercept + slope * weight_kg
//
// fitted on a seeded shuffle of the catalog with a held-out test split. When
// a material's training weights do not vary, the line degenerates to the
// mean factor. The fitted model can rewrite a catalog with predicted factors
// so rankings can be compared against the source figures.
package factormodel

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/rshade/ecosort/internal/catalog"
	"github.com/rshade/ecosort/internal/logging"
)

// Defaults for Options.
const (
	DefaultSeed         uint64 = 42
	DefaultTestFraction        = 0.2
)

// minTrainRows is the fewest rows a fit accepts.
const minTrainRows = 2

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrInsufficientData is returned when the catalog is too small to split
// into training and test rows.
const ErrInsufficientData = constError("not enough rows to train")

// Options controls Train.
type Options struct {
	Seed uint64
	// TestFraction is the share of rows held out for scoring, in [0, 1).
	// Zero skips scoring.
	TestFraction float64
}

// DefaultOptions returns the seed and split used when none are given.
func DefaultOptions() Options {
	return Options{Seed: DefaultSeed, TestFraction: DefaultTestFraction}
}

// Coefficients is the fitted line for one material.
type Coefficients struct {
	MaterialType string  `json:"material_type"   yaml:"material_type"`
	Intercept    float64 `json:"intercept"       yaml:"intercept"`
	Slope        float64 `json:"slope"           yaml:"slope"`
	Samples      int     `json:"samples"         yaml:"samples"`
	MeanOnly     bool    `json:"mean_only"       yaml:"mean_only"`
}

// Predict evaluates the line at weightKg.
func (c Coefficients) Predict(weightKg float64) float64 {
	return c.Intercept + c.Slope*weightKg
}

// Model maps material types to fitted lines.
type Model struct {
	coefficients map[string]Coefficients
	order        []string
	globalMean   float64
}

// Evaluation reports how well the model scored on the held-out rows.
type Evaluation struct {
	TrainRows int `json:"train_rows"`
	TestRows  int `json:"test_rows"`
	// R2 is the coefficient of determination on the test rows. It is only
	// meaningful when Scored is true.
	R2     float64 `json:"r2"`
	Scored bool    `json:"scored"`
}

// Train fits a model on c.
func Train(ctx context.Context, c *catalog.Catalog, opts Options) (*Model, Evaluation, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	if opts.TestFraction < 0 || opts.TestFraction >= 1 || math.IsNaN(opts.TestFraction) {
		return nil, Evaluation{}, catalog.NewInvalidInput(
			"test_fraction", fmt.Sprint(opts.TestFraction), "must be in [0, 1)")
	}

	products := c.Products()
	train, test := split(products, opts)
	if len(train) < minTrainRows {
		return nil, Evaluation{}, fmt.Errorf("%w: %d rows available, %d used for training",
			ErrInsufficientData, len(products), len(train))
	}

	m := fit(train)

	eval := Evaluation{TrainRows: len(train), TestRows: len(test)}
	if len(test) > 0 {
		eval.R2 = m.score(test)
		eval.Scored = true
	}

	log.Info().
		Ctx(ctx).
		Str("component", "factormodel").
		Str("operation", "train").
		Int("train_rows", eval.TrainRows).
		Int("test_rows", eval.TestRows).
		Int("materials", len(m.order)).
		Float64("r2", eval.R2).
		Dur("duration", time.Since(start)).
		Msg("emission factor model trained")

	return m, eval, nil
}

// split shuffles products with a seeded PRNG and holds out the test share.
func split(products []catalog.Product, opts Options) ([]catalog.Product, []catalog.Product) {
	shuffled := slices.Clone(products)
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)) //nolint:gosec // Sampling, not crypto.
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	nTest := int(math.Round(float64(len(shuffled)) * opts.TestFraction))
	if opts.TestFraction > 0 && nTest == 0 && len(shuffled) > minTrainRows {
		nTest = 1
	}
	return shuffled[nTest:], shuffled[:nTest]
}

func fit(train []catalog.Product) *Model {
	groups := make(map[string][]catalog.Product)
	var order []string
	var total float64

	for _, p := range train {
		if _, ok := groups[p.MaterialType]; !ok {
			order = append(order, p.MaterialType)
		}
		groups[p.MaterialType] = append(groups[p.MaterialType], p)
		total += p.EmissionFactorPerKg
	}
	slices.Sort(order)

	m := &Model{
		coefficients: make(map[string]Coefficients, len(groups)),
		order:        order,
		globalMean:   total / float64(len(train)),
	}
	for _, material := range order {
		m.coefficients[material] = fitLine(material, groups[material])
	}
	return m
}

// fitLine is simple least squares on (weight, factor).
func fitLine(material string, rows []catalog.Product) Coefficients {
	n := float64(len(rows))
	var sumW, sumF float64
	for _, p := range rows {
		sumW += p.WeightKg
		sumF += p.EmissionFactorPerKg
	}
	meanW, meanF := sumW/n, sumF/n

	var sxx, sxy float64
	for _, p := range rows {
		dw := p.WeightKg - meanW
		sxx += dw * dw
		sxy += dw * (p.EmissionFactorPerKg - meanF)
	}

	c := Coefficients{MaterialType: material, Samples: len(rows)}
	if sxx == 0 {
		c.Intercept = meanF
		c.MeanOnly = true
		return c
	}
	c.Slope = sxy / sxx
	c.Intercept = meanF - c.Slope*meanW
	return c
}

// score returns R² of the model's predictions against test.
func (m *Model) score(test []catalog.Product) float64 {
	var mean float64
	for _, p := range test {
		mean += p.EmissionFactorPerKg
	}
	mean /= float64(len(test))

	var ssRes, ssTot float64
	for _, p := range test {
		pred, _ := m.Predict(p.MaterialType, p.WeightKg)
		ssRes += (p.EmissionFactorPerKg - pred) * (p.EmissionFactorPerKg - pred)
		ssTot += (p.EmissionFactorPerKg - mean) * (p.EmissionFactorPerKg - mean)
	}

	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

// Predict returns the predicted factor for material at weightKg, clamped
// at zero. The boolean is false when material was not seen in training and
// the global mean factor was used.
func (m *Model) Predict(material string, weightKg float64) (float64, bool) {
	c, ok := m.coefficients[material]
	if !ok {
		return m.globalMean, false
	}
	return max(c.Predict(weightKg), 0), true
}

// Coefficients returns the fitted lines sorted by material type.
func (m *Model) Coefficients() []Coefficients {
	out := make([]Coefficients, 0, len(m.order))
	for _, material := range m.order {
		out = append(out, m.coefficients[material])
	}
	return out
}

// Apply returns a copy of c's products with predicted emission factors.
func (m *Model) Apply(c *catalog.Catalog) []catalog.Product {
	products := c.Products()
	for i := range products {
		products[i].EmissionFactorPerKg, _ = m.Predict(products[i].MaterialType, products[i].WeightKg)
	}
	return products
}
