package cli_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecosort/internal/catalog"
	"github.com/rshade/ecosort/internal/cli"
	"github.com/rshade/ecosort/internal/engine"
	"github.com/rshade/ecosort/internal/factormodel"
	"github.com/rshade/ecosort/internal/tui"
)

func TestAverage(t *testing.T) {
	setupCLITest(t)
	path := writeCatalog(t)

	out, _, err := runCLI(t, "average", "--catalog", path, "--material", "Plastic")
	require.NoError(t, err)
	assert.Contains(t, out, "Average total emissions for Plastic (all weights):")
	assert.Contains(t, out, "over 3 products")

	out, _, err = runCLI(t, "average", "--catalog", path, "--material", "Metal", "--weight", "2", "--output", "json")
	require.NoError(t, err)

	var doc struct {
		MaterialType string   `json:"material_type"`
		WeightKg     *float64 `json:"weight_kg"`
		Count        int      `json:"count"`
		MeanKg       float64  `json:"mean_kg_co2e"`
		IsEmpty      bool     `json:"is_empty"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Metal", doc.MaterialType)
	require.NotNil(t, doc.WeightKg)
	assert.InDelta(t, 2.0, *doc.WeightKg, 1e-9)
	assert.Equal(t, 1, doc.Count)
	assert.Greater(t, doc.MeanKg, 2.0*1.8)
	assert.False(t, doc.IsEmpty)
}

func TestAverage_Empty(t *testing.T) {
	setupCLITest(t)
	path := writeCatalog(t)

	out, _, err := runCLI(t, "average", "--catalog", path, "--material", "Wood", "--weight", "1.0")
	require.NoError(t, err)
	assert.Contains(t, out, engine.NoResultsMessage)
}

func TestCategories(t *testing.T) {
	setupCLITest(t)
	path := writeCatalog(t)

	out, _, err := runCLI(t, "categories", "--catalog", path)
	require.NoError(t, err)
	assert.Contains(t, out, "MATERIAL TYPE")
	assert.Contains(t, out, "1, 1.2, 1.4")

	out, _, err = runCLI(t, "categories", "--catalog", path, "--output", "json")
	require.NoError(t, err)

	var infos []cli.CategoryInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	assert.Equal(t, []cli.CategoryInfo{
		{MaterialType: "Plastic", Products: 3, WeightsKg: []float64{1.0, 1.2, 1.4}},
		{MaterialType: "Metal", Products: 2, WeightsKg: []float64{1.2, 2.0}},
		{MaterialType: "Wood", Products: 1, WeightsKg: []float64{1.6}},
	}, infos)
}

func TestSummary(t *testing.T) {
	setupCLITest(t)
	path := writeCatalog(t)

	out, _, err := runCLI(t, "summary", "--catalog", path)
	require.NoError(t, err)
	for _, m := range []string{"Plastic", "Metal", "Wood"} {
		assert.Contains(t, out, m)
	}

	out, _, err = runCLI(t, "summary", "--catalog", path, "--weight", "1.2", "--output", "json")
	require.NoError(t, err)

	var summaries []engine.MaterialSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	require.Len(t, summaries, 3)

	assert.Equal(t, "Plastic", summaries[0].MaterialType)
	assert.Equal(t, 1, summaries[0].Average.Count)
	require.NotNil(t, summaries[0].Lowest)
	assert.Equal(t, "Consumer Goods", summaries[0].Lowest.Industry)

	assert.Equal(t, "Wood", summaries[2].MaterialType)
	assert.True(t, summaries[2].Average.IsEmpty)
	assert.Nil(t, summaries[2].Lowest)
}

func TestCatalogGenerate(t *testing.T) {
	setupCLITest(t)
	out := filepath.Join(t.TempDir(), "generated.csv")

	stdout, _, err := runCLI(t, "catalog", "generate", "--rows", "12", "--seed", "3", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote 12 products")

	c, err := catalog.Load(t.Context(), out)
	require.NoError(t, err)
	assert.Equal(t, 12, c.Len())

	first, _, err := runCLI(t, "catalog", "generate", "--rows", "12", "--seed", "3")
	require.NoError(t, err)
	second, _, err := runCLI(t, "catalog", "generate", "--rows", "12", "--seed", "3")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, strings.Join(catalog.RequiredColumns(), ",")), first)

	_, _, err = runCLI(t, "catalog", "generate", "--rows", "0")
	require.ErrorIs(t, err, catalog.ErrInvalidRowCount)
}

func TestTrain(t *testing.T) {
	setupCLITest(t)

	products, err := catalog.Generate(catalog.GenerateOptions{Rows: 120, Seed: 5})
	require.NoError(t, err)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	require.NoError(t, catalog.WriteCSVFile(in, products))
	predicted := filepath.Join(dir, "predicted.csv")

	out, _, err := runCLI(t, "train", "--catalog", in, "--out", predicted)
	require.NoError(t, err)
	assert.Contains(t, out, "R²:")
	assert.Contains(t, out, "INTERCEPT")
	assert.Contains(t, out, "Wrote 120 products")

	c, err := catalog.Load(t.Context(), predicted)
	require.NoError(t, err)
	assert.Equal(t, 120, c.Len())
	for _, p := range c.Products() {
		assert.GreaterOrEqual(t, p.EmissionFactorPerKg, 0.0)
	}

	out, _, err = runCLI(t, "train", "--catalog", in, "--output", "json")
	require.NoError(t, err)
	var report struct {
		Evaluation struct {
			TrainRows int  `json:"train_rows"`
			TestRows  int  `json:"test_rows"`
			Scored    bool `json:"scored"`
		} `json:"evaluation"`
		Coefficients []json.RawMessage `json:"coefficients"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 120, report.Evaluation.TrainRows+report.Evaluation.TestRows)
	assert.True(t, report.Evaluation.Scored)
	assert.NotEmpty(t, report.Coefficients)

	_, _, err = runCLI(t, "train", "--catalog", in, "--test-fraction", "1.5")
	require.Error(t, err)
}

func TestBrowse_RequiresTerminal(t *testing.T) {
	if tui.IsTerminal(os.Stdin) && tui.IsTerminal(os.Stdout) {
		t.Skip("running attached to a terminal")
	}
	setupCLITest(t)

	_, _, err := runCLI(t, "browse", "--catalog", writeCatalog(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

func TestVersion(t *testing.T) {
	setupCLITest(t)

	out, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ecosort test")
	assert.Contains(t, out, "commit:")
}

func TestOutputFlag_RejectsUnknownFormat(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "rank", args: []string{"rank", "--material", "Plastic"}},
		{name: "average", args: []string{"average", "--material", "Plastic"}},
		{name: "categories", args: []string{"categories"}},
		{name: "summary", args: []string{"summary"}},
		{name: "train", args: []string{"train"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)
			args := append(tt.args, "--catalog", writeCatalog(t), "--output", "xml")

			out, _, err := runCLI(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "--output must be one of")
			assert.Empty(t, out)
		})
	}
}

func TestOutputUnit_AppliesToTables(t *testing.T) {
	setupCLITest(t)
	path := writeCatalog(t)
	override := filepath.Join(t.TempDir(), "grams.yaml")
	require.NoError(t, os.WriteFile(override, []byte("output:\n  unit: g\n"), 0o600))

	out, _, err := runCLI(t, "--config", override, "rank", "--catalog", path, "--material", "Plastic")
	require.NoError(t, err)
	assert.Contains(t, out, "TOTAL (G CO2E)")
	assert.Contains(t, out, "g CO2e")

	out, _, err = runCLI(t, "--config", override, "summary", "--catalog", path)
	require.NoError(t, err)
	assert.Contains(t, out, "AVERAGE (G CO2E)")

	out, _, err = runCLI(t, "--config", override, "rank", "--catalog", path, "--material", "Plastic", "--output", "json")
	require.NoError(t, err)
	doc := decodeRanking(t, out)
	require.NotEmpty(t, doc.Products)
	assert.Less(t, doc.Products[0].TotalEmissions, 10.0, "JSON stays in kg")
}

func TestTrain_FlagDefaults(t *testing.T) {
	cmd := cli.NewTrainCmd()
	defaults := factormodel.DefaultOptions()

	assert.Equal(t, strconv.FormatUint(defaults.Seed, 10), cmd.Flags().Lookup("seed").DefValue)
	assert.Equal(t, strconv.FormatFloat(defaults.TestFraction, 'g', -1, 64), cmd.Flags().Lookup("test-fraction").DefValue)
}

// TestHelpExamples_UseGeneratedMaterials keeps every --material in the help
// text runnable against a catalog from "catalog generate".
func TestHelpExamples_UseGeneratedMaterials(t *testing.T) {
	products, err := catalog.Generate(catalog.GenerateOptions{Rows: catalog.DefaultGenerateRows, Seed: 1})
	require.NoError(t, err)
	generated := catalog.New("generated", products)

	materialFlag := regexp.MustCompile(`--material (\S+)`)
	var walk func(c *cobra.Command)
	seen := 0
	walk = func(c *cobra.Command) {
		for _, m := range materialFlag.FindAllStringSubmatch(c.Example, -1) {
			seen++
			assert.True(t, generated.HasMaterialType(m[1]), "%s example uses %q", c.CommandPath(), m[1])
		}
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(cli.NewRootCmd("test"))
	assert.Positive(t, seen)
}
