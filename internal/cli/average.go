package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshade/ecosort/internal/engine"
	"github.com/rshade/ecosort/internal/greenops"
)

// AverageParams holds the flags of the average command.
type AverageParams struct {
	catalogFlags
	samplingFlags
	queryFlags

	Output string
}

// averageJSON is the machine-readable form of an average.
type averageJSON struct {
	MaterialType string   `json:"material_type"`
	WeightKg     *float64 `json:"weight_kg,omitempty"`
	Where        string   `json:"where,omitempty"`
	Count        int      `json:"count"`
	MeanKg       float64  `json:"mean_kg_co2e"`
	IsEmpty      bool     `json:"is_empty"`
	Equivalency  string   `json:"equivalency,omitempty"`
}

// NewAverageCmd creates the average command.
func NewAverageCmd() *cobra.Command {
	var params AverageParams

	cmd := &cobra.Command{
		Use:   "average",
		Short: "Average total emissions of the products matching a filter",
		Example: `  # Mean emissions of every steel product
  ecosort average --catalog products.csv --material Steel

  # Mean of 2 kg wood products, as JSON
  ecosort average --catalog products.csv --material Wood --weight 2 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeAverage(cmd, params)
		},
	}

	params.catalogFlags.register(cmd)
	params.samplingFlags.register(cmd)
	params.queryFlags.register(cmd)
	cmd.Flags().StringVar(&params.Output, "output", "", "output format: table or json (default: output.default_format)")

	return cmd
}

func executeAverage(cmd *cobra.Command, params AverageParams) error {
	ctx := cmd.Context()

	format, err := outputFormat(params.Output)
	if err != nil {
		return err
	}

	c, err := params.load(ctx)
	if err != nil {
		return err
	}
	ranker, err := newRanker(c, 0, params.Lenient)
	if err != nil {
		return err
	}
	sampler, err := params.sampler(cmd)
	if err != nil {
		return err
	}

	q := params.query(cmd)
	avg, err := ranker.Average(ctx, q, sampler)
	if err != nil {
		return err
	}

	if format == engine.OutputJSON || format == engine.OutputNDJSON {
		return renderAverageJSON(cmd.OutOrStdout(), q, avg)
	}
	return renderAverageText(cmd.OutOrStdout(), q, avg, outputUnit())
}

func renderAverageText(w io.Writer, q engine.Query, avg engine.AverageResult, unit string) error {
	if avg.IsEmpty {
		_, err := fmt.Fprintln(w, engine.NoResultsMessage)
		return err
	}

	scope := "all weights"
	if q.WeightKg != nil {
		scope = strconv.FormatFloat(*q.WeightKg, 'f', -1, 64) + " kg"
	}
	if _, err := fmt.Fprintf(w, "Average total emissions for %s (%s): %s over %d products\n",
		q.MaterialType, scope, greenops.FormatEmissions(avg.MeanKg, unit), avg.Count); err != nil {
		return err
	}
	if eq := greenops.Describe(avg.MeanKg); eq != "" {
		if _, err := fmt.Fprintln(w, eq); err != nil {
			return err
		}
	}
	return nil
}

func renderAverageJSON(w io.Writer, q engine.Query, avg engine.AverageResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(averageJSON{
		MaterialType: q.MaterialType,
		WeightKg:     q.WeightKg,
		Where:        q.Where,
		Count:        avg.Count,
		MeanKg:       avg.MeanKg,
		IsEmpty:      avg.IsEmpty,
		Equivalency:  greenops.Describe(avg.MeanKg),
	})
}
