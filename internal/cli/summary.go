package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/rshade/ecosort/internal/engine"
)

// SummaryParams holds the flags of the summary command.
type SummaryParams struct {
	catalogFlags
	samplingFlags

	Weight float64
	Output string
}

// NewSummaryCmd creates the summary command, which reports every material
// type of the catalog side by side.
func NewSummaryCmd() *cobra.Command {
	var params SummaryParams

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Per-material product count, average emissions and lowest-emission product",
		Example: `  # Compare every material
  ecosort summary --catalog products.csv

  # Compare materials at one weight
  ecosort summary --catalog products.csv --weight 1.6 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeSummary(cmd, params)
		},
	}

	params.catalogFlags.register(cmd)
	params.samplingFlags.register(cmd)
	cmd.Flags().Float64Var(&params.Weight, "weight", 0, "only products with exactly this weight in kg")
	cmd.Flags().StringVar(&params.Output, "output", "", "output format: table or json (default: output.default_format)")

	return cmd
}

func executeSummary(cmd *cobra.Command, params SummaryParams) error {
	ctx := cmd.Context()

	format, err := outputFormat(params.Output)
	if err != nil {
		return err
	}

	c, err := params.load(ctx)
	if err != nil {
		return err
	}
	ranker, err := newRanker(c, 0, true)
	if err != nil {
		return err
	}

	kind, seed := params.resolve(cmd)
	opts := engine.SummaryOptions{Sampler: kind, Seed: seed}
	if cmd.Flags().Changed("weight") {
		opts.WeightKg = engine.Weight(params.Weight)
	}

	summaries, err := ranker.Summarize(ctx, opts)
	if err != nil {
		return err
	}

	if format == engine.OutputJSON || format == engine.OutputNDJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(summaries)
	}
	return engine.RenderSummaryTable(cmd.OutOrStdout(), summaries, outputUnit())
}
