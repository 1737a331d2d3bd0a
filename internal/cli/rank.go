package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshade/ecosort/internal/catalog"
	"github.com/rshade/ecosort/internal/engine"
	"github.com/rshade/ecosort/internal/tui"
)

// RankParams holds the flags of the rank command.
type RankParams struct {
	catalogFlags
	samplingFlags
	queryFlags

	Top    int
	Output string
}

// NewRankCmd creates the rank command, which prints the lowest-emission
// products of a material type.
func NewRankCmd() *cobra.Command {
	var params RankParams

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank products of a material type by total emissions",
		Long: `Scores every product of the material type (optionally with an exact weight)
by production emissions plus a simulated logistics leg, and prints the N products
with the lowest total emissions together with the average over all matches.`,
		Example: `  # Ten lowest-emission plastic products
  ecosort rank --catalog products.csv --material Plastic

  # Only 1.4 kg products, five results, as cards
  ecosort rank --catalog products.csv --material Plastic --weight 1.4 --top 5 --output cards

  # Same distances on every run
  ecosort rank --catalog products.csv --material Glass --sampler keyed --seed 7 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeRank(cmd, params)
		},
	}

	params.catalogFlags.register(cmd)
	params.samplingFlags.register(cmd)
	params.queryFlags.register(cmd)
	cmd.Flags().IntVar(&params.Top, "top", 0, "number of products to show (default: ranking.top_n)")
	cmd.Flags().StringVar(&params.Output, "output", "",
		"output format: table, json, ndjson or cards (default: output.default_format)")

	return cmd
}

func executeRank(cmd *cobra.Command, params RankParams) error {
	ctx := cmd.Context()

	format, err := outputFormat(params.Output)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("top") && params.Top <= 0 {
		return catalog.NewInvalidInput("top", strconv.Itoa(params.Top), "must be positive")
	}

	c, err := params.load(ctx)
	if err != nil {
		return err
	}
	ranker, err := newRanker(c, params.Top, params.Lenient)
	if err != nil {
		return err
	}
	sampler, err := params.sampler(cmd)
	if err != nil {
		return err
	}

	res, err := ranker.Evaluate(ctx, params.query(cmd), sampler)
	if err != nil {
		return err
	}

	logger.Debug().Ctx(ctx).
		Str("operation", "rank").
		Int("returned", len(res.Top)).
		Int("matched", res.Average.Count).
		Msg("ranking rendered")

	if format == engine.OutputCards {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), tui.RenderCards(res, outputUnit()))
		return err
	}
	return engine.RenderResult(cmd.OutOrStdout(), res, format, outputUnit())
}
