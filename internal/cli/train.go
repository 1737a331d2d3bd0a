package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/ecosort/internal/catalog"
	"github.com/rshade/ecosort/internal/engine"
	"github.com/rshade/ecosort/internal/factormodel"
)

// TrainParams holds the flags of the train command.
type TrainParams struct {
	catalogFlags

	Out          string
	Seed         uint64
	TestFraction float64
	Output       string
}

// trainJSON is the machine-readable training report.
type trainJSON struct {
	Evaluation   factormodel.Evaluation     `json:"evaluation"`
	Coefficients []factormodel.Coefficients `json:"coefficients"`
	Written      string                     `json:"written,omitempty"`
}

// NewTrainCmd creates the train command, which fits per-material emission
// factor lines and optionally writes a catalog with predicted factors.
func NewTrainCmd() *cobra.Command {
	var params TrainParams
	defaults := factormodel.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit emission factors against weight per material type",
		Long: `Fits factor = intercept + slope * weight for every material type on a shuffled
training split, scores R² on the held-out rows, and prints the coefficients.
With --out, writes a copy of the catalog whose emission factors are the
model's predictions.`,
		Example: `  # Fit and score with the default 20% test split
  ecosort train --catalog products.csv

  # Fit on every row and write the smoothed catalog
  ecosort train --catalog products.csv --test-fraction 0 --out smoothed.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeTrain(cmd, params)
		},
	}

	params.catalogFlags.register(cmd)
	cmd.Flags().StringVar(&params.Out, "out", "", "write the catalog with predicted emission factors to this CSV file")
	cmd.Flags().Uint64Var(&params.Seed, "seed", defaults.Seed, "train/test shuffle seed")
	cmd.Flags().Float64Var(&params.TestFraction, "test-fraction", defaults.TestFraction,
		"share of rows held out for scoring, in [0, 1)")
	cmd.Flags().StringVar(&params.Output, "output", "", "output format: table or json (default: output.default_format)")

	return cmd
}

func executeTrain(cmd *cobra.Command, params TrainParams) error {
	ctx := cmd.Context()

	format, err := outputFormat(params.Output)
	if err != nil {
		return err
	}

	c, err := params.load(ctx)
	if err != nil {
		return err
	}

	model, eval, err := factormodel.Train(ctx, c, factormodel.Options{
		Seed:         params.Seed,
		TestFraction: params.TestFraction,
	})
	if err != nil {
		return fmt.Errorf("training: %w", err)
	}

	if params.Out != "" {
		if err = catalog.WriteCSVFile(params.Out, model.Apply(c)); err != nil {
			return err
		}
	}

	if format == engine.OutputJSON || format == engine.OutputNDJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(trainJSON{Evaluation: eval, Coefficients: model.Coefficients(), Written: params.Out})
	}

	if err = renderTraining(cmd.OutOrStdout(), eval, model.Coefficients()); err != nil {
		return err
	}
	if params.Out != "" {
		cmd.Printf("Wrote %d products with predicted factors to %s\n", c.Len(), params.Out)
	}
	return nil
}

func renderTraining(w io.Writer, eval factormodel.Evaluation, coefficients []factormodel.Coefficients) error {
	r2 := "n/a (no test rows)"
	if eval.Scored {
		r2 = strconv.FormatFloat(eval.R2, 'f', 4, 64)
	}
	if _, err := fmt.Fprintf(w, "Trained on %d rows, tested on %d rows, R²: %s\n\n",
		eval.TrainRows, eval.TestRows, r2); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "MATERIAL TYPE\tINTERCEPT\tSLOPE\tSAMPLES\tFIT"); err != nil {
		return err
	}
	for _, co := range coefficients {
		fit := "line"
		if co.MeanOnly {
			fit = "mean"
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", co.MaterialType,
			strconv.FormatFloat(co.Intercept, 'f', 4, 64),
			strconv.FormatFloat(co.Slope, 'f', 4, 64),
			co.Samples, fit); err != nil {
			return err
		}
	}
	return tw.Flush()
}
