package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/ecosort/internal/catalog"
	"github.com/rshade/ecosort/internal/engine"
)

// CategoryInfo describes one material type of a catalog.
type CategoryInfo struct {
	MaterialType string    `json:"material_type"`
	Products     int       `json:"products"`
	WeightsKg    []float64 `json:"weights_kg"`
}

// NewCategoriesCmd creates the categories command, which lists the material
// types of a catalog together with their product counts and weights.
func NewCategoriesCmd() *cobra.Command {
	var (
		cat    catalogFlags
		output string
	)

	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"materials"},
		Short:   "List material types with product counts and available weights",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(output)
			if err != nil {
				return err
			}
			c, err := cat.load(cmd.Context())
			if err != nil {
				return err
			}
			infos := Categories(c)

			if format == engine.OutputJSON || format == engine.OutputNDJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(infos)
			}
			return renderCategories(cmd.OutOrStdout(), infos)
		},
	}

	cat.register(cmd)
	cmd.Flags().StringVar(&output, "output", "", "output format: table or json (default: output.default_format)")

	return cmd
}

// Categories summarizes c per material type, in first-seen order.
func Categories(c *catalog.Catalog) []CategoryInfo {
	materials := c.MaterialTypes()
	infos := make([]CategoryInfo, 0, len(materials))
	for _, m := range materials {
		infos = append(infos, CategoryInfo{
			MaterialType: m,
			Products:     c.Count(m),
			WeightsKg:    c.Weights(m),
		})
	}
	return infos
}

func renderCategories(w io.Writer, infos []CategoryInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "MATERIAL TYPE\tPRODUCTS\tWEIGHTS (KG)"); err != nil {
		return err
	}
	for _, info := range infos {
		weights := make([]string, 0, len(info.WeightsKg))
		for _, wkg := range info.WeightsKg {
			weights = append(weights, strconv.FormatFloat(wkg, 'f', -1, 64))
		}
		if _, err := fmt.Fprintf(tw, "%s\t%d\t%s\n",
			info.MaterialType, info.Products, strings.Join(weights, ", ")); err != nil {
			return err
		}
	}
	return tw.Flush()
}
