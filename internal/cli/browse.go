package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/ecosort/internal/tui"
)

// errNotInteractive is returned when browse is started without a terminal.
var errNotInteractive = errors.New("browse needs an interactive terminal; use rank or average instead")

// NewBrowseCmd creates the browse command, an interactive picker over the
// catalog's materials and weights.
func NewBrowseCmd() *cobra.Command {
	var (
		cat      catalogFlags
		sampling samplingFlags
		top      int
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Pick a material and weight interactively and view ranked cards",
		Long: `Opens a terminal UI: choose a material type, then a weight (or "All"),
then read the ranked products as cards with the average of the selection.
Keys: enter selects, esc goes back, r re-draws distances with a new seed, q quits.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !tui.IsTerminal(os.Stdin) || !tui.IsTerminal(os.Stdout) {
				return errNotInteractive
			}

			ctx := cmd.Context()
			c, err := cat.load(ctx)
			if err != nil {
				return err
			}
			ranker, err := newRanker(c, top, false)
			if err != nil {
				return err
			}
			kind, seed := sampling.resolve(cmd)

			model := tui.NewBrowseModel(ctx, ranker, tui.BrowseOptions{Sampler: kind, Seed: seed, Unit: outputUnit()})
			p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
			if _, err = p.Run(); err != nil {
				return fmt.Errorf("running browser: %w", err)
			}
			return nil
		},
	}

	cat.register(cmd)
	sampling.register(cmd)
	cmd.Flags().IntVar(&top, "top", 0, "number of products per ranking (default: ranking.top_n)")

	return cmd
}
