package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/ecosort/internal/config"
)

// NewConfigShowCmd creates the config show command, which prints the
// effective configuration after every layer has been applied.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "show",
		Short:       "Print the effective configuration",
		Annotations: map[string]string{annotationSkipValidation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}

			cmd.Printf("# global file: %s\n", cfg.ConfigPath())
			if dir := config.GetResolvedProjectDir(); dir != "" {
				cmd.Printf("# project dir: %s\n", dir)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
