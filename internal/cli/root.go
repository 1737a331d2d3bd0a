package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/ecosort/internal/config"
	"github.com/rshade/ecosort/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// annotationSkipValidation marks commands that must run against a broken
// configuration (for example to repair it).
const annotationSkipValidation = "ecosort/skip-validation"

// NewRootCmd creates the root Cobra command for the ecosort CLI.
// It resolves configuration (global file, project overlay, --config file,
// environment), wires up logging and tracing, and registers the subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult  *logging.LogPathResult
		configFile string
		projectDir string
	)

	cmd := &cobra.Command{
		Use:           "ecosort",
		Short:         "Rank consumer products by production and logistics emissions",
		Long:          "EcoSort: estimate and rank products by CO2e for a material type and optional weight",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd, projectDir, configFile); err != nil {
				return err
			}

			result := setupLogging(cmd)
			logResult = &result

			if cmd.Annotations[annotationSkipValidation] == "" {
				if err := config.GetGlobalConfig().Validate(); err != nil {
					return fmt.Errorf("invalid configuration: %w", err)
				}
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&configFile, "config", "",
		"configuration file merged over the global and project configuration")
	cmd.PersistentFlags().StringVar(&projectDir, "project-dir", "",
		"project directory holding .ecosort/config.yaml (default: discovered from the working directory)")

	cmd.AddCommand(
		NewRankCmd(), NewAverageCmd(), NewCategoriesCmd(), NewSummaryCmd(),
		newCatalogCmd(), NewTrainCmd(), NewBrowseCmd(), newConfigCmd(),
		NewVersionCmd(ver),
	)

	return cmd
}

// loadConfig resolves the effective configuration for this invocation and
// installs it as the global configuration.
func loadConfig(cmd *cobra.Command, projectFlag, configFile string) error {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	projectDir := config.ResolveProjectDir(ctx, projectFlag, cwd)
	config.SetResolvedProjectDir(projectDir)

	cfg := config.NewWithProjectDir(ctx, projectDir)
	if configFile != "" {
		if _, err = os.Stat(configFile); err != nil {
			return fmt.Errorf("reading --config: %w", err)
		}
		if err = config.ShallowMergeYAML(cfg, configFile); err != nil {
			return fmt.Errorf("loading --config %s: %w", configFile, err)
		}
		cfg.ApplyEnvOverrides()
	}

	config.SetGlobalConfig(cfg)
	return nil
}

const rootCmdExample = `  # Generate a synthetic catalog to play with
  ecosort catalog generate --rows 500 --out products.csv

  # Top 10 plastic products at any weight
  ecosort rank --catalog products.csv --material Plastic

  # Top 5 1.2 kg paper products as JSON, reproducible distances
  ecosort rank --catalog products.csv --material Paper --weight 1.2 --top 5 --sampler keyed --output json

  # Narrow the candidates further with an expression
  ecosort rank --catalog products.csv --material Aluminium --where 'industry == "Electronics" && transport_mode != "air"'

  # Average emissions and an everyday equivalent
  ecosort average --catalog products.csv --material Wood

  # Pick interactively
  ecosort browse --catalog products.csv`

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigValidateCmd())
	return cmd
}

// newCatalogCmd creates the catalog command group.
func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "catalog", Short: "Catalog utilities"}
	cmd.AddCommand(NewCatalogGenerateCmd())
	return cmd
}
