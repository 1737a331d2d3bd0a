package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/ecosort/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
// Inside a project (an existing .ecosort directory or --project-dir) it writes
// the project overlay and a .gitignore; otherwise, or with --global, it writes
// the global ~/.ecosort/config.yaml.
func NewConfigInitCmd() *cobra.Command {
	var (
		force  bool
		global bool
	)

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Initialize configuration file with default values",
		Annotations: map[string]string{annotationSkipValidation: "true"},
		Example: `  # Create the global configuration
  ecosort config init

  # Create a project overlay in ./.ecosort
  ecosort config init --project-dir .

  # Overwrite an existing file
  ecosort config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projectDir := config.GetResolvedProjectDir()
			if projectDir != "" && !global {
				return initProjectConfig(cmd, projectDir, force)
			}
			return initGlobalConfig(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&global, "global", false, "write the global configuration even inside a project")

	return cmd
}

// checkWritable refuses to clobber an existing file unless force is set.
func checkWritable(path string, force bool) error {
	if force {
		return nil
	}
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return errors.New("configuration file already exists, use --force to overwrite")
	case !os.IsNotExist(err):
		return fmt.Errorf("cannot access config path %s: %w", path, err)
	default:
		return nil
	}
}

// initProjectConfig writes projectDir/config.yaml and a .gitignore next to it.
func initProjectConfig(cmd *cobra.Command, projectDir string, force bool) error {
	configPath := filepath.Join(projectDir, "config.yaml")
	if err := checkWritable(configPath, force); err != nil {
		return err
	}
	if err := os.MkdirAll(projectDir, 0o750); err != nil {
		return fmt.Errorf("failed to create project config directory: %w", err)
	}

	cfg := config.New()
	cfg.SetConfigPath(configPath)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	created, err := config.EnsureGitignore(projectDir)
	if err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", configPath)
	if created {
		cmd.Printf("Created .gitignore to keep logs and generated catalogs out of version control\n")
	}
	return nil
}

// initGlobalConfig writes the global configuration file.
func initGlobalConfig(cmd *cobra.Command, force bool) error {
	cfg := config.New()
	if err := checkWritable(cfg.ConfigPath(), force); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", cfg.ConfigPath())
	return nil
}
