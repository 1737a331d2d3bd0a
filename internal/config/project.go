package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rshade/ecosort/internal/logging"
)

// ErrNoProject is returned by FindProjectRoot when no directory above the
// start directory has a .ecosort/config.yaml.
var ErrNoProject = errors.New("no ecosort project found")

//nolint:gochecknoglobals // Set once at startup, read by config loaders.
var (
	resolvedProjectDir   string
	resolvedProjectDirMu sync.RWMutex
)

// SetResolvedProjectDir stores the project .ecosort directory for the
// current invocation.
func SetResolvedProjectDir(dir string) {
	resolvedProjectDirMu.Lock()
	defer resolvedProjectDirMu.Unlock()
	resolvedProjectDir = dir
}

// GetResolvedProjectDir returns the stored project .ecosort directory.
func GetResolvedProjectDir() string {
	resolvedProjectDirMu.RLock()
	defer resolvedProjectDirMu.RUnlock()
	return resolvedProjectDir
}

// ResolveProjectDir determines the project-local .ecosort directory from,
// in order: flagValue, $ECOSORT_PROJECT_DIR, then a walk up from startDir.
// It returns an absolute path, or "" when there is no project. Nothing is
// created.
func ResolveProjectDir(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbsProjectDir(ctx, flagValue)
	}
	if envDir := os.Getenv(EnvProjectDir); envDir != "" {
		return toAbsProjectDir(ctx, envDir)
	}

	root, err := FindProjectRoot(startDir)
	if err != nil {
		if !errors.Is(err, ErrNoProject) {
			logging.FromContext(ctx).Warn().
				Ctx(ctx).
				Str("component", "config").
				Err(err).
				Str("start_dir", startDir).
				Msg("unexpected error during project discovery")
		}
		return ""
	}
	return toAbsProjectDir(ctx, root)
}

// FindProjectRoot walks up from dir to the first directory containing
// .ecosort/config.yaml. The global config directory does not count as a
// project.
func FindProjectRoot(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}

	global, _ := filepath.Abs(ResolveConfigDir())

	for {
		candidate := filepath.Join(current, configDirName)
		if candidate != global {
			if _, statErr := os.Stat(filepath.Join(candidate, configFileName)); statErr == nil {
				return current, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrNoProject
		}
		current = parent
	}
}

// NewWithProjectDir loads the global configuration, overlays
// projectDir/config.yaml when it exists, then applies the environment.
// A broken overlay is logged and skipped.
func NewWithProjectDir(ctx context.Context, projectDir string) *Config {
	cfg := New()
	if projectDir == "" {
		return cfg
	}

	overlayPath := filepath.Join(projectDir, configFileName)
	if _, err := os.Stat(overlayPath); err != nil {
		return cfg
	}

	merged := *cfg
	if err := ShallowMergeYAML(&merged, overlayPath); err != nil {
		logging.FromContext(ctx).Warn().
			Ctx(ctx).
			Str("component", "config").
			Str("operation", "merge_project_config").
			Err(err).
			Str("overlay_path", overlayPath).
			Msg("failed to merge project config, using global configuration")
		return cfg
	}

	merged.ApplyEnvOverrides()
	return &merged
}

// toAbsProjectDir makes dir absolute and appends .ecosort unless it is
// already the .ecosort directory.
func toAbsProjectDir(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Ctx(ctx).
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		abs = dir
	}
	if filepath.Base(abs) == configDirName {
		return abs
	}
	return filepath.Join(abs, configDirName)
}
