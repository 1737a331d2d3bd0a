package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecosort/internal/config"
)

func TestResolveProjectDir_Flag(t *testing.T) {
	isolate(t)
	t.Setenv(config.EnvProjectDir, t.TempDir())
	flagDir := t.TempDir()

	got := config.ResolveProjectDir(context.Background(), flagDir, "/does/not/matter")
	assert.Equal(t, filepath.Join(flagDir, ".ecosort"), got)
}

func TestResolveProjectDir_Env(t *testing.T) {
	isolate(t)
	envDir := t.TempDir()
	t.Setenv(config.EnvProjectDir, envDir)

	got := config.ResolveProjectDir(context.Background(), "", "/does/not/matter")
	assert.Equal(t, filepath.Join(envDir, ".ecosort"), got)
	assert.True(t, filepath.IsAbs(got))
}

func TestResolveProjectDir_NoDoubleAppend(t *testing.T) {
	isolate(t)
	dir := filepath.Join(t.TempDir(), ".ecosort")

	got := config.ResolveProjectDir(context.Background(), dir, "")
	assert.Equal(t, dir, got)
}

func TestResolveProjectDir_WalkUp(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".ecosort", "config.yaml"), "ranking:\n  top_n: 4\n")
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o750))

	got := config.ResolveProjectDir(context.Background(), "", sub)
	assert.Equal(t, filepath.Join(root, ".ecosort"), got)
}

func TestFindProjectRoot_NoProject(t *testing.T) {
	isolate(t)
	_, err := config.FindProjectRoot(t.TempDir())
	require.ErrorIs(t, err, config.ErrNoProject)
}

func TestFindProjectRoot_SkipsGlobalDir(t *testing.T) {
	parent := t.TempDir()
	home := filepath.Join(parent, ".ecosort")
	t.Setenv(config.EnvHome, home)
	writeFile(t, filepath.Join(home, "config.yaml"), "ranking:\n  top_n: 4\n")

	_, err := config.FindProjectRoot(parent)
	require.ErrorIs(t, err, config.ErrNoProject)
}

func TestNewWithProjectDir(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config.yaml"), `
ranking:
  top_n: 5
output:
  default_format: json
  unit: t
`)
	projectDir := filepath.Join(t.TempDir(), ".ecosort")
	writeFile(t, filepath.Join(projectDir, "config.yaml"), `
output:
  default_format: ndjson
`)
	t.Setenv(config.EnvTopN, "2")

	cfg := config.NewWithProjectDir(context.Background(), projectDir)

	assert.Equal(t, "ndjson", cfg.Output.DefaultFormat)
	// The overlay replaces the whole section, so unit returns to the default.
	assert.Equal(t, "kg", cfg.Output.Unit)
	// The environment still wins over both files.
	assert.Equal(t, 2, cfg.Ranking.TopN)
}

func TestNewWithProjectDir_MissingOrBrokenOverlay(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config.yaml"), "ranking:\n  top_n: 5\n")

	cfg := config.NewWithProjectDir(context.Background(), filepath.Join(t.TempDir(), ".ecosort"))
	assert.Equal(t, 5, cfg.Ranking.TopN)

	broken := filepath.Join(t.TempDir(), ".ecosort")
	writeFile(t, filepath.Join(broken, "config.yaml"), "ranking: [")
	cfg = config.NewWithProjectDir(context.Background(), broken)
	assert.Equal(t, 5, cfg.Ranking.TopN)
}

func TestResolvedProjectDir(t *testing.T) {
	t.Cleanup(func() { config.SetResolvedProjectDir("") })
	config.SetResolvedProjectDir("/tmp/project/.ecosort")
	assert.Equal(t, "/tmp/project/.ecosort", config.GetResolvedProjectDir())
}
