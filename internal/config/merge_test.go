package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecosort/internal/config"
)

func newTarget() *config.Config {
	return &config.Config{
		Catalog:    config.CatalogConfig{Path: "global.csv"},
		Ranking:    config.RankingConfig{TopN: 5, LenientMaterials: true},
		Simulation: config.SimulationConfig{Sampler: "keyed", Seed: 9},
		Output:     config.OutputConfig{DefaultFormat: "json", Unit: "t"},
		Logging:    config.LoggingConfig{Level: "info", Format: "text"},
	}
}

func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	return writeFile(t, filepath.Join(t.TempDir(), "overlay.yaml"), content)
}

func TestShallowMergeYAML_ReplacesPresentSections(t *testing.T) {
	target := newTarget()
	overlay := writeOverlay(t, `
ranking:
  top_n: 3
requires: ">= 0.1.0"
unknown_section:
  key: value
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, 3, target.Ranking.TopN)
	assert.False(t, target.Ranking.LenientMaterials, "omitted field takes the default")
	assert.Equal(t, ">= 0.1.0", target.Requires)

	assert.Equal(t, "global.csv", target.Catalog.Path)
	assert.Equal(t, "keyed", target.Simulation.Sampler)
	assert.Equal(t, "json", target.Output.DefaultFormat)
	assert.Equal(t, "info", target.Logging.Level)
}

func TestShallowMergeYAML_PartialSectionUsesDefaults(t *testing.T) {
	target := newTarget()
	overlay := writeOverlay(t, "simulation:\n  seed: 123\n")

	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Equal(t, uint64(123), target.Simulation.Seed)
	assert.Equal(t, "random", target.Simulation.Sampler)
}

func TestShallowMergeYAML_EmptyAndCommentOnly(t *testing.T) {
	for _, content := range []string{"", "# nothing here\n"} {
		target := newTarget()
		require.NoError(t, config.ShallowMergeYAML(target, writeOverlay(t, content)))
		assert.Equal(t, newTarget(), target)
	}
}

func TestShallowMergeYAML_Errors(t *testing.T) {
	require.Error(t, config.ShallowMergeYAML(nil, "whatever.yaml"))
	require.Error(t, config.ShallowMergeYAML(newTarget(), filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, config.ShallowMergeYAML(newTarget(), writeOverlay(t, "ranking: [")))
	require.Error(t, config.ShallowMergeYAML(newTarget(), writeOverlay(t, "ranking:\n  top_n: many\n")))
}
