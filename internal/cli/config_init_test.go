package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecosort/internal/config"
)

// TestConfigInit_Project verifies that "config init" inside a project writes
// .ecosort/config.yaml and .ecosort/.gitignore.
func TestConfigInit_Project(t *testing.T) {
	setupCLITest(t)
	projectRoot := t.TempDir()
	t.Setenv(config.EnvProjectDir, projectRoot)

	out, _, err := runCLI(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized at")
	assert.Contains(t, out, "Created .gitignore")

	_, err = os.Stat(filepath.Join(projectRoot, ".ecosort", "config.yaml"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(projectRoot, ".ecosort", ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, config.GitignoreContent(), string(data))
}

// TestConfigInit_ExistingGitignorePreserved verifies that --force never
// replaces a hand-written .gitignore.
func TestConfigInit_ExistingGitignorePreserved(t *testing.T) {
	setupCLITest(t)
	projectRoot := t.TempDir()
	t.Setenv(config.EnvProjectDir, projectRoot)

	dotDir := filepath.Join(projectRoot, ".ecosort")
	require.NoError(t, os.MkdirAll(dotDir, 0o750))
	custom := "# mine\n*.csv\n"
	require.NoError(t, os.WriteFile(filepath.Join(dotDir, ".gitignore"), []byte(custom), 0o600))

	out, _, err := runCLI(t, "config", "init", "--force")
	require.NoError(t, err)
	assert.NotContains(t, out, "Created .gitignore")

	data, err := os.ReadFile(filepath.Join(dotDir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
}

func TestConfigInit_Global(t *testing.T) {
	home := setupCLITest(t)

	out, _, err := runCLI(t, "config", "init", "--global")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized successfully")

	configPath := filepath.Join(home, "config.yaml")
	_, err = os.Stat(configPath)
	require.NoError(t, err)

	_, _, err = runCLI(t, "config", "init", "--global")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = runCLI(t, "config", "init", "--global", "--force")
	require.NoError(t, err)
}

func TestConfigShow_Layers(t *testing.T) {
	setupCLITest(t)
	projectRoot := t.TempDir()
	t.Setenv(config.EnvProjectDir, projectRoot)

	out, _, err := runCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "top_n: 10")

	dotDir := filepath.Join(projectRoot, ".ecosort")
	require.NoError(t, os.MkdirAll(dotDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dotDir, "config.yaml"),
		[]byte("ranking:\n  top_n: 3\n"), 0o600))

	out, _, err = runCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "top_n: 3")
	assert.Contains(t, out, "# project dir:")

	t.Setenv(config.EnvTopN, "4")
	out, _, err = runCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "top_n: 4")
}

func TestConfigFlag_OverridesTopN(t *testing.T) {
	setupCLITest(t)
	path := writeCatalog(t)

	override := filepath.Join(t.TempDir(), "override.yaml")
	require.NoError(t, os.WriteFile(override, []byte("ranking:\n  top_n: 1\n"), 0o600))

	out, _, err := runCLI(t, "--config", override, "rank", "--catalog", path, "--material", "Plastic", "--output", "json")
	require.NoError(t, err)

	doc := decodeRanking(t, out)
	assert.Len(t, doc.Products, 1)
	assert.Equal(t, 3, doc.Average.Count)

	_, _, err = runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--config")
}

func TestInvalidConfiguration(t *testing.T) {
	setupCLITest(t)
	t.Setenv(config.EnvSampler, "dice")
	path := writeCatalog(t)

	_, _, err := runCLI(t, "rank", "--catalog", path, "--material", "Plastic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	_, _, err = runCLI(t, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulation.sampler")

	out, _, err := runCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "sampler: dice")
}

func TestConfigValidate_Defaults(t *testing.T) {
	setupCLITest(t)

	out, _, err := runCLI(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
}
