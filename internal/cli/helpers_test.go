package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rshade/ecosort/internal/cli"
	"github.com/rshade/ecosort/internal/config"
)

const testCatalogCSV = `Industry,Material Type,Weight (kg),Emission Factor per kg (CO2e),Transport Mode
Packaging,Plastic,1.0,0.1,land
Consumer Goods,Plastic,1.2,0.2,road
Automotive,Plastic,1.4,0.05,sea
Construction,Metal,2.0,1.8,air
Electronics,Metal,1.2,2.1,land
Furniture,Wood,1.6,0.3,sea
`

// setupCLITest isolates the global and project configuration and quiets
// logging. It returns the ECOSORT_HOME directory.
func setupCLITest(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvProjectDir, t.TempDir())
	t.Setenv(config.EnvLogLevel, "error")
	for _, env := range []string{
		config.EnvCatalog, config.EnvTopN, config.EnvSeed,
		config.EnvSampler, config.EnvOutput, config.EnvLogFormat,
	} {
		t.Setenv(env, "")
	}

	t.Cleanup(func() {
		config.ResetGlobalConfigForTest()
		config.SetResolvedProjectDir("")
	})
	return home
}

// writeCatalog writes testCatalogCSV to a temp file and returns its path.
func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogCSV), 0o600))
	return path
}

// runCLI executes the root command with args and returns stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
