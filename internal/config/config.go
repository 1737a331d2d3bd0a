// Package config loads EcoSort settings from defaults, the global config
// file, an optional project overlay and ECOSORT_* environment variables, in
// that order of increasing precedence. CLI flags are applied last by the
// cli package.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/rshade/ecosort/internal/engine"
	"github.com/rshade/ecosort/internal/greenops"
	"github.com/rshade/ecosort/internal/logging"
	"github.com/rshade/ecosort/internal/logistics"
	"github.com/rshade/ecosort/pkg/version"
)

// Environment variables read by New.
const (
	EnvHome       = "ECOSORT_HOME"
	EnvProjectDir = "ECOSORT_PROJECT_DIR"
	EnvCatalog    = "ECOSORT_CATALOG"
	EnvTopN       = "ECOSORT_TOP_N"
	EnvSeed       = "ECOSORT_SEED"
	EnvSampler    = "ECOSORT_SAMPLER"
	EnvOutput     = "ECOSORT_OUTPUT"
	EnvLogLevel   = "ECOSORT_LOG_LEVEL"
	EnvLogFormat  = "ECOSORT_LOG_FORMAT"
)

const (
	configDirName  = ".ecosort"
	configFileName = "config.yaml"

	// DefaultSeed keeps repeated runs comparable until a seed is chosen.
	DefaultSeed uint64 = 42

	defaultLogLevel = "warn"
)

// Config is the full EcoSort configuration.
type Config struct {
	Catalog    CatalogConfig    `yaml:"catalog"`
	Ranking    RankingConfig    `yaml:"ranking"`
	Simulation SimulationConfig `yaml:"simulation"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`

	// Requires is an optional semver constraint the binary must satisfy,
	// e.g. ">= 0.2.0".
	Requires string `yaml:"requires,omitempty"`

	configPath string
	envErrs    []error
}

// CatalogConfig locates the product catalog.
type CatalogConfig struct {
	Path string `yaml:"path"`
	// Sheet selects a worksheet for .xlsx catalogs; empty means the first.
	Sheet string `yaml:"sheet,omitempty"`
}

// RankingConfig tunes the ranker.
type RankingConfig struct {
	// TopN caps rankings. Zero or negative means engine.DefaultTopN.
	TopN int `yaml:"top_n"`
	// LenientMaterials turns unknown material types into empty results
	// instead of errors.
	LenientMaterials bool `yaml:"lenient_materials"`
}

// SimulationConfig selects the logistics distance sampler.
type SimulationConfig struct {
	Sampler string `yaml:"sampler"`
	Seed    uint64 `yaml:"seed"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Unit          string `yaml:"unit"`
}

// New returns defaults overlaid with the global config file and the
// environment. A missing or unreadable file leaves the defaults in place.
func New() *Config {
	cfg := newDefaults()
	cfg.configPath = filepath.Join(ResolveConfigDir(), configFileName)

	if data, err := os.ReadFile(cfg.configPath); err == nil {
		loaded := newDefaults()
		if yaml.Unmarshal(data, loaded) == nil {
			loaded.configPath = cfg.configPath
			cfg = loaded
		}
	}

	cfg.ApplyEnvOverrides()
	return cfg
}

func newDefaults() *Config {
	return &Config{
		Ranking: RankingConfig{TopN: engine.DefaultTopN},
		Simulation: SimulationConfig{
			Sampler: logistics.SamplerRandom,
			Seed:    DefaultSeed,
		},
		Output: OutputConfig{
			DefaultFormat: string(engine.OutputTable),
			Unit:          string(greenops.DefaultUnit),
		},
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: logging.FormatConsole,
		},
	}
}

// ResolveConfigDir returns $ECOSORT_HOME, or ~/.ecosort when unset. If the
// home directory cannot be determined it falls back to ./.ecosort.
func ResolveConfigDir() string {
	if home := os.Getenv(EnvHome); home != "" {
		return home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return configDirName
	}
	return filepath.Join(home, configDirName)
}

// ApplyEnvOverrides copies ECOSORT_* values onto cfg. Unparseable numbers
// are kept aside and reported by Validate.
func (c *Config) ApplyEnvOverrides() {
	c.envErrs = nil

	if v := os.Getenv(EnvCatalog); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv(EnvTopN); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			c.envErrs = append(c.envErrs, fmt.Errorf("%s: %w", EnvTopN, err))
		} else {
			c.Ranking.TopN = n
		}
	}
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			c.envErrs = append(c.envErrs, fmt.Errorf("%s: %w", EnvSeed, err))
		} else {
			c.Simulation.Seed = seed
		}
	}
	if v := os.Getenv(EnvSampler); v != "" {
		c.Simulation.Sampler = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		c.Output.DefaultFormat = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	errs := append([]error(nil), c.envErrs...)

	if c.Ranking.TopN > engine.MaxTopN {
		errs = append(errs, fmt.Errorf("ranking.top_n must be at most %d, got %d", engine.MaxTopN, c.Ranking.TopN))
	}
	if _, err := logistics.NewSampler(c.Simulation.Sampler, 0); err != nil {
		errs = append(errs, fmt.Errorf("simulation.sampler: %w", err))
	}
	if _, ok := engine.ParseOutputFormat(c.Output.DefaultFormat); !ok {
		errs = append(errs, fmt.Errorf("output.default_format %q is not one of %v",
			c.Output.DefaultFormat, engine.OutputFormats()))
	}
	if !greenops.IsRecognizedUnit(c.Output.Unit) {
		errs = append(errs, fmt.Errorf("output.unit %q is not one of %v", c.Output.Unit, greenops.Units()))
	}
	if c.Logging.Level != "" && !logging.IsValidLevel(c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "", logging.FormatJSON, logging.FormatConsole, logging.FormatText:
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be json, console or text", c.Logging.Format))
	}
	if c.Requires != "" {
		ok, err := version.Satisfies(c.Requires)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("requires %q: %w", c.Requires, err))
		case !ok:
			errs = append(errs, fmt.Errorf("this configuration requires ecosort %s, running %s",
				c.Requires, version.GetVersion()))
		}
	}

	return errors.Join(errs...)
}

// ConfigPath returns the file Save writes to.
func (c *Config) ConfigPath() string { return c.configPath }

// SetConfigPath changes the file Save writes to.
func (c *Config) SetConfigPath(path string) { c.configPath = path }

const fileHeader = `# EcoSort configuration.
# Precedence: defaults < this file < project .ecosort/config.yaml < ECOSORT_* env < flags.
`

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path not set")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(c.configPath), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err = os.WriteFile(c.configPath, append([]byte(fileHeader), data...), 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", c.configPath, err)
	}
	return nil
}

// EnsureLogDir creates the directory of the configured log file, if any.
func EnsureLogDir() error {
	file := GetGlobalConfig().Logging.File
	if file == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o750); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	return nil
}

//nolint:gochecknoglobals // One configuration per CLI invocation.
var (
	globalConfig   *Config
	globalConfigMu sync.Mutex
)

// GetGlobalConfig returns the process configuration, loading it with New
// on first use.
func GetGlobalConfig() *Config {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	if globalConfig == nil {
		globalConfig = New()
	}
	return globalConfig
}

// SetGlobalConfig replaces the process configuration.
func SetGlobalConfig(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalConfigForTest drops the cached configuration so the next
// GetGlobalConfig reloads from the (test) environment.
func ResetGlobalConfigForTest() {
	SetGlobalConfig(nil)
}

// GetDefaultOutputFormat returns the configured output format.
func GetDefaultOutputFormat() string {
	return GetGlobalConfig().Output.DefaultFormat
}

// GetOutputFormat returns flag when set, otherwise the configured format.
func GetOutputFormat(flag string) string {
	if flag != "" {
		return flag
	}
	return GetDefaultOutputFormat()
}
