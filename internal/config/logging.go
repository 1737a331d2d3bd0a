package config

import (
	"github.com/rshade/ecosort/internal/logging"
)

// LoggingConfig is the logging section of the configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File, when set, sends logs to this file as JSON.
	File string `yaml:"file,omitempty"`
}

// ToLoggingConfig converts the section into a logging.Config. A configured
// file switches output to file; otherwise logs go to stderr.
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}
	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// GetLoggingConfig returns a copy of the global logging section. Callers
// apply flag overrides such as --debug to the copy.
func GetLoggingConfig() LoggingConfig {
	return GetGlobalConfig().Logging
}
