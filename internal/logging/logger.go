package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Output and format names accepted in Config.
const (
	OutputStderr = "stderr"
	OutputStdout = "stdout"
	OutputFile   = "file"

	FormatJSON    = "json"
	FormatConsole = "console"
	FormatText    = "text"
)

// LevelInfo is the default log level.
const LevelInfo = "info"

// Config describes how a logger is built.
type Config struct {
	Level  string
	Format string
	Output string
	File   string
	Caller bool
}

// DefaultConfig returns an info-level console logger writing to stderr.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Format: FormatConsole,
		Output: OutputStderr,
	}
}

// ParseLevel parses level, defaulting to info for empty or unknown values.
func ParseLevel(level string) zerolog.Level {
	if level == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// IsValidLevel reports whether level is a zerolog level name.
func IsValidLevel(level string) bool {
	_, err := zerolog.ParseLevel(strings.ToLower(level))
	return err == nil && level != ""
}

// New builds a logger for cfg. File output is not opened here; use
// NewLoggerWithPath for that.
func New(cfg Config) zerolog.Logger {
	var w io.Writer = os.Stderr
	if cfg.Output == OutputStdout {
		w = os.Stdout
	}
	return NewWithWriter(cfg, w)
}

// NewWithWriter builds a logger for cfg that writes to w.
func NewWithWriter(cfg Config, w io.Writer) zerolog.Logger {
	if cfg.Format == FormatConsole || cfg.Format == FormatText {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	zctx := zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		Hook(traceHook{}).
		With().
		Timestamp()
	if cfg.Caller {
		zctx = zctx.Caller()
	}
	return zctx.Logger()
}

// ComponentLogger returns a child logger tagged with component.
func ComponentLogger(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}

// LogPathResult reports where NewLoggerWithPath ended up writing.
type LogPathResult struct {
	Logger         zerolog.Logger
	FilePath       string
	UsingFile      bool
	FallbackUsed   bool
	FallbackReason string

	file *os.File
}

// Close releases the log file, if one was opened.
func (r *LogPathResult) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// NewLoggerWithPath builds a logger and, when cfg requests file output,
// opens the file in append mode. If the file cannot be opened the logger
// falls back to stderr and the reason is recorded in the result.
func NewLoggerWithPath(cfg Config) LogPathResult {
	if cfg.Output != OutputFile || cfg.File == "" {
		return LogPathResult{Logger: New(cfg)}
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o750); err != nil {
		return fallbackResult(cfg, fmt.Sprintf("creating log directory: %v", err))
	}

	f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fallbackResult(cfg, fmt.Sprintf("opening log file: %v", err))
	}

	return LogPathResult{
		Logger:    NewWithWriter(Config{Level: cfg.Level, Format: FormatJSON, Caller: cfg.Caller}, f),
		FilePath:  cfg.File,
		UsingFile: true,
		file:      f,
	}
}

func fallbackResult(cfg Config, reason string) LogPathResult {
	cfg.Output = OutputStderr
	return LogPathResult{
		Logger:         New(cfg),
		FallbackUsed:   true,
		FallbackReason: reason,
	}
}

// PrintLogPathMessage tells the user where logs are going.
func PrintLogPathMessage(w io.Writer, path string) {
	_, _ = fmt.Fprintf(w, "Logging to %s\n", path)
}

// PrintFallbackWarning tells the user file logging was not possible.
func PrintFallbackWarning(w io.Writer, reason string) {
	_, _ = fmt.Fprintf(w, "Warning: file logging unavailable (%s), logging to stderr\n", reason)
}

//nolint:gochecknoglobals // Used when no logger has been attached to a context.
var defaultLogger = New(DefaultConfig())

// FromContext returns the logger attached to ctx, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return &defaultLogger
	}
	l := zerolog.Ctx(ctx)
	if l == nil || l.GetLevel() == zerolog.Disabled {
		return &defaultLogger
	}
	return l
}
