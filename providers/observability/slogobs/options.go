package slogobs

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// LevelTrace sits below slog.LevelDebug.
const LevelTrace = slog.LevelDebug - 4

// Format selects how the default handler renders records.
type Format string

const (
	FormatText   Format = "text"
	FormatLogfmt Format = "logfmt"
	FormatJSON   Format = "json"
)

// ParseFormat maps a case-insensitive name to a Format, defaulting to FormatText.
func ParseFormat(s string) Format {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatLogfmt:
		return FormatLogfmt
	case FormatJSON:
		return FormatJSON
	default:
		return FormatText
	}
}

// ParseLogLevel maps a case-insensitive level name to a slog.Level,
// defaulting to slog.LevelInfo.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetFormatFromEnv reads MATHAGENT_LOG_FORMAT, then LOG_FORMAT.
func GetFormatFromEnv() Format {
	return ParseFormat(firstEnv("MATHAGENT_LOG_FORMAT", "LOG_FORMAT"))
}

// GetLogLevelFromEnv reads MATHAGENT_LOG_LEVEL, then LOG_LEVEL.
func GetLogLevelFromEnv() slog.Level {
	return ParseLogLevel(firstEnv("MATHAGENT_LOG_LEVEL", "LOG_LEVEL"))
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// Option is a functional option for configuring the Observer.
type Option func(*config)

type config struct {
	format     Format
	level      slog.Level
	output     io.Writer
	timestamps bool
	logger     *slog.Logger
}

// WithFormat sets the output format of the default handler.
func WithFormat(format Format) Option {
	return func(c *config) {
		c.format = format
	}
}

// WithLevel sets the minimum level of the default handler.
func WithLevel(level slog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithOutput sets the writer of the default handler.
func WithOutput(output io.Writer) Option {
	return func(c *config) {
		c.output = output
	}
}

// WithTimestamps toggles timestamps in the default handler.
func WithTimestamps(enabled bool) Option {
	return func(c *config) {
		c.timestamps = enabled
	}
}

// WithLogger uses logger as is and ignores the other options.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func applyOptions(opts ...Option) *config {
	cfg := &config{
		format:     GetFormatFromEnv(),
		level:      GetLogLevelFromEnv(),
		output:     os.Stderr,
		timestamps: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// newHandler builds the charmbracelet/log handler described by cfg.
func newHandler(cfg *config) slog.Handler {
	formatter := log.TextFormatter
	switch cfg.format {
	case FormatLogfmt:
		formatter = log.LogfmtFormatter
	case FormatJSON:
		formatter = log.JSONFormatter
	}

	return log.NewWithOptions(cfg.output, log.Options{
		Level:           log.Level(cfg.level),
		Formatter:       formatter,
		ReportTimestamp: cfg.timestamps,
		TimeFormat:      "15:04:05",
		Prefix:          "mathagent",
	})
}
