package slogobs

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Environment variables read by New when no explicit option overrides them.
const (
	EnvLogFormat = "TOOLAGENT_LOG_FORMAT"
	EnvLogLevel  = "TOOLAGENT_LOG_LEVEL"
)

// Format selects the slog handler used for output.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat maps a case-insensitive name to a Format, defaulting to text.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), string(FormatJSON)) {
		return FormatJSON
	}
	return FormatText
}

// ParseLevel maps debug, info, warn/warning and error (any case) to a
// slog.Level. Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type Option func(*config)

type config struct {
	format Format
	level  slog.Level
	output io.Writer
	logger *slog.Logger // takes precedence over format, level and output
}

func WithFormat(format Format) Option {
	return func(c *config) {
		c.format = format
	}
}

func WithLevel(level slog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithOutput sets the log destination. Defaults to stderr so that command
// output on stdout stays clean.
func WithOutput(output io.Writer) Option {
	return func(c *config) {
		c.output = output
	}
}

// WithLogger routes everything through an existing logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func applyOptions(opts ...Option) *config {
	cfg := &config{
		format: ParseFormat(os.Getenv(EnvLogFormat)),
		level:  ParseLevel(os.Getenv(EnvLogLevel)),
		output: os.Stderr,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *config) newLogger() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	handlerOpts := &slog.HandlerOptions{Level: c.level}
	if c.format == FormatJSON {
		return slog.New(slog.NewJSONHandler(c.output, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(c.output, handlerOpts))
}
