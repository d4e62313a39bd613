package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format represents the log output format.
type Format string

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON Format = "json"
	// FormatText outputs logs in logfmt-style text.
	FormatText Format = "text"
	// FormatConsole outputs human-readable text for interactive use.
	FormatConsole Format = "console"
)

// Config contains configuration for the logger.
type Config struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string

	// Format is the output format ("json", "text", "console").
	Format string

	// AddSource includes file and line in log output.
	AddSource bool

	// RedactContent enables redaction of sensitive values in string
	// attributes.
	RedactContent bool

	// RedactPatterns adds custom redaction patterns on top of the
	// defaults.
	RedactPatterns []Pattern

	// Writer is the output destination. Defaults to os.Stderr.
	Writer io.Writer
}

// New builds a slog.Logger from the configuration. When redaction is
// enabled, string attribute values pass through the redactor before
// they are written.
func New(cfg Config) (*slog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	format, err := parseFormat(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("invalid log format: %w", err)
	}

	writer := cfg.Writer
	if writer == nil {
		writer = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}
	if cfg.RedactContent {
		redactor := NewRedactor(cfg.RedactPatterns)
		opts.ReplaceAttr = func(_ []string, a slog.Attr) slog.Attr {
			if a.Value.Kind() == slog.KindString {
				a.Value = slog.StringValue(redactor.Redact(a.Value.String()))
			}
			return a
		}
	}

	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(writer, opts)
	case FormatText, FormatConsole:
		handler = slog.NewTextHandler(writer, opts)
	}

	return slog.New(handler), nil
}

// parseLevel converts a level name into a slog.Level. Empty defaults
// to info.
func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown level %q", level)
	}
}

// parseFormat converts a format name into a Format. Empty defaults to
// json.
func parseFormat(format string) (Format, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	case "console":
		return FormatConsole, nil
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}
