package utils

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger provides leveled logging throughout the application on top of zerolog.
// A nil *Logger is valid and discards everything.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger creates a console Logger at info level writing to stdout.
func NewLogger() *Logger {
	return NewLoggerWithOptions("info", "console", os.Stdout)
}

// NewLoggerWithOptions creates a Logger for the given level and format.
// Format "json" emits one JSON object per line; anything else uses the
// human-readable console writer.
func NewLoggerWithOptions(level, format string, out io.Writer) *Logger {
	if out == nil {
		out = os.Stdout
	}
	var w io.Writer = out
	if strings.ToLower(strings.TrimSpace(format)) != "json" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}
	}
	zl := zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Str("service", "pg-recommender").
		Logger()
	return &Logger{zl: zl}
}

// Zerolog exposes the underlying logger for structured fields.
func (l *Logger) Zerolog() *zerolog.Logger {
	if l == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return &l.zl
}

func (l *Logger) Info(format string, args ...any) {
	l.Zerolog().Info().Msgf(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.Zerolog().Warn().Msgf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.Zerolog().Error().Msgf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.Zerolog().Debug().Msgf(format, args...)
}

func parseLevel(value string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
