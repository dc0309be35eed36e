package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	// FormatJSON emits one JSON object per record. Used by the sandbox.
	FormatJSON = "json"
	// FormatText emits logfmt-style lines. Used by the client CLI.
	FormatText = "text"
)

// New creates a JSON slog logger on stdout configured at the provided level.
// If the level string is invalid it defaults to info.
func New(level string) *slog.Logger {
	return NewWithWriter(level, FormatJSON, os.Stdout)
}

// NewWithWriter builds a logger writing to w in the given format. Unknown
// formats fall back to JSON.
func NewWithWriter(level, format string, w io.Writer) *slog.Logger {
	lvl := new(slog.LevelVar)
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if strings.EqualFold(format, FormatText) {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops all output. Useful for tests.
func Discard() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError})
	return slog.New(handler)
}
