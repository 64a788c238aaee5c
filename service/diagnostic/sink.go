// Package diagnostic is the fire-and-forget log sink services write their
// diagnostic records to.
package diagnostic

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Sink accepts structured diagnostic records.
type Sink interface {
	Log(ctx context.Context, msg string, attrs ...slog.Attr)
}

// Config selects the slog handler.
type Config struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // json, text
}

// Slog writes records through a slog.Logger.
type Slog struct {
	logger *slog.Logger
}

func (s *Slog) Log(ctx context.Context, msg string, attrs ...slog.Attr) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// Logger returns the underlying logger.
func (s *Slog) Logger() *slog.Logger { return s.logger }

// NewSlog wraps logger; nil means slog.Default().
func NewSlog(logger *slog.Logger) *Slog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Slog{logger: logger}
}

// NewLogger builds a slog.Logger writing to w (os.Stdout when nil).
func NewLogger(config Config, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	level := slog.LevelInfo
	switch strings.ToLower(config.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(config.Format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
