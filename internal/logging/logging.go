// Package logging builds the slog logger shared by the TUI and the CLI:
// a tint text handler, optionally fanned out to Fluent Bit.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/lmittmann/tint"
)

type Config struct {
	// Writer receives the text log. Defaults to os.Stderr.
	Writer  io.Writer
	Level   slog.Leveler
	NoColor bool
	Fluent  FluentConfig
}

type FluentConfig struct {
	Enabled   bool
	Host      string
	Port      int
	TagPrefix string
	Level     slog.Leveler
}

// ParseLevel maps debug/info/warn/error to a slog level. Anything else is
// info.
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

// New builds the logger. The returned close func flushes the Fluent
// client when one was created and is always safe to call.
func New(cfg Config) (*slog.Logger, func() error, error) {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}
	if cfg.Level == nil {
		cfg.Level = slog.LevelInfo
	}

	handlers := []slog.Handler{
		tint.NewHandler(cfg.Writer, &tint.Options{
			Level:      cfg.Level,
			TimeFormat: "2006-01-02 15:04:05",
			NoColor:    cfg.NoColor,
		}),
	}
	closeFn := func() error { return nil }

	if cfg.Fluent.Enabled {
		if cfg.Fluent.TagPrefix == "" {
			return nil, nil, errors.New("fluent tag prefix is required")
		}
		client, err := fluent.New(fluent.Config{
			FluentHost: cfg.Fluent.Host,
			FluentPort: cfg.Fluent.Port,
			TagPrefix:  cfg.Fluent.TagPrefix,
			// never block the UI on an unreachable collector
			Async: true,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("creating fluent client: %w", err)
		}
		level := cfg.Fluent.Level
		if level == nil {
			level = cfg.Level
		}
		handlers = append(handlers, NewFluentHandler(client, level))
		closeFn = client.Close
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0]), closeFn, nil
	}
	return slog.New(multiHandler(handlers)), closeFn, nil
}

// multiHandler sends every record to each handler that accepts its level.
type multiHandler []slog.Handler

func (m multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (m multiHandler) WithGroup(name string) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithGroup(name)
	}
	return out
}
