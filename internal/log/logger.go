// Package log — тонкая обёртка над log/slog: однострочные записи с временем и уровнем.
// INFO/DEBUG пишутся в stdout, WARN/ERROR — в stderr.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu     sync.RWMutex
	level  = new(slog.LevelVar)
	logger *slog.Logger
)

func init() {
	SetOutput(os.Stdout, os.Stderr)
}

func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	current().Error(msg, args...)
}

func SetLevel(l slog.Level) {
	level.Set(l)
}

// ParseLevel понимает debug/info/warn/error без учёта регистра.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(strings.TrimSpace(s)))
	return l, err
}

// SetOutput меняет приёмники: out для INFO и ниже, errOut для WARN и выше.
func SetOutput(out, errOut io.Writer) {
	opts := &slog.HandlerOptions{Level: level}
	h := splitHandler{
		low:  slog.NewTextHandler(out, opts),
		high: slog.NewTextHandler(errOut, opts),
	}
	mu.Lock()
	logger = slog.New(h)
	mu.Unlock()
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

type splitHandler struct {
	low  slog.Handler
	high slog.Handler
}

func (h splitHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.low.Enabled(ctx, l)
}

func (h splitHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		return h.high.Handle(ctx, r)
	}
	return h.low.Handle(ctx, r)
}

func (h splitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return splitHandler{low: h.low.WithAttrs(attrs), high: h.high.WithAttrs(attrs)}
}

func (h splitHandler) WithGroup(name string) slog.Handler {
	return splitHandler{low: h.low.WithGroup(name), high: h.high.WithGroup(name)}
}
