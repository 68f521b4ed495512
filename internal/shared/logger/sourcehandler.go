package logger

import (
	"context"
	"log/slog"
	"runtime"
)

type sourceHandler struct {
	handler slog.Handler
	from    slog.Level
}

// NewSourceHandler wraps handler so that records at or above from carry the
// caller's source location. The wrapped handler must not set AddSource.
func NewSourceHandler(handler slog.Handler, from slog.Level) slog.Handler {
	return &sourceHandler{handler: handler, from: from}
}

func (h *sourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.from && r.PC != 0 {
		fs := runtime.CallersFrames([]uintptr{r.PC})
		f, _ := fs.Next()
		r.AddAttrs(slog.Any(slog.SourceKey, &slog.Source{
			Function: f.Function,
			File:     f.File,
			Line:     f.Line,
		}))
	}
	return h.handler.Handle(ctx, r)
}

func (h *sourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sourceHandler{handler: h.handler.WithAttrs(attrs), from: h.from}
}

func (h *sourceHandler) WithGroup(name string) slog.Handler {
	return &sourceHandler{handler: h.handler.WithGroup(name), from: h.from}
}

func (h *sourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}
