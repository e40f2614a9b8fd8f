package logger

import (
	"context"
	"log/slog"
	"runtime"
)

// sourceByLevelHandler decorates another handler and attaches the caller
// source location only for selected levels. Info-level request logs stay
// compact while warnings and errors keep the file:line needed to chase
// accounting bugs.
type sourceByLevelHandler struct {
	inner      slog.Handler
	withSource map[slog.Level]bool
}

// NewConditionalSourceHandler wraps handler so source location is emitted
// only for the given levels. The wrapped handler must be built with
// AddSource disabled; this wrapper injects the attribute itself.
func NewConditionalSourceHandler(handler slog.Handler, showSourceForLevels ...slog.Level) slog.Handler {
	withSource := make(map[slog.Level]bool, len(showSourceForLevels))
	for _, level := range showSourceForLevels {
		withSource[level] = true
	}
	return &sourceByLevelHandler{inner: handler, withSource: withSource}
}

func (h *sourceByLevelHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.withSource[r.Level] {
		// Skip runtime.Callers, this frame, and the slog dispatch frame.
		var pcs [1]uintptr
		runtime.Callers(3, pcs[:])
		frame, _ := runtime.CallersFrames(pcs[:]).Next()

		r.AddAttrs(slog.Attr{
			Key: slog.SourceKey,
			Value: slog.AnyValue(&slog.Source{
				Function: frame.Function,
				File:     frame.File,
				Line:     frame.Line,
			}),
		})
	}

	return h.inner.Handle(ctx, r)
}

func (h *sourceByLevelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sourceByLevelHandler{inner: h.inner.WithAttrs(attrs), withSource: h.withSource}
}

func (h *sourceByLevelHandler) WithGroup(name string) slog.Handler {
	return &sourceByLevelHandler{inner: h.inner.WithGroup(name), withSource: h.withSource}
}

func (h *sourceByLevelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}
