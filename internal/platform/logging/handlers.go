package logging

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// MultiHandler fans records out to several sinks, typically the terminal and
// the rolling JSON file.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler drops nil handlers.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	kept := make([]slog.Handler, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			kept = append(kept, h)
		}
	}

	return &MultiHandler{handlers: kept}
}

// Enabled is true when any sink accepts the level.
func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle writes to every sink that accepts the level. A failing sink does
// not stop the others; all failures are joined.
func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	var errs []error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}

		if err := handler.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.each(func(s slog.Handler) slog.Handler { return s.WithAttrs(attrs) })
}

func (h *MultiHandler) WithGroup(name string) slog.Handler {
	return h.each(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (h *MultiHandler) each(fn func(slog.Handler) slog.Handler) *MultiHandler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = fn(handler)
	}
	return &MultiHandler{handlers: handlers}
}

// SpanHandler stamps trace_id and span_id from the record's context, so a
// log line written while loading posts or serving a request can be joined
// to its trace.
type SpanHandler struct {
	next slog.Handler
}

// NewSpanHandler wraps next.
func NewSpanHandler(next slog.Handler) *SpanHandler {
	return &SpanHandler{next: next}
}

func (h *SpanHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *SpanHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			r = r.Clone()
			r.AddAttrs(
				slog.String("trace_id", sc.TraceID().String()),
				slog.String("span_id", sc.SpanID().String()),
			)
		}
	}

	return h.next.Handle(ctx, r)
}

func (h *SpanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SpanHandler{next: h.next.WithAttrs(attrs)}
}

func (h *SpanHandler) WithGroup(name string) slog.Handler {
	return &SpanHandler{next: h.next.WithGroup(name)}
}
