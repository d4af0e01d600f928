package logging

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

var defaultLogger = slog.Default()

// FromContext returns the request-scoped logger, or the process default when
// ctx is nil or carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return defaultLogger
	}

	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return logger
	}

	return defaultLogger
}

// WithContext stores a logger in the context.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// WithRequestID enriches the context logger with request_id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return with(ctx, slog.String("request_id", requestID))
}

// WithCorrelationID enriches the context logger with correlation_id.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return with(ctx, slog.String("correlation_id", correlationID))
}

func with(ctx context.Context, attrs ...any) context.Context {
	return WithContext(ctx, FromContext(ctx).With(attrs...))
}

// SetDefault replaces both this package's fallback and slog's default.
func SetDefault(logger *slog.Logger) {
	defaultLogger = logger
	slog.SetDefault(logger)
}
