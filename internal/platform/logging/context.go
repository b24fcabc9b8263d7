package logging

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

var defaultLogger = slog.Default()

// FromContext extracts the logger from context.
// Returns the default logger if no logger is found or ctx is nil.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := Lookup(ctx); ok {
		return logger
	}

	return defaultLogger
}

// Lookup returns the logger stored in ctx and whether one was present.
func Lookup(ctx context.Context) (*slog.Logger, bool) {
	if ctx == nil {
		return nil, false
	}

	logger, ok := ctx.Value(ctxKey{}).(*slog.Logger)

	return logger, ok && logger != nil
}

// WithContext stores a logger in the context.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// WithRequestID adds a request ID to the logger in context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return with(ctx, slog.String("request_id", requestID))
}

// WithTraceID adds a trace ID to the logger in context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return with(ctx, slog.String("trace_id", traceID))
}

// WithCycleID tags every record of one sync cycle.
func WithCycleID(ctx context.Context, cycleID string) context.Context {
	return with(ctx, slog.String("cycle_id", cycleID))
}

func with(ctx context.Context, attr slog.Attr) context.Context {
	return WithContext(ctx, FromContext(ctx).With(attr))
}

// SetDefault sets the default logger used when no logger is in context.
func SetDefault(logger *slog.Logger) {
	defaultLogger = logger
	slog.SetDefault(logger)
}
