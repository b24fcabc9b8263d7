package middleware

import "context"

type contextKey string

const ctxKeyRequestID contextKey = "request_id"

// RequestIDFromContext extracts the request ID from context.Context.
// Returns empty string if not set or if ctx is nil.
// Client adapters use it to propagate the ID to the remote quote source.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if id, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return id
	}

	return ""
}

// ContextWithRequestID stores a request ID in the context.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}
