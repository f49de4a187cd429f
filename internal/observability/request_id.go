package observability

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// RequestIDKey holds the request id in a request context.
const RequestIDKey contextKey = "request_id"

// NewRequestID returns a random UUID.
func NewRequestID() string {
	return uuid.NewString()
}

// ValidRequestID reports whether an incoming X-Request-ID may be reused.
// Only UUIDs are accepted so clients cannot inject arbitrary strings into
// logs and span attributes.
func ValidRequestID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// ContextWithRequestID returns a copy of ctx carrying id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestIDFromContext returns the request id in ctx, or "" when there is
// none.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
