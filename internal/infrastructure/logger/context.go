package logger

import "context"

type contextKey string

// RequestIDKey carries the correlation id on a request context so it
// survives the hop from HTTP middleware to the remote gateway.
const RequestIDKey contextKey = "request_id"

// WithRequestID returns a context carrying the correlation id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the correlation id, or "" when absent.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
