package common

import "context"

// correlationIDContextKey is the context key for the request correlation id.
type correlationIDContextKey struct{}

// WithCorrelationID returns a context carrying the request correlation id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDContextKey{}, id)
}

// CorrelationIDFrom extracts the correlation id, or "" when none was set.
func CorrelationIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDContextKey{}).(string)
	return id
}
