package mcp

import "context"

// sessionKeyContextKey is the context key for the per-connection credential.
type sessionKeyContextKey struct{}

// WithSessionKey returns a new context carrying the per-connection API key
// read at session establishment.
func WithSessionKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, sessionKeyContextKey{}, key)
}

// SessionKeyFromContext extracts the per-connection API key, or "" if the
// session carried none.
func SessionKeyFromContext(ctx context.Context) string {
	key, _ := ctx.Value(sessionKeyContextKey{}).(string)
	return key
}
