// Package requestctx carries authenticated request identity through context.
package requestctx

import "context"

// principalIDContextKey is the context key for the authenticated principal id.
type principalIDContextKey struct{}

// usernameContextKey is the context key for the authenticated username.
type usernameContextKey struct{}

// WithPrincipalID stores a principal identifier in context.
func WithPrincipalID(ctx context.Context, id int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, principalIDContextKey{}, id)
}

// PrincipalIDFromContext returns the principal identifier stored in context.
// It returns zero when no principal has been recorded.
func PrincipalIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	value, _ := ctx.Value(principalIDContextKey{}).(int64)
	return value
}

// WithUsername stores the authenticated username in context.
func WithUsername(ctx context.Context, username string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, usernameContextKey{}, username)
}

// UsernameFromContext returns the username stored in context.
func UsernameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(usernameContextKey{}).(string)
	return value
}
