package auth

import "context"

type contextKey struct{}

// WithUser stores the authenticated user id on the context.
func WithUser(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserID returns the authenticated user id, or 0 when unauthenticated.
func UserID(ctx context.Context) int64 {
	id, ok := ctx.Value(contextKey{}).(int64)
	if !ok {
		return 0
	}
	return id
}
