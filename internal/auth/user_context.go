package auth

import "context"

type contextKey string

const userIDContextKey contextKey = "user-id"

func ContextWithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext returns the authenticated user's ID, set by the
// auth middleware. The second return is false for unauthenticated
// requests (should not happen behind the middleware).
func UserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDContextKey).(int)
	return userID, ok
}
