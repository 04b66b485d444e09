package middleware

import "context"

type contextKey string

const userIDContextKey contextKey = "logged-user-id"

func ContextWithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// LoggedUserID returns the id of the authenticated caller, resolved from the
// session token by the auth middleware. ok is false on public routes.
func LoggedUserID(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDContextKey).(int)
	return userID, ok
}
