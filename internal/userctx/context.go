package userctx

import "context"

type contextKey string

const userIDContextKey contextKey = "user_id"

// DefaultOwner is used when auth is disabled (single-install mode).
const DefaultOwner = "default"

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	return userID, ok
}

// OwnerUserID returns the authenticated user id or DefaultOwner.
func OwnerUserID(ctx context.Context) string {
	if userID, ok := GetUserID(ctx); ok && userID != "" {
		return userID
	}
	return DefaultOwner
}
