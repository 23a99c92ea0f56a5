package middleware

import (
	"context"
	"errors"
)

type contextKey string

const userIDKey contextKey = "user_id"

// ErrNoIdentity is returned when no authenticated user is attached to the context.
var ErrNoIdentity = errors.New("no authenticated identity in context")

// WithUserID returns a copy of ctx carrying the authenticated user's id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext extracts the authenticated user's id set by the auth middleware.
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", ErrNoIdentity
	}
	return userID, nil
}
