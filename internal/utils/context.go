package utils

import "context"

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "email"
	UserAdminKey contextKey = "is_admin"
)

// SetUserContext sets the authenticated identity into context (called by
// the auth middleware). Handlers and services receive identity exclusively
// through these values, never ambient state.
func SetUserContext(ctx context.Context, id uint, email string, isAdmin bool) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, id)
	ctx = context.WithValue(ctx, UserEmailKey, email)
	ctx = context.WithValue(ctx, UserAdminKey, isAdmin)
	return ctx
}

// GetUserIDFromContext retrieves userID safely
func GetUserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(UserIDKey).(uint)
	return id, ok
}

// GetUserEmailFromContext retrieves the caller's email safely
func GetUserEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(UserEmailKey).(string)
	return email
}

// IsAdminFromContext reports whether the caller holds the admin role.
func IsAdminFromContext(ctx context.Context) bool {
	admin, _ := ctx.Value(UserAdminKey).(bool)
	return admin
}
