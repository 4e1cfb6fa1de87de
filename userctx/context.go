package userctx

import (
	"context"

	"github.com/formflow/formflow/models"
)

// Context key type
type contextKey string

const userKey contextKey = "user"

// SetUser adds the authenticated user to the request context
func SetUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser retrieves the authenticated user from the request context
func GetUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

// GetUserID retrieves the authenticated user's id, or "" when absent
func GetUserID(ctx context.Context) string {
	if user, ok := GetUser(ctx); ok {
		return user.ID
	}
	return ""
}
