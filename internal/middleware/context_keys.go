package middleware

import (
	"context"

	"github.com/SscSPs/timesheet_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

const identityKey = contextKey("identity")

// WithIdentity returns a copy of ctx carrying the authenticated caller.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromCtx returns the authenticated caller stored in a standard context.
func IdentityFromCtx(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(domain.Identity)
	if !ok || id.UserID == "" {
		return domain.Identity{}, false
	}
	return id, true
}

// GetIdentityFromContext retrieves the authenticated caller from the Gin context.
func GetIdentityFromContext(c *gin.Context) (domain.Identity, bool) {
	if v, exists := c.Get(string(identityKey)); exists {
		if id, ok := v.(domain.Identity); ok && id.UserID != "" {
			return id, true
		}
	}
	return IdentityFromCtx(c.Request.Context())
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	id, ok := GetIdentityFromContext(c)
	return id.UserID, ok
}
