package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/cotobang/internal/apperr"
	"github.com/geocoder89/cotobang/internal/authz"
	"github.com/gin-gonic/gin"
)

type IdentityLoader interface {
	Identity(ctx context.Context, userID int64) (authz.Identity, error)
}

// RequireRole must run after RequireAuth. A token for a user that no longer
// exists, or was soft-deleted, is treated as unauthenticated.
func (m *AuthMiddleware) RequireRole(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserIDFromContext(c)
		if !ok {
			abortUnauthorized(c, "Missing identity context")
			return
		}

		id, err := m.identities.Identity(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				abortUnauthorized(c, "Unknown or deleted user")
				return
			}

			slog.Default().ErrorContext(c.Request.Context(), "load identity failed", "user_id", userID, "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{
					"code":      "internal_error",
					"message":   "Could not resolve identity",
					"requestId": c.GetString(CtxRequestID),
				},
			})
			return
		}

		if !id.HasRole(required) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":      "forbidden",
					"message":   "Role " + required + " required",
					"requestId": c.GetString(CtxRequestID),
				},
			})
			return
		}

		c.Set(CtxIdentity, id)
		c.Next()
	}
}
