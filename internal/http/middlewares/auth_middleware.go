package middlewares

import (
	"net/http"
	"strings"

	"github.com/geocoder89/cotobang/internal/actorctx"
	"github.com/geocoder89/cotobang/internal/authz"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Decode(token string) (int64, error)
}

type AuthMiddleware struct {
	tokens     TokenVerifier
	identities IdentityLoader
}

func NewAuthMiddleware(tokens TokenVerifier, identities IdentityLoader) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, identities: identities}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			abortUnauthorized(c, "Missing or invalid access token")
			return
		}

		userID, err := m.tokens.Decode(raw)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired access token")
			return
		}

		c.Set(CtxUserID, userID)
		c.Request = c.Request.WithContext(actorctx.WithUserID(c.Request.Context(), userID))

		c.Next()
	}
}

// UserIDFromContext returns the id decoded by RequireAuth.
func UserIDFromContext(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}

// IdentityFromContext returns nil when the request carries no valid token.
// Roles are only present when RequireRole ran earlier in the chain.
func IdentityFromContext(c *gin.Context) *authz.Identity {
	if v, ok := c.Get(CtxIdentity); ok {
		if id, ok := v.(authz.Identity); ok {
			return &id
		}
	}

	userID, ok := UserIDFromContext(c)
	if !ok {
		return nil
	}
	return &authz.Identity{UserID: userID}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":      "unauthorized",
			"message":   message,
			"requestId": c.GetString(CtxRequestID),
		},
	})
}
