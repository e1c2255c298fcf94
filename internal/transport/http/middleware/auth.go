package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bloomgram/auth-backend/internal/infra/security"
)

// UserIDKey is where RequireSession stores the authenticated user id.
const UserIDKey = "auth_user_id"

// RequireSession rejects requests without a valid session cookie and exposes
// the authenticated user id to downstream handlers.
func RequireSession(tokens *security.SessionTokens, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			abortUnauthorized(c, "not authenticated")
			return
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			if errors.Is(err, security.ErrTokenExpired) {
				abortUnauthorized(c, "session expired")
				return
			}
			abortUnauthorized(c, "invalid session")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// GetAuthenticatedUserID returns the user id set by RequireSession.
func GetAuthenticatedUserID(c *gin.Context) (string, bool) {
	val, ok := c.Get(UserIDKey)
	if !ok {
		return "", false
	}
	id, ok := val.(string)
	return id, ok && id != ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":      message,
		"request_id": GetRequestID(c),
	})
}
