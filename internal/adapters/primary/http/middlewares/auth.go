package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/domain"
	"github.com/prabhat9478/jyotish-web/internal/ports/service"
)

// userIDKey is where RequireAuth stores the resolved user for handlers.
const userIDKey = "user_id"

// RequireAuth extracts the bearer token, verifies it against the auth
// backend and stores the user id in the request context. Requests
// without a valid token never reach the handler.
func RequireAuth(verifier service.IAuthVerifier, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		userID, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
				return
			}
			log.Error("token verification failed",
				"error", err,
				"path", c.Request.URL.Path,
			)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "auth backend unavailable"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user stored by RequireAuth.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
