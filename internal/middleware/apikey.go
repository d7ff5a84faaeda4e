package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/echoscribe/echoscribe-backend/internal/logger"
)

// ContextKeyAPIKey is where RequireAPIKey leaves the provider key for
// downstream handlers.
const ContextKeyAPIKey = "providerAPIKey"

type APIKeyMiddleware struct {
	log *logger.Logger
}

func NewAPIKeyMiddleware(log *logger.Logger) *APIKeyMiddleware {
	return &APIKeyMiddleware{log: log.With("middleware", "APIKeyMiddleware")}
}

// RequireAPIKey extracts the speech-to-text provider key from the
// Authorization header. The key is never persisted server-side; it rides
// each request the way the client app forwards its stored credential.
func (m *APIKeyMiddleware) RequireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := extractBearer(c)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			return
		}
		c.Set(ContextKeyAPIKey, key)
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

// APIKey reads the key stashed by RequireAPIKey.
func APIKey(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyAPIKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
