package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"promo-engine/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// Scopes granted to service tokens. Shopper-facing evaluation endpoints are
// unauthenticated; everything that mutates counters or previews admin state
// needs a token with the matching scope.
const (
	ScopeAdmin    = "admin"
	ScopeCheckout = "checkout"
)

const (
	ctxServiceKey = "service_subject"
	ctxScopeKey   = "service_scope"
)

type ServiceAuthMiddleware struct {
	tokens *jwt.Service
}

func NewServiceAuthMiddleware(tokens *jwt.Service) *ServiceAuthMiddleware {
	return &ServiceAuthMiddleware{
		tokens: tokens,
	}
}

func (m *ServiceAuthMiddleware) RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Service token required",
			})
			c.Abort()
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		if claims.Scope != scope {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			c.Abort()
			return
		}

		c.Set(ctxServiceKey, claims.Subject)
		c.Set(ctxScopeKey, claims.Scope)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[len("Bearer "):])
}

// GetServiceSubject returns the authenticated caller service name.
func GetServiceSubject(c *gin.Context) (string, bool) {
	subject, exists := c.Get(ctxServiceKey)
	if !exists {
		return "", false
	}

	name, ok := subject.(string)
	return name, ok
}
