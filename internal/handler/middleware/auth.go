package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"timegrid/internal/pkg/cookie"
	"timegrid/internal/usecase/commands"
	"timegrid/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

const ctxPrincipalKey = "principal"

type AuthMiddleware struct {
	tokenValidator *queries.TokenValidator
}

func NewAuthMiddleware(tokenValidator *queries.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookie.GetAccessToken(c)

		if token == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimSpace(authHeader[len("Bearer "):])
			}
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		principal, err := m.tokenValidator.Validate(c.Request.Context(), token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxPrincipalKey, principal)
		c.Next()
	}
}

func GetPrincipal(c *gin.Context) (*queries.Principal, bool) {
	v, exists := c.Get(ctxPrincipalKey)
	if !exists {
		return nil, false
	}
	p, ok := v.(*queries.Principal)
	return p, ok
}

// GetActor converts the request principal into the command-layer actor.
func GetActor(c *gin.Context) (commands.Actor, bool) {
	p, ok := GetPrincipal(c)
	if !ok {
		return commands.Actor{}, false
	}
	return commands.Actor{UserID: p.UserID, OrgID: p.OrgID, Role: p.Role}, true
}
