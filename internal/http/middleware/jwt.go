package middleware

import (
	"errors"
	"net/http"
	"strings"

	"kanban_api/internal/logger"
	"kanban_api/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxEmail  = "email"
)

type TokenParser interface {
	Parse(token string) (*service.Claims, error)
}

// JWT requires "Authorization: Bearer <token>" and stores the caller's id
// and email on the context.
func JWT(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, service.ErrTokenExpired) {
				msg = "Token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)

		ctx := c.Request.Context()
		l := logger.WithContext(ctx).With("user_id", claims.UserID)
		c.Request = c.Request.WithContext(logger.IntoContext(ctx, l))
		c.Next()
	}
}

// UserID returns the authenticated user's id, or "" before JWT has run.
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func Email(c *gin.Context) string {
	return c.GetString(ctxEmail)
}
