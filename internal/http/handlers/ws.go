package handlers

import (
	"errors"
	"net/http"
	"slices"

	"kanban_api/internal/http/middleware"
	"kanban_api/internal/logger"
	"kanban_api/internal/service"
	"kanban_api/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WS upgrades to the board-events socket. Browsers cannot set headers on a
// websocket handshake, so the token comes in the query string.
func WS(hub *ws.Hub, tokens middleware.TokenParser, allowedOrigins []string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			// non-browser clients send no Origin
			return origin == "" || slices.Contains(allowedOrigins, origin)
		},
	}

	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, service.ErrTokenExpired) {
				msg = "Token expired"
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.WithContext(c.Request.Context()).Warn("ws upgrade failed", "error", err)
			return
		}

		go ws.NewClient(hub, claims.UserID, conn).Run()
	}
}
