package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"fleetdesk-api-server/internal/api/middleware"
	"fleetdesk-api-server/internal/logger"
	"fleetdesk-api-server/internal/socket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin is enforced by the CORS layer; the socket carries only
		// push notifications for authenticated sessions.
		return true
	},
}

// ServeWs upgrades an authenticated request to a WebSocket session and
// parks it in the hub until the client goes away.
func ServeWs(hub *socket.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(middleware.CtxUserID)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.L.WithError(err).Warn("WebSocket upgrade failed")
			return
		}

		hub.Register(userID, conn)

		go func() {
			defer func() {
				hub.Unregister(userID)
				conn.Close()
			}()
			for {
				// Clients only listen; reads exist to detect disconnects.
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
