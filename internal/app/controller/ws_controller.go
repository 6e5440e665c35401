package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/ikkim/mapaddress-backend/internal/middleware"
	ws "github.com/ikkim/mapaddress-backend/internal/websocket"
)

type WebSocketController struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

func NewWebSocketController(hub *ws.Hub, allowedOrigins []string) *WebSocketController {
	return &WebSocketController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || middleware.OriginAllowed(allowedOrigins, origin)
			},
		},
	}
}

// Subscribe upgrades to a websocket that receives address change events
// GET /ws
func (ctrl *WebSocketController) Subscribe(c *gin.Context) {
	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		middleware.GetLoggerFromContext(c).Warn("WebSocket upgrade failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	ctrl.hub.Attach(conn)
}
