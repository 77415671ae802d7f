// internal/handlers/ws.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/lacra/agritrace-backend/internal/events"
)

type LiveFeedHandler struct {
	hub      *events.Hub
	upgrader websocket.Upgrader
}

// NewLiveFeedHandler accepts browser connections from allowedOrigins. A "*"
// entry accepts any origin.
func NewLiveFeedHandler(hub *events.Hub, allowedOrigins []string) *LiveFeedHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &LiveFeedHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// GET /api/ws/commodities
func (h *LiveFeedHandler) Commodities(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	h.hub.AddClient(conn)

	// The feed is one-way; reading only detects the client going away.
	go func() {
		defer h.hub.RemoveClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
