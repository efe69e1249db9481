package controllers

import (
	"net/http"

	"github.com/soumaisfe-svg/vida-fit-control-1/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type RealtimeController struct {
	RT *services.RealtimeHub
}

func NewRealtimeController(rt *services.RealtimeHub) *RealtimeController {
	return &RealtimeController{RT: rt}
}

var realtimeUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Connect upgrades the authenticated caller and keeps the socket registered
// with the hub until it drops.
func (h *RealtimeController) Connect(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := realtimeUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := &services.WSClient{UserID: userID, Conn: conn}
	h.RT.Register(client)
	defer h.RT.Unregister(client)

	// reads only to detect the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
