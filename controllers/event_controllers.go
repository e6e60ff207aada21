package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dinehall/reservation-app/events"
	"github.com/dinehall/reservation-app/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ReservationEvents -> websocket stream of reservation lifecycle events
func ReservationEvents(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("websocket upgrade failed: %v", err)
		return
	}

	events.RegisterClient(conn)
	defer events.UnregisterClient(conn)

	// Drain until the client closes; the hub only pushes.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
