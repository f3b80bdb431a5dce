package controllers

import (
	"encoding/json"
	"net/http"
	"sync"

	"agrosense/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var (
	wsClients = make(map[*websocket.Conn]struct{})
	wsMutex   sync.Mutex
)

// HandleWebSocket upgrades the connection and keeps it registered until the
// client disconnects. Clients receive reading updates and critical alerts.
func HandleWebSocket(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	wsMutex.Lock()
	wsClients[conn] = struct{}{}
	wsMutex.Unlock()

	defer func() {
		wsMutex.Lock()
		delete(wsClients, conn)
		wsMutex.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// BroadcastReading sends a new sensor reading to all WebSocket clients.
func BroadcastReading(reading models.SensorReading) {
	broadcast(map[string]any{
		"type": "reading",
		"data": reading,
	})
}

// BroadcastAlert notifies all WebSocket clients about a critical reading.
func BroadcastAlert(sensorName string, value float64, message string) {
	broadcast(map[string]any{
		"type":    "alert",
		"sensor":  sensorName,
		"value":   value,
		"message": message,
	})
}

func broadcast(payload map[string]any) {
	msg, err := json.Marshal(payload)
	if err != nil {
		return
	}

	wsMutex.Lock()
	defer wsMutex.Unlock()
	for conn := range wsClients {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
}
