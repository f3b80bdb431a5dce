package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"agrosense/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketReceivesBroadcasts(t *testing.T) {
	setupTestDB(t)

	r := gin.New()
	r.GET("/ws", HandleWebSocket)
	server := httptest.NewServer(r)
	defer server.Close()

	wsURL := strings.Replace(server.URL, "http", "ws", 1) + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	// Give the handler a moment to register the client.
	time.Sleep(50 * time.Millisecond)

	BroadcastReading(models.SensorReading{ID: 1, SensorID: 2, Value: 33.3, Timestamp: time.Now()})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "reading", msg["type"])
	data := msg["data"].(map[string]any)
	assert.Equal(t, 33.3, data["value"])

	BroadcastAlert("Soil Moisture #1", 18.5, "Soil moisture 18.5% - critical level")
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err = conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "alert", msg["type"])
	assert.Equal(t, "Soil Moisture #1", msg["sensor"])
}
