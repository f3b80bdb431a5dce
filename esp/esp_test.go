package esp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(server *httptest.Server) *Client {
	return &Client{BaseURL: server.URL, HTTPClient: server.Client()}
}

func TestSendCommandPost(t *testing.T) {
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pump/control", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
	}))
	defer server.Close()

	result := testClient(server).StartPump(2, 15)
	assert.True(t, result.Success)
	assert.Equal(t, "ok", result.Data["status"])
	assert.Equal(t, float64(2), gotPayload["pump_id"])
	assert.Equal(t, "start", gotPayload["action"])
}

func TestSendCommandGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/sensors/read", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"soil_moisture": 42.5})
	}))
	defer server.Close()

	result := testClient(server).ReadSensors()
	assert.True(t, result.Success)
	assert.Equal(t, 42.5, result.Data["soil_moisture"])
}

func TestSendCommandDeviceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	result := testClient(server).PumpStatus()
	assert.False(t, result.Success)
	assert.Equal(t, http.StatusInternalServerError, result.StatusCode)
	assert.Contains(t, result.Error, "500")
}

func TestSendCommandUnreachable(t *testing.T) {
	client := NewClient("127.0.0.1", 1) // nothing listens here
	result := client.SystemInfo()
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestManagerBroadcast(t *testing.T) {
	hits := map[string]int{}
	newDevice := func(name string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits[name]++
			json.NewEncoder(w).Encode(map[string]any{"ok": true})
		}))
	}
	serverA := newDevice("a")
	serverB := newDevice("b")
	defer serverA.Close()
	defer serverB.Close()

	m := &Manager{clients: map[string]*Client{
		"zone_a_controller": testClient(serverA),
		"zone_b_controller": testClient(serverB),
	}}

	results := m.StopAllIrrigation()
	assert.Len(t, results, 2)
	assert.True(t, results["zone_a_controller"].Success)
	assert.True(t, results["zone_b_controller"].Success)
	assert.Equal(t, 1, hits["a"])
	assert.Equal(t, 1, hits["b"])
}

func TestManagerStartIrrigationZoneUnknown(t *testing.T) {
	m := &Manager{clients: map[string]*Client{}}
	result := m.StartIrrigationZone("zone_x_controller", 1, 10)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "not found")
}

func TestNewManagerDefaultFleet(t *testing.T) {
	m := NewManager()
	assert.NotNil(t, m.Controller("main_controller"))
	assert.NotNil(t, m.Controller("zone_a_controller"))
	assert.NotNil(t, m.Controller("zone_b_controller"))
	assert.Nil(t, m.Controller("missing"))
}
