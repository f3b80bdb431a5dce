// Package esp implements the HTTP client used to talk to ESP32 irrigation
// controllers and a manager for the configured device fleet.
package esp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// CommandResult is the outcome of one command sent to a device.
type CommandResult struct {
	Success    bool           `json:"success"`
	Data       map[string]any `json:"data,omitempty"`
	Error      string         `json:"error,omitempty"`
	StatusCode int            `json:"status_code,omitempty"`
}

// Client talks to a single ESP32 device over its JSON HTTP API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a client for the device at the given address.
func NewClient(ip string, port int) *Client {
	return &Client{
		BaseURL:    fmt.Sprintf("http://%s:%d", ip, port),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SendCommand POSTs the payload to the endpoint, or GETs when payload is nil.
func (c *Client) SendCommand(endpoint string, payload map[string]any) CommandResult {
	url := fmt.Sprintf("%s/%s", c.BaseURL, endpoint)

	var resp *http.Response
	var err error
	if payload != nil {
		var body []byte
		body, err = json.Marshal(payload)
		if err != nil {
			return CommandResult{Success: false, Error: err.Error()}
		}
		resp, err = c.HTTPClient.Post(url, "application/json", bytes.NewBuffer(body))
	} else {
		resp, err = c.HTTPClient.Get(url)
	}
	if err != nil {
		return CommandResult{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return CommandResult{
			Success:    false,
			Error:      fmt.Sprintf("device returned status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	data := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	if err == nil && len(raw) > 0 {
		json.Unmarshal(raw, &data)
	}

	return CommandResult{Success: true, Data: data, StatusCode: resp.StatusCode}
}

// StartPump starts a water pump for the given duration.
func (c *Client) StartPump(pumpID, durationMinutes int) CommandResult {
	return c.SendCommand("pump/control", map[string]any{
		"pump_id":  pumpID,
		"duration": durationMinutes,
		"action":   "start",
	})
}

// StopPump stops a water pump.
func (c *Client) StopPump(pumpID int) CommandResult {
	return c.SendCommand("pump/control", map[string]any{
		"pump_id": pumpID,
		"action":  "stop",
	})
}

// PumpStatus returns the status of all pumps on the device.
func (c *Client) PumpStatus() CommandResult {
	return c.SendCommand("pump/status", nil)
}

// ReadSensors returns the current readings from the device's sensors.
func (c *Client) ReadSensors() CommandResult {
	return c.SendCommand("sensors/read", nil)
}

// CalibrateSensor calibrates one sensor on the device.
func (c *Client) CalibrateSensor(sensorID string) CommandResult {
	return c.SendCommand("sensors/calibrate", map[string]any{"sensor_id": sensorID})
}

// SystemInfo returns device system information.
func (c *Client) SystemInfo() CommandResult {
	return c.SendCommand("system/info", nil)
}

// Reset restarts the device.
func (c *Client) Reset() CommandResult {
	return c.SendCommand("system/reset", map[string]any{"action": "reset"})
}

// Manager fans commands out to the configured ESP32 fleet.
type Manager struct {
	clients map[string]*Client
}

// NewManager returns a manager preloaded with the default device fleet.
func NewManager() *Manager {
	m := &Manager{clients: map[string]*Client{}}
	for _, device := range []struct {
		name string
		ip   string
	}{
		{"main_controller", "192.168.1.100"},
		{"zone_a_controller", "192.168.1.101"},
		{"zone_b_controller", "192.168.1.102"},
	} {
		m.clients[device.name] = NewClient(device.ip, 80)
	}
	return m
}

// AddDevice registers (or replaces) a named device client.
func (m *Manager) AddDevice(name string, client *Client) {
	m.clients[name] = client
}

// Controller returns the client for a named device, or nil.
func (m *Manager) Controller(name string) *Client {
	return m.clients[name]
}

// Broadcast sends a command to every device and collects the results.
func (m *Manager) Broadcast(endpoint string, payload map[string]any) map[string]CommandResult {
	results := map[string]CommandResult{}
	for name, client := range m.clients {
		results[name] = client.SendCommand(endpoint, payload)
	}
	return results
}

// StartIrrigationZone starts a pump on the controller serving the zone.
func (m *Manager) StartIrrigationZone(zoneName string, pumpID, durationMinutes int) CommandResult {
	client := m.Controller(zoneName)
	if client == nil {
		return CommandResult{Success: false, Error: fmt.Sprintf("controller %s not found", zoneName)}
	}
	return client.StartPump(pumpID, durationMinutes)
}

// StopAllIrrigation stops every pump on every device.
func (m *Manager) StopAllIrrigation() map[string]CommandResult {
	return m.Broadcast("pump/control", map[string]any{"action": "stop_all"})
}
