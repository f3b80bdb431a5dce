package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiTestServer(t *testing.T, handler http.HandlerFunc) func() {
	t.Helper()
	server := httptest.NewServer(handler)
	old := GeminiBaseURL
	GeminiBaseURL = server.URL
	return func() {
		GeminiBaseURL = old
		server.Close()
	}
}

func TestGenerateContent(t *testing.T) {
	var receivedPrompt string
	cleanup := geminiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, GeminiModelName)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		receivedPrompt = req.Contents[0].Parts[0].Text

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]string{{"text": "INSIGHT: soil is dry\nACTION: irrigate now"}},
				},
			}},
		})
	})
	defer cleanup()

	text, err := GenerateContent("test-key", "analyze this field")
	require.NoError(t, err)
	assert.Contains(t, text, "INSIGHT: soil is dry")
	assert.Equal(t, "analyze this field", receivedPrompt)
}

func TestGenerateContentMissingKey(t *testing.T) {
	_, err := GenerateContent("", "prompt")
	assert.ErrorIs(t, err, ErrGeminiKeyMissing)
}

func TestGenerateContentAPIError(t *testing.T) {
	cleanup := geminiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 429, "message": "quota exceeded"},
		})
	})
	defer cleanup()

	_, err := GenerateContent("test-key", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGenerateContentEmptyCandidates(t *testing.T) {
	cleanup := geminiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	})
	defer cleanup()

	_, err := GenerateContent("test-key", "prompt")
	assert.Error(t, err)
}

func TestBuildAnalysisPrompt(t *testing.T) {
	prompt := BuildAnalysisPrompt(
		map[string]float64{"soil_moisture": 22.5, "air_temperature": 31},
		map[string]float64{"temperature": 30, "rainfall": 0},
		map[string]any{"total_plants": 3},
		map[string]any{"area_hectares": 1.5},
		nil,
	)
	assert.Contains(t, prompt, "22.5")
	assert.Contains(t, prompt, "SENSOR DATA")
	assert.Contains(t, prompt, "total plants: 3")
	assert.Contains(t, prompt, "area hectares: 1.5")
	assert.Contains(t, prompt, "N/A") // missing readings are marked, not zeroed
	assert.Contains(t, prompt, "INSIGHT:")
	assert.Contains(t, prompt, "ACTION:")
}

func TestExtractInsights(t *testing.T) {
	text := "Some intro.\nINSIGHT: soil moisture is trending down\n- INSIGHT: rainfall unlikely this week\nACTION: irrigate"
	insights := ExtractInsights(text)
	assert.Len(t, insights, 2)
	assert.Equal(t, "soil moisture is trending down", insights[0]["description"])
	assert.Equal(t, "medium", insights[0]["priority"])
}

func TestExtractInsightsFallback(t *testing.T) {
	// A response without the requested format still yields one insight.
	insights := ExtractInsights("The field looks healthy overall. Keep monitoring.")
	assert.Len(t, insights, 1)
	assert.Equal(t, "The field looks healthy overall.", insights[0]["description"])
}

func TestExtractActionPlan(t *testing.T) {
	text := "INSIGHT: dry\n1. ACTION: irrigate at 18:00\n2. ACTION: recheck pH tomorrow\nnothing else"
	actions := ExtractActionPlan(text)
	assert.Equal(t, []string{"irrigate at 18:00", "recheck pH tomorrow"}, actions)
}
