package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// GeminiBaseURL is overridable in tests.
var GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

const GeminiModelName = "gemini-1.5-flash"

var ErrGeminiKeyMissing = errors.New("GEMINI_API_KEY is not configured")

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateContent sends a prompt to the Gemini generateContent endpoint and
// returns the response text. There is no fallback: callers surface errors.
func GenerateContent(apiKey, prompt string) (string, error) {
	if apiKey == "" {
		return "", ErrGeminiKeyMissing
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", GeminiBaseURL, GeminiModelName, apiKey)
	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Post(url, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("invalid Gemini response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("gemini API error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response from Gemini")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// BuildAnalysisPrompt assembles the comprehensive analysis prompt from the
// latest sensor, weather and plant data plus optional field/plant parameters
// supplied by the caller.
func BuildAnalysisPrompt(sensorData, weatherData map[string]float64, plantData map[string]any, fieldParams, plantParams map[string]any) string {
	var b strings.Builder

	b.WriteString("You are a professional agronomist and smart irrigation system expert. ")
	b.WriteString("Analyze the following data in depth and give scientifically grounded, practical recommendations.\n\n")

	b.WriteString("SENSOR DATA:\n")
	b.WriteString(fmt.Sprintf("- Soil moisture: %s%% (optimal: 60-80%%)\n", formatReading(sensorData, "soil_moisture")))
	b.WriteString(fmt.Sprintf("- Soil temperature: %s°C (optimal: 18-24°C)\n", formatReading(sensorData, "soil_temperature")))
	b.WriteString(fmt.Sprintf("- Air temperature: %s°C\n", formatReading(sensorData, "air_temperature")))
	b.WriteString(fmt.Sprintf("- Air humidity: %s%%\n", formatReading(sensorData, "air_humidity")))
	b.WriteString(fmt.Sprintf("- Soil pH: %s\n", formatReading(sensorData, "ph")))

	b.WriteString("\nWEATHER:\n")
	b.WriteString(fmt.Sprintf("- Temperature: %s°C\n", formatReading(weatherData, "temperature")))
	b.WriteString(fmt.Sprintf("- Humidity: %s%%\n", formatReading(weatherData, "humidity")))
	b.WriteString(fmt.Sprintf("- Rainfall: %s mm\n", formatReading(weatherData, "rainfall")))
	b.WriteString(fmt.Sprintf("- Wind speed: %s km/h\n", formatReading(weatherData, "wind_speed")))

	if len(plantData) > 0 {
		b.WriteString("\nPLANTS:\n")
		for k, v := range plantData {
			b.WriteString(fmt.Sprintf("- %s: %v\n", strings.ReplaceAll(k, "_", " "), v))
		}
	}

	if len(fieldParams) > 0 {
		b.WriteString("\nFIELD PARAMETERS:\n")
		for k, v := range fieldParams {
			b.WriteString(fmt.Sprintf("- %s: %v\n", strings.ReplaceAll(k, "_", " "), v))
		}
	}
	if len(plantParams) > 0 {
		b.WriteString("\nPLANT PARAMETERS:\n")
		for k, v := range plantParams {
			b.WriteString(fmt.Sprintf("- %s: %v\n", strings.ReplaceAll(k, "_", " "), v))
		}
	}

	b.WriteString("\nRespond with:\n")
	b.WriteString("1. An irrigation decision (irrigate now / wait) with reasoning\n")
	b.WriteString("2. Key insights, one per line prefixed with 'INSIGHT:'\n")
	b.WriteString("3. An action plan, one step per line prefixed with 'ACTION:'\n")

	return b.String()
}

// ExtractInsights pulls INSIGHT-prefixed lines from a Gemini response. When
// the model ignored the requested format, the first sentences are used.
func ExtractInsights(responseText string) []map[string]string {
	insights := []map[string]string{}
	for _, line := range strings.Split(responseText, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		if rest, ok := strings.CutPrefix(line, "INSIGHT:"); ok {
			text := strings.TrimSpace(rest)
			if text == "" {
				continue
			}
			insights = append(insights, map[string]string{
				"title":       truncate(text, 200),
				"description": text,
				"priority":    "medium",
			})
		}
	}
	if len(insights) == 0 {
		if summary := firstSentence(responseText); summary != "" {
			insights = append(insights, map[string]string{
				"title":       truncate(summary, 200),
				"description": summary,
				"priority":    "medium",
			})
		}
	}
	return insights
}

// ExtractActionPlan pulls ACTION-prefixed lines from a Gemini response.
func ExtractActionPlan(responseText string) []string {
	actions := []string{}
	for _, line := range strings.Split(responseText, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		if rest, ok := strings.CutPrefix(line, "ACTION:"); ok {
			if text := strings.TrimSpace(rest); text != "" {
				actions = append(actions, text)
			}
		}
	}
	return actions
}

func formatReading(m map[string]float64, key string) string {
	if v, ok := m[key]; ok {
		return fmt.Sprintf("%.1f", v)
	}
	return "N/A"
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.IndexAny(text, ".!?\n"); idx > 0 {
		return strings.TrimSpace(text[:idx+1])
	}
	return text
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
