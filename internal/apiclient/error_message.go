package apiclient

import (
	"encoding/json"
	"strings"
)

// errorMessage extracts a human readable message from an error body. It looks
// for "message", then "detail", then "error" in a JSON object and otherwise
// falls back to the raw text.
func errorMessage(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return genericErrorMessage
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text), &payload); err == nil {
		for _, key := range []string{"message", "detail", "error"} {
			if value, ok := payload[key].(string); ok && strings.TrimSpace(value) != "" {
				return strings.TrimSpace(value)
			}
		}
	}
	return text
}
