package textgen

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodePayload strips markdown fences and decodes the first JSON object
// in the model output into v.
func decodePayload(raw string, v interface{}) error {
	cleaned := cleanJSON(raw)
	if cleaned == "" {
		return fmt.Errorf("empty response")
	}
	// Models sometimes lead with prose; cut to the first brace.
	if i := strings.IndexByte(cleaned, '{'); i > 0 {
		cleaned = cleaned[i:]
	}
	if j := strings.LastIndexByte(cleaned, '}'); j >= 0 {
		cleaned = cleaned[:j+1]
	}
	return json.Unmarshal([]byte(cleaned), v)
}

// cleanJSON removes ```json fences from model output.
func cleanJSON(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
