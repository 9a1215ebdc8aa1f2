package llm

import (
	"encoding/json"
	"log"
	"strings"
)

// ParseJSONResponse parses a JSON object from an LLM response, handling
// markdown code blocks. Returns nil if no JSON object can be parsed.
func ParseJSONResponse(text string) map[string]any {
	candidate := strings.TrimSpace(jsonCandidate(text))
	if candidate == "" {
		return nil
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(candidate), &result); err != nil {
		log.Printf("Failed to parse LLM response as JSON: %v", err)
		return nil
	}

	return result
}

// jsonCandidate picks the candidate JSON text: the content of the first
// ```json fence pair if present, else the first bare fence pair, else the
// whole response.
func jsonCandidate(text string) string {
	if i := strings.Index(text, "```json"); i >= 0 {
		rest := text[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			return rest[:j]
		}
		return rest
	}
	if i := strings.Index(text, "```"); i >= 0 {
		rest := text[i+3:]
		if j := strings.Index(rest, "```"); j >= 0 {
			return rest[:j]
		}
		return rest
	}
	return text
}
