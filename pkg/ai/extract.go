package ai

import (
	"encoding/json"
	"strings"
)

// StripFence removes a single leading/trailing markdown code fence from
// model output. The first and last lines are dropped only when the text
// begins with a fence marker and spans more than two lines; already-clean
// text passes through unchanged.
func StripFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	lines := strings.Split(content, "\n")
	if len(lines) <= 2 {
		return content
	}
	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
}

// DecodeJSON strips one fence pair if present and unmarshals the remainder
// into v. Parsing failure yields a MalformedResponseError carrying the
// offending text so callers can degrade instead of aborting.
func DecodeJSON(content string, v any) error {
	cleaned := StripFence(content)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return &MalformedResponseError{Raw: content, Err: err}
	}
	return nil
}
