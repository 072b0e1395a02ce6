// Package answer holds the generation contracts and the response-shape
// detection for model output.
package answer

import (
	"encoding/json"
	"strings"
)

// Stream delivers incremental text fragments from the model.
// Recv returns io.EOF on normal completion. Close releases the underlying
// connection and is safe to call after an error.
type Stream interface {
	Recv() (string, error)
	Close()
}

// DirectResponse is the structured document the model emits instead of prose
// when a query matches a bare metric-name pattern. The model is an untrusted
// classifier: the document is honored only on a full schema match.
type DirectResponse struct {
	DirectResponse bool             `json:"directResponse"`
	Metrics        []map[string]any `json:"metrics"`
}

// ParseDirect attempts to interpret a complete model answer as a direct
// structured response. It returns (nil, false) unless the text parses as a
// JSON object carrying directResponse=true and a metrics array. Parse failure
// is not an error; it simply selects the prose path.
func ParseDirect(text string) (*DirectResponse, bool) {
	text = stripFence(strings.TrimSpace(text))
	if !strings.HasPrefix(text, "{") {
		return nil, false
	}

	var probe struct {
		DirectResponse *bool             `json:"directResponse"`
		Metrics        *[]map[string]any `json:"metrics"`
	}
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return nil, false
	}
	if probe.DirectResponse == nil || !*probe.DirectResponse || probe.Metrics == nil {
		return nil, false
	}

	return &DirectResponse{DirectResponse: true, Metrics: *probe.Metrics}, true
}

// stripFence removes a surrounding markdown code fence, which models add
// around JSON output despite instructions.
func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
