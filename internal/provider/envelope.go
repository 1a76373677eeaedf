package provider

import (
	"encoding/json"
)

// StatusSuccess is the only envelope status treated as success.
const StatusSuccess = "success"

// Envelope is the {status, content} wrapper of every catalog-endpoint response.
type Envelope struct {
	Status  string `json:"status"`
	Content string `json:"content"`
}

// DecodeEnvelope decodes and validates a raw envelope body.
func DecodeEnvelope(body []byte) (Envelope, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return Envelope{}, DataIncorrect("envelope is not a JSON object", err)
	}

	var env Envelope
	if s, ok := raw["status"]; ok {
		// A non-string status is still a non-success status.
		if err := json.Unmarshal(s, &env.Status); err != nil {
			env.Status = string(s)
		}
	}
	if err := ValidateEnvelope(env.Status, raw["content"]); err != nil {
		return Envelope{}, err
	}
	if err := json.Unmarshal(raw["content"], &env.Content); err != nil {
		return Envelope{}, DataIncorrect("envelope content is not a string", err)
	}
	if env.Content == "" {
		return Envelope{}, NotFound("content")
	}
	return env, nil
}

// ValidateEnvelope checks status first and only then looks at content:
// a non-success status never inspects content.
func ValidateEnvelope(status string, content json.RawMessage) error {
	if status != StatusSuccess {
		return &StatusError{Status: status}
	}
	if isFalsy(content) {
		return NotFound("content")
	}
	return nil
}

func isFalsy(v json.RawMessage) bool {
	switch string(v) {
	case "", "null", `""`, "false", "0", "[]", "{}":
		return true
	}
	return false
}
