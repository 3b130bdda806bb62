// Package ui turns agent output into the response contract: either prose or
// one typed widget payload, never both.
package ui

import (
	"encoding/json"
	"io"
	"strings"

	contractx "github.com/jmakkonen/salespilot/agent/contract"
)

// requiredContentKey names the content field each widget role must carry.
var requiredContentKey = map[string]string{
	"company": "name",
	"event":   "title",
	"table":   "rows",
}

// Parse recognizes a structured widget payload. Only text that is a JSON
// object in its entirety qualifies; JSON embedded inside prose stays prose.
func Parse(text string) (*contractx.UIPayload, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return nil, false
	}

	var payload contractx.UIPayload
	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return nil, false
	}
	// The object must be the whole text. Anything after it, prose included,
	// keeps the response in prose mode.
	if err := dec.Decode(new(json.RawMessage)); err != io.EOF {
		return nil, false
	}

	key, ok := requiredContentKey[payload.Role]
	if !ok {
		return nil, false
	}
	if payload.Content == nil {
		return nil, false
	}
	if v, present := payload.Content[key]; !present || v == nil {
		return nil, false
	}
	return &payload, true
}

// Format wraps final agent text into a reply. A recognized widget payload
// becomes structured output with no prose; anything else is prose.
func Format(text string) contractx.AgentReply {
	if payload, ok := Parse(text); ok {
		return contractx.AgentReply{Payload: payload}
	}
	return contractx.AgentReply{Message: strings.TrimSpace(text)}
}
