package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LookupTask asks the customs portal about one tracking code.
type LookupTask struct {
	TrackingCode string `json:"trackingCode"`
}

// LookupResult is the customs portal's answer for one tracking code.
type LookupResult struct {
	TrackingCode string `json:"trackingCode"`
	// HasData is false when the customs portal has no record yet.
	HasData bool `json:"hasData"`
	// Status is StatusProcessing when HasData is set, empty otherwise.
	Status Status            `json:"status,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// identifierFields are internal keys of the customs portal, never shown to users.
var identifierFields = map[string]struct{}{
	"ID":    {},
	"GR_ID": {},
	"UN_ID": {},
}

// customsEnvelope is the search endpoint's response: field names and rows of values in parallel.
type customsEnvelope struct {
	Fields []string            `json:"fields"`
	Rows   [][]json.RawMessage `json:"rows"`
}

// ParseEnvelope decodes a customs search response for code.
// Only the first row is used. Non-string values keep their JSON text and null becomes empty.
func ParseEnvelope(code string, body []byte) (*LookupResult, error) {
	var env customsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to parse customs response: %w", err)
	}

	result := &LookupResult{TrackingCode: code}
	if len(env.Rows) == 0 {
		return result, nil
	}

	row := env.Rows[0]
	fields := make(map[string]string, len(env.Fields))
	for i, name := range env.Fields {
		if i >= len(row) {
			break
		}
		if _, skip := identifierFields[name]; skip {
			continue
		}
		fields[name] = rawString(row[i])
	}

	result.HasData = true
	result.Status = StatusProcessing
	result.Fields = fields
	return result, nil
}

func rawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
