package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The backend is inconsistent about envelopes: list endpoints may answer with
// a raw array, {"data": [...]}, or a collection-named key such as
// {"bookings": [...]}. All shape-sniffing happens here, immediately after the
// response is read, so call sites never branch on envelope shape.

// unwrapList returns the raw JSON array from body, trying the bare-array
// form first, then "data", then the given collection aliases.
func unwrapList(body []byte, aliases ...string) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.RawMessage(trimmed), nil
	}
	// A JSON null (a nil slice on the server) is an empty list, not an error.
	if bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage("[]"), nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("unexpected list response shape: %v", err)
	}

	keys := append([]string{"data"}, aliases...)
	for _, key := range keys {
		if raw, ok := envelope[key]; ok {
			inner := bytes.TrimSpace(raw)
			if len(inner) > 0 && inner[0] == '[' {
				return json.RawMessage(inner), nil
			}
			if bytes.Equal(inner, []byte("null")) {
				return json.RawMessage("[]"), nil
			}
		}
	}
	return nil, fmt.Errorf("no list payload under %v", keys)
}

// unwrapObject returns the raw JSON object from body, unwrapping a "data"
// envelope when present.
func unwrapObject(body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("unexpected response shape: %v", err)
	}
	if raw, ok := envelope["data"]; ok {
		inner := bytes.TrimSpace(raw)
		if len(inner) > 0 && inner[0] == '{' {
			return json.RawMessage(inner), nil
		}
	}
	return json.RawMessage(trimmed), nil
}
