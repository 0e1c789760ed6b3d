package upstream

import (
	"bytes"
	"encoding/json"
)

// NormalizeList extracts a list from the backend's varying response shapes.
// Candidates are tried in order: a top-level array, data, data.data,
// data.orders, orders. Anything else yields an empty list.
func NormalizeList(raw []byte) []json.RawMessage {
	if list, ok := asArray(raw); ok {
		return list
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return []json.RawMessage{}
	}

	if data, ok := top["data"]; ok {
		if list, ok := asArray(data); ok {
			return list
		}
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(data, &inner); err == nil {
			for _, key := range []string{"data", "orders"} {
				if list, ok := asArray(inner[key]); ok {
					return list
				}
			}
		}
	}

	if list, ok := asArray(top["orders"]); ok {
		return list
	}
	return []json.RawMessage{}
}

func asArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false
	}
	if list == nil {
		list = []json.RawMessage{}
	}
	return list, true
}
