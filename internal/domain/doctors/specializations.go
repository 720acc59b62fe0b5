package doctors

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// NormalizeSpecializations reads the catalogue in any of the shapes backends
// have produced: a bare array or {"data": [...]}, with ids under
// spId/specializationId/specialityId/id/sp_id and names under
// spName/specializationName/specialityName/name/title. Entries without a
// name are dropped; a missing id falls back to the entry's index.
func NormalizeSpecializations(raw []byte) ([]Specialization, error) {
	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		var wrapped struct {
			Data []map[string]any `json:"data"`
		}
		if werr := json.Unmarshal(raw, &wrapped); werr != nil {
			return nil, fmt.Errorf("decode specializations: %w", err)
		}
		items = wrapped.Data
	}

	out := make([]Specialization, 0, len(items))
	for i, item := range items {
		name := firstString(item, "spName", "specializationName", "specialityName", "name", "title")
		if name == "" {
			continue
		}
		id, ok := firstInt(item, "spId", "specializationId", "specialityId", "id", "sp_id")
		if !ok {
			id = i
		}
		out = append(out, Specialization{ID: id, Name: name})
	}
	return out, nil
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstInt(m map[string]any, keys ...string) (int, bool) {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return int(v), true
		case string:
			if n, err := strconv.Atoi(v); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}
