package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// StringList decodes from either a JSON string or an array of strings, so
// records written with a single size ("M") still load.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*s = nil
		return nil
	case len(trimmed) > 0 && trimmed[0] == '[':
		var values []string
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return err
		}
		*s = normalizeList(values)
		return nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		*s = normalizeList([]string{value})
		return nil
	default:
		return fmt.Errorf("cannot decode %s into StringList", string(trimmed))
	}
}

// MarshalJSON always writes an array.
func (s StringList) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

// Contains reports whether value is in the list.
func (s StringList) Contains(value string) bool {
	for _, v := range s {
		if v == value {
			return true
		}
	}
	return false
}

func normalizeList(values []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
