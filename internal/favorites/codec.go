package favorites

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Encode serializes ids as a JSON array of integers in ascending order.
func Encode(ids []int) string {
	sorted := make([]int, len(ids))
	copy(sorted, ids)
	sort.Ints(sorted)
	b, err := json.Marshal(sorted)
	if err != nil {
		// []int always marshals.
		return "[]"
	}
	return string(b)
}

// Decode parses a persisted favorites payload. Besides the canonical array
// of integers it accepts numeric strings and objects carrying an "id"
// field, which is how older clients stored whole activities. Duplicates are
// collapsed. Any element that is none of these makes the whole payload invalid.
func Decode(payload string) ([]int, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" || payload == "null" {
		return nil, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("decoding favorites: %w", err)
	}

	seen := make(map[int]bool, len(raw))
	ids := make([]int, 0, len(raw))
	for i, elem := range raw {
		id, err := decodeID(elem)
		if err != nil {
			return nil, fmt.Errorf("decoding favorites element %d: %w", i, err)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

func decodeID(elem json.RawMessage) (int, error) {
	elem = bytes.TrimSpace(elem)
	if len(elem) == 0 {
		return 0, fmt.Errorf("empty element")
	}
	switch elem[0] {
	case '{':
		var obj struct {
			ID *json.RawMessage `json:"id"`
		}
		if err := json.Unmarshal(elem, &obj); err != nil {
			return 0, err
		}
		if obj.ID == nil {
			return 0, fmt.Errorf("object without id")
		}
		return decodeID(*obj.ID)
	case '"':
		var s string
		if err := json.Unmarshal(elem, &s); err != nil {
			return 0, err
		}
		return strconv.Atoi(strings.TrimSpace(s))
	default:
		var n int
		if err := json.Unmarshal(elem, &n); err != nil {
			return 0, err
		}
		return n, nil
	}
}
