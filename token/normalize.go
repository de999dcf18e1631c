// token/normalize.go
package token

import (
	"encoding/json"
	"fmt"
)

// StringList is a claim value that should semantically be a list of
// strings. Upstream claim mappers have been observed emitting such claims
// as a proper list, a list whose sole element is itself a JSON-encoded
// list, a JSON-encoded string, or a bare string; decoding through
// StringList yields the canonical list form in every case.
//
// The double-encoding tolerance is a compatibility shim for a known
// claim-mapping defect, not a contract to extend.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*s = NormalizeStringList(value)
	return nil
}

// NormalizeStringList canonicalizes a multi-valued claim. It is
// idempotent: normalizing an already-canonical list returns the same list.
func NormalizeStringList(value interface{}) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		return normalizeSlice(toInterfaceSlice(v))
	case []interface{}:
		return normalizeSlice(v)
	case string:
		return normalizeString(v)
	default:
		return []string{fmt.Sprint(v)}
	}
}

func normalizeSlice(items []interface{}) []string {
	// A single string element that itself parses as a JSON array is the
	// double-encoding artifact; unwrap it exactly once.
	if len(items) == 1 {
		if inner, ok := items[0].(string); ok {
			var parsed []interface{}
			if err := json.Unmarshal([]byte(inner), &parsed); err == nil {
				return stringify(parsed)
			}
		}
	}
	return stringify(items)
}

func normalizeString(value string) []string {
	var parsed interface{}
	if err := json.Unmarshal([]byte(value), &parsed); err != nil {
		return []string{value}
	}
	switch p := parsed.(type) {
	case []interface{}:
		return stringify(p)
	default:
		return []string{fmt.Sprint(p)}
	}
}

func stringify(items []interface{}) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		} else {
			out = append(out, fmt.Sprint(item))
		}
	}
	return out
}

func toInterfaceSlice(items []string) []interface{} {
	out := make([]interface{}, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
