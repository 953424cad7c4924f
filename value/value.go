// Package value provides coercion helpers for the loosely typed values found
// in metadata documents decoded from JSON.
//
// These helpers solve common problems:
//   - Type coercion (float64 from JSON → "2020")
//   - Null/empty handling
//   - Multi-value normalization
package value

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Text extracts a string from the scalar representations found in decoded
// documents. Containers and nil yield "".
func Text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case map[string]any, []any:
		return ""
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// String returns v when it is a string, and reports whether it was.
func String(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// TextOr extracts a string with a default for empty/nil values.
func TextOr(v any, defaultVal string) string {
	if s := Text(v); s != "" {
		return s
	}
	return defaultVal
}

// List returns v as a sequence. A single non-nil value becomes a one-element
// sequence; nil becomes nil.
func List(v any) []any {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		return val
	case []map[string]any:
		out := make([]any, len(val))
		for i, m := range val {
			out[i] = m
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out
	default:
		return []any{val}
	}
}

// Map returns v as a mapping, or nil.
func Map(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// TextSlice normalizes a value to trimmed, non-empty strings.
func TextSlice(v any) []string {
	items := List(v)
	if len(items) == 0 {
		return nil
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(Text(item)); s != "" {
			result = append(result, s)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// Unique drops repeated strings, keeping first occurrences.
func Unique(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0:0]
	for _, s := range items {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// Int extracts an integer from various representations.
// Handles: int, float64, string ("123"), json.Number, nil (→ 0)
func Int(v any) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	case json.Number:
		i, _ := val.Int64()
		return int(i)
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(val))
		return i
	default:
		return 0
	}
}

// Bool extracts a boolean from various representations.
func Bool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		return s == "true" || s == "1" || s == "yes"
	case float64:
		return val != 0
	case int:
		return val != 0
	default:
		return false
	}
}
