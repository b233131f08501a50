package booking

import (
	"encoding/json"
	"strconv"
	"strings"
)

// safeGet walks decoded JSON by object key (string) or array index (int)
// and returns nil instead of panicking on a missing step.
func safeGet(data any, path ...any) any {
	current := data
	for _, step := range path {
		switch k := step.(type) {
		case string:
			obj, ok := current.(map[string]any)
			if !ok {
				return nil
			}
			current = obj[k]
		case int:
			slice, ok := current.([]any)
			if !ok || k < 0 || k >= len(slice) {
				return nil
			}
			current = slice[k]
		default:
			return nil
		}
	}
	return current
}

func safeSlice(data any) []any {
	slice, _ := data.([]any)
	return slice
}

func safeObject(data any) map[string]any {
	obj, _ := data.(map[string]any)
	return obj
}

// safeString handles strings and numbers; anything else is "".
func safeString(data any) string {
	switch v := data.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// safeFloat handles numbers and numeric strings; anything else is 0.
func safeFloat(data any) float64 {
	switch v := data.(type) {
	case float64:
		return v
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	}
	return 0
}

func safeInt(data any) int64 {
	switch v := data.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		f, _ := v.Float64()
		return int64(f)
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n
	}
	return 0
}

func safeBool(data any) bool {
	switch v := data.(type) {
	case bool:
		return v
	case json.Number:
		return v.String() != "0"
	case float64:
		return v != 0
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	}
	return false
}
