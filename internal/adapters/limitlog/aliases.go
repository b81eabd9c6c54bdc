package limitlog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Field alias tables for third-party export entries. Aliases are tried in
// order and the first present, non-empty, non-zero value wins.
var (
	itemIDAliases    = []string{"itemId", "id", "item"}
	timestampAliases = []string{"ts", "time", "timestamp", "createdAt", "createdTime"}
	quantityAliases  = []string{"quantity", "qty", "amount", "tQIT"}
	sideAliases      = []string{"side", "type"}
)

// buySides are the flips-file side values that count as a purchase
var buySides = map[string]bool{
	"buy":    true,
	"bought": true,
	"buying": true,
}

type entry map[string]any

// first returns the first alias whose value is set
func (e entry) first(aliases []string) any {
	for _, key := range aliases {
		if v, ok := e[key]; ok && isSet(v) {
			return v
		}
	}
	return nil
}

func (e entry) int64Field(aliases []string) (int64, bool) {
	return toInt64(e.first(aliases))
}

func (e entry) stringField(aliases []string) string {
	if s, ok := e.first(aliases).(string); ok {
		return s
	}
	return ""
}

// nested returns the object stored under key, if it is one
func (e entry) nested(key string) (entry, bool) {
	obj, ok := e[key].(map[string]any)
	if !ok || len(obj) == 0 {
		return nil, false
	}
	return entry(obj), true
}

// isSet reports whether a decoded JSON value counts as present: zero numbers,
// empty strings, false, null and empty containers do not.
func isSet(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// toInt64 converts a decoded JSON scalar to an integer, truncating fractions.
// Strings must hold a base-10 integer.
func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		f, err := t.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int64(f), true
	case float64:
		return int64(t), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
