package services

import (
	"encoding/json"
	"os"
)

// gpFileKeys are tried in order; the first non-negative number wins
var gpFileKeys = []string{"gp_available", "gp", "coins", "cash"}

// ReadGPFile reads the player's current coins from a small JSON file.
// Returns nil when the path is empty, unreadable or holds no usable value.
func ReadGPFile(path string) *int64 {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	for _, key := range gpFileKeys {
		v, ok := doc[key].(float64)
		if !ok || v < 0 {
			continue
		}
		gp := int64(v)
		return &gp
	}
	return nil
}
