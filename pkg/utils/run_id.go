package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateRunID creates a short, human-readable identifier for a background run.
// Format: {operation}-{8charHexUUID}
//
// Example:
//   - Input: operation="refresh"
//   - Output: "refresh-a3f8e2b1"
func GenerateRunID(operation string) string {
	return operation + "-" + generateShortUUID()
}

// generateShortUUID creates an 8-character hex string from a UUID
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
