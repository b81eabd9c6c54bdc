package limitlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// maxLineSize bounds a single JSONL line
const maxLineSize = 1 << 20

// readEntries reads a file holding a JSON array of objects, a single JSON
// object, or one JSON object per line. A missing or empty file yields nothing.
// Lines and elements that are not objects are skipped.
func readEntries(path string) ([]entry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err == nil && !dec.More() {
		return entriesFromDocument(doc), nil
	}

	return readLines(data), nil
}

func entriesFromDocument(doc any) []entry {
	switch v := doc.(type) {
	case []any:
		entries := make([]entry, 0, len(v))
		for _, el := range v {
			if obj, ok := el.(map[string]any); ok {
				entries = append(entries, entry(obj))
			}
		}
		return entries
	case map[string]any:
		return []entry{entry(v)}
	default:
		return nil
	}
}

// readLines decodes one object per line. Lines over maxLineSize are skipped
// like any other malformed line.
func readLines(data []byte) []entry {
	var entries []entry
	for len(data) > 0 {
		var line []byte
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			line, data = data, nil
		}
		if len(line) > maxLineSize {
			continue
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var obj map[string]any
		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()
		if err := dec.Decode(&obj); err != nil || obj == nil {
			continue
		}
		entries = append(entries, entry(obj))
	}
	return entries
}
