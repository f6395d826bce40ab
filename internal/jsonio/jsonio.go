// Package jsonio reads the JSON array artifacts exchanged between pipeline
// stages. Every input file consumed by the pipeline is a top-level JSON
// array; anything else is a fatal error for the stage that reads it.
package jsonio

import (
	"encoding/json"
	"fmt"
	"os"
)

// DecodeList reads path and decodes it as a top-level JSON array, returning
// the raw elements for per-entry decoding by the caller. A missing file,
// invalid JSON, or a non-array top level is an error; an empty array is
// valid and yields an empty slice.
func DecodeList(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: expected a JSON array: %w", path, err)
	}
	// Unmarshal accepts a top-level null and leaves the slice nil; that is
	// not a collection and must not pass for an empty one.
	if entries == nil {
		return nil, fmt.Errorf("parse %s: expected a JSON array, got null", path)
	}
	return entries, nil
}
