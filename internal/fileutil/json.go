// Package fileutil holds small file-output helpers shared by commands.
package fileutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileExists reports whether path exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// WriteJSONFile writes v as indented JSON to filename, creating parent
// directories as needed. Returns false without writing when the file exists
// and overwrite is not set.
func WriteJSONFile(v any, filename string, overwrite bool) (bool, error) {
	if FileExists(filename) && !overwrite {
		return false, nil
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return false, fmt.Errorf("failed to write JSON file: %w", err)
	}
	return true, nil
}
