// Package jsonfile provides atomic file operations for JSON data.
package jsonfile

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// Save atomically writes data as indented JSON to the specified path.
// It ensures the parent directory exists, writes to a temp file,
// then renames to the final path for atomic operation.
func Save(path string, data any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tempPath := path + ".tmp"

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(tempPath, jsonData, 0o600); err != nil {
		return err
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return err
	}

	return nil
}

// Load reads JSON from the specified path into dest.
// Returns os.ErrNotExist if the file doesn't exist (caller should handle).
func Load(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

// DecodeLenient unmarshals JSON that may contain comments and trailing
// commas (the permissive dialect). Strict JSON passes through unchanged.
func DecodeLenient(data []byte, dest any) error {
	return json.Unmarshal(jsonc.ToJSON(data), dest)
}

// LoadLenient reads a JSON or JSONC file from path into dest.
func LoadLenient(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return DecodeLenient(data, dest)
}
