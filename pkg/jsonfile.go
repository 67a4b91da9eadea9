// Package pkg provides small utilities for mutlab.
package pkg

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// WriteJSONFileAtomic writes value to path as pretty-printed JSON via a
// temporary file and a rename, so a reader never observes a torn write. The
// file at path is replaced wholesale on every call.
func WriteJSONFileAtomic[T any](path string, value T) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return fmt.Errorf("write %s: %w", tmpName, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("rename %s to %s: %w", tmpName, path, err)
	}

	slog.Debug("wrote json file", "path", path, "bytes", len(data))

	return nil
}

// ReadJSONFile reads a JSON file previously written by WriteJSONFileAtomic.
func ReadJSONFile[T any](path string) (T, error) {
	var value T

	data, err := os.ReadFile(path)
	if err != nil {
		return value, fmt.Errorf("read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("unmarshal %s: %w", path, err)
	}

	return value, nil
}
