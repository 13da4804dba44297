// Package artifact writes output records as JSON files. Writes are
// atomic (temp file + rename) so a crashed run never leaves a
// half-written artifact behind.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Writer persists JSON artifacts into a target directory.
type Writer struct {
	dir string
}

// NewWriter creates the directory if needed and returns a writer.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// WriteJSON marshals v with indentation and writes it to name inside
// the output directory, returning the final path.
func (w *Writer) WriteJSON(name string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", name, err)
	}
	data = append(data, '\n')

	final := filepath.Join(w.dir, name)
	tmp, err := os.CreateTemp(w.dir, ".artifact-*")
	if err != nil {
		return "", fmt.Errorf("create temp artifact: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmpPath, final); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("rename artifact: %w", err)
	}
	return final, nil
}
