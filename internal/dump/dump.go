// Package dump renders the final dump document and writes it out.
package dump

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mark3labs/apib2postman/internal/collection"
)

// FormatVersion is the dump format version understood by the importer.
const FormatVersion = 1

// Document is the top-level dump: one converted collection and the
// environments generated from the description metadata.
type Document struct {
	Version      int                      `json:"version"`
	Collections  []any                    `json:"collections"`
	Environments []collection.Environment `json:"environments"`
}

// New wraps a single converted collection.
func New(col any, envs []collection.Environment) Document {
	if envs == nil {
		envs = []collection.Environment{}
	}
	return Document{Version: FormatVersion, Collections: []any{col}, Environments: envs}
}

// Render serializes doc as JSON indented by two spaces with a trailing
// newline. HTML characters are not escaped.
func Render(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("dump: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteTo renders doc onto w.
func WriteTo(w io.Writer, doc Document) error {
	data, err := Render(doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("dump: write: %w", err)
	}
	return nil
}

// WriteFile renders doc and places it at path through a temp file and
// rename, so a failed run never leaves a partial file behind. An existing
// file is replaced.
func WriteFile(path string, doc Document) error {
	data, err := Render(doc)
	if err != nil {
		return err
	}
	return WriteAtomic(path, data, 0o644)
}

// WriteAtomic writes data to a temp file next to path and renames it into
// place, so readers never observe a partial file. Parent directories are
// created as needed.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("dump: resolve output path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("dump: mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(abs), filepath.Base(abs)+".tmp-*")
	if err != nil {
		return fmt.Errorf("dump: create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("dump: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("dump: close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("dump: chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), abs); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("dump: rename %s: %w", abs, err)
	}
	return nil
}
