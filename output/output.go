// Package output writes stanalyzer results as JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arjunmahishi/stanalyzer/types"
)

// DefaultRoot is where catalogs are written when no output root is given.
const DefaultRoot = "./data/java/"

// Catalog file names inside <root>/<project>.
const (
	TypeFile   = "typeData.json"
	MethodFile = "methodData.json"
)

// Writer handles structured output.
type Writer struct {
	encoder *json.Encoder
}

// Config holds output configuration.
type Config struct {
	Compact bool
	Output  io.Writer
}

// New creates a new output Writer.
func New(cfg Config) *Writer {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	enc := json.NewEncoder(cfg.Output)
	enc.SetEscapeHTML(false)
	if !cfg.Compact {
		enc.SetIndent("", "  ")
	}

	return &Writer{encoder: enc}
}

// Write outputs a value as JSON.
func (w *Writer) Write(v any) error {
	return w.encoder.Encode(v)
}

// WriteError writes an error message to stderr as {"error": "..."}.
func WriteError(err error) {
	enc := json.NewEncoder(os.Stderr)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(map[string]string{"error": err.Error()})
}

// CatalogPaths returns the type and method catalog paths for a project.
func CatalogPaths(root, project string) (typePath, methodPath string) {
	if root == "" {
		root = DefaultRoot
	}
	dir := filepath.Join(root, project)
	return filepath.Join(dir, TypeFile), filepath.Join(dir, MethodFile)
}

// WriteCatalog writes the type catalog and then the method catalog under
// <root>/<project>. It stops at the first failure; a type catalog already
// written is left in place.
func WriteCatalog(root, project string, typeRecords []types.TypeRecord, members []types.MemberRecord) error {
	typePath, methodPath := CatalogPaths(root, project)
	if err := os.MkdirAll(filepath.Dir(typePath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if typeRecords == nil {
		typeRecords = []types.TypeRecord{}
	}
	if members == nil {
		members = []types.MemberRecord{}
	}

	if err := writeJSONFile(typePath, typeRecords); err != nil {
		return fmt.Errorf("write type catalog: %w", err)
	}
	if err := writeJSONFile(methodPath, members); err != nil {
		return fmt.Errorf("write method catalog: %w", err)
	}
	return nil
}

func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := New(Config{Output: f}).Write(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
