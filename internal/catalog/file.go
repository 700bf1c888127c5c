package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileSource loads a catalog from a YAML or JSON file.
type FileSource struct {
	path string
}

// NewFileSource creates a source that reads the given file on every Load.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Kind returns "file".
func (f *FileSource) Kind() string {
	return "file"
}

// Path returns the catalog file path.
func (f *FileSource) Path() string {
	return f.path
}

// Load reads and parses the catalog file.
func (f *FileSource) Load(ctx context.Context) (*Catalog, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", f.path, err)
	}
	return cat, nil
}

// Parse decodes a catalog document. JSON is accepted as a subset of YAML.
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}
