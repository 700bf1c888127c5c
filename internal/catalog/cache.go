package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// FileCache keeps fetched catalogs on disk so repeated runs skip the network.
type FileCache struct {
	dir string
}

// NewFileCache creates a new file cache in the given directory.
func NewFileCache(dir string) *FileCache {
	return &FileCache{dir: dir}
}

// Get returns the cached catalog for key if it exists and hasn't expired.
func (fc *FileCache) Get(key string, ttl time.Duration) (*Catalog, bool) {
	path := fc.path(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}

	if time.Since(info.ModTime()) > ttl {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	cat, err := Parse(data)
	if err != nil {
		return nil, false
	}
	return cat, true
}

// Set stores a catalog in the cache.
func (fc *FileCache) Set(key string, cat *Catalog) error {
	if err := os.MkdirAll(fc.dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := yaml.Marshal(cat)
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}

	if err := os.WriteFile(fc.path(key), data, 0644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}

// Clear removes all cached catalogs.
func (fc *FileCache) Clear() error {
	entries, err := os.ReadDir(fc.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, e := range entries {
		if err := os.Remove(filepath.Join(fc.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// path maps arbitrary keys (URLs) to stable file names.
func (fc *FileCache) path(key string) string {
	return filepath.Join(fc.dir, uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()+".yaml")
}
