package catalog

import "context"

// StaticSource serves a pre-built catalog.
// Used for tests and for catalogs posted to the HTTP API.
type StaticSource struct {
	catalog *Catalog
}

// NewStaticSource wraps an in-memory catalog.
func NewStaticSource(c *Catalog) *StaticSource {
	return &StaticSource{catalog: c}
}

// Kind returns "static".
func (s *StaticSource) Kind() string {
	return "static"
}

// Load validates and returns the wrapped catalog.
func (s *StaticSource) Load(ctx context.Context) (*Catalog, error) {
	if s.catalog == nil {
		return nil, ErrEmptyCatalog
	}
	if err := s.catalog.Validate(); err != nil {
		return nil, err
	}
	return s.catalog, nil
}
