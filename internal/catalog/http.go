package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxCatalogBytes caps the size of a fetched catalog document.
const maxCatalogBytes = 32 << 20

// HTTPSource fetches a catalog document from a URL, typically one exported
// by a market scraper. Responses can be cached on disk.
type HTTPSource struct {
	url      string
	client   *http.Client
	cache    *FileCache
	cacheTTL time.Duration
}

// HTTPOption configures the HTTP source.
type HTTPOption func(*HTTPSource)

// WithCache enables the on-disk cache.
func WithCache(cache *FileCache, ttl time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) { s.client = c }
}

// NewHTTPSource creates a source that downloads the catalog at url.
func NewHTTPSource(url string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Kind returns "http".
func (s *HTTPSource) Kind() string {
	return "http"
}

// Load returns the cached catalog when fresh, otherwise downloads it.
func (s *HTTPSource) Load(ctx context.Context) (*Catalog, error) {
	if s.cache != nil {
		if cat, ok := s.cache.Get(s.url, s.cacheTTL); ok {
			return cat, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/yaml, application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching catalog: %s returned %s", s.url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("reading catalog response: %w", err)
	}

	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", s.url, err)
	}

	if s.cache != nil {
		// A failed cache write only costs a refetch next time.
		_ = s.cache.Set(s.url, cat)
	}
	return cat, nil
}
