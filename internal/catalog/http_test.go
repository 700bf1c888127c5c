package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveCatalog(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	doc, err := os.ReadFile(filepath.Join("testdata", "damage_mods.yaml"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/catalog.yaml" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(doc)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPSource_Load(t *testing.T) {
	var hits atomic.Int32
	srv := serveCatalog(t, &hits)

	src := NewHTTPSource(srv.URL+"/catalog.yaml", WithHTTPClient(srv.Client()))
	assert.Equal(t, "http", src.Kind())

	cat, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ballistic control systems", cat.Name)
	assert.Equal(t, 3, cat.ItemCount())
}

func TestHTTPSource_NotFound(t *testing.T) {
	var hits atomic.Int32
	srv := serveCatalog(t, &hits)

	_, err := NewHTTPSource(srv.URL + "/missing").Load(context.Background())
	assert.ErrorContains(t, err, "404")
}

func TestHTTPSource_UsesCache(t *testing.T) {
	var hits atomic.Int32
	srv := serveCatalog(t, &hits)
	cache := NewFileCache(t.TempDir())

	src := NewHTTPSource(srv.URL+"/catalog.yaml", WithCache(cache, time.Hour))
	for range 3 {
		cat, err := src.Load(context.Background())
		require.NoError(t, err)
		assert.Len(t, cat.Groups, 1)
	}
	assert.EqualValues(t, 1, hits.Load())

	require.NoError(t, cache.Clear())
	_, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, hits.Load())
}

func TestFileCache(t *testing.T) {
	cache := NewFileCache(t.TempDir())
	cat := &Catalog{Name: "c", Groups: []Group{{Name: "g", Slots: 2}}}

	_, ok := cache.Get("k", time.Hour)
	assert.False(t, ok, "expected miss on empty cache")

	require.NoError(t, cache.Set("k", cat))

	got, ok := cache.Get("k", time.Hour)
	require.True(t, ok)
	assert.Equal(t, cat.Name, got.Name)
	assert.Equal(t, 2, got.Groups[0].Slots)

	// TTL of 0 means always expired
	_, ok = cache.Get("k", 0)
	assert.False(t, ok)
}

func TestFileCache_ClearMissingDir(t *testing.T) {
	cache := NewFileCache(filepath.Join(t.TempDir(), "never-created"))
	assert.NoError(t, cache.Clear())
}
