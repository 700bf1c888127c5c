package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/guimove/loadoutfit/internal/catalog"
)

// resolveSource picks the catalog source. An explicit URL takes precedence
// over the catalog file.
func resolveSource(cmd *cobra.Command) catalog.Source {
	if cfg.Catalog.URL == "" {
		return catalog.NewFileSource(cfg.Catalog.Path)
	}

	noCache, _ := cmd.Flags().GetBool("no-cache")
	if noCache {
		return catalog.NewHTTPSource(cfg.Catalog.URL)
	}

	cacheDir := cfg.Catalog.CacheDir
	if cacheDir == "" {
		home, _ := os.UserHomeDir()
		cacheDir = filepath.Join(home, ".cache", "loadoutfit")
	}
	return catalog.NewHTTPSource(cfg.Catalog.URL,
		catalog.WithCache(catalog.NewFileCache(cacheDir), cfg.Catalog.CacheTTL))
}
