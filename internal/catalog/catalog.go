package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/guimove/loadoutfit/internal/model"
	"github.com/guimove/loadoutfit/internal/optimizer"
)

var (
	ErrEmptyCatalog = errors.New("catalog has no slot groups")
	ErrInvalid      = errors.New("invalid catalog")
)

// Source loads a catalog of slot groups and the items that can fill them.
type Source interface {
	// Load returns the catalog. Implementations may cache.
	Load(ctx context.Context) (*Catalog, error)

	// Kind names the source for progress output ("file", "http", "static").
	Kind() string
}

// Catalog is everything one loadout search draws from.
type Catalog struct {
	Name string `yaml:"name" json:"name"`

	// Model is the benefit model the catalog's parameters are written for.
	Model string `yaml:"model" json:"model"`

	// Capacity is the default capacity budget; flags and requests override it.
	Capacity map[string]float64 `yaml:"capacity,omitempty" json:"capacity,omitempty"`

	Groups []Group `yaml:"groups" json:"groups"`
}

// Group is a set of interchangeable slots.
type Group struct {
	Name       string              `yaml:"name" json:"name"`
	Slots      int                 `yaml:"slots" json:"slots"`
	AllowEmpty bool                `yaml:"allow_empty,omitempty" json:"allow_empty,omitempty"`
	Repeatable []model.CatalogItem `yaml:"repeatable,omitempty" json:"repeatable,omitempty"`
	Unique     []model.CatalogItem `yaml:"unique,omitempty" json:"unique,omitempty"`
}

// Validate checks the catalog structure. Item-level checks are left to the
// optimizer, which reports them with the offending group.
func (c *Catalog) Validate() error {
	if len(c.Groups) == 0 {
		return ErrEmptyCatalog
	}
	seen := make(map[string]bool, len(c.Groups))
	for i, g := range c.Groups {
		if g.Name == "" {
			return fmt.Errorf("%w: group %d has no name", ErrInvalid, i)
		}
		if seen[g.Name] {
			return fmt.Errorf("%w: group %q defined twice", ErrInvalid, g.Name)
		}
		seen[g.Name] = true
		if g.Slots < 1 {
			return fmt.Errorf("%w: group %q needs at least one slot, got %d", ErrInvalid, g.Name, g.Slots)
		}
	}
	for dim, v := range c.Capacity {
		if v < 0 {
			return fmt.Errorf("%w: capacity %q is negative", ErrInvalid, dim)
		}
	}
	return nil
}

// SlotGroups converts the catalog into optimizer input. Item kinds are set
// from the pool each item is listed under.
func (c *Catalog) SlotGroups() []optimizer.SlotGroup {
	out := make([]optimizer.SlotGroup, len(c.Groups))
	for i, g := range c.Groups {
		out[i] = optimizer.SlotGroup{
			Name:       g.Name,
			Slots:      g.Slots,
			AllowEmpty: g.AllowEmpty,
			Repeatable: withKind(g.Repeatable, model.PoolRepeatable),
			Unique:     withKind(g.Unique, model.PoolUnique),
		}
	}
	return out
}

// ItemCount returns the number of listed items across all pools.
func (c *Catalog) ItemCount() int {
	n := 0
	for _, g := range c.Groups {
		n += len(g.Repeatable) + len(g.Unique)
	}
	return n
}

func withKind(items []model.CatalogItem, kind model.PoolKind) []model.CatalogItem {
	out := make([]model.CatalogItem, len(items))
	for i := range items {
		out[i] = items[i]
		out[i].Kind = kind
	}
	return out
}
