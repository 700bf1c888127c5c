package model

import (
	"fmt"
	"math"
	"sort"
)

// PoolKind tags which pool a catalog item belongs to.
type PoolKind string

const (
	// PoolRepeatable items are generic catalog entries that may fill several slots at once.
	PoolRepeatable PoolKind = "repeatable"
	// PoolUnique items are one-off market listings usable in at most one slot.
	PoolUnique PoolKind = "unique"
)

// Listing identifies the market offer behind a unique item.
type Listing struct {
	ModuleID   string `json:"module_id,omitempty" yaml:"module_id,omitempty"`
	ContractID string `json:"contract_id,omitempty" yaml:"contract_id,omitempty"`
}

// CatalogItem is one equipment module or implant as offered on the market.
type CatalogItem struct {
	ID   string   `json:"id" yaml:"id"`
	Name string   `json:"name" yaml:"name"`
	Kind PoolKind `json:"kind" yaml:"kind"`

	// Capacity costs by dimension name (e.g. "cpu").
	Costs map[string]float64 `json:"costs,omitempty" yaml:"costs,omitempty"`

	// Benefit parameters, keyed by the names the benefit model reads.
	Benefits map[string]float64 `json:"benefits,omitempty" yaml:"benefits,omitempty"`

	// One-off ask for unique items, cheapest listing for repeatable ones.
	Price float64 `json:"price" yaml:"price"`

	// Empty marks the explicit "nothing in this slot" placeholder.
	Empty bool `json:"empty,omitempty" yaml:"-"`

	Listing *Listing `json:"listing,omitempty" yaml:"listing,omitempty"`
}

// EmptySlot returns the placeholder used for slots that may stay unfilled.
func EmptySlot(group string) CatalogItem {
	return CatalogItem{
		ID:    "empty:" + group,
		Name:  "(empty)",
		Kind:  PoolRepeatable,
		Empty: true,
	}
}

// Unique reports whether the item is a one-of-a-kind listing.
func (c CatalogItem) Unique() bool {
	return c.Kind == PoolUnique
}

// Cost returns the named capacity cost, zero when absent.
func (c CatalogItem) Cost(dim string) float64 {
	return c.Costs[dim]
}

// Benefit returns the named benefit parameter or fallback when absent.
func (c CatalogItem) Benefit(name string, fallback float64) float64 {
	if v, ok := c.Benefits[name]; ok {
		return v
	}
	return fallback
}

// Validate checks that price and costs are finite and non-negative.
func (c CatalogItem) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("item %q has no id", c.Name)
	}
	if !validAmount(c.Price) {
		return fmt.Errorf("item %s: price must be a non-negative number, got %v", c.ID, c.Price)
	}
	for dim, v := range c.Costs {
		if !validAmount(v) {
			return fmt.Errorf("item %s: cost %q must be a non-negative number, got %v", c.ID, dim, v)
		}
	}
	for name, v := range c.Benefits {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("item %s: benefit %q must be finite, got %v", c.ID, name, v)
		}
	}
	return nil
}

// Label returns a display name, falling back to the id.
func (c CatalogItem) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// DedupRepeatable collapses repeatable items sharing an id into one entry
// carrying the cheapest observed price. First-seen order is kept.
func DedupRepeatable(items []CatalogItem) []CatalogItem {
	index := make(map[string]int, len(items))
	out := make([]CatalogItem, 0, len(items))
	for _, it := range items {
		if i, ok := index[it.ID]; ok {
			if it.Price < out[i].Price {
				out[i].Price = it.Price
			}
			continue
		}
		index[it.ID] = len(out)
		out = append(out, it)
	}
	return out
}

// CostDimensions returns the sorted union of cost dimension names.
func CostDimensions(items ...[]CatalogItem) []string {
	seen := make(map[string]struct{})
	for _, pool := range items {
		for i := range pool {
			for dim := range pool[i].Costs {
				seen[dim] = struct{}{}
			}
		}
	}
	dims := make([]string, 0, len(seen))
	for dim := range seen {
		dims = append(dims, dim)
	}
	sort.Strings(dims)
	return dims
}
