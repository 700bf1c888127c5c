package model

import "strings"

// Combination is one candidate loadout: exactly one item (or empty
// placeholder) per slot.
type Combination struct {
	Items []CatalogItem `json:"items"`
}

// NewCombination copies items into a Combination so callers may reuse
// their buffer.
func NewCombination(items []CatalogItem) Combination {
	c := make([]CatalogItem, len(items))
	copy(c, items)
	return Combination{Items: c}
}

// TotalPrice returns the summed acquisition price.
func (c Combination) TotalPrice() float64 {
	return TotalPrice(c.Items)
}

// TotalCosts returns the summed capacity cost per dimension.
func (c Combination) TotalCosts() map[string]float64 {
	return TotalCosts(c.Items)
}

// Filled returns the number of non-empty slots.
func (c Combination) Filled() int {
	n := 0
	for i := range c.Items {
		if !c.Items[i].Empty {
			n++
		}
	}
	return n
}

// Label joins the item names, skipping empty slots.
func (c Combination) Label() string {
	names := make([]string, 0, len(c.Items))
	for i := range c.Items {
		if c.Items[i].Empty {
			continue
		}
		names = append(names, c.Items[i].Label())
	}
	if len(names) == 0 {
		return "(nothing fitted)"
	}
	return strings.Join(names, " + ")
}

// TotalPrice sums item prices.
func TotalPrice(items []CatalogItem) float64 {
	var total float64
	for i := range items {
		total += items[i].Price
	}
	return total
}

// TotalCosts sums capacity costs per dimension.
func TotalCosts(items []CatalogItem) map[string]float64 {
	totals := make(map[string]float64)
	for i := range items {
		for dim, v := range items[i].Costs {
			totals[dim] += v
		}
	}
	return totals
}

// FitsIn checks the summed costs against capacity without allocating.
// Dimensions absent from capacity are unlimited.
func FitsIn(items []CatalogItem, capacity map[string]float64) bool {
	for dim, limit := range capacity {
		var used float64
		for i := range items {
			used += items[i].Costs[dim]
		}
		if used > limit {
			return false
		}
	}
	return true
}
