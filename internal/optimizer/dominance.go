package optimizer

import "github.com/guimove/loadoutfit/internal/model"

// Direction tells the dominance filter which way a benefit axis improves.
type Direction int

const (
	HigherIsBetter Direction = iota
	LowerIsBetter
)

// Axis describes one benefit parameter of a benefit model.
type Axis struct {
	Name      string
	Direction Direction
	Neutral   float64 // value assumed when an item does not carry the parameter
}

// atLeastAsGood reports whether a is no worse than b on this axis.
func (ax Axis) atLeastAsGood(a, b model.CatalogItem) bool {
	va := a.Benefit(ax.Name, ax.Neutral)
	vb := b.Benefit(ax.Name, ax.Neutral)
	if ax.Direction == LowerIsBetter {
		return va <= vb
	}
	return va >= vb
}

// FilterDominated drops items priced above maxPrice and items for which
// another item in the same pool is strictly cheaper while being no worse on
// every cost dimension and every benefit axis. Survivors keep their order.
//
// The pool is compared only against itself; callers filter repeatable and
// unique pools separately. Empty placeholders are always kept.
func FilterDominated(pool []model.CatalogItem, axes []Axis, maxPrice float64) []model.CatalogItem {
	dims := model.CostDimensions(pool)
	out := make([]model.CatalogItem, 0, len(pool))
	for i := range pool {
		if pool[i].Empty {
			out = append(out, pool[i])
			continue
		}
		if pool[i].Price > maxPrice {
			continue
		}
		dominated := false
		for j := range pool {
			if i == j || pool[j].Empty {
				continue
			}
			if dominates(pool[j], pool[i], dims, axes) {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, pool[i])
		}
	}
	return out
}

// dominates returns true if b makes a redundant.
func dominates(b, a model.CatalogItem, dims []string, axes []Axis) bool {
	if b.Price >= a.Price {
		return false
	}
	for _, dim := range dims {
		if b.Cost(dim) > a.Cost(dim) {
			return false
		}
	}
	for _, ax := range axes {
		if !ax.atLeastAsGood(b, a) {
			return false
		}
	}
	return true
}
