package optimizer

import (
	"iter"
	"math"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/guimove/loadoutfit/internal/model"
)

// SlotGroup is a set of interchangeable slots filled from the same pools.
type SlotGroup struct {
	Name       string
	Slots      int
	Repeatable []model.CatalogItem
	Unique     []model.CatalogItem

	// AllowEmpty lets any number of the group's slots stay unfilled.
	AllowEmpty bool
}

// repeatablePool returns the repeatable pool including the empty
// placeholder when the group allows it.
func (g SlotGroup) repeatablePool() []model.CatalogItem {
	if !g.AllowEmpty {
		return g.Repeatable
	}
	pool := make([]model.CatalogItem, 0, len(g.Repeatable)+1)
	pool = append(pool, model.EmptySlot(g.Name))
	return append(pool, g.Repeatable...)
}

// poolSize counts the distinct choices for a single slot.
func (g SlotGroup) poolSize() int {
	n := len(g.Repeatable) + len(g.Unique)
	if g.AllowEmpty {
		n++
	}
	return n
}

// Multisets yields every n-sized multiset drawn from repeatable ∪ unique,
// each exactly once. Repeatable items may repeat; unique items appear at
// most once. Items are emitted in canonical index order: repeatable picks
// are non-decreasing, unique picks strictly increasing and always after
// the repeatable ones.
//
// The yielded slice is reused; copy it to retain it past the iteration.
func Multisets(repeatable, unique []model.CatalogItem, n int) iter.Seq[[]model.CatalogItem] {
	return func(yield func([]model.CatalogItem) bool) {
		if n < 1 {
			return
		}
		buf := make([]model.CatalogItem, n)
		walkMultisets(repeatable, unique, buf, 0, yield)
	}
}

func walkMultisets(
	repeatable, unique []model.CatalogItem,
	buf []model.CatalogItem,
	depth int,
	yield func([]model.CatalogItem) bool,
) bool {
	if depth == len(buf)-1 {
		for i := range repeatable {
			buf[depth] = repeatable[i]
			if !yield(buf) {
				return false
			}
		}
		for i := range unique {
			buf[depth] = unique[i]
			if !yield(buf) {
				return false
			}
		}
		return true
	}

	for i := range repeatable {
		buf[depth] = repeatable[i]
		if !walkMultisets(repeatable[i:], unique, buf, depth+1, yield) {
			return false
		}
	}
	for i := range unique {
		buf[depth] = unique[i]
		if !walkMultisets(nil, unique[i+1:], buf, depth+1, yield) {
			return false
		}
	}
	return true
}

// Enumerate yields the Cartesian product of every group's multisets, laid
// out group after group. The yielded slice is reused between iterations.
func Enumerate(groups []SlotGroup) iter.Seq[[]model.CatalogItem] {
	return func(yield func([]model.CatalogItem) bool) {
		total := 0
		for _, g := range groups {
			if g.Slots < 1 {
				return
			}
			total += g.Slots
		}
		if total == 0 {
			return
		}
		pools := make([][]model.CatalogItem, len(groups))
		for i, g := range groups {
			pools[i] = g.repeatablePool()
		}
		buf := make([]model.CatalogItem, total)
		walkGroups(groups, pools, 0, buf, 0, yield)
	}
}

func walkGroups(
	groups []SlotGroup,
	pools [][]model.CatalogItem,
	gi int,
	buf []model.CatalogItem,
	offset int,
	yield func([]model.CatalogItem) bool,
) bool {
	g := groups[gi]
	window := buf[offset : offset+g.Slots]
	last := gi == len(groups)-1

	return walkMultisets(pools[gi], g.Unique, window, 0, func([]model.CatalogItem) bool {
		if last {
			return yield(buf)
		}
		return walkGroups(groups, pools, gi+1, buf, offset+g.Slots, yield)
	})
}

// EstimateCount returns Π (pool size)^slots over the groups, the upper bound
// the size guard compares against.
func EstimateCount(groups []SlotGroup) float64 {
	if len(groups) == 0 {
		return 0
	}
	estimate := 1.0
	for _, g := range groups {
		estimate *= math.Pow(float64(g.poolSize()), float64(g.Slots))
	}
	return estimate
}

// ExactCount returns the number of combinations Enumerate will yield.
func ExactCount(groups []SlotGroup) float64 {
	if len(groups) == 0 {
		return 0
	}
	total := 1.0
	for _, g := range groups {
		total *= multisetCount(len(g.repeatablePool()), len(g.Unique), g.Slots)
	}
	return total
}

// multisetCount is Σ_k C(u, k) · multichoose(r, n-k).
func multisetCount(r, u, n int) float64 {
	if n < 1 {
		return 0
	}
	var total float64
	for k := 0; k <= n && k <= u; k++ {
		total += binomial(u, k) * multichoose(r, n-k)
	}
	return total
}

// multichoose counts size-m multisets over r kinds: C(r+m-1, m).
func multichoose(r, m int) float64 {
	if m == 0 {
		return 1
	}
	if r == 0 {
		return 0
	}
	return binomial(r+m-1, m)
}

func binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	// Exact while it fits comfortably in an int; log-gamma beyond.
	if n <= 50 {
		return float64(combin.Binomial(n, k))
	}
	return math.Round(combin.GeneralizedBinomial(float64(n), float64(k)))
}
