package optimizer

import (
	"math"
	"sort"
)

// Point is a (price, benefit) pair.
type Point struct {
	Cost    float64 `json:"cost"`
	Benefit float64 `json:"benefit"`
}

// Frontier is the cost-ascending upper envelope of a point cloud: the best
// benefit attainable at or below each cost, interpolated linearly between
// vertices. It is immutable once built.
type Frontier struct {
	vertices []Point
}

// BuildFrontier adds the (0, 0) and (+Inf, max benefit) sentinels, sorts
// the points by cost and drops every interior point lying on or below the
// chord between its neighbours, repeating until no point is dropped. Of
// several points sharing a cost only the highest is kept, so a zero-price
// point replaces the (0, 0) sentinel.
//
// The repeated pruning is done in a single monotone sweep: a vertex is
// popped as soon as the incoming point puts it on or under the chord of its
// current neighbours. The result is the same fixed point. The input slice
// is not modified.
func BuildFrontier(points []Point) *Frontier {
	maxBenefit := 0.0
	for i, p := range points {
		if i == 0 || p.Benefit > maxBenefit {
			maxBenefit = p.Benefit
		}
	}

	all := make([]Point, 0, len(points)+2)
	all = append(all, points...)
	all = append(all, Point{0, 0}, Point{math.Inf(1), maxBenefit})

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Cost != all[j].Cost {
			return all[i].Cost < all[j].Cost
		}
		return all[i].Benefit < all[j].Benefit
	})

	hull := make([]Point, 0, 16)
	for _, p := range all {
		// Equal cost sorts ascending by benefit, so p supersedes the top.
		for len(hull) > 0 && hull[len(hull)-1].Cost == p.Cost {
			hull = hull[:len(hull)-1]
		}
		for len(hull) >= 2 {
			left, mid := hull[len(hull)-2], hull[len(hull)-1]
			if mid.Benefit > interpolate(left, p, mid.Cost) {
				break
			}
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return &Frontier{vertices: hull}
}

// Vertices returns a copy of the frontier vertices, sentinels included.
func (f *Frontier) Vertices() []Point {
	out := make([]Point, len(f.vertices))
	copy(out, f.vertices)
	return out
}

// Len returns the number of vertices.
func (f *Frontier) Len() int {
	return len(f.vertices)
}

// At returns the frontier benefit at the given cost.
func (f *Frontier) At(cost float64) float64 {
	idx := sort.Search(len(f.vertices), func(i int) bool {
		return f.vertices[i].Cost > cost
	})
	switch {
	case idx == len(f.vertices):
		return f.vertices[len(f.vertices)-1].Benefit
	case idx == 0:
		return f.vertices[0].Benefit
	}
	return interpolate(f.vertices[idx-1], f.vertices[idx], cost)
}

// Score returns p's benefit relative to the frontier at p's cost: 1.0 on the
// frontier, below 1.0 underneath it. It is a ranking key, not a bound; it
// saturates to 1.0 past the last vertex or where the frontier is not
// positive.
func (f *Frontier) Score(p Point) float64 {
	first, last := f.vertices[0], f.vertices[len(f.vertices)-1]
	if p.Cost < first.Cost || p.Cost >= last.Cost {
		return 1.0
	}
	ref := f.At(p.Cost)
	if ref <= 0 {
		return 1.0
	}
	return p.Benefit / ref
}

// interpolate returns the benefit on the segment a-b at cost x. A vertical
// segment yields a's benefit; an unbounded right end makes the segment flat.
func interpolate(a, b Point, x float64) float64 {
	dx := b.Cost - a.Cost
	if dx == 0 {
		return a.Benefit
	}
	if math.IsInf(dx, 1) {
		return a.Benefit
	}
	return a.Benefit + (b.Benefit-a.Benefit)/dx*(x-a.Cost)
}
