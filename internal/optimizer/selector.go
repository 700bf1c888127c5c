package optimizer

import (
	"container/heap"
	"context"
	"fmt"
	"iter"
	"sort"

	"github.com/guimove/loadoutfit/internal/model"
)

// ctxCheckMask controls how often the enumeration polls for cancellation.
const ctxCheckMask = 1<<16 - 1

// FrontierScope selects which combinations shape the frontier.
type FrontierScope string

const (
	// ScopeFeasible uses every combination within capacity, at any price.
	ScopeFeasible FrontierScope = "feasible"
	// ScopeAll uses every enumerated combination.
	ScopeAll FrontierScope = "all"
)

// Constraints are the filters a recommendation must satisfy.
type Constraints struct {
	// Capacity per cost dimension; dimensions not listed are unlimited.
	Capacity map[string]float64
	MinPrice float64
	MaxPrice float64
}

// Admits reports whether the items satisfy capacity and the price window.
func (c Constraints) Admits(items []model.CatalogItem, price float64) bool {
	return price >= c.MinPrice && price <= c.MaxPrice && model.FitsIn(items, c.Capacity)
}

// Selection is the outcome of SelectBest.
type Selection struct {
	Recommendations []model.Recommendation
	Frontier        *Frontier
	Enumerated      int64 // combinations visited in one pass
	FrontierPoints  int64 // combinations that shaped the frontier
	Qualifying      int64 // combinations passing every constraint
}

// SelectBest scores every combination of seq against the frontier built
// from the scoped population and returns the k best that satisfy the
// constraints, best first. Ties keep enumeration order. An empty result is
// not an error.
//
// seq is iterated twice: once to build the frontier and once to score.
func SelectBest(
	ctx context.Context,
	seq iter.Seq[[]model.CatalogItem],
	bm BenefitModel,
	c Constraints,
	scope FrontierScope,
	k int,
) (*Selection, error) {
	if k < 1 {
		return nil, invalidf("result count must be at least 1, got %d", k)
	}
	if scope == "" {
		scope = ScopeFeasible
	}
	if scope != ScopeFeasible && scope != ScopeAll {
		return nil, invalidf("unknown frontier scope %q", scope)
	}

	sel := &Selection{}

	// Pass 1: frontier over the whole achievable landscape.
	var points []Point
	var n int64
	for items := range seq {
		n++
		if n&ctxCheckMask == 0 && ctx.Err() != nil {
			return nil, fmt.Errorf("building frontier: %w", ctx.Err())
		}
		if scope == ScopeFeasible && !model.FitsIn(items, c.Capacity) {
			continue
		}
		points = append(points, Point{Cost: model.TotalPrice(items), Benefit: bm.Benefit(items)})
	}
	sel.Enumerated = n
	sel.FrontierPoints = int64(len(points))
	sel.Frontier = BuildFrontier(points)
	points = nil

	// Pass 2: score the qualifying subset into a bounded heap.
	best := make(candidateHeap, 0, k)
	n = 0
	for items := range seq {
		n++
		if n&ctxCheckMask == 0 && ctx.Err() != nil {
			return nil, fmt.Errorf("scoring combinations: %w", ctx.Err())
		}
		price := model.TotalPrice(items)
		if !c.Admits(items, price) {
			continue
		}
		sel.Qualifying++

		benefit := bm.Benefit(items)
		score := sel.Frontier.Score(Point{Cost: price, Benefit: benefit})
		if len(best) == k && score <= best[0].score {
			continue
		}
		cand := candidate{
			combination: model.NewCombination(items),
			price:       price,
			benefit:     benefit,
			score:       score,
			seq:         n,
		}
		if len(best) < k {
			heap.Push(&best, cand)
		} else {
			best[0] = cand
			heap.Fix(&best, 0)
		}
	}

	sort.Slice(best, func(i, j int) bool {
		return best.better(i, j)
	})

	sel.Recommendations = make([]model.Recommendation, len(best))
	for i, cand := range best {
		sel.Recommendations[i] = model.Recommendation{
			Rank:        i + 1,
			Combination: cand.combination,
			Price:       cand.price,
			Benefit:     cand.benefit,
			Baseline:    bm.Baseline(),
			Costs:       cand.combination.TotalCosts(),
			Score:       cand.score,
		}
	}
	return sel, nil
}

type candidate struct {
	combination model.Combination
	price       float64
	benefit     float64
	score       float64
	seq         int64
}

// candidateHeap is a min-heap: the weakest candidate sits at index 0.
type candidateHeap []candidate

// better orders by score, then by earlier enumeration.
func (h candidateHeap) better(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score > h[j].score
	}
	return h[i].seq < h[j].seq
}

func (h candidateHeap) Len() int           { return len(h) }
func (h candidateHeap) Less(i, j int) bool { return h.better(j, i) }
func (h candidateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x any)        { *h = append(*h, x.(candidate)) }
func (h *candidateHeap) Pop() any {
	old := *h
	c := old[len(old)-1]
	*h = old[:len(old)-1]
	return c
}
