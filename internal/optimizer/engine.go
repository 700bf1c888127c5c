package optimizer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/guimove/loadoutfit/internal/model"
)

// Request is one optimization job.
type Request struct {
	Groups      []SlotGroup
	Constraints Constraints
	TopK        int
	Model       BenefitModel
	Scope       FrontierScope
}

// Result is the ranked outcome of an optimization.
type Result struct {
	ID              string                 `json:"id"`
	Model           string                 `json:"model"`
	Recommendations []model.Recommendation `json:"recommendations"`

	EstimatedCombinations float64 `json:"estimated_combinations"`
	ExactCombinations     float64 `json:"exact_combinations"`
	Enumerated            int64   `json:"enumerated"`
	Qualifying            int64   `json:"qualifying"`

	// Pool sizes after dominance filtering, per group.
	PoolSizes []PoolSize `json:"pool_sizes"`

	Frontier []Point       `json:"frontier"`
	Warnings []string      `json:"warnings,omitempty"`
	Duration time.Duration `json:"duration"`
}

// PoolSize reports how much of a group's catalog survived filtering.
type PoolSize struct {
	Group      string `json:"group"`
	Repeatable int    `json:"repeatable"`
	Unique     int    `json:"unique"`
	Dropped    int    `json:"dropped"`
}

// Engine runs the filter → enumerate → score → select pipeline.
type Engine struct {
	Guard   Guard
	Logger  zerolog.Logger
	Metrics *Metrics
}

// NewEngine creates an engine with the given guard and logger.
func NewEngine(guard Guard, logger zerolog.Logger) *Engine {
	return &Engine{Guard: guard, Logger: logger}
}

// Optimize validates the request, prunes dominated items, checks the size
// guard and returns the best-scoring combinations. Validation and overflow
// errors are returned before anything is enumerated.
func (e *Engine) Optimize(ctx context.Context, req Request) (*Result, error) {
	id := uuid.NewString()
	log := e.Logger.With().Str("request_id", id).Logger()

	if err := validate(req); err != nil {
		e.Metrics.observeRun(modelName(req.Model), "invalid", 0, 0, 0)
		return nil, err
	}

	res := &Result{ID: id, Model: req.Model.Name()}

	groups := make([]SlotGroup, len(req.Groups))
	for i, g := range req.Groups {
		groups[i] = prune(g, req.Model.Axes(), req.Constraints.MaxPrice)
		size := PoolSize{
			Group:      g.Name,
			Repeatable: len(groups[i].Repeatable),
			Unique:     len(groups[i].Unique),
		}
		size.Dropped = len(g.Repeatable) + len(g.Unique) - size.Repeatable - size.Unique
		res.PoolSizes = append(res.PoolSizes, size)
	}

	res.EstimatedCombinations = EstimateCount(groups)
	res.ExactCombinations = ExactCount(groups)

	log.Debug().
		Str("model", describeModel(req.Model)).
		Interface("pools", res.PoolSizes).
		Float64("estimate", res.EstimatedCombinations).
		Float64("exact", res.ExactCombinations).
		Msg("search space sized")

	warn, err := e.Guard.Check(res.EstimatedCombinations)
	if err != nil {
		log.Warn().Err(err).Msg("refusing oversized search")
		e.Metrics.observeRun(req.Model.Name(), "overflow", res.EstimatedCombinations, 0, 0)
		return nil, err
	}
	if warn {
		msg := fmt.Sprintf("this might take a while, there are approximately %.3g combinations", res.EstimatedCombinations)
		res.Warnings = append(res.Warnings, msg)
		log.Warn().Float64("estimate", res.EstimatedCombinations).Msg("large search space")
	}

	start := time.Now()
	sel, err := SelectBest(ctx, Enumerate(groups), req.Model, req.Constraints, req.Scope, req.TopK)
	res.Duration = time.Since(start)
	if err != nil {
		outcome := "error"
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			outcome = "canceled"
		}
		e.Metrics.observeRun(req.Model.Name(), outcome, res.EstimatedCombinations, 0, 0)
		return nil, err
	}

	res.Recommendations = sel.Recommendations
	res.Enumerated = sel.Enumerated
	res.Qualifying = sel.Qualifying
	res.Frontier = finiteVertices(sel.Frontier)

	outcome := "ok"
	if len(res.Recommendations) == 0 {
		outcome = "empty"
	}
	e.Metrics.observeRun(req.Model.Name(), outcome, res.EstimatedCombinations, res.Enumerated, res.Duration.Seconds())

	log.Info().
		Int64("enumerated", res.Enumerated).
		Int64("qualifying", res.Qualifying).
		Int("frontier_vertices", sel.Frontier.Len()).
		Int("results", len(res.Recommendations)).
		Dur("took", res.Duration).
		Msg("optimization finished")

	return res, nil
}

// prune deduplicates the repeatable pool and drops dominated items from
// each pool independently.
func prune(g SlotGroup, axes []Axis, maxPrice float64) SlotGroup {
	out := g
	out.Repeatable = FilterDominated(model.DedupRepeatable(tag(g.Repeatable, model.PoolRepeatable)), axes, maxPrice)
	out.Unique = FilterDominated(tag(g.Unique, model.PoolUnique), axes, maxPrice)
	return out
}

// tag copies a pool, stamping every item with its pool kind.
func tag(pool []model.CatalogItem, kind model.PoolKind) []model.CatalogItem {
	out := make([]model.CatalogItem, len(pool))
	for i := range pool {
		out[i] = pool[i]
		out[i].Kind = kind
	}
	return out
}

func validate(req Request) error {
	if req.Model == nil {
		return invalidf("no benefit model selected")
	}
	if req.TopK < 1 {
		return invalidf("result count must be at least 1, got %d", req.TopK)
	}
	if len(req.Groups) == 0 {
		return invalidf("no slot groups given")
	}

	c := req.Constraints
	if math.IsNaN(c.MinPrice) || math.IsNaN(c.MaxPrice) || c.MinPrice < 0 || c.MaxPrice < 0 {
		return invalidf("price window must be non-negative, got [%v, %v]", c.MinPrice, c.MaxPrice)
	}
	if c.MinPrice > c.MaxPrice {
		return invalidf("min price %v exceeds max price %v", c.MinPrice, c.MaxPrice)
	}
	for dim, limit := range c.Capacity {
		if math.IsNaN(limit) || limit < 0 {
			return invalidf("capacity %q must be non-negative, got %v", dim, limit)
		}
	}

	uniqueIDs := make(map[string]string)
	for _, g := range req.Groups {
		if g.Slots < 1 {
			return invalidf("group %q: slot count must be at least 1, got %d", g.Name, g.Slots)
		}
		if len(g.Repeatable)+len(g.Unique) == 0 && !g.AllowEmpty {
			return invalidf("group %q: no items to choose from", g.Name)
		}
		for _, pool := range [][]model.CatalogItem{g.Repeatable, g.Unique} {
			for i := range pool {
				if err := pool[i].Validate(); err != nil {
					return fmt.Errorf("%w: group %q: %v", ErrInvalidInput, g.Name, err)
				}
			}
		}
		for i := range g.Unique {
			if prev, ok := uniqueIDs[g.Unique[i].ID]; ok {
				return invalidf("unique item %s listed twice (groups %q and %q)", g.Unique[i].ID, prev, g.Name)
			}
			uniqueIDs[g.Unique[i].ID] = g.Name
		}
	}
	return nil
}

func modelName(m BenefitModel) string {
	if m == nil {
		return "none"
	}
	return m.Name()
}

// finiteVertices drops the unbounded sentinel so the frontier serializes.
func finiteVertices(f *Frontier) []Point {
	vs := f.Vertices()
	out := vs[:0]
	for _, v := range vs {
		if !math.IsInf(v.Cost, 0) {
			out = append(out, v)
		}
	}
	return out
}
