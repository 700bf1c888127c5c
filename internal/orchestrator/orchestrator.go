package orchestrator

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/guimove/loadoutfit/internal/catalog"
	"github.com/guimove/loadoutfit/internal/config"
	"github.com/guimove/loadoutfit/internal/optimizer"
	"github.com/guimove/loadoutfit/internal/report"
)

// Query holds the per-run search parameters that do not live in config.
type Query struct {
	MinPrice float64
	MaxPrice float64 // +Inf for no ceiling

	// Capacity overrides the catalog's capacity per dimension.
	Capacity map[string]float64
}

// OpenQuery returns a query without price or capacity limits.
func OpenQuery() Query {
	return Query{MaxPrice: math.Inf(1)}
}

// Orchestrator coordinates the end-to-end recommendation pipeline.
type Orchestrator struct {
	Source catalog.Source
	Engine *optimizer.Engine
	Config config.Config

	// Writer receives the report, Progress the status lines.
	Writer   io.Writer
	Progress io.Writer
}

// New creates an orchestrator with the given dependencies.
func New(source catalog.Source, engine *optimizer.Engine, cfg config.Config) *Orchestrator {
	return &Orchestrator{
		Source:   source,
		Engine:   engine,
		Config:   cfg,
		Writer:   os.Stdout,
		Progress: os.Stderr,
	}
}

// Recommend runs the full pipeline: load catalog → optimize → report.
func (o *Orchestrator) Recommend(ctx context.Context, q Query) (*optimizer.Result, error) {
	// Step 1: Load the catalog
	o.progressf("Loading catalog from %s source...\n", o.Source.Kind())

	cat, err := o.Source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	o.progressf("Found %d items in %d slot groups\n", cat.ItemCount(), len(cat.Groups))

	// Step 2: Optimize
	res, err := o.Optimize(ctx, cat, q)
	if err != nil {
		return nil, err
	}

	o.progressf("Searched %d combinations in %s\n", res.Enumerated, res.Duration.Round(time.Millisecond))

	// Step 3: Report
	reporter := report.NewReporter(o.Config.Output.Format, o.Writer)
	if err := reporter.Report(ctx, res.Recommendations, Meta(cat, q, res)); err != nil {
		return nil, fmt.Errorf("generating report: %w", err)
	}

	return res, nil
}

// Optimize runs the optimizer on an already loaded catalog.
func (o *Orchestrator) Optimize(ctx context.Context, cat *catalog.Catalog, q Query) (*optimizer.Result, error) {
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", optimizer.ErrInvalidInput, err)
	}

	bm, err := o.Config.BenefitModel(cat.Model)
	if err != nil {
		return nil, err
	}

	req := optimizer.Request{
		Groups: cat.SlotGroups(),
		Constraints: optimizer.Constraints{
			Capacity: MergeCapacity(cat.Capacity, q.Capacity),
			MinPrice: q.MinPrice,
			MaxPrice: q.MaxPrice,
		},
		TopK:  o.Config.Optimizer.TopN,
		Model: bm,
		Scope: optimizer.FrontierScope(o.Config.Optimizer.FrontierScope),
	}

	res, err := o.Engine.Optimize(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("optimizing %s: %w", catalogName(cat), err)
	}

	o.progressf("Search space after pruning: approximately %.3g combinations (%s model)\n",
		res.EstimatedCombinations, res.Model)
	return res, nil
}

// Meta builds report metadata for a finished run.
func Meta(cat *catalog.Catalog, q Query, res *optimizer.Result) report.ReportMeta {
	return report.ReportMeta{
		RequestID:             res.ID,
		CatalogName:           cat.Name,
		Model:                 res.Model,
		GeneratedAt:           time.Now().UTC(),
		Capacity:              MergeCapacity(cat.Capacity, q.Capacity),
		MinPrice:              q.MinPrice,
		MaxPrice:              q.MaxPrice,
		EstimatedCombinations: res.EstimatedCombinations,
		ExactCombinations:     res.ExactCombinations,
		Enumerated:            res.Enumerated,
		Qualifying:            res.Qualifying,
		Duration:              res.Duration,
		Warnings:              res.Warnings,
	}
}

// MergeCapacity overlays overrides onto the catalog capacity.
func MergeCapacity(base, overrides map[string]float64) map[string]float64 {
	if len(base) == 0 && len(overrides) == 0 {
		return nil
	}
	out := make(map[string]float64, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

func (o *Orchestrator) progressf(format string, args ...any) {
	if o.Progress == nil {
		return
	}
	_, _ = fmt.Fprintf(o.Progress, format, args...)
}

func catalogName(cat *catalog.Catalog) string {
	if cat.Name != "" {
		return cat.Name
	}
	return "catalog"
}
