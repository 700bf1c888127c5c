package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/guimove/loadoutfit/internal/catalog"
	"github.com/guimove/loadoutfit/internal/config"
	"github.com/guimove/loadoutfit/internal/model"
	"github.com/guimove/loadoutfit/internal/optimizer"
)

func newTestOrchestrator(src catalog.Source, cfg config.Config) (*Orchestrator, *bytes.Buffer, *bytes.Buffer) {
	var out, progress bytes.Buffer
	orch := New(src, optimizer.NewEngine(cfg.Guard(), zerolog.Nop()), cfg)
	orch.Writer = &out
	orch.Progress = &progress
	return orch, &out, &progress
}

func damageModCatalog() *catalog.Catalog {
	mod := func(id string, price, damage, rof, cpu float64) model.CatalogItem {
		return model.CatalogItem{
			ID: id, Name: id, Price: price,
			Costs:    map[string]float64{"cpu": cpu},
			Benefits: map[string]float64{"damage": damage, "rof": rof},
		}
	}
	return &catalog.Catalog{
		Name:     "gyros",
		Model:    optimizer.ModelStacking,
		Capacity: map[string]float64{"cpu": 100},
		Groups: []catalog.Group{{
			Name:       "low",
			Slots:      3,
			Repeatable: []model.CatalogItem{mod("t2", 1e6, 1.10, 0.90, 30), mod("faction", 9e6, 1.12, 0.89, 27)},
			Unique:     []model.CatalogItem{mod("abyssal", 40e6, 1.16, 0.87, 32)},
		}},
	}
}

func TestOrchestrator_Recommend(t *testing.T) {
	cfg := config.Default()
	cfg.Optimizer.TopN = 3
	orch, out, progress := newTestOrchestrator(catalog.NewStaticSource(damageModCatalog()), cfg)

	res, err := orch.Recommend(context.Background(), OpenQuery())
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	if len(res.Recommendations) == 0 {
		t.Fatal("expected at least 1 recommendation")
	}
	if len(res.Recommendations) > 3 {
		t.Errorf("expected at most 3 recommendations, got %d", len(res.Recommendations))
	}

	// Verify recs are ranked
	for i := 0; i < len(res.Recommendations)-1; i++ {
		if res.Recommendations[i].Score < res.Recommendations[i+1].Score {
			t.Errorf("rec %d score %.3f < rec %d score %.3f",
				i, res.Recommendations[i].Score, i+1, res.Recommendations[i+1].Score)
		}
	}
	for _, rec := range res.Recommendations {
		if rec.Costs["cpu"] > 100 {
			t.Errorf("recommendation over capacity: %v", rec.Costs)
		}
	}

	if !strings.Contains(out.String(), "Loadout Recommendations") {
		t.Errorf("report not written:\n%s", out.String())
	}
	if !strings.Contains(progress.String(), "Found 3 items in 1 slot groups") {
		t.Errorf("unexpected progress output:\n%s", progress.String())
	}
}

func TestOrchestrator_CapacityOverride(t *testing.T) {
	cfg := config.Default()
	orch, _, _ := newTestOrchestrator(nil, cfg)

	q := OpenQuery()
	q.Capacity = map[string]float64{"cpu": 60}
	res, err := orch.Optimize(context.Background(), damageModCatalog(), q)
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	// Three modules need at least 81 cpu and the group has no empty slots.
	if len(res.Recommendations) != 0 {
		t.Errorf("expected no recommendation under 60 cpu, got %d", len(res.Recommendations))
	}
}

func TestOrchestrator_ProgressReportsPrunedEstimate(t *testing.T) {
	cat := damageModCatalog()
	// Cheaper t2 is better on every axis, so meta is pruned before sizing.
	cat.Groups[0].Repeatable = append(cat.Groups[0].Repeatable, model.CatalogItem{
		ID: "meta", Name: "meta", Price: 2e6,
		Costs:    map[string]float64{"cpu": 35},
		Benefits: map[string]float64{"damage": 1.05, "rof": 0.95},
	})
	orch, _, progress := newTestOrchestrator(nil, config.Default())

	res, err := orch.Optimize(context.Background(), cat, OpenQuery())
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	if res.EstimatedCombinations != 27 {
		t.Errorf("EstimatedCombinations = %v, want 27", res.EstimatedCombinations)
	}
	if !strings.Contains(progress.String(), "approximately 27 combinations") {
		t.Errorf("progress does not report the pruned estimate:\n%s", progress.String())
	}
	if strings.Contains(progress.String(), "64") {
		t.Errorf("progress reports the unpruned estimate:\n%s", progress.String())
	}
}

func TestOrchestrator_JSONFromFile(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Format = "json"
	src := catalog.NewFileSource(filepath.Join("..", "catalog", "testdata", "implants.json"))
	orch, out, _ := newTestOrchestrator(src, cfg)

	res, err := orch.Recommend(context.Background(), OpenQuery())
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if res.Model != optimizer.ModelSetBonus {
		t.Errorf("catalog model not used: %q", res.Model)
	}

	var doc map[string]any
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("report is not valid JSON: %v\n%s", err, out.String())
	}
}

func TestOrchestrator_Overflow(t *testing.T) {
	cfg := config.Default()
	cfg.Optimizer.SoftLimit = 1
	cfg.Optimizer.HardLimit = 10
	orch, _, _ := newTestOrchestrator(nil, cfg)

	_, err := orch.Optimize(context.Background(), damageModCatalog(), OpenQuery())
	if !errors.Is(err, optimizer.ErrCombinatorialOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
}

func TestOrchestrator_InvalidCatalog(t *testing.T) {
	orch, _, _ := newTestOrchestrator(nil, config.Default())

	_, err := orch.Optimize(context.Background(), &catalog.Catalog{}, OpenQuery())
	if !errors.Is(err, optimizer.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestMergeCapacity(t *testing.T) {
	got := MergeCapacity(map[string]float64{"cpu": 100, "power": 50}, map[string]float64{"cpu": 60})
	if got["cpu"] != 60 || got["power"] != 50 {
		t.Errorf("MergeCapacity() = %v", got)
	}
	if MergeCapacity(nil, nil) != nil {
		t.Error("expected nil for no capacity")
	}
}
