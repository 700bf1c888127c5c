package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/guimove/loadoutfit/internal/model"
)

func TestFileSource_YAML(t *testing.T) {
	src := NewFileSource(filepath.Join("testdata", "damage_mods.yaml"))

	if src.Kind() != "file" {
		t.Errorf("expected kind 'file', got %q", src.Kind())
	}

	cat, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cat.Model != "stacking" {
		t.Errorf("Model = %q, want stacking", cat.Model)
	}
	if cat.Capacity["cpu"] != 120 {
		t.Errorf("Capacity[cpu] = %v, want 120", cat.Capacity["cpu"])
	}
	if len(cat.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(cat.Groups))
	}
	if got := cat.ItemCount(); got != 3 {
		t.Errorf("ItemCount() = %d, want 3", got)
	}

	g := cat.Groups[0]
	if g.Unique[0].Listing == nil || g.Unique[0].Listing.ContractID != "188776655" {
		t.Errorf("unique listing not parsed: %+v", g.Unique[0].Listing)
	}
	if g.Repeatable[0].Benefit("damage", 0) != 1.10 {
		t.Errorf("damage = %v, want 1.10", g.Repeatable[0].Benefit("damage", 0))
	}
}

func TestFileSource_JSON(t *testing.T) {
	cat, err := NewFileSource(filepath.Join("testdata", "implants.json")).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cat.Model != "set_bonus" {
		t.Errorf("Model = %q, want set_bonus", cat.Model)
	}
	if len(cat.Groups) != 2 || !cat.Groups[1].AllowEmpty {
		t.Errorf("unexpected groups: %+v", cat.Groups)
	}
	if got := cat.Groups[1].Repeatable[0].Benefit("set_multiplier", 1); got != 1.5 {
		t.Errorf("set_multiplier = %v, want 1.5", got)
	}
}

func TestFileSource_FileNotFound(t *testing.T) {
	_, err := NewFileSource("/nonexistent/catalog.yaml").Load(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"not yaml", "groups: [", ErrInvalid},
		{"no groups", "name: empty\n", ErrEmptyCatalog},
		{"zero slots", "groups:\n  - name: low\n    slots: 0\n", ErrInvalid},
		{"unnamed group", "groups:\n  - slots: 2\n", ErrInvalid},
		{"duplicate group", "groups:\n  - {name: a, slots: 1}\n  - {name: a, slots: 1}\n", ErrInvalid},
		{"negative capacity", "capacity: {cpu: -1}\ngroups:\n  - {name: a, slots: 1}\n", ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCatalog_SlotGroups(t *testing.T) {
	cat := &Catalog{Groups: []Group{{
		Name:       "low",
		Slots:      2,
		AllowEmpty: true,
		Repeatable: []model.CatalogItem{{ID: "a", Kind: model.PoolUnique}},
		Unique:     []model.CatalogItem{{ID: "b"}},
	}}}

	groups := cat.SlotGroups()

	if len(groups) != 1 || groups[0].Slots != 2 || !groups[0].AllowEmpty {
		t.Fatalf("unexpected slot groups: %+v", groups)
	}
	if groups[0].Repeatable[0].Kind != model.PoolRepeatable {
		t.Errorf("repeatable kind = %q", groups[0].Repeatable[0].Kind)
	}
	if !groups[0].Unique[0].Unique() {
		t.Errorf("unique kind = %q", groups[0].Unique[0].Kind)
	}
	if cat.Groups[0].Repeatable[0].Kind != model.PoolUnique {
		t.Error("SlotGroups modified the catalog")
	}
}

func TestStaticSource(t *testing.T) {
	cat := &Catalog{Groups: []Group{{Name: "g", Slots: 1}}}
	got, err := NewStaticSource(cat).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != cat {
		t.Error("expected the wrapped catalog")
	}

	if _, err := NewStaticSource(nil).Load(context.Background()); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("expected ErrEmptyCatalog, got %v", err)
	}
}
