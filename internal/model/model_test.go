package model

import (
	"math"
	"reflect"
	"testing"
)

func TestFitsIn(t *testing.T) {
	c := NewCombination([]CatalogItem{
		{ID: "a", Costs: map[string]float64{"cpu": 30, "power": 1}},
		{ID: "b", Costs: map[string]float64{"cpu": 28}},
	})

	tests := []struct {
		name     string
		capacity map[string]float64
		want     bool
	}{
		{"exact fit", map[string]float64{"cpu": 58}, true},
		{"roomy", map[string]float64{"cpu": 100, "power": 5}, true},
		{"cpu exceeds", map[string]float64{"cpu": 57.9}, false},
		{"power exceeds", map[string]float64{"cpu": 100, "power": 0.5}, false},
		{"unlimited", nil, true},
		{"unknown dimension", map[string]float64{"calibration": 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FitsIn(c.Items, tt.capacity); got != tt.want {
				t.Errorf("FitsIn() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCombination_Totals(t *testing.T) {
	c := NewCombination([]CatalogItem{
		{ID: "a", Price: 1_500_000, Costs: map[string]float64{"cpu": 30}},
		EmptySlot("low"),
		{ID: "b", Price: 250_000, Costs: map[string]float64{"cpu": 28, "power": 2}},
	})

	if got := c.TotalPrice(); got != 1_750_000 {
		t.Errorf("TotalPrice() = %v, want 1750000", got)
	}
	want := map[string]float64{"cpu": 58, "power": 2}
	if got := c.TotalCosts(); !reflect.DeepEqual(got, want) {
		t.Errorf("TotalCosts() = %v, want %v", got, want)
	}
	if got := c.Filled(); got != 2 {
		t.Errorf("Filled() = %d, want 2", got)
	}
}

func TestNewCombination_Copies(t *testing.T) {
	buf := []CatalogItem{{ID: "a"}, {ID: "b"}}
	c := NewCombination(buf)
	buf[0] = CatalogItem{ID: "z"}

	if c.Items[0].ID != "a" {
		t.Errorf("combination shares the caller's buffer: got %s", c.Items[0].ID)
	}
}

func TestCombination_Label(t *testing.T) {
	tests := []struct {
		name  string
		items []CatalogItem
		want  string
	}{
		{"named", []CatalogItem{{ID: "1", Name: "Gyrostabilizer II"}, {ID: "2"}}, "Gyrostabilizer II + 2"},
		{"skips empty", []CatalogItem{EmptySlot("g"), {ID: "x", Name: "Implant"}}, "Implant"},
		{"nothing", []CatalogItem{EmptySlot("g")}, "(nothing fitted)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewCombination(tt.items).Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCatalogItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		item    CatalogItem
		wantErr bool
	}{
		{"valid", CatalogItem{ID: "a", Price: 10, Costs: map[string]float64{"cpu": 1}}, false},
		{"free", CatalogItem{ID: "a"}, false},
		{"missing id", CatalogItem{Name: "thing"}, true},
		{"negative price", CatalogItem{ID: "a", Price: -1}, true},
		{"nan price", CatalogItem{ID: "a", Price: math.NaN()}, true},
		{"infinite price", CatalogItem{ID: "a", Price: math.Inf(1)}, true},
		{"negative cost", CatalogItem{ID: "a", Costs: map[string]float64{"cpu": -3}}, true},
		{"nan benefit", CatalogItem{ID: "a", Benefits: map[string]float64{"damage": math.NaN()}}, true},
		{"negative benefit ok", CatalogItem{ID: "a", Benefits: map[string]float64{"bonus": -2}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCatalogItem_Benefit(t *testing.T) {
	it := CatalogItem{ID: "a", Benefits: map[string]float64{"damage": 1.1}}

	if got := it.Benefit("damage", 1); got != 1.1 {
		t.Errorf("Benefit(damage) = %v, want 1.1", got)
	}
	if got := it.Benefit("rof", 1); got != 1 {
		t.Errorf("Benefit(rof) = %v, want fallback 1", got)
	}
}

func TestDedupRepeatable(t *testing.T) {
	got := DedupRepeatable([]CatalogItem{
		{ID: "t2", Price: 100},
		{ID: "faction", Price: 300},
		{ID: "t2", Price: 80},
		{ID: "t2", Price: 120},
	})

	want := []CatalogItem{{ID: "t2", Price: 80}, {ID: "faction", Price: 300}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DedupRepeatable() = %v, want %v", got, want)
	}
}

func TestCostDimensions(t *testing.T) {
	got := CostDimensions(
		[]CatalogItem{{Costs: map[string]float64{"power": 1, "cpu": 2}}},
		[]CatalogItem{{Costs: map[string]float64{"cpu": 1, "calibration": 5}}},
	)

	want := []string{"calibration", "cpu", "power"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CostDimensions() = %v, want %v", got, want)
	}
}

func TestRecommendation_ValuePerPercent(t *testing.T) {
	tests := []struct {
		name   string
		rec    Recommendation
		want   float64
		wantOK bool
	}{
		{"gain", Recommendation{Price: 2_000_000, Benefit: 1.04, Baseline: 1}, 500_000, true},
		{"degenerate", Recommendation{Price: 0, Benefit: 1, Baseline: 1}, 0, false},
		{"loss", Recommendation{Price: 10, Benefit: 0.9, Baseline: 1}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.rec.ValuePerPercent()
			if ok != tt.wantOK {
				t.Fatalf("ValuePerPercent() ok = %v, want %v", ok, tt.wantOK)
			}
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("ValuePerPercent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecommendation_Gain(t *testing.T) {
	r := Recommendation{Benefit: 1.2222, Baseline: 1}
	if got := r.Gain(); math.Abs(got-22.22) > 1e-9 {
		t.Errorf("Gain() = %v, want 22.22", got)
	}
	if r.Degenerate() {
		t.Error("expected a non-degenerate recommendation")
	}
}
