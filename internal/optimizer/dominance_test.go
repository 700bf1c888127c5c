package optimizer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guimove/loadoutfit/internal/model"
)

func TestFilterDominated(t *testing.T) {
	axes := fullUptime().Axes()

	tests := []struct {
		name     string
		pool     []model.CatalogItem
		maxPrice float64
		want     []string
	}{
		{
			name: "cheaper and stronger item removes the other",
			pool: []model.CatalogItem{
				damageMod("a", 100, 1.10, 0.90, 30),
				damageMod("b", 80, 1.12, 0.89, 30),
			},
			maxPrice: math.Inf(1),
			want:     []string{"b"},
		},
		{
			name: "cheaper item with higher cpu does not dominate",
			pool: []model.CatalogItem{
				damageMod("a", 100, 1.10, 0.90, 30),
				damageMod("b", 80, 1.12, 0.89, 31),
			},
			maxPrice: math.Inf(1),
			want:     []string{"a", "b"},
		},
		{
			name: "equal price is not strictly cheaper",
			pool: []model.CatalogItem{
				damageMod("a", 100, 1.10, 0.90, 30),
				damageMod("b", 100, 1.12, 0.89, 30),
			},
			maxPrice: math.Inf(1),
			want:     []string{"a", "b"},
		},
		{
			name: "worse rate of fire keeps the expensive item",
			pool: []model.CatalogItem{
				damageMod("a", 100, 1.10, 0.90, 30),
				damageMod("b", 80, 1.10, 0.95, 30),
			},
			maxPrice: math.Inf(1),
			want:     []string{"a", "b"},
		},
		{
			name: "items above the price ceiling are dropped",
			pool: []model.CatalogItem{
				damageMod("a", 100, 1.10, 0.90, 30),
				damageMod("b", 500, 1.20, 0.80, 30),
			},
			maxPrice: 200,
			want:     []string{"a"},
		},
		{
			name: "empty placeholder always survives",
			pool: []model.CatalogItem{
				model.EmptySlot("low"),
				damageMod("a", 100, 1.10, 0.90, 30),
			},
			maxPrice: 0,
			want:     []string{"empty:low"},
		},
		{
			name:     "empty pool",
			pool:     nil,
			maxPrice: math.Inf(1),
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterDominated(tt.pool, axes, tt.maxPrice)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterDominated_MissingParameterUsesNeutral(t *testing.T) {
	axes := SetBonusModel{}.Axes()
	pool := []model.CatalogItem{
		implant("plain", 100, 3, 0, 0),
		implant("set", 50, 3, 10, 0),
	}

	got := FilterDominated(pool, axes, math.Inf(1))

	assert.Equal(t, []string{"set"}, ids(got))
}

func TestFilterDominated_CheapestSurvives(t *testing.T) {
	axes := fullUptime().Axes()
	pool := []model.CatalogItem{
		damageMod("a", 300, 1.20, 0.85, 10),
		damageMod("b", 200, 1.15, 0.88, 20),
		damageMod("c", 10, 1.01, 0.99, 40),
		damageMod("d", 250, 1.05, 0.95, 50),
	}

	got := FilterDominated(pool, axes, math.Inf(1))

	assert.Contains(t, ids(got), "c")
	assert.NotContains(t, ids(got), "d", "b is cheaper, stronger and lighter than d")
}
