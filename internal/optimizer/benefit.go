package optimizer

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/guimove/loadoutfit/internal/model"
)

// Benefit parameter names read from CatalogItem.Benefits.
const (
	ParamDamage        = "damage"
	ParamRate          = "rof"
	ParamBonus         = "bonus"
	ParamSetBonus      = "set_bonus"
	ParamSetMultiplier = "set_multiplier"
)

// Benefit model names.
const (
	ModelStacking = "stacking"
	ModelSetBonus = "set_bonus"
)

// stackingFalloff is the width of the stacking penalty curve.
const stackingFalloff = 2.67

// BenefitModel turns a set of items into one aggregate benefit figure.
// Implementations are pure and safe for concurrent use.
type BenefitModel interface {
	Name() string
	Benefit(items []model.CatalogItem) float64
	// Baseline is the benefit of a loadout with nothing fitted.
	Baseline() float64
	// Axes lists the benefit parameters and their preferred direction.
	Axes() []Axis
}

// ModelOptions holds the caller-supplied parameters of a benefit model.
type ModelOptions struct {
	Uptime      float64
	ExtraDamage []float64
	ExtraRate   []float64
}

// NewBenefitModel selects a benefit model by name.
func NewBenefitModel(name string, opts ModelOptions) (BenefitModel, error) {
	switch name {
	case ModelStacking:
		if opts.Uptime < 0 || opts.Uptime > 1 || math.IsNaN(opts.Uptime) {
			return nil, invalidf("uptime must be between 0 and 1, got %v", opts.Uptime)
		}
		return &StackingModel{
			Uptime:      opts.Uptime,
			ExtraDamage: opts.ExtraDamage,
			ExtraRate:   opts.ExtraRate,
		}, nil
	case ModelSetBonus:
		return SetBonusModel{}, nil
	default:
		return nil, invalidf("unknown benefit model %q (want %s or %s)", name, ModelStacking, ModelSetBonus)
	}
}

// StackingWeight is the diminishing-returns weight for the rank-th
// strongest modifier of a series (rank 0 is unpenalized).
func StackingWeight(rank int) float64 {
	u := float64(rank) / stackingFalloff
	return math.Exp(-u * u)
}

// StackingModel multiplies damage and rate-of-fire modifiers with the
// stacking penalty applied per series. Benefit is damage over cycle time.
type StackingModel struct {
	// Uptime is the fraction of time the rate modifiers are active.
	Uptime float64
	// Fixed modifiers (rigs) injected into each series before stacking.
	ExtraDamage []float64
	ExtraRate   []float64
}

func (m *StackingModel) Name() string { return ModelStacking }

func (m *StackingModel) Baseline() float64 { return 1 }

func (m *StackingModel) Axes() []Axis {
	return []Axis{
		{Name: ParamDamage, Direction: HigherIsBetter, Neutral: 1},
		{Name: ParamRate, Direction: LowerIsBetter, Neutral: 1},
	}
}

func (m *StackingModel) Benefit(items []model.CatalogItem) float64 {
	damage := make([]float64, 0, len(items)+len(m.ExtraDamage))
	rate := make([]float64, 0, len(items)+len(m.ExtraRate))
	for i := range items {
		if items[i].Empty {
			continue
		}
		damage = append(damage, items[i].Benefit(ParamDamage, 1))
		rate = append(rate, items[i].Benefit(ParamRate, 1))
	}
	damage = append(damage, m.ExtraDamage...)
	rate = append(rate, m.ExtraRate...)

	sort.Sort(sort.Reverse(sort.Float64Slice(damage)))
	sort.Float64s(rate)

	effectiveRate := m.Uptime*stackedProduct(rate) + (1 - m.Uptime)
	return stackedProduct(damage) / effectiveRate
}

// stackedProduct applies the stacking weights in place and multiplies the
// series. values must already be ordered strongest first.
func stackedProduct(values []float64) float64 {
	if len(values) == 0 {
		return 1
	}
	for rank, v := range values {
		values[rank] = 1 + StackingWeight(rank)*(v-1)
	}
	return floats.Prod(values)
}

// SetBonusModel is the implant model: every item carries a flat bonus and
// a set bonus amplified by the product of all set multipliers.
type SetBonusModel struct{}

func (SetBonusModel) Name() string { return ModelSetBonus }

func (SetBonusModel) Baseline() float64 { return 1 }

func (SetBonusModel) Axes() []Axis {
	return []Axis{
		{Name: ParamBonus, Direction: HigherIsBetter, Neutral: 0},
		{Name: ParamSetBonus, Direction: HigherIsBetter, Neutral: 0},
		{Name: ParamSetMultiplier, Direction: HigherIsBetter, Neutral: 1},
	}
}

func (SetBonusModel) Benefit(items []model.CatalogItem) float64 {
	multiplier := 1.0
	for i := range items {
		multiplier *= items[i].Benefit(ParamSetMultiplier, 1)
	}

	benefit := 1.0
	for i := range items {
		flat := items[i].Benefit(ParamBonus, 0)
		set := items[i].Benefit(ParamSetBonus, 0)
		benefit *= (1 + flat*0.01) * (1 + set*0.01*multiplier)
	}
	return benefit
}

// String describes a model for logs.
func describeModel(m BenefitModel) string {
	if s, ok := m.(*StackingModel); ok {
		return fmt.Sprintf("%s(uptime=%.2f, rigs=%d/%d)", s.Name(), s.Uptime, len(s.ExtraDamage), len(s.ExtraRate))
	}
	return m.Name()
}
