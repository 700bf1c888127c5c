package model

import "math"

// degenerateTolerance is how close a benefit may be to the baseline before
// it is treated as "no stat increase".
const degenerateTolerance = 1e-12

// Recommendation is one ranked loadout handed to the presentation layer.
type Recommendation struct {
	Rank        int                `json:"rank"`
	Combination Combination        `json:"combination"`
	Price       float64            `json:"price"`
	Benefit     float64            `json:"benefit"`
	Baseline    float64            `json:"baseline"`
	Costs       map[string]float64 `json:"costs"`

	// Efficiency relative to the cost-benefit frontier; 1.0 = on the frontier.
	Score float64 `json:"score"`
}

// Gain returns the benefit above baseline as a percentage.
func (r Recommendation) Gain() float64 {
	return (r.Benefit - r.Baseline) * 100
}

// Degenerate reports whether the loadout yields no benefit over baseline.
func (r Recommendation) Degenerate() bool {
	return math.Abs(r.Benefit-r.Baseline) <= degenerateTolerance
}

// ValuePerPercent returns the price paid per percent of benefit gain.
// ok is false when the gain is zero or negative.
func (r Recommendation) ValuePerPercent() (value float64, ok bool) {
	if r.Degenerate() || r.Benefit < r.Baseline {
		return 0, false
	}
	return r.Price / r.Gain(), true
}
