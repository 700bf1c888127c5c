package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/guimove/loadoutfit/internal/model"
)

// JSONReporter outputs recommendations as JSON.
type JSONReporter struct {
	w io.Writer
}

type jsonMeta struct {
	RequestID             string             `json:"request_id,omitempty"`
	Catalog               string             `json:"catalog,omitempty"`
	Model                 string             `json:"model"`
	GeneratedAt           time.Time          `json:"generated_at"`
	Capacity              map[string]float64 `json:"capacity,omitempty"`
	MinPrice              float64            `json:"min_price"`
	MaxPrice              *float64           `json:"max_price"` // null when unbounded
	EstimatedCombinations float64            `json:"estimated_combinations"`
	ExactCombinations     float64            `json:"exact_combinations"`
	Enumerated            int64              `json:"enumerated"`
	Qualifying            int64              `json:"qualifying"`
	DurationMillis        int64              `json:"duration_ms"`
	Warnings              []string           `json:"warnings,omitempty"`
}

type jsonRecommendation struct {
	model.Recommendation
	Label           string   `json:"label"`
	GainPercent     float64  `json:"gain_percent"`
	ValuePerPercent *float64 `json:"value_per_percent"` // null when there is no gain
}

type jsonOutput struct {
	Meta            jsonMeta             `json:"meta"`
	Recommendations []jsonRecommendation `json:"recommendations"`
}

func (r *JSONReporter) Report(ctx context.Context, recs []model.Recommendation, meta ReportMeta) error {
	output := jsonOutput{
		Meta: jsonMeta{
			RequestID:             meta.RequestID,
			Catalog:               meta.CatalogName,
			Model:                 meta.Model,
			GeneratedAt:           meta.GeneratedAt,
			Capacity:              meta.Capacity,
			MinPrice:              meta.MinPrice,
			MaxPrice:              finite(meta.MaxPrice),
			EstimatedCombinations: meta.EstimatedCombinations,
			ExactCombinations:     meta.ExactCombinations,
			Enumerated:            meta.Enumerated,
			Qualifying:            meta.Qualifying,
			DurationMillis:        meta.Duration.Milliseconds(),
			Warnings:              meta.Warnings,
		},
		Recommendations: make([]jsonRecommendation, len(recs)),
	}
	for i, rec := range recs {
		jr := jsonRecommendation{
			Recommendation: rec,
			Label:          rec.Combination.Label(),
			GainPercent:    rec.Gain(),
		}
		if v, ok := rec.ValuePerPercent(); ok {
			jr.ValuePerPercent = &v
		}
		output.Recommendations[i] = jr
	}

	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
