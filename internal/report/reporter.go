package report

import (
	"context"
	"io"
	"time"

	"github.com/guimove/loadoutfit/internal/model"
)

// Reporter formats and writes recommendations to an output destination.
type Reporter interface {
	Report(ctx context.Context, recs []model.Recommendation, meta ReportMeta) error
}

// ReportMeta contains contextual metadata for the report.
type ReportMeta struct {
	RequestID   string
	CatalogName string
	Model       string
	GeneratedAt time.Time

	Capacity map[string]float64
	MinPrice float64
	MaxPrice float64 // +Inf when unbounded

	EstimatedCombinations float64
	ExactCombinations     float64
	Enumerated            int64
	Qualifying            int64
	Duration              time.Duration

	Warnings []string
}

// NewReporter creates a reporter for the given format writing to w.
func NewReporter(format string, w io.Writer) Reporter {
	switch format {
	case "json":
		return &JSONReporter{w: w}
	case "markdown":
		return &MarkdownReporter{w: w}
	default:
		return &TableReporter{w: w}
	}
}
