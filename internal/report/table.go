package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/guimove/loadoutfit/internal/model"
)

// TableReporter outputs recommendations as a formatted terminal table.
type TableReporter struct {
	w io.Writer
}

func (r *TableReporter) Report(ctx context.Context, recs []model.Recommendation, meta ReportMeta) error {
	// Header
	fmt.Fprintf(r.w, "\n")
	fmt.Fprintf(r.w, "Loadout Recommendations\n")
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("=", 60))
	if meta.CatalogName != "" {
		fmt.Fprintf(r.w, "Catalog:      %s\n", meta.CatalogName)
	}
	fmt.Fprintf(r.w, "Model:        %s\n", meta.Model)
	fmt.Fprintf(r.w, "Price range:  %s\n", windowText(meta.MinPrice, meta.MaxPrice))
	if len(meta.Capacity) > 0 {
		fmt.Fprintf(r.w, "Capacity:     %s\n", costsText(meta.Capacity))
	}
	fmt.Fprintf(r.w, "Searched:     %d combinations (%d qualifying) in %s\n",
		meta.Enumerated, meta.Qualifying, meta.Duration.Round(time.Millisecond))
	fmt.Fprintf(r.w, "%s\n\n", strings.Repeat("=", 60))

	for _, w := range meta.Warnings {
		fmt.Fprintf(r.w, "Warning: %s\n\n", w)
	}

	if len(recs) == 0 {
		fmt.Fprintf(r.w, "%s\n", noResults)
		return nil
	}

	// Column headers
	fmt.Fprintf(r.w, "%-4s %-40s %18s %12s %22s %6s\n",
		"Rank", "Loadout", "Price", "Gain", "Value", "Score")
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 108))

	for _, rec := range recs {
		fmt.Fprintf(r.w, "#%-3d %-40s %18s %12s %22s %6.3f\n",
			rec.Rank,
			truncate(rec.Combination.Label(), 40),
			FormatISK(rec.Price),
			gainText(rec),
			valueText(rec),
			rec.Score,
		)
	}

	fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 108))

	// Top recommendation detail
	top := recs[0]
	fmt.Fprintf(r.w, "\nRecommended: %s\n", top.Combination.Label())
	fmt.Fprintf(r.w, "  Price:        %s\n", FormatISK(top.Price))
	fmt.Fprintf(r.w, "  Benefit:      %.4f (%s)\n", top.Benefit, gainText(top))
	fmt.Fprintf(r.w, "  Costs:        %s\n", costsText(top.Costs))
	fmt.Fprintf(r.w, "  Slots:        %d of %d filled\n", top.Combination.Filled(), len(top.Combination.Items))
	fmt.Fprintf(r.w, "  Efficiency:   %.3f\n", top.Score)
	for i, it := range top.Combination.Items {
		if it.Empty {
			continue
		}
		fmt.Fprintf(r.w, "    %d. %s", i+1, it.Label())
		if it.Listing != nil && it.Listing.ContractID != "" {
			fmt.Fprintf(r.w, " (contract %s)", it.Listing.ContractID)
		}
		fmt.Fprintf(r.w, "\n")
	}

	fmt.Fprintf(r.w, "\n")
	return nil
}
