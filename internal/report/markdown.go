package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/guimove/loadoutfit/internal/model"
)

// Base URL for abyssal module pages.
const moduleURL = "https://mutamarket.com/modules/"

// MarkdownReporter outputs recommendations as a Markdown document suitable
// for chat messages and pull request comments.
type MarkdownReporter struct {
	w io.Writer
}

func (r *MarkdownReporter) Report(ctx context.Context, recs []model.Recommendation, meta ReportMeta) error {
	title := "Loadout Recommendations"
	if meta.CatalogName != "" {
		title += ": " + meta.CatalogName
	}
	fmt.Fprintf(r.w, "## %s\n\n", title)
	fmt.Fprintf(r.w, "- **Model:** %s\n", meta.Model)
	fmt.Fprintf(r.w, "- **Price range:** %s\n", windowText(meta.MinPrice, meta.MaxPrice))
	if len(meta.Capacity) > 0 {
		fmt.Fprintf(r.w, "- **Capacity:** %s\n", costsText(meta.Capacity))
	}
	fmt.Fprintf(r.w, "- **Combinations:** %d searched, %d qualifying\n\n", meta.Enumerated, meta.Qualifying)

	for _, w := range meta.Warnings {
		fmt.Fprintf(r.w, "> **Warning:** %s\n\n", w)
	}

	if len(recs) == 0 {
		fmt.Fprintf(r.w, "_%s_\n", noResults)
		return nil
	}

	fmt.Fprintf(r.w, "| Rank | Loadout | Price | Gain | Value | Efficiency |\n")
	fmt.Fprintf(r.w, "|---:|---|---:|---:|---:|---:|\n")
	for _, rec := range recs {
		fmt.Fprintf(r.w, "| %d | %s | %s | %s | %s | %.3f |\n",
			rec.Rank,
			escapeCell(rec.Combination.Label()),
			FormatISK(rec.Price),
			gainText(rec),
			valueText(rec),
			rec.Score,
		)
	}

	for _, rec := range recs {
		fmt.Fprintf(r.w, "\n### #%d: %s for %s\n\n", rec.Rank, gainText(rec), FormatISK(rec.Price))
		fmt.Fprintf(r.w, "Costs: %s\n\n", costsText(rec.Costs))
		n := 0
		for _, it := range rec.Combination.Items {
			if it.Empty {
				continue
			}
			n++
			fmt.Fprintf(r.w, "%d. %s\n", n, itemLine(it, n))
		}
		if n == 0 {
			fmt.Fprintf(r.w, "_Nothing fitted._\n")
		}
	}
	return nil
}

// itemLine links unique listings to their module page and contract.
func itemLine(it model.CatalogItem, n int) string {
	if it.Listing == nil || it.Listing.ModuleID == "" {
		return escapeCell(it.Label())
	}
	line := fmt.Sprintf("[%s %d](%s%s)", escapeCell(it.Label()), n, moduleURL, it.Listing.ModuleID)
	if it.Listing.ContractID != "" {
		line += fmt.Sprintf(" Contract: <url=contract:30000142//%s>Contract %s</url>",
			it.Listing.ContractID, it.Listing.ContractID)
	}
	return line
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
