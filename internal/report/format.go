package report

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/guimove/loadoutfit/internal/model"
)

const noResults = "No combinations found for these requirements."

// FormatISK renders an amount the way the game client does: 1'250'000 ISK.
func FormatISK(v float64) string {
	if math.IsInf(v, 1) {
		return "unlimited"
	}
	neg := v < 0
	digits := strconv.FormatFloat(math.Round(math.Abs(v)), 'f', 0, 64)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('\'')
		}
		b.WriteRune(r)
	}
	b.WriteString(" ISK")
	return b.String()
}

// gainText describes the benefit above baseline.
func gainText(r model.Recommendation) string {
	if r.Degenerate() {
		return "no stat increase"
	}
	return fmt.Sprintf("%+.2f%%", r.Gain())
}

// valueText is the price paid per percent of gain.
func valueText(r model.Recommendation) string {
	v, ok := r.ValuePerPercent()
	if !ok {
		return "-"
	}
	return FormatISK(v) + "/%"
}

// costsText lists capacity costs in name order.
func costsText(costs map[string]float64) string {
	if len(costs) == 0 {
		return "-"
	}
	dims := make([]string, 0, len(costs))
	for d := range costs {
		dims = append(dims, d)
	}
	sort.Strings(dims)

	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = fmt.Sprintf("%s %.2f", d, costs[d])
	}
	return strings.Join(parts, ", ")
}

func windowText(minPrice, maxPrice float64) string {
	return FormatISK(minPrice) + " to " + FormatISK(maxPrice)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
