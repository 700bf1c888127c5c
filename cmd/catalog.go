package cmd

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guimove/loadoutfit/internal/catalog"
	"github.com/guimove/loadoutfit/internal/model"
	"github.com/guimove/loadoutfit/internal/optimizer"
	"github.com/guimove/loadoutfit/internal/report"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List catalog items per slot group",
	Long: `Load the catalog and display each slot group's items with their price,
capacity costs and single-item benefit. With --pruned only the items that
survive the dominance filter are shown.`,
	RunE: runCatalog,
}

func init() {
	f := catalogCmd.Flags()
	f.String("sort-by", "price", "sort by: price, benefit, name, id")
	f.Bool("pruned", false, "hide items another item makes redundant")
	f.String("max-price", "unlimited", "hide items priced above this")
	f.String("model", "", "benefit model used for the benefit column")
	f.Bool("no-cache", false, "disable the catalog cache")

	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cat, err := resolveSource(cmd).Load(ctx)
	if err != nil {
		return err
	}
	if err := cat.Validate(); err != nil {
		return err
	}

	if m, _ := cmd.Flags().GetString("model"); cmd.Flags().Changed("model") {
		cfg.Benefit.Model = m
	}
	bm, err := cfg.BenefitModel(cat.Model)
	if err != nil {
		return err
	}

	maxPrice := math.Inf(1)
	if s, _ := cmd.Flags().GetString("max-price"); cmd.Flags().Changed("max-price") {
		if maxPrice, err = parsePriceFlag("max-price", s); err != nil {
			return err
		}
	}
	pruned, _ := cmd.Flags().GetBool("pruned")
	sortBy, _ := cmd.Flags().GetString("sort-by")

	total := 0
	for _, g := range cat.SlotGroups() {
		var items []model.CatalogItem
		if pruned {
			items = append(
				optimizer.FilterDominated(g.Repeatable, bm.Axes(), maxPrice),
				optimizer.FilterDominated(g.Unique, bm.Axes(), maxPrice)...)
		} else {
			items = underPrice(append(append(items, g.Repeatable...), g.Unique...), maxPrice)
		}
		sortItems(items, sortBy, bm)
		total += len(items)

		groupDims := model.CostDimensions(items)
		fmt.Fprintf(os.Stdout, "%s (%d slots)\n", g.Name, g.Slots)

		header := fmt.Sprintf("%-24s %-32s %-10s %20s %10s", "ID", "NAME", "KIND", "PRICE", "BENEFIT")
		for _, d := range groupDims {
			header += fmt.Sprintf(" %8s", strings.ToUpper(d))
		}
		fmt.Fprintln(os.Stdout, header)
		fmt.Fprintf(os.Stdout, "%s\n", strings.Repeat("-", len(header)))

		for _, it := range items {
			row := fmt.Sprintf("%-24s %-32s %-10s %20s %10.4f",
				truncateID(it.ID, 24),
				truncateID(it.Name, 32),
				string(it.Kind),
				report.FormatISK(it.Price),
				bm.Benefit([]model.CatalogItem{it}),
			)
			for _, d := range groupDims {
				row += fmt.Sprintf(" %8.2f", it.Cost(d))
			}
			fmt.Fprintln(os.Stdout, row)
		}
		fmt.Fprintln(os.Stdout)
	}

	fmt.Fprintf(os.Stdout, "%d items in %d slot groups (%s model)\n", total, len(cat.Groups), bm.Name())
	return nil
}

func parsePriceFlag(name, s string) (float64, error) {
	v, err := catalog.ParsePrice(s)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", name, err)
	}
	return v, nil
}

func underPrice(items []model.CatalogItem, maxPrice float64) []model.CatalogItem {
	out := items[:0]
	for _, it := range items {
		if it.Price <= maxPrice {
			out = append(out, it)
		}
	}
	return out
}

func sortItems(items []model.CatalogItem, by string, bm optimizer.BenefitModel) {
	switch by {
	case "benefit":
		sort.SliceStable(items, func(i, j int) bool {
			return bm.Benefit(items[i:i+1]) > bm.Benefit(items[j:j+1])
		})
	case "name":
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Name < items[j].Name
		})
	case "id":
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].ID < items[j].ID
		})
	default: // price
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Price < items[j].Price
		})
	}
}

func truncateID(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "~"
}
