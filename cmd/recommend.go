package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/guimove/loadoutfit/internal/optimizer"
	"github.com/guimove/loadoutfit/internal/orchestrator"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend the most price-efficient loadouts",
	Long: `Loads the catalog, enumerates every way to fill its slot groups, and
outputs the loadouts that come closest to the best benefit reachable at
their price, within the capacity limits and price range.

Prices accept shorthand: 500k, 1.5m, 2b, 10kk, 1'250'000 isk.`,
	RunE: runRecommend,
}

func init() {
	addRecommendFlags(recommendCmd.Flags())
	rootCmd.AddCommand(recommendCmd)
}

func addRecommendFlags(f *pflag.FlagSet) {
	f.String("min-price", "0", "minimum total price")
	f.String("max-price", "unlimited", "maximum total price")
	f.StringToString("capacity", nil, "capacity limits per dimension, e.g. cpu=120")
	f.String("model", "", "benefit model: stacking, set_bonus (default: the catalog's)")
	f.Float64("uptime", 1.0, "fraction of time rate-of-fire bonuses apply (0.0-1.0)")
	f.String("damage-rig", "", "damage rig preset: t1, t2, t1x2")
	f.String("rof-rig", "", "rate-of-fire rig preset: t1, t2, t1x2")
	f.Int("top", 5, "number of recommendations to show")
	f.String("scope", "", "frontier scope: feasible, all")
	f.String("output", "table", "output format: table, json, markdown")
	f.String("output-file", "", "write output to file")
	f.String("metrics-file", "", "write run metrics in Prometheus text format to file")
	f.Bool("no-cache", false, "disable the catalog cache")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}

	// Apply flag overrides
	if m, _ := cmd.Flags().GetString("model"); cmd.Flags().Changed("model") {
		cfg.Benefit.Model = m
	}
	if u, _ := cmd.Flags().GetFloat64("uptime"); cmd.Flags().Changed("uptime") {
		cfg.Benefit.Uptime = u
	}
	if r, _ := cmd.Flags().GetString("damage-rig"); cmd.Flags().Changed("damage-rig") {
		cfg.Benefit.DamageRig = r
	}
	if r, _ := cmd.Flags().GetString("rof-rig"); cmd.Flags().Changed("rof-rig") {
		cfg.Benefit.RateRig = r
	}
	if n, _ := cmd.Flags().GetInt("top"); cmd.Flags().Changed("top") {
		cfg.Optimizer.TopN = n
	}
	if s, _ := cmd.Flags().GetString("scope"); cmd.Flags().Changed("scope") {
		cfg.Optimizer.FrontierScope = s
	}
	if f, _ := cmd.Flags().GetString("output"); cmd.Flags().Changed("output") {
		cfg.Output.Format = f
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	engine := optimizer.NewEngine(cfg.Guard(), newLogger("optimizer"))

	metricsFile, _ := cmd.Flags().GetString("metrics-file")
	var reg *prometheus.Registry
	if metricsFile != "" {
		reg = prometheus.NewRegistry()
		m, err := optimizer.NewMetrics(reg)
		if err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
		engine.Metrics = m
	}

	// Handle output file
	w := os.Stdout
	if outFile, _ := cmd.Flags().GetString("output-file"); outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	// Run orchestrator
	orch := orchestrator.New(resolveSource(cmd), engine, cfg)
	orch.Writer = w

	_, runErr := orch.Recommend(ctx, q)

	// Metrics are written for failed runs too; overflow and invalid
	// outcomes are counted.
	if reg != nil {
		if err := writeMetrics(reg, metricsFile); err != nil {
			return err
		}
	}
	return runErr
}

// queryFromFlags parses the price window and capacity overrides.
func queryFromFlags(cmd *cobra.Command) (orchestrator.Query, error) {
	q := orchestrator.OpenQuery()

	minStr, _ := cmd.Flags().GetString("min-price")
	minPrice, err := parsePriceFlag("min-price", minStr)
	if err != nil {
		return q, err
	}
	maxStr, _ := cmd.Flags().GetString("max-price")
	maxPrice, err := parsePriceFlag("max-price", maxStr)
	if err != nil {
		return q, err
	}
	q.MinPrice, q.MaxPrice = minPrice, maxPrice

	raw, _ := cmd.Flags().GetStringToString("capacity")
	if len(raw) > 0 {
		q.Capacity = make(map[string]float64, len(raw))
		for dim, v := range raw {
			limit, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return q, fmt.Errorf("--capacity %s: %w", dim, err)
			}
			q.Capacity[dim] = limit
		}
	}
	return q, nil
}

func writeMetrics(reg prometheus.Gatherer, path string) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating metrics file: %w", err)
	}
	defer f.Close()

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(f, mf); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}
