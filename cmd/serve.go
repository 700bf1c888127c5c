package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/guimove/loadoutfit/internal/api"
	"github.com/guimove/loadoutfit/internal/catalog"
	"github.com/guimove/loadoutfit/internal/optimizer"
	"github.com/guimove/loadoutfit/internal/orchestrator"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the optimizer over HTTP",
	Long: `Starts an HTTP server exposing POST /api/v1/optimize, /health and
/metrics. Requests may carry their own catalog; otherwise the configured
catalog file or URL is used.`,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.String("addr", "", "listen address (default :8080)")
	f.Int("max-concurrent", 0, "optimizations allowed to run at once")
	f.Duration("request-timeout", 0, "per-request optimization timeout")
	f.Bool("no-cache", false, "disable the catalog cache")

	_ = bindFlag(serveCmd, "server.addr", "addr")
	_ = bindFlag(serveCmd, "server.max_concurrent", "max-concurrent")
	_ = bindFlag(serveCmd, "server.request_timeout", "request-timeout")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger("api")

	engine := optimizer.NewEngine(cfg.Guard(), newLogger("optimizer"))
	m, err := optimizer.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}
	engine.Metrics = m

	orch := orchestrator.New(serverSource(cmd), engine, cfg)
	orch.Progress = nil

	handler := api.NewOptimizeHandler(orch, cfg.Server.MaxConcurrent, logger)
	router := api.NewRouter(handler, prometheus.DefaultGatherer, cfg.Server.RequestTimeout, logger)

	return api.NewServer(cfg.Server.Addr, router, logger).Run(ctx)
}

// serverSource returns nil when no catalog is configured, so every request
// must bring its own.
func serverSource(cmd *cobra.Command) catalog.Source {
	if cfg.Catalog.URL == "" {
		if _, err := os.Stat(cfg.Catalog.Path); err != nil {
			return nil
		}
	}
	return resolveSource(cmd)
}
