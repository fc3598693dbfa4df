package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	corecfg "github.com/aevon-lab/siteflow/internal/core/config"
	"github.com/aevon-lab/siteflow/internal/ingestion"
	"github.com/aevon-lab/siteflow/internal/inspection"
	"github.com/aevon-lab/siteflow/internal/observability"
	"github.com/aevon-lab/siteflow/internal/server"
	"github.com/aevon-lab/siteflow/internal/stats"
	"github.com/aevon-lab/siteflow/internal/worker"
	"golang.org/x/sync/errgroup"
)

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(args []string) error {
	return runProcess(c.globals, false, true, false)
}

// Execute implements the go-flags Commander interface for WorkCommand.
func (c *WorkCommand) Execute(args []string) error {
	return runProcess(c.globals, false, false, true)
}

// Execute implements the go-flags Commander interface for AllCommand.
func (c *AllCommand) Execute(args []string) error {
	return runProcess(c.globals, c.Dev, true, true)
}

func runProcess(globals *GlobalFlags, dev, withHTTP, withWorkers bool) error {
	cfg, err := loadConfig(globals, os.Stdout)
	if err != nil {
		return err
	}
	if dev {
		cfg.Queue.Type = "memory"
		cfg.Store.Type = "memory"
		slog.Warn("[CLI] Dev mode: queue and event store are in memory, nothing survives a restart")
	}
	if cfg.Queue.Type == "memory" && withHTTP != withWorkers {
		slog.Warn("[CLI] The memory queue is not shared between processes; use `all` or a durable queue.type")
	}

	res, err := openResources(cfg, true)
	if err != nil {
		return err
	}
	defer res.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler → triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		select {
		case <-quit:
			slog.Info("[CLI] Signal received, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	err = runPipeline(ctx, res, observability.NewMetricsRecorder(), withHTTP, withWorkers)
	slog.Info("[CLI] Shutdown complete")
	return err
}

// runPipeline runs the requested halves of the pipeline until ctx is cancelled
// or one of them fails.
func runPipeline(ctx context.Context, res *resources, metrics observability.MetricsRecorder, withHTTP, withWorkers bool) error {
	cfg := res.cfg
	g, gctx := errgroup.WithContext(ctx)

	var latency inspection.LatencySource
	if withWorkers {
		pool := newPool(cfg, res, metrics)
		latency = pool
		g.Go(func() error {
			return pool.Run(gctx)
		})
	}

	if withHTTP {
		srv := newServer(cfg, res, metrics, latency)
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	return g.Wait()
}

func newPool(cfg *corecfg.Config, res *resources, metrics observability.MetricsRecorder) *worker.Pool {
	return worker.NewPool(res.queue, res.store, worker.Options{
		Count:             cfg.Worker.Count,
		PollInterval:      cfg.Worker.PollInterval,
		VisibilityTimeout: cfg.Queue.VisibilityTimeout,
		ShutdownTimeout:   cfg.Worker.ShutdownTimeout,
		IdempotentWrites:  cfg.Worker.IdempotentWrites,
		Policy:            cfg.RetryPolicy(),
	}, metrics)
}

func newServer(cfg *corecfg.Config, res *resources, metrics observability.MetricsRecorder, latency inspection.LatencySource) *server.Server {
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), cfg.Server.Mode, cfg.CORS.AllowedOrigins)
	srv.AddHealthCheck("queue", res.queue)
	srv.AddHealthCheck("store", res.store)

	ingestionSvc := ingestion.NewService(res.queue, cfg.Server.MaxBodySizeMB, cfg.Ingestion.MaxPendingJobs, metrics)
	ingestionSvc.RegisterRoutes(srv.Engine)

	engine := stats.NewEngine(res.store, stats.Options{
		DateFilter:    cfg.Stats.DateFilter,
		TopPathsLimit: cfg.Stats.TopPathsLimit,
		QueryTimeout:  cfg.Stats.QueryTimeout,
	})
	engine.RegisterRoutes(srv.Engine)

	inspection.NewService(res.queue, latency).RegisterRoutes(srv.Engine)

	return srv
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
