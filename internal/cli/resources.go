package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	corecfg "github.com/aevon-lab/siteflow/internal/core/config"
	"github.com/aevon-lab/siteflow/internal/core/storage"
	"github.com/aevon-lab/siteflow/internal/core/storage/clickhouse"
	"github.com/aevon-lab/siteflow/internal/core/storage/memory"
	"github.com/aevon-lab/siteflow/internal/core/storage/mongodb"
	"github.com/aevon-lab/siteflow/internal/core/storage/postgres"
	"github.com/aevon-lab/siteflow/internal/migrations"
	"github.com/aevon-lab/siteflow/internal/queue"
	pgqueue "github.com/aevon-lab/siteflow/internal/queue/postgres"
	sqlitequeue "github.com/aevon-lab/siteflow/internal/queue/sqlite"
)

// resources are the long-lived connections of one process.
// They are opened once per command and released with Close.
type resources struct {
	cfg   *corecfg.Config
	queue queue.Queue
	store storage.EventStore // nil unless requested
}

// loadConfig loads the config named by the global flags and installs a logger
// writing to logOut. A missing file at the default path falls back to defaults
// and environment.
func loadConfig(globals *GlobalFlags, logOut io.Writer) (*corecfg.Config, error) {
	path := globals.Config
	if path == defaultConfigPath {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	cfg, err := corecfg.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	setupLogger(cfg, logOut)

	slog.Info("[CLI] Loaded config",
		"path", path,
		"queue_type", cfg.Queue.Type,
		"store_type", cfg.Store.Type,
		"workers", cfg.Worker.Count,
		"max_attempts", cfg.Queue.Retry.MaxAttempts,
		"date_filter", cfg.Stats.DateFilter,
	)
	return cfg, nil
}

// openResources runs pending migrations for the postgres backends in use,
// then opens the queue and, when withStore is set, the event store.
func openResources(cfg *corecfg.Config, withStore bool) (*resources, error) {
	if err := migrate(cfg, withStore, cfg.Store.AutoMigrate); err != nil {
		return nil, err
	}

	q, err := openQueue(cfg)
	if err != nil {
		return nil, err
	}
	res := &resources{cfg: cfg, queue: q}

	if withStore {
		store, err := openStore(cfg)
		if err != nil {
			res.Close()
			return nil, err
		}
		res.store = store
	}
	return res, nil
}

// migrate applies the embedded migrations once per distinct postgres DSN.
func migrate(cfg *corecfg.Config, withStore, autoMigrate bool) error {
	var dsns []string
	if withStore && cfg.Store.Type == "postgres" {
		dsns = append(dsns, cfg.Store.DSN)
	}
	if cfg.Queue.Type == "postgres" && (len(dsns) == 0 || dsns[0] != cfg.Queue.DSN) {
		dsns = append(dsns, cfg.Queue.DSN)
	}

	for _, dsn := range dsns {
		if err := migrations.Apply(dsn, autoMigrate); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
	}
	return nil
}

func openQueue(cfg *corecfg.Config) (queue.Queue, error) {
	policy := cfg.RetryPolicy()

	switch cfg.Queue.Type {
	case "postgres":
		q, err := pgqueue.NewQueue(cfg.Queue.DSN, cfg.Queue.MaxOpenConns, policy)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres queue: %w", err)
		}
		return q, nil
	case "sqlite":
		q, err := sqlitequeue.NewQueue(cfg.Queue.DSN, policy)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite queue: %w", err)
		}
		return q, nil
	case "memory":
		return queue.NewMemoryQueue(policy), nil
	default:
		return nil, fmt.Errorf("unsupported queue.type %q", cfg.Queue.Type)
	}
}

func openStore(cfg *corecfg.Config) (storage.EventStore, error) {
	switch cfg.Store.Type {
	case "postgres":
		store, err := postgres.NewAdapter(cfg.Store.DSN, cfg.Store.MaxOpenConns, cfg.Store.MaxIdleConns)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres event store: %w", err)
		}
		return store, nil
	case "mongo":
		store, err := mongodb.NewEventStore(cfg.Store.DSN, cfg.Store.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open mongo event store: %w", err)
		}
		return store, nil
	case "clickhouse":
		store, err := clickhouse.NewEventStore(cfg.Store.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open clickhouse event store: %w", err)
		}
		return store, nil
	case "memory":
		return memory.NewEventStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store.type %q", cfg.Store.Type)
	}
}

func (r *resources) Close() {
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			slog.Error("[CLI] Failed to close event store", "error", err)
		}
	}
	if err := r.queue.Close(); err != nil {
		slog.Error("[CLI] Failed to close queue", "error", err)
	}
}
