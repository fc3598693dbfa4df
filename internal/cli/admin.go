package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aevon-lab/siteflow/internal/queue"
)

const adminTimeout = 30 * time.Second

// Execute implements the go-flags Commander interface for MigrateCommand.
func (c *MigrateCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals, os.Stderr)
	if err != nil {
		return err
	}
	if cfg.Store.Type != "postgres" && cfg.Queue.Type != "postgres" {
		slog.Info("[CLI] No postgres backend configured, nothing to migrate",
			"queue_type", cfg.Queue.Type,
			"store_type", cfg.Store.Type)
		return nil
	}
	return migrate(cfg, true, true)
}

// Execute implements the go-flags Commander interface for DLQListCommand.
func (c *DLQListCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals, os.Stderr)
	if err != nil {
		return err
	}
	res, err := openResources(cfg, false)
	if err != nil {
		return err
	}
	defer res.Close()

	return c.executeWithQueue(res.queue)
}

func (c *DLQListCommand) executeWithQueue(q queue.Queue) error {
	ctx, cancel := context.WithTimeout(context.Background(), adminTimeout)
	defer cancel()

	jobs, err := q.ListDeadLetters(ctx, c.Limit)
	if err != nil {
		return fmt.Errorf("list dead letters: %w", err)
	}
	if jobs == nil {
		jobs = []*queue.Job{}
	}

	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(jobs)
}

// Execute implements the go-flags Commander interface for DLQRedriveCommand.
func (c *DLQRedriveCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals, os.Stderr)
	if err != nil {
		return err
	}
	res, err := openResources(cfg, false)
	if err != nil {
		return err
	}
	defer res.Close()

	return c.executeWithQueue(res.queue)
}

func (c *DLQRedriveCommand) executeWithQueue(q queue.Queue) error {
	ctx, cancel := context.WithTimeout(context.Background(), adminTimeout)
	defer cancel()

	newJobID, err := q.Redrive(ctx, c.Args.JobID)
	if err != nil {
		return fmt.Errorf("redrive %s: %w", c.Args.JobID, err)
	}

	slog.Info("[CLI] Dead-lettered job redriven", "job_id", c.Args.JobID, "new_job_id", newJobID)
	_, err = fmt.Fprintf(c.out, "%s\n", newJobID)
	return err
}
