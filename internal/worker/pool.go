package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aevon-lab/siteflow/internal/core/storage"
	"github.com/aevon-lab/siteflow/internal/observability"
	"github.com/aevon-lab/siteflow/internal/queue"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// eventIDNamespace seeds the name-based (v5) event ids derived from job ids.
var eventIDNamespace = uuid.MustParse("6f1c2a8e-4b7d-5e90-a3c1-58d2f7e0b914")

// maxConsecutiveJobs bounds one drain so a deep backlog still lets the loop observe shutdown.
const maxConsecutiveJobs = 1000

// Options configures a Pool.
type Options struct {
	Count             int
	PollInterval      time.Duration
	VisibilityTimeout time.Duration
	ShutdownTimeout   time.Duration
	IdempotentWrites  bool
	Policy            queue.RetryPolicy
}

func (o Options) normalized() Options {
	if o.Count <= 0 {
		o.Count = 1
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 500 * time.Millisecond
	}
	if o.VisibilityTimeout <= 0 {
		o.VisibilityTimeout = 30 * time.Second
	}
	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = 10 * time.Second
	}
	if o.Policy.MaxAttempts <= 0 {
		o.Policy = queue.DefaultRetryPolicy()
	}
	return o
}

// Pool consumes jobs from the queue and appends their events to the store.
type Pool struct {
	queue   queue.Queue
	store   storage.EventStore
	opts    Options
	metrics observability.MetricsRecorder
	latency *observability.LatencyTracker
}

// NewPool creates a worker pool. A nil metrics recorder disables metrics.
func NewPool(q queue.Queue, store storage.EventStore, opts Options, metrics observability.MetricsRecorder) *Pool {
	if q == nil {
		panic("worker: queue must not be nil")
	}
	if store == nil {
		panic("worker: store must not be nil")
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &Pool{
		queue:   q,
		store:   store,
		opts:    opts.normalized(),
		metrics: metrics,
		latency: observability.NewLatencyTracker(),
	}
}

// Run starts the consumer loops and blocks until ctx is cancelled.
// A job already leased when ctx is cancelled is finished before its loop returns.
func (p *Pool) Run(ctx context.Context) error {
	slog.Info("[Worker] Starting worker pool",
		"workers", p.opts.Count,
		"poll_interval", p.opts.PollInterval,
		"visibility_timeout", p.opts.VisibilityTimeout,
		"max_attempts", p.opts.Policy.MaxAttempts,
		"idempotent_writes", p.opts.IdempotentWrites,
	)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < p.opts.Count; i++ {
		workerID := fmt.Sprintf("worker-%d", i)
		g.Go(func() error {
			return p.loop(gctx, workerID)
		})
	}

	err := g.Wait()
	slog.Info("[Worker] Worker pool stopped")
	return err
}

func (p *Pool) loop(ctx context.Context, workerID string) error {
	ticker := time.NewTicker(p.opts.PollInterval)
	defer ticker.Stop()

	p.drain(ctx, workerID)

	for {
		select {
		case <-ticker.C:
			p.drain(ctx, workerID)
		case <-ctx.Done():
			slog.Debug("[Worker] Stopping (context cancelled)", "worker_id", workerID)
			return nil
		}
	}
}

// drain processes jobs until the queue reports none eligible.
func (p *Pool) drain(ctx context.Context, workerID string) {
	for n := 0; n < maxConsecutiveJobs; n++ {
		if ctx.Err() != nil {
			return
		}
		processed, err := p.ProcessOne(ctx, workerID)
		if err != nil {
			slog.Error("[Worker] Queue operation failed, backing off until next poll",
				"worker_id", workerID,
				"error", err,
			)
			return
		}
		if !processed {
			return
		}
	}
}

// ProcessOne leases and handles at most one job.
// It reports whether a job was leased. Errors are queue failures only;
// store failures are handled by nacking the job.
func (p *Pool) ProcessOne(ctx context.Context, workerID string) (bool, error) {
	job, err := p.queue.Lease(ctx, workerID, p.opts.VisibilityTimeout)
	if errors.Is(err, queue.ErrNoJob) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to lease job: %w", err)
	}

	// The job is settled even if the pool is shutting down.
	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.opts.ShutdownTimeout)
	defer cancel()

	return true, p.handle(jobCtx, workerID, job)
}

func (p *Pool) handle(ctx context.Context, workerID string, job *queue.Job) error {
	evt := job.Event

	if err := evt.Validate(); err != nil {
		if dlErr := p.queue.DeadLetter(ctx, job.ID, job.AttemptCount, "invalid event: "+err.Error()); dlErr != nil {
			return p.settleError(job, "dead-letter", dlErr)
		}
		p.metrics.RecordJobDeadLettered(ctx, "invalid_event")
		slog.Error("[Worker] Job dead-lettered",
			"job_id", job.ID,
			"reason", "invalid event",
			"error", err,
		)
		return nil
	}

	evt.ID = p.eventID(job)

	start := time.Now()
	storedID, err := p.store.Append(ctx, &evt)
	elapsed := time.Since(start)
	p.metrics.RecordAppend(ctx, elapsed, err)

	if err != nil && p.opts.IdempotentWrites && errors.Is(err, storage.ErrDuplicate) {
		slog.Info("[Worker] Event already stored by an earlier attempt", "job_id", job.ID, "event_id", evt.ID)
		storedID, err = evt.ID, nil
	}
	if err != nil {
		return p.retry(ctx, job, err)
	}
	p.latency.Record(elapsed)

	if err := p.queue.Ack(ctx, job.ID, job.AttemptCount); err != nil {
		// The lease will expire and the job is redelivered.
		return p.settleError(job, "ack", err)
	}
	p.metrics.RecordJobCompleted(ctx, job.AttemptCount)

	slog.Debug("[Worker] Event persisted",
		"worker_id", workerID,
		"job_id", job.ID,
		"event_id", storedID,
		"site_id", evt.SiteID,
		"attempt", job.AttemptCount,
	)
	return nil
}

func (p *Pool) retry(ctx context.Context, job *queue.Job, cause error) error {
	backoff := p.opts.Policy.Backoff(job.AttemptCount)
	status, err := p.queue.Nack(ctx, job.ID, job.AttemptCount, backoff, cause)
	if err != nil {
		return p.settleError(job, "nack", err)
	}

	if status == queue.StatusDeadLettered {
		p.metrics.RecordJobDeadLettered(ctx, "retries_exhausted")
		slog.Error("[Worker] Job dead-lettered",
			"job_id", job.ID,
			"site_id", job.Event.SiteID,
			"attempts", job.AttemptCount,
			"error", cause,
		)
		return nil
	}

	p.metrics.RecordJobRetried(ctx, job.AttemptCount)
	slog.Warn("[Worker] Event store write failed, job scheduled for retry",
		"job_id", job.ID,
		"attempt", job.AttemptCount,
		"backoff", backoff,
		"error", cause,
	)
	return nil
}

// settleError reports a failed Ack, Nack or DeadLetter. A lease that expired
// and moved on belongs to another delivery, so losing it is not a worker error.
func (p *Pool) settleError(job *queue.Job, op string, err error) error {
	if errors.Is(err, queue.ErrInvalidTransition) {
		slog.Warn("[Worker] Lease no longer held, settlement skipped",
			"job_id", job.ID,
			"attempt", job.AttemptCount,
			"op", op,
			"error", err,
		)
		return nil
	}
	return fmt.Errorf("failed to %s job %s: %w", op, job.ID, err)
}

// eventID is derived from the job id when writes are idempotent, so every
// redelivery of a job targets the same record.
func (p *Pool) eventID(job *queue.Job) string {
	if p.opts.IdempotentWrites {
		return uuid.NewSHA1(eventIDNamespace, []byte(job.ID)).String()
	}
	return uuid.NewString()
}

// LatencySnapshot summarizes successful event store writes made by this pool.
func (p *Pool) LatencySnapshot() observability.LatencySnapshot {
	return p.latency.Snapshot()
}
