package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"time"

	v1 "github.com/aevon-lab/siteflow/internal/api/v1"
	"github.com/aevon-lab/siteflow/internal/core/storage"
	"github.com/aevon-lab/siteflow/internal/queue"
	"github.com/google/uuid"
	_ "github.com/lib/pq" // Register postgres driver
)

const connectPingTimeout = 5 * time.Second

// Queue implements queue.Queue on a PostgreSQL table.
// Concurrent workers lease with FOR UPDATE SKIP LOCKED, so a job is held by one worker at a time.
type Queue struct {
	db     *sql.DB
	policy queue.RetryPolicy
	now    func() time.Time
}

// NewQueue opens a PostgreSQL connection for the job queue.
// The queue_jobs table must exist; run migrations first.
func NewQueue(dsn string, maxOpenConns int, policy queue.RetryPolicy) (*Queue, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres queue database: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), connectPingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres queue database: %w", err)
	}

	slog.Info("[Postgres] Job queue initialized", "max_attempts", policy.MaxAttempts)
	return newQueue(db, policy), nil
}

func newQueue(db *sql.DB, policy queue.RetryPolicy) *Queue {
	return &Queue{
		db:     db,
		policy: policy,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (q *Queue) Enqueue(ctx context.Context, event v1.Event) (string, error) {
	payload, err := queue.EncodeEvent(event)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	if _, err := q.db.ExecContext(ctx, queryEnqueue, id, payload, q.now()); err != nil {
		return "", fmt.Errorf("failed to enqueue job: %w", err)
	}
	return id, nil
}

func (q *Queue) Lease(ctx context.Context, workerID string, visibility time.Duration) (*queue.Job, error) {
	now := q.now()

	res, err := q.db.ExecContext(ctx, queryExpireExhausted, now, q.policy.MaxAttempts)
	if err != nil {
		return nil, fmt.Errorf("failed to expire exhausted leases: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		slog.Error("[Postgres] Jobs dead-lettered after lease expiry", "count", n)
	}

	row := q.db.QueryRowContext(ctx, queryLease, workerID, now.Add(visibility), now)
	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, queue.ErrNoJob
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lease job: %w", err)
	}
	return job, nil
}

func (q *Queue) Ack(ctx context.Context, jobID string, attempt int) error {
	res, err := q.db.ExecContext(ctx, queryAck, jobID, attempt)
	if err != nil {
		return fmt.Errorf("failed to ack job: %w", err)
	}
	return q.checkAffected(ctx, res, jobID, attempt)
}

func (q *Queue) Nack(ctx context.Context, jobID string, attempt int, backoff time.Duration, cause error) (queue.Status, error) {
	var status string
	err := q.db.QueryRowContext(ctx, queryNack,
		jobID,
		attempt,
		q.policy.MaxAttempts,
		q.now().Add(backoff),
		queue.ErrorText(cause),
	).Scan(&status)
	if err == sql.ErrNoRows {
		return "", q.transitionError(ctx, jobID, attempt)
	}
	if err != nil {
		return "", fmt.Errorf("failed to nack job: %w", err)
	}
	return queue.Status(status), nil
}

func (q *Queue) DeadLetter(ctx context.Context, jobID string, attempt int, reason string) error {
	res, err := q.db.ExecContext(ctx, queryDeadLetter, jobID, attempt, reason)
	if err != nil {
		return fmt.Errorf("failed to dead-letter job: %w", err)
	}
	return q.checkAffected(ctx, res, jobID, attempt)
}

func (q *Queue) Get(ctx context.Context, jobID string) (*queue.Job, error) {
	job, err := scanJob(q.db.QueryRowContext(ctx, queryGet, jobID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", queue.ErrJobNotFound, jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

func (q *Queue) ListDeadLetters(ctx context.Context, limit int) ([]*queue.Job, error) {
	if limit <= 0 {
		limit = math.MaxInt32
	}

	rows, err := q.db.QueryContext(ctx, queryListDeadLetters, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list dead letters: %w", err)
	}
	defer rows.Close()

	var jobs []*queue.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dead letters: %w", err)
	}
	return jobs, nil
}

func (q *Queue) Stats(ctx context.Context) (queue.Depth, error) {
	rows, err := q.db.QueryContext(ctx, queryDepth)
	if err != nil {
		return queue.Depth{}, fmt.Errorf("failed to count jobs: %w", err)
	}
	defer rows.Close()

	var d queue.Depth
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return queue.Depth{}, fmt.Errorf("failed to scan job count: %w", err)
		}
		switch queue.Status(status) {
		case queue.StatusPending:
			d.Pending = count
		case queue.StatusInFlight:
			d.InFlight = count
		case queue.StatusCompleted:
			d.Completed = count
		case queue.StatusDeadLettered:
			d.DeadLettered = count
		}
	}
	if err := rows.Err(); err != nil {
		return queue.Depth{}, fmt.Errorf("failed to iterate job counts: %w", err)
	}
	return d, nil
}

func (q *Queue) Redrive(ctx context.Context, jobID string) (string, error) {
	newID := uuid.NewString()
	res, err := q.db.ExecContext(ctx, queryRedrive, newID, q.now(), jobID)
	if err != nil {
		return "", fmt.Errorf("failed to redrive job: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("failed to read redrive result: %w", err)
	}
	if n == 0 {
		return "", q.transitionError(ctx, jobID, 0)
	}

	slog.Info("[Postgres] Dead-lettered job redriven", "job_id", jobID, "new_job_id", newID)
	return newID, nil
}

func (q *Queue) Ping(ctx context.Context) error {
	return q.db.PingContext(ctx)
}

func (q *Queue) Close() error {
	if err := q.db.Close(); err != nil {
		return fmt.Errorf("failed to close queue database: %w", err)
	}
	slog.Info("[Postgres] Job queue closed gracefully")
	return nil
}

func (q *Queue) checkAffected(ctx context.Context, res sql.Result, jobID string, attempt int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if n == 0 {
		return q.transitionError(ctx, jobID, attempt)
	}
	return nil
}

// transitionError explains why a conditional update matched no row.
// attempt is the settling lease's attempt count, 0 when no lease is involved.
func (q *Queue) transitionError(ctx context.Context, jobID string, attempt int) error {
	var (
		status  string
		current int
	)
	err := q.db.QueryRowContext(ctx, queryStatus, jobID).Scan(&status, &current)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", queue.ErrJobNotFound, jobID)
	}
	if err != nil {
		return fmt.Errorf("failed to read job status: %w", err)
	}
	if attempt > 0 && queue.Status(status) == queue.StatusInFlight && current != attempt {
		return queue.SupersededError(jobID, attempt, current)
	}
	return fmt.Errorf("%w: job %s is %s", queue.ErrInvalidTransition, jobID, status)
}

func scanJob(row storage.Scanner) (*queue.Job, error) {
	var (
		job       queue.Job
		payload   []byte
		status    string
		leasedBy  sql.NullString
		expiresAt sql.NullTime
		lastError sql.NullString
	)
	if err := row.Scan(
		&job.ID,
		&payload,
		&status,
		&job.AttemptCount,
		&job.EnqueuedAt,
		&job.AvailableAt,
		&leasedBy,
		&expiresAt,
		&lastError,
	); err != nil {
		return nil, err
	}

	evt, err := queue.DecodeEvent(payload)
	if err != nil {
		return nil, err
	}
	job.Event = evt
	job.Status = queue.Status(status)
	job.LeasedBy = leasedBy.String
	job.LastError = lastError.String
	job.EnqueuedAt = job.EnqueuedAt.UTC()
	job.AvailableAt = job.AvailableAt.UTC()
	if expiresAt.Valid {
		t := expiresAt.Time.UTC()
		job.LeaseExpiresAt = &t
	}
	return &job, nil
}
