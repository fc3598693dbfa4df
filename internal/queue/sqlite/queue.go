package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	v1 "github.com/aevon-lab/siteflow/internal/api/v1"
	"github.com/aevon-lab/siteflow/internal/core/storage"
	"github.com/aevon-lab/siteflow/internal/queue"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("sqlite queue closed")

const schema = `
	CREATE TABLE IF NOT EXISTS queue_jobs (
		id               TEXT PRIMARY KEY,
		payload          BLOB NOT NULL,
		status           TEXT NOT NULL,
		attempt_count    INTEGER NOT NULL DEFAULT 0,
		enqueued_at      INTEGER NOT NULL,
		available_at     INTEGER NOT NULL,
		leased_by        TEXT,
		lease_expires_at INTEGER,
		last_error       TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_queue_jobs_status_available
		ON queue_jobs (status, available_at);
`

const jobColumns = `id, payload, status, attempt_count, enqueued_at, available_at, leased_by, lease_expires_at, last_error`

// Queue is a durable single-node queue.Queue backed by a SQLite file.
// Times are stored as unix nanoseconds.
type Queue struct {
	db     *sql.DB
	policy queue.RetryPolicy
	now    func() time.Time

	mu     sync.RWMutex
	closed bool
}

// NewQueue opens (or creates) the queue database at path.
// Use ":memory:" for a throwaway queue.
// Transactions begin IMMEDIATE so a read-then-write settlement never loses
// its snapshot to a writer in another process.
func NewQueue(path string, policy queue.RetryPolicy) (*Queue, error) {
	db, err := sql.Open("sqlite", path+"?_txlock=immediate&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open queue database: %w", err)
	}

	// SQLite has a single writer; one connection serializes leases without lock errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create queue schema: %w", err)
	}

	slog.Info("[SQLite] Job queue initialized", "path", path, "max_attempts", policy.MaxAttempts)
	return &Queue{
		db:     db,
		policy: policy,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (q *Queue) Enqueue(ctx context.Context, event v1.Event) (string, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return "", ErrClosed
	}

	payload, err := queue.EncodeEvent(event)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	now := q.now().UnixNano()
	_, err = q.db.ExecContext(ctx, `
		INSERT INTO queue_jobs (id, payload, status, attempt_count, enqueued_at, available_at)
		VALUES (?, ?, 'pending', 0, ?, ?)
	`, id, payload, now, now)
	if err != nil {
		return "", fmt.Errorf("enqueue job: %w", err)
	}
	return id, nil
}

func (q *Queue) Lease(ctx context.Context, workerID string, visibility time.Duration) (*queue.Job, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return nil, ErrClosed
	}

	now := q.now()
	nowNanos := now.UnixNano()

	var job *queue.Job
	empty := false
	err := q.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE queue_jobs
			SET status = 'dead_lettered',
			    lease_expires_at = NULL,
			    last_error = 'lease expired after ' || attempt_count || ' attempts'
			WHERE status = 'in_flight' AND lease_expires_at < ? AND attempt_count >= ?
		`, nowNanos, q.policy.MaxAttempts)
		if err != nil {
			return fmt.Errorf("expire exhausted leases: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			slog.Error("[SQLite] Jobs dead-lettered after lease expiry", "count", n)
		}

		var id string
		err = tx.QueryRowContext(ctx, `
			SELECT id FROM queue_jobs
			WHERE (status = 'pending' AND available_at <= ?)
			   OR (status = 'in_flight' AND lease_expires_at < ?)
			ORDER BY available_at, enqueued_at, rowid
			LIMIT 1
		`, nowNanos, nowNanos).Scan(&id)
		if err == sql.ErrNoRows {
			// commit so the expiry sweep above is kept
			empty = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("select next job: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE queue_jobs
			SET status = 'in_flight',
			    attempt_count = attempt_count + 1,
			    leased_by = ?,
			    lease_expires_at = ?
			WHERE id = ?
		`, workerID, now.Add(visibility).UnixNano(), id); err != nil {
			return fmt.Errorf("mark job in flight: %w", err)
		}

		job, err = scanJob(tx.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM queue_jobs WHERE id = ?`, id))
		return err
	})
	if err != nil {
		return nil, err
	}
	if empty {
		return nil, queue.ErrNoJob
	}
	return job, nil
}

func (q *Queue) Ack(ctx context.Context, jobID string, attempt int) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrClosed
	}

	return q.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := requireStatus(ctx, tx, jobID, queue.StatusInFlight, attempt); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			UPDATE queue_jobs SET status = 'completed', lease_expires_at = NULL WHERE id = ?
		`, jobID)
		if err != nil {
			return fmt.Errorf("ack job: %w", err)
		}
		return nil
	})
}

func (q *Queue) Nack(ctx context.Context, jobID string, attempt int, backoff time.Duration, cause error) (queue.Status, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return "", ErrClosed
	}

	var next queue.Status
	err := q.withTx(ctx, func(tx *sql.Tx) error {
		attempts, err := requireStatus(ctx, tx, jobID, queue.StatusInFlight, attempt)
		if err != nil {
			return err
		}

		if q.policy.Exhausted(attempts) {
			next = queue.StatusDeadLettered
			_, err = tx.ExecContext(ctx, `
				UPDATE queue_jobs
				SET status = 'dead_lettered', lease_expires_at = NULL, last_error = ?
				WHERE id = ?
			`, queue.ErrorText(cause), jobID)
		} else {
			next = queue.StatusPending
			_, err = tx.ExecContext(ctx, `
				UPDATE queue_jobs
				SET status = 'pending', available_at = ?, lease_expires_at = NULL, last_error = ?
				WHERE id = ?
			`, q.now().Add(backoff).UnixNano(), queue.ErrorText(cause), jobID)
		}
		if err != nil {
			return fmt.Errorf("nack job: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return next, nil
}

func (q *Queue) DeadLetter(ctx context.Context, jobID string, attempt int, reason string) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrClosed
	}

	return q.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := requireStatus(ctx, tx, jobID, queue.StatusInFlight, attempt); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			UPDATE queue_jobs
			SET status = 'dead_lettered', lease_expires_at = NULL, last_error = ?
			WHERE id = ?
		`, reason, jobID)
		if err != nil {
			return fmt.Errorf("dead-letter job: %w", err)
		}
		return nil
	})
}

func (q *Queue) Get(ctx context.Context, jobID string) (*queue.Job, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return nil, ErrClosed
	}

	job, err := scanJob(q.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM queue_jobs WHERE id = ?`, jobID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", queue.ErrJobNotFound, jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

func (q *Queue) ListDeadLetters(ctx context.Context, limit int) ([]*queue.Job, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return nil, ErrClosed
	}

	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+jobColumns+`
		FROM queue_jobs
		WHERE status = 'dead_lettered'
		ORDER BY enqueued_at, rowid
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list dead letters: %w", err)
	}
	defer rows.Close()

	var jobs []*queue.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dead letter: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dead letters: %w", err)
	}
	return jobs, nil
}

func (q *Queue) Stats(ctx context.Context) (queue.Depth, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return queue.Depth{}, ErrClosed
	}

	rows, err := q.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM queue_jobs GROUP BY status`)
	if err != nil {
		return queue.Depth{}, fmt.Errorf("count jobs: %w", err)
	}
	defer rows.Close()

	var d queue.Depth
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return queue.Depth{}, fmt.Errorf("scan job count: %w", err)
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
		return queue.Depth{}, fmt.Errorf("iterate job counts: %w", err)
	}
	return d, nil
}

func (q *Queue) Redrive(ctx context.Context, jobID string) (string, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return "", ErrClosed
	}

	newID := uuid.NewString()
	err := q.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := requireStatus(ctx, tx, jobID, queue.StatusDeadLettered, 0); err != nil {
			return err
		}
		now := q.now().UnixNano()
		_, err := tx.ExecContext(ctx, `
			INSERT INTO queue_jobs (id, payload, status, attempt_count, enqueued_at, available_at)
			SELECT ?, payload, 'pending', 0, ?, ?
			FROM queue_jobs WHERE id = ?
		`, newID, now, now, jobID)
		if err != nil {
			return fmt.Errorf("redrive job: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	slog.Info("[SQLite] Dead-lettered job redriven", "job_id", jobID, "new_job_id", newID)
	return newID, nil
}

func (q *Queue) Ping(ctx context.Context) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrClosed
	}
	return q.db.PingContext(ctx)
}

func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	return q.db.Close()
}

func (q *Queue) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// requireStatus checks that a job exists in the wanted state and returns its attempt count.
// A non-zero attempt must match the job's current lease.
func requireStatus(ctx context.Context, tx *sql.Tx, jobID string, want queue.Status, attempt int) (int, error) {
	var (
		status   string
		attempts int
	)
	err := tx.QueryRowContext(ctx, `SELECT status, attempt_count FROM queue_jobs WHERE id = ?`, jobID).
		Scan(&status, &attempts)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: %s", queue.ErrJobNotFound, jobID)
	}
	if err != nil {
		return 0, fmt.Errorf("read job status: %w", err)
	}
	if queue.Status(status) != want {
		return 0, fmt.Errorf("%w: job %s is %s", queue.ErrInvalidTransition, jobID, status)
	}
	if attempt > 0 && attempts != attempt {
		return 0, queue.SupersededError(jobID, attempt, attempts)
	}
	return attempts, nil
}

func scanJob(row storage.Scanner) (*queue.Job, error) {
	var (
		job         queue.Job
		payload     []byte
		status      string
		enqueuedAt  int64
		availableAt int64
		leasedBy    sql.NullString
		expiresAt   sql.NullInt64
		lastError   sql.NullString
	)
	if err := row.Scan(
		&job.ID,
		&payload,
		&status,
		&job.AttemptCount,
		&enqueuedAt,
		&availableAt,
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
	job.EnqueuedAt = time.Unix(0, enqueuedAt).UTC()
	job.AvailableAt = time.Unix(0, availableAt).UTC()
	job.LeasedBy = leasedBy.String
	job.LastError = lastError.String
	if expiresAt.Valid {
		t := time.Unix(0, expiresAt.Int64).UTC()
		job.LeaseExpiresAt = &t
	}
	return &job, nil
}
