package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	v1 "github.com/aevon-lab/siteflow/internal/api/v1"
	"github.com/google/uuid"
)

// ErrClosed is returned by every MemoryQueue operation after Close.
var ErrClosed = errors.New("queue closed")

// MemoryQueue is a non-durable Queue for tests and single-process development.
type MemoryQueue struct {
	mu     sync.Mutex
	jobs   map[string]*Job
	order  []string
	policy RetryPolicy
	now    func() time.Time
	closed bool
}

// NewMemoryQueue creates an empty in-memory queue.
func NewMemoryQueue(policy RetryPolicy) *MemoryQueue {
	return &MemoryQueue{
		jobs:   make(map[string]*Job),
		policy: policy,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, event v1.Event) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return "", ErrClosed
	}
	return q.enqueueLocked(event), nil
}

func (q *MemoryQueue) enqueueLocked(event v1.Event) string {
	now := q.now()
	job := &Job{
		ID:          uuid.NewString(),
		Event:       event,
		Status:      StatusPending,
		EnqueuedAt:  now,
		AvailableAt: now,
	}
	q.jobs[job.ID] = job
	q.order = append(q.order, job.ID)
	return job.ID
}

func (q *MemoryQueue) Lease(ctx context.Context, workerID string, visibility time.Duration) (*Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, ErrClosed
	}

	now := q.now()
	var next *Job
	for _, id := range q.order {
		job := q.jobs[id]
		switch job.Status {
		case StatusPending:
			if job.AvailableAt.After(now) {
				continue
			}
		case StatusInFlight:
			if job.LeaseExpiresAt == nil || job.LeaseExpiresAt.After(now) {
				continue
			}
			if q.policy.Exhausted(job.AttemptCount) {
				q.expireLocked(job)
				continue
			}
		default:
			continue
		}
		if next == nil || job.AvailableAt.Before(next.AvailableAt) {
			next = job
		}
	}
	if next == nil {
		return nil, ErrNoJob
	}

	expires := now.Add(visibility)
	next.Status = StatusInFlight
	next.AttemptCount++
	next.LeasedBy = workerID
	next.LeaseExpiresAt = &expires

	leased := *next
	return &leased, nil
}

// expireLocked dead-letters a job whose lease ran out on its final attempt.
func (q *MemoryQueue) expireLocked(job *Job) {
	job.Status = StatusDeadLettered
	job.LeaseExpiresAt = nil
	job.LastError = fmt.Sprintf("lease expired after %d attempts", job.AttemptCount)
	slog.Error("[Queue] Job dead-lettered after lease expiry",
		"job_id", job.ID,
		"attempt_count", job.AttemptCount,
		"leased_by", job.LeasedBy)
}

func (q *MemoryQueue) inFlightLocked(jobID string, attempt int) (*Job, error) {
	if q.closed {
		return nil, ErrClosed
	}
	job, ok := q.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	if job.Status != StatusInFlight {
		return nil, fmt.Errorf("%w: job %s is %s", ErrInvalidTransition, jobID, job.Status)
	}
	if job.AttemptCount != attempt {
		return nil, SupersededError(jobID, attempt, job.AttemptCount)
	}
	return job, nil
}

func (q *MemoryQueue) Ack(ctx context.Context, jobID string, attempt int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, err := q.inFlightLocked(jobID, attempt)
	if err != nil {
		return err
	}
	job.Status = StatusCompleted
	job.LeaseExpiresAt = nil
	return nil
}

func (q *MemoryQueue) Nack(ctx context.Context, jobID string, attempt int, backoff time.Duration, cause error) (Status, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, err := q.inFlightLocked(jobID, attempt)
	if err != nil {
		return "", err
	}

	job.LastError = ErrorText(cause)
	job.LeaseExpiresAt = nil
	if q.policy.Exhausted(job.AttemptCount) {
		job.Status = StatusDeadLettered
		return job.Status, nil
	}
	job.Status = StatusPending
	job.AvailableAt = q.now().Add(backoff)
	return job.Status, nil
}

func (q *MemoryQueue) DeadLetter(ctx context.Context, jobID string, attempt int, reason string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, err := q.inFlightLocked(jobID, attempt)
	if err != nil {
		return err
	}
	job.Status = StatusDeadLettered
	job.LeaseExpiresAt = nil
	job.LastError = reason
	return nil
}

func (q *MemoryQueue) Get(ctx context.Context, jobID string) (*Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, ErrClosed
	}
	job, ok := q.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	out := *job
	return &out, nil
}

func (q *MemoryQueue) ListDeadLetters(ctx context.Context, limit int) ([]*Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, ErrClosed
	}

	var out []*Job
	for _, id := range q.order {
		job := q.jobs[id]
		if job.Status != StatusDeadLettered {
			continue
		}
		copy := *job
		out = append(out, &copy)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (q *MemoryQueue) Stats(ctx context.Context) (Depth, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return Depth{}, ErrClosed
	}

	var d Depth
	for _, job := range q.jobs {
		switch job.Status {
		case StatusPending:
			d.Pending++
		case StatusInFlight:
			d.InFlight++
		case StatusCompleted:
			d.Completed++
		case StatusDeadLettered:
			d.DeadLettered++
		}
	}
	return d, nil
}

func (q *MemoryQueue) Redrive(ctx context.Context, jobID string) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return "", ErrClosed
	}
	job, ok := q.jobs[jobID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	if job.Status != StatusDeadLettered {
		return "", fmt.Errorf("%w: job %s is %s, only dead-lettered jobs can be redriven", ErrInvalidTransition, jobID, job.Status)
	}
	return q.enqueueLocked(job.Event), nil
}

func (q *MemoryQueue) Ping(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	return nil
}

func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	return nil
}
