package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	v1 "github.com/aevon-lab/siteflow/internal/api/v1"
	"github.com/aevon-lab/siteflow/internal/queue"
	"github.com/stretchr/testify/require"
)

func newTestQueue(t *testing.T) (*Queue, *time.Time) {
	t.Helper()

	q, err := NewQueue(filepath.Join(t.TempDir(), "queue.db"), queue.DefaultRetryPolicy())
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return now }
	return q, &now
}

func testEvent() v1.Event {
	path := "/home"
	return v1.Event{
		SiteID:     "siteA",
		EventType:  "pageview",
		Path:       &path,
		Timestamp:  time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
		ReceivedAt: time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
	}
}

func TestQueue_EnqueueLeaseAck(t *testing.T) {
	ctx := context.Background()
	q, _ := newTestQueue(t)

	jobID, err := q.Enqueue(ctx, testEvent())
	require.NoError(t, err)

	job, err := q.Lease(ctx, "w1", time.Minute)
	require.NoError(t, err)
	require.Equal(t, jobID, job.ID)
	require.Equal(t, queue.StatusInFlight, job.Status)
	require.Equal(t, 1, job.AttemptCount)
	require.Equal(t, "/home", job.Event.PathValue())
	require.Equal(t, "w1", job.LeasedBy)

	_, err = q.Lease(ctx, "w2", time.Minute)
	require.ErrorIs(t, err, queue.ErrNoJob)

	require.NoError(t, q.Ack(ctx, jobID, job.AttemptCount))
	require.ErrorIs(t, q.Ack(ctx, jobID, job.AttemptCount), queue.ErrInvalidTransition)

	depth, err := q.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, queue.Depth{Completed: 1}, depth)
}

func TestQueue_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "queue.db")

	q, err := NewQueue(path, queue.DefaultRetryPolicy())
	require.NoError(t, err)
	jobID, err := q.Enqueue(ctx, testEvent())
	require.NoError(t, err)
	require.NoError(t, q.Close())

	reopened, err := NewQueue(path, queue.DefaultRetryPolicy())
	require.NoError(t, err)
	defer reopened.Close()

	job, err := reopened.Lease(ctx, "w1", time.Minute)
	require.NoError(t, err)
	require.Equal(t, jobID, job.ID)
}

func TestQueue_RetryThenDeadLetter(t *testing.T) {
	ctx := context.Background()
	q, now := newTestQueue(t)
	policy := queue.DefaultRetryPolicy()

	jobID, err := q.Enqueue(ctx, testEvent())
	require.NoError(t, err)

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		job, err := q.Lease(ctx, "w1", time.Minute)
		require.NoError(t, err)
		require.Equal(t, attempt, job.AttemptCount)

		status, err := q.Nack(ctx, jobID, job.AttemptCount, policy.Backoff(attempt), errors.New("store down"))
		require.NoError(t, err)

		if attempt < policy.MaxAttempts {
			require.Equal(t, queue.StatusPending, status)
			_, err = q.Lease(ctx, "w1", time.Minute)
			require.ErrorIs(t, err, queue.ErrNoJob)
			*now = now.Add(policy.Backoff(attempt))
		} else {
			require.Equal(t, queue.StatusDeadLettered, status)
		}
	}

	dead, err := q.ListDeadLetters(ctx, 0)
	require.NoError(t, err)
	require.Len(t, dead, 1)
	require.Equal(t, jobID, dead[0].ID)
	require.Equal(t, "store down", dead[0].LastError)
}

func TestQueue_ExpiredLease(t *testing.T) {
	ctx := context.Background()
	q, now := newTestQueue(t)

	jobID, _ := q.Enqueue(ctx, testEvent())
	_, err := q.Lease(ctx, "crashed", 10*time.Second)
	require.NoError(t, err)

	*now = now.Add(11 * time.Second)

	job, err := q.Lease(ctx, "w2", 10*time.Second)
	require.NoError(t, err)
	require.Equal(t, jobID, job.ID)
	require.Equal(t, 2, job.AttemptCount)

	q.policy.MaxAttempts = 2
	*now = now.Add(11 * time.Second)

	_, err = q.Lease(ctx, "w3", 10*time.Second)
	require.ErrorIs(t, err, queue.ErrNoJob)

	stored, err := q.Get(ctx, jobID)
	require.NoError(t, err)
	require.Equal(t, queue.StatusDeadLettered, stored.Status)
	require.Equal(t, "lease expired after 2 attempts", stored.LastError)
}

func TestQueue_SupersededLeaseCannotSettle(t *testing.T) {
	ctx := context.Background()
	q, now := newTestQueue(t)

	jobID, _ := q.Enqueue(ctx, testEvent())
	stale, err := q.Lease(ctx, "w1", time.Second)
	require.NoError(t, err)

	*now = now.Add(2 * time.Second)

	current, err := q.Lease(ctx, "w2", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, current.AttemptCount)

	_, err = q.Nack(ctx, jobID, stale.AttemptCount, 0, errors.New("store down"))
	require.ErrorIs(t, err, queue.ErrInvalidTransition)
	require.ErrorIs(t, q.Ack(ctx, jobID, stale.AttemptCount), queue.ErrInvalidTransition)
	require.ErrorIs(t, q.DeadLetter(ctx, jobID, stale.AttemptCount, "late"), queue.ErrInvalidTransition)

	_, err = q.Lease(ctx, "w3", time.Minute)
	require.ErrorIs(t, err, queue.ErrNoJob)

	stored, err := q.Get(ctx, jobID)
	require.NoError(t, err)
	require.Equal(t, queue.StatusInFlight, stored.Status)
	require.Equal(t, "w2", stored.LeasedBy)
	require.Equal(t, 2, stored.AttemptCount)
	require.Empty(t, stored.LastError)

	require.NoError(t, q.Ack(ctx, jobID, current.AttemptCount))
}

func TestQueue_ImmediateTransactionsAcrossHandles(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "queue.db")

	server, err := NewQueue(path, queue.DefaultRetryPolicy())
	require.NoError(t, err)
	defer server.Close()
	worker, err := NewQueue(path, queue.DefaultRetryPolicy())
	require.NoError(t, err)
	defer worker.Close()

	const n = 20
	for i := 0; i < n; i++ {
		_, err := server.Enqueue(ctx, testEvent())
		require.NoError(t, err)
	}

	done := make(chan error, 1)
	go func() {
		for i := 0; i < n; i++ {
			if _, err := server.Enqueue(ctx, testEvent()); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	for i := 0; i < n; i++ {
		job, err := worker.Lease(ctx, "w1", time.Minute)
		require.NoError(t, err)
		require.NoError(t, worker.Ack(ctx, job.ID, job.AttemptCount))
	}
	require.NoError(t, <-done)

	depth, err := server.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(n), depth.Completed)
	require.Equal(t, int64(n), depth.Pending)
}

func TestQueue_DeadLetterAndRedrive(t *testing.T) {
	ctx := context.Background()
	q, _ := newTestQueue(t)

	jobID, _ := q.Enqueue(ctx, testEvent())
	leased, err := q.Lease(ctx, "w1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, q.DeadLetter(ctx, jobID, leased.AttemptCount, "invalid event"))

	newID, err := q.Redrive(ctx, jobID)
	require.NoError(t, err)
	require.NotEqual(t, jobID, newID)

	fresh, err := q.Get(ctx, newID)
	require.NoError(t, err)
	require.Equal(t, queue.StatusPending, fresh.Status)
	require.Equal(t, 0, fresh.AttemptCount)
	require.Equal(t, "siteA", fresh.Event.SiteID)

	_, err = q.Redrive(ctx, newID)
	require.ErrorIs(t, err, queue.ErrInvalidTransition)

	_, err = q.Get(ctx, "missing")
	require.ErrorIs(t, err, queue.ErrJobNotFound)
}

func TestQueue_Closed(t *testing.T) {
	q, _ := newTestQueue(t)
	require.NoError(t, q.Close())

	_, err := q.Enqueue(context.Background(), testEvent())
	require.ErrorIs(t, err, ErrClosed)
}
