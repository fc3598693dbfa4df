package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	v1 "github.com/aevon-lab/siteflow/internal/api/v1"
	coreerrors "github.com/aevon-lab/siteflow/internal/core/errors"
	"github.com/aevon-lab/siteflow/internal/observability"
	"github.com/aevon-lab/siteflow/internal/queue"
	"github.com/gin-gonic/gin"
)

type Service struct {
	queue            queue.Queue
	metrics          observability.MetricsRecorder
	maxBodySizeBytes int
	maxPendingJobs   int64
	now              func() time.Time
}

// NewService creates the ingestion gateway.
// maxPendingJobs <= 0 disables load shedding. The limit is a soft bound: the
// backlog is read before enqueueing, so concurrent submissions can overshoot
// it by up to the number of requests in flight.
func NewService(q queue.Queue, maxBodySizeMB int, maxPendingJobs int64, metrics observability.MetricsRecorder) *Service {
	if q == nil {
		panic("ingestion: queue must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &Service{
		queue:            q,
		metrics:          metrics,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
		maxPendingJobs:   maxPendingJobs,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// RegisterRoutes registers the ingestion service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/event", s.IngestHandler)

	// Versioned alias.
	r.POST("/v1/events", s.IngestHandler)
}

// Submit validates a submission and enqueues it for persistence.
// It returns as soon as the job is durably enqueued.
func (s *Service) Submit(ctx context.Context, sub v1.Submission) (string, error) {
	evt, err := sub.ToEvent(s.now())
	if err != nil {
		s.metrics.RecordSubmission(ctx, "invalid")
		return "", fmt.Errorf("%w: %w", coreerrors.ErrValidation, err)
	}

	if s.maxPendingJobs > 0 {
		depth, err := s.queue.Stats(ctx)
		if err != nil {
			s.metrics.RecordSubmission(ctx, "queue_unavailable")
			return "", fmt.Errorf("%w: failed to read queue depth: %w", coreerrors.ErrQueueUnavailable, err)
		}
		if depth.Backlog() >= s.maxPendingJobs {
			s.metrics.RecordSubmission(ctx, "queue_full")
			slog.Warn("[Ingestion] Shedding load, queue backlog at limit",
				"backlog", depth.Backlog(),
				"max_pending_jobs", s.maxPendingJobs)
			return "", fmt.Errorf("%w: %d jobs pending", coreerrors.ErrQueueFull, depth.Backlog())
		}
	}

	jobID, err := s.queue.Enqueue(ctx, *evt)
	if err != nil {
		s.metrics.RecordSubmission(ctx, "queue_unavailable")
		return "", fmt.Errorf("%w: %w", coreerrors.ErrQueueUnavailable, err)
	}

	s.metrics.RecordSubmission(ctx, "accepted")
	return jobID, nil
}
