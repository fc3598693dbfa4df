// Package inspection exposes the queue's depth and dead letters to operators.
package inspection

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	httperr "github.com/aevon-lab/siteflow/internal/core/errors"
	"github.com/aevon-lab/siteflow/internal/observability"
	"github.com/aevon-lab/siteflow/internal/queue"
	"github.com/gin-gonic/gin"
)

const (
	defaultDeadLetterLimit = 100
	maxDeadLetterLimit     = 1000
)

// LatencySource reports store write latency. Satisfied by *worker.Pool.
type LatencySource interface {
	LatencySnapshot() observability.LatencySnapshot
}

// Service serves read and redrive access to the queue.
type Service struct {
	queue   queue.Queue
	latency LatencySource
}

// NewService creates the inspection API. latency may be nil when no workers
// run in this process.
func NewService(q queue.Queue, latency LatencySource) *Service {
	if q == nil {
		panic("inspection: queue must not be nil")
	}
	return &Service{queue: q, latency: latency}
}

// StatsResponse is the body of GET /v1/queue/stats.
type StatsResponse struct {
	Depth         queue.Depth                    `json:"depth"`
	Backlog       int64                          `json:"backlog"`
	AppendLatency *observability.LatencySnapshot `json:"append_latency,omitempty"`
}

// DeadLettersResponse is the body of GET /v1/queue/dead-letters.
type DeadLettersResponse struct {
	Jobs  []*queue.Job `json:"jobs"`
	Count int          `json:"count"`
}

// RedriveResponse is the body of a successful redrive.
type RedriveResponse struct {
	Status   string `json:"status"`
	JobID    string `json:"job_id"`
	NewJobID string `json:"new_job_id"`
}

// RegisterRoutes registers the queue inspection routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/v1/queue")
	g.GET("/stats", s.HandleStats)
	g.GET("/jobs/:job_id", s.HandleGetJob)
	g.GET("/dead-letters", s.HandleListDeadLetters)
	g.POST("/dead-letters/:job_id/redrive", s.HandleRedrive)
}

// HandleStats handles GET /v1/queue/stats
func (s *Service) HandleStats(c *gin.Context) {
	depth, err := s.queue.Stats(c.Request.Context())
	if err != nil {
		writeQueueError(c, err, "Failed to read queue depth")
		return
	}

	resp := StatsResponse{Depth: depth, Backlog: depth.Backlog()}
	if s.latency != nil {
		snap := s.latency.LatencySnapshot()
		resp.AppendLatency = &snap
	}
	c.JSON(http.StatusOK, resp)
}

// HandleGetJob handles GET /v1/queue/jobs/:job_id
func (s *Service) HandleGetJob(c *gin.Context) {
	job, err := s.queue.Get(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		writeQueueError(c, err, "Failed to load job")
		return
	}
	c.JSON(http.StatusOK, job)
}

// HandleListDeadLetters handles GET /v1/queue/dead-letters?limit=
func (s *Service) HandleListDeadLetters(c *gin.Context) {
	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpValidationError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}

	jobs, err := s.queue.ListDeadLetters(c.Request.Context(), limit)
	if err != nil {
		writeQueueError(c, err, "Failed to list dead letters")
		return
	}
	if jobs == nil {
		jobs = []*queue.Job{}
	}
	c.JSON(http.StatusOK, DeadLettersResponse{Jobs: jobs, Count: len(jobs)})
}

// HandleRedrive handles POST /v1/queue/dead-letters/:job_id/redrive
func (s *Service) HandleRedrive(c *gin.Context) {
	jobID := c.Param("job_id")

	newJobID, err := s.queue.Redrive(c.Request.Context(), jobID)
	if err != nil {
		writeQueueError(c, err, "Failed to redrive job")
		return
	}

	slog.Info("[Inspection] Dead-lettered job redriven", "job_id", jobID, "new_job_id", newJobID)
	c.JSON(http.StatusAccepted, RedriveResponse{
		Status:   "redriven",
		JobID:    jobID,
		NewJobID: newJobID,
	})
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultDeadLetterLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, errors.New("limit must be a positive integer")
	}
	if limit > maxDeadLetterLimit {
		limit = maxDeadLetterLimit
	}
	return limit, nil
}

func writeQueueError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, queue.ErrJobNotFound):
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpNotFoundError,
			Message:   "Job not found",
			Details:   err.Error(),
		})
	case errors.Is(err, queue.ErrInvalidTransition):
		c.JSON(http.StatusConflict, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidStateError,
			Message:   message,
			Details:   err.Error(),
		})
	default:
		slog.Error("[Inspection] Queue operation failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, httperr.ErrorResponse{
			ErrorType: httperr.HttpQueueUnavailableError,
			Message:   message,
		})
	}
}
