package ingestion

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	v1 "github.com/aevon-lab/siteflow/internal/api/v1"
	httperr "github.com/aevon-lab/siteflow/internal/core/errors"
	"github.com/gin-gonic/gin"
)

const (
	msgReadBodyFailed    = "Failed to read request body"
	msgInvalidJSON       = "Invalid JSON body"
	msgQueueUnavailable  = "Event could not be queued, retry later"
	msgQueueFull         = "Too many events pending, retry later"
	msgEnqueueFailed     = "Failed to accept event"
	msgEventAccepted     = "Event received"
	retryAfterSeconds    = "5"
	headerRetryAfter     = "Retry-After"
	statusAccepted       = "accepted"
	maxSizeDetailsMBName = "max_size_mb"
)

// ingestionError carries the structured HTTP error shape from a helper back to the orchestrator.
// Helpers return this instead of writing to gin.Context directly, keeping them decoupled from HTTP.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

// IngestHandler handles HTTP POST requests for event submission.
func (s *Service) IngestHandler(c *gin.Context) {
	sub, payloadSize, ierr := s.parseSubmission(c)
	if ierr != nil {
		writeError(c, ierr)
		return
	}

	jobID, err := s.Submit(c.Request.Context(), *sub)
	if err != nil {
		writeError(c, classify(err))
		return
	}

	slog.Info("[Ingestion] Event accepted",
		"job_id", jobID,
		"site_id", sub.SiteID,
		"event_type", sub.EventType,
		"payload_size", payloadSize)

	c.JSON(http.StatusAccepted, gin.H{
		"status":  statusAccepted,
		"message": msgEventAccepted,
		"job_id":  jobID,
	})
}

// parseSubmission reads the raw request body and binds it into a Submission.
// Returns the submission and the raw payload size (used for structured logging upstream).
func (s *Service) parseSubmission(c *gin.Context) (*v1.Submission, int, *ingestionError) {
	// Enforce maximum body size to prevent OOM attacks
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("[Ingestion] Failed to read request body", "error", err)
		return nil, 0, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("[Ingestion] Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpInvalidJsonError,
			message:    "Request body exceeds maximum allowed size",
			details: map[string]interface{}{
				maxSizeDetailsMBName: maxBytes / (1024 * 1024),
			},
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var sub v1.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		slog.Warn("[Ingestion] Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
		}
	}

	return &sub, len(bodyBytes), nil
}

// classify maps a Submit error onto its HTTP shape.
func classify(err error) *ingestionError {
	switch {
	case errors.Is(err, httperr.ErrValidation):
		slog.Warn("[Ingestion] Submission rejected", "error", err)
		return &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpValidationError,
			message:    err.Error(),
		}
	case errors.Is(err, httperr.ErrQueueFull):
		return &ingestionError{
			statusCode: http.StatusServiceUnavailable,
			errorType:  httperr.HttpQueueFullError,
			message:    msgQueueFull,
		}
	case errors.Is(err, httperr.ErrQueueUnavailable):
		slog.Error("[Ingestion] Failed to enqueue event", "error", err)
		return &ingestionError{
			statusCode: http.StatusServiceUnavailable,
			errorType:  httperr.HttpQueueUnavailableError,
			message:    msgQueueUnavailable,
		}
	default:
		slog.Error("[Ingestion] Unexpected submission failure", "error", err)
		return &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgEnqueueFailed,
		}
	}
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	if err.statusCode == http.StatusServiceUnavailable {
		c.Header(headerRetryAfter, retryAfterSeconds)
	}
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
