package errors

import stderrors "errors"

const (
	HttpInternalError         = "internal_error"
	HttpInvalidJsonError      = "invalid_json"
	HttpValidationError       = "validation_failed"
	HttpQueueUnavailableError = "queue_unavailable"
	HttpQueueFullError        = "queue_full"
	HttpAggregationError      = "aggregation_failed"
	HttpNotFoundError         = "not_found"
	HttpInvalidStateError     = "invalid_state"
)

// Pipeline error taxonomy. Callers wrap these with fmt.Errorf("...: %w")
// and classify with errors.Is.
var (
	// ErrValidation marks a malformed or incomplete request. Never retried.
	ErrValidation = stderrors.New("validation failed")

	// ErrQueueUnavailable means an enqueue could not be durably recorded.
	ErrQueueUnavailable = stderrors.New("queue unavailable")

	// ErrQueueFull means the gateway shed load because the backlog is too deep.
	ErrQueueFull = stderrors.New("queue backlog limit reached")

	// ErrPersistence is a transient event store write failure.
	ErrPersistence = stderrors.New("event persistence failed")

	// ErrStoreUnavailable is an event store read failure.
	ErrStoreUnavailable = stderrors.New("event store unavailable")

	// ErrAggregation means a stats query could not be answered.
	ErrAggregation = stderrors.New("aggregation failed")
)

// ErrorResponse is the error response body for every HTTP endpoint.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
