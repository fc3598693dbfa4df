package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	v1 "github.com/aevon-lab/siteflow/internal/api/v1"
)

var (
	// ErrNoJob is returned by Lease when nothing is eligible for delivery.
	ErrNoJob = errors.New("no job available")

	// ErrJobNotFound is returned for an unknown job id.
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidTransition is returned when a job is not in a state that allows the operation.
	ErrInvalidTransition = errors.New("invalid job state transition")
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending      Status = "pending"
	StatusInFlight     Status = "in_flight"
	StatusCompleted    Status = "completed"
	StatusDeadLettered Status = "dead_lettered"
)

// CanTransition reports whether a job may move from s to next.
// pending -> in_flight -> {completed | pending | dead_lettered}.
// in_flight -> in_flight covers redelivery after a lease expired.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusInFlight
	case StatusInFlight:
		return next == StatusInFlight ||
			next == StatusCompleted ||
			next == StatusPending ||
			next == StatusDeadLettered
	default:
		return false
	}
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusDeadLettered
}

// Job is one unit of work: an event awaiting persistence.
type Job struct {
	ID             string     `json:"job_id"`
	Event          v1.Event   `json:"event"`
	AttemptCount   int        `json:"attempt_count"`
	Status         Status     `json:"status"`
	EnqueuedAt     time.Time  `json:"enqueued_at"`
	AvailableAt    time.Time  `json:"available_at"`
	LeasedBy       string     `json:"leased_by,omitempty"`
	LeaseExpiresAt *time.Time `json:"lease_expires_at,omitempty"`
	LastError      string     `json:"last_error,omitempty"`
}

// Message is the wire form of a job handed between processes.
type Message struct {
	JobID        string   `json:"job_id"`
	AttemptCount int      `json:"attempt_count"`
	Event        v1.Event `json:"event"`
}

// Message returns the wire form of the job.
func (j *Job) Message() Message {
	return Message{JobID: j.ID, AttemptCount: j.AttemptCount, Event: j.Event}
}

// Depth counts jobs per status.
type Depth struct {
	Pending      int64 `json:"pending"`
	InFlight     int64 `json:"in_flight"`
	Completed    int64 `json:"completed"`
	DeadLettered int64 `json:"dead_lettered"`
}

// Backlog is the number of jobs not yet settled.
func (d Depth) Backlog() int64 {
	return d.Pending + d.InFlight
}

// Queue is the durable buffer between the ingestion gateway and the worker pool.
// Delivery is at-least-once.
type Queue interface {
	// Enqueue durably records a new pending job and returns its id.
	Enqueue(ctx context.Context, event v1.Event) (string, error)

	// Lease hands the oldest eligible job to workerID for the visibility timeout.
	// Returns ErrNoJob when nothing is eligible.
	Lease(ctx context.Context, workerID string, visibility time.Duration) (*Job, error)

	// Ack marks an in-flight job completed.
	// attempt is the AttemptCount of the caller's lease. Settling a lease that
	// was superseded by a redelivery returns ErrInvalidTransition.
	Ack(ctx context.Context, jobID string, attempt int) error

	// Nack returns an in-flight job to pending after backoff, or dead-letters it
	// once the attempt budget is spent. It returns the resulting status.
	Nack(ctx context.Context, jobID string, attempt int, backoff time.Duration, cause error) (Status, error)

	// DeadLetter moves an in-flight job straight to dead_lettered.
	DeadLetter(ctx context.Context, jobID string, attempt int, reason string) error

	Get(ctx context.Context, jobID string) (*Job, error)
	ListDeadLetters(ctx context.Context, limit int) ([]*Job, error)
	Stats(ctx context.Context) (Depth, error)

	// Redrive enqueues a fresh job carrying a dead-lettered job's event.
	Redrive(ctx context.Context, jobID string) (string, error)

	Ping(ctx context.Context) error
	Close() error
}

// EncodeEvent serializes an event for a payload column.
func EncodeEvent(evt v1.Event) ([]byte, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event: %w", err)
	}
	return payload, nil
}

// DecodeEvent parses a payload column.
func DecodeEvent(payload []byte) (v1.Event, error) {
	var evt v1.Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return v1.Event{}, fmt.Errorf("failed to decode event payload: %w", err)
	}
	return evt, nil
}

// SupersededError reports a settlement by a lease that is no longer current.
func SupersededError(jobID string, attempt, current int) error {
	return fmt.Errorf("%w: lease for attempt %d of job %s was superseded by attempt %d",
		ErrInvalidTransition, attempt, jobID, current)
}

// ErrorText renders a nack cause for the last_error column.
func ErrorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
