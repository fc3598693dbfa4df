package v1

import (
	"fmt"
	"strings"
	"time"
)

// Event is one observed user action on a tracked site.
type Event struct {
	// ID is assigned by the worker when the event is persisted.
	// It is derived from the queue job ID when idempotent writes are enabled.
	ID string `json:"id,omitempty"`

	// SiteID identifies the tenant. It is the partition key for every statistic.
	SiteID string `json:"site_id"`

	// EventType is the kind of action, e.g. "pageview" or "click".
	EventType string `json:"event_type"`

	// Path is the page path the action happened on. Nil when not reported.
	Path *string `json:"path,omitempty"`

	// UserID identifies the visitor. Nil means anonymous.
	UserID *string `json:"user_id,omitempty"`

	// Timestamp is when the action happened. Defaults to ReceivedAt.
	Timestamp time.Time `json:"timestamp"`

	// ReceivedAt is when the ingestion gateway accepted the submission.
	ReceivedAt time.Time `json:"received_at"`
}

// Validate enforces the invariant every persisted event must hold.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.SiteID) == "" {
		return fmt.Errorf("site_id is required")
	}
	if strings.TrimSpace(e.EventType) == "" {
		return fmt.Errorf("event_type is required")
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}
	return nil
}

// PathValue returns the path or "" when absent.
func (e *Event) PathValue() string {
	if e.Path == nil {
		return ""
	}
	return *e.Path
}

// UserIDValue returns the user id or "" when absent.
func (e *Event) UserIDValue() string {
	if e.UserID == nil {
		return ""
	}
	return *e.UserID
}

// Submission is the inbound payload accepted by the ingestion endpoint.
// It is checked once at the boundary; nothing past ToEvent sees raw input.
type Submission struct {
	SiteID    string  `json:"site_id"`
	EventType string  `json:"event_type"`
	Path      *string `json:"path,omitempty"`
	UserID    *string `json:"user_id,omitempty"`

	// Timestamp is an ISO-8601 instant. Empty means "now".
	Timestamp string `json:"timestamp,omitempty"`
}

// ToEvent validates the submission and builds the Event it describes.
// receivedAt fills the timestamp when the submitter omitted it.
func (s Submission) ToEvent(receivedAt time.Time) (*Event, error) {
	if strings.TrimSpace(s.SiteID) == "" && strings.TrimSpace(s.EventType) == "" {
		return nil, fmt.Errorf("site_id and event_type are required")
	}
	if strings.TrimSpace(s.SiteID) == "" {
		return nil, fmt.Errorf("site_id is required")
	}
	if strings.TrimSpace(s.EventType) == "" {
		return nil, fmt.Errorf("event_type is required")
	}

	receivedAt = receivedAt.UTC()
	ts := receivedAt
	if raw := strings.TrimSpace(s.Timestamp); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("timestamp %q is not a valid ISO-8601 instant", s.Timestamp)
		}
		ts = parsed.UTC()
	}

	return &Event{
		SiteID:     s.SiteID,
		EventType:  s.EventType,
		Path:       nonEmpty(s.Path),
		UserID:     nonEmpty(s.UserID),
		Timestamp:  ts,
		ReceivedAt: receivedAt,
	}, nil
}

// nonEmpty treats an empty optional string the same as an absent one.
func nonEmpty(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	out := *v
	return &out
}
