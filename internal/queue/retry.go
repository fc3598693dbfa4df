package queue

import (
	"fmt"
	"time"
)

// RetryPolicy bounds redelivery of failing jobs.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	Factor         float64
	MaxBackoff     time.Duration
}

// DefaultRetryPolicy gives three attempts: the two retries wait 1s then 5s.
// Raising MaxAttempts continues the schedule at 25s, 125s, then the 5m cap.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		Factor:         5,
		MaxBackoff:     5 * time.Minute,
	}
}

// Backoff returns the delay before redelivering a job that failed its attempt-th delivery.
// attempt is 1-based.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(p.InitialBackoff)
	for i := 1; i < attempt; i++ {
		d *= p.Factor
		if d >= float64(p.MaxBackoff) {
			return p.MaxBackoff
		}
	}
	if p.MaxBackoff > 0 && time.Duration(d) > p.MaxBackoff {
		return p.MaxBackoff
	}
	return time.Duration(d)
}

// Exhausted reports whether a job delivered attempt times has no retries left.
func (p RetryPolicy) Exhausted(attempt int) bool {
	return attempt >= p.MaxAttempts
}

func (p RetryPolicy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be >= 1")
	}
	if p.InitialBackoff < 0 {
		return fmt.Errorf("initial_backoff must be >= 0")
	}
	if p.Factor < 1 {
		return fmt.Errorf("factor must be >= 1")
	}
	if p.MaxBackoff < p.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	return nil
}
