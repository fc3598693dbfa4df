package observability

import (
	"context"
	"time"
)

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

var _ MetricsRecorder = NoopMetrics{}

func (NoopMetrics) RecordSubmission(_ context.Context, _ string) {}
func (NoopMetrics) RecordJobCompleted(_ context.Context, _ int) {}
func (NoopMetrics) RecordJobRetried(_ context.Context, _ int) {}
func (NoopMetrics) RecordJobDeadLettered(_ context.Context, _ string) {}
func (NoopMetrics) RecordAppend(_ context.Context, _ time.Duration, _ error) {}
