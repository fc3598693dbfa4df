package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	v1 "github.com/aevon-lab/siteflow/internal/api/v1"
	httperr "github.com/aevon-lab/siteflow/internal/core/errors"
	queuemocks "github.com/aevon-lab/siteflow/internal/mocks/queue"
	"github.com/aevon-lab/siteflow/internal/queue"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc.RegisterRoutes(r)
	return r
}

func post(r *gin.Engine, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) httperr.ErrorResponse {
	t.Helper()
	var errResp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
	return errResp
}

func TestIngestHandler_Success(t *testing.T) {
	mockQueue := queuemocks.NewQueue(t)
	mockQueue.EXPECT().
		Enqueue(mock.Anything, mock.MatchedBy(func(e v1.Event) bool {
			return e.SiteID == "siteA" &&
				e.EventType == "pageview" &&
				e.PathValue() == "/home" &&
				e.UserIDValue() == "u1" &&
				e.Timestamp.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
		})).
		Return("job-1", nil).
		Once()

	svc := NewService(mockQueue, 1, 0, nil)
	r := newTestRouter(svc)

	body := []byte(`{"site_id":"siteA","event_type":"pageview","path":"/home","user_id":"u1","timestamp":"2026-03-01T12:00:00Z"}`)
	resp := post(r, "/event", body)

	require.Equal(t, http.StatusAccepted, resp.Code)
	var result map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.Equal(t, "accepted", result["status"])
	assert.Equal(t, "Event received", result["message"])
	assert.Equal(t, "job-1", result["job_id"])
}

func TestIngestHandler_VersionedAlias(t *testing.T) {
	mockQueue := queuemocks.NewQueue(t)
	mockQueue.EXPECT().Enqueue(mock.Anything, mock.Anything).Return("job-2", nil).Once()

	r := newTestRouter(NewService(mockQueue, 1, 0, nil))
	resp := post(r, "/v1/events", []byte(`{"site_id":"siteA","event_type":"click"}`))

	require.Equal(t, http.StatusAccepted, resp.Code)
}

func TestIngestHandler_DefaultsTimestampToReceiptTime(t *testing.T) {
	received := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)

	mockQueue := queuemocks.NewQueue(t)
	mockQueue.EXPECT().
		Enqueue(mock.Anything, mock.MatchedBy(func(e v1.Event) bool {
			return e.Timestamp.Equal(received) && e.ReceivedAt.Equal(received) && e.Path == nil && e.UserID == nil
		})).
		Return("job-3", nil).
		Once()

	svc := NewService(mockQueue, 1, 0, nil)
	svc.now = func() time.Time { return received }

	resp := post(newTestRouter(svc), "/event", []byte(`{"site_id":"siteA","event_type":"pageview"}`))
	require.Equal(t, http.StatusAccepted, resp.Code)
}

func TestIngestHandler_InvalidJSON(t *testing.T) {
	mockQueue := queuemocks.NewQueue(t)
	r := newTestRouter(NewService(mockQueue, 1, 0, nil))

	resp := post(r, "/event", []byte("not json"))

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, httperr.HttpInvalidJsonError, decodeError(t, resp).ErrorType)
}

func TestIngestHandler_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing site_id", `{"event_type":"pageview"}`, "site_id is required"},
		{"missing event_type", `{"site_id":"siteA"}`, "event_type is required"},
		{"missing both", `{"path":"/home"}`, "site_id and event_type are required"},
		{"blank site_id", `{"site_id":"  ","event_type":"pageview"}`, "site_id is required"},
		{"bad timestamp", `{"site_id":"siteA","event_type":"pageview","timestamp":"yesterday"}`, "not a valid ISO-8601 instant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The queue must never be touched for rejected submissions.
			mockQueue := queuemocks.NewQueue(t)
			r := newTestRouter(NewService(mockQueue, 1, 0, nil))

			resp := post(r, "/event", []byte(tt.body))

			require.Equal(t, http.StatusBadRequest, resp.Code)
			errResp := decodeError(t, resp)
			assert.Equal(t, httperr.HttpValidationError, errResp.ErrorType)
			assert.Contains(t, errResp.Message, tt.message)
		})
	}
}

func TestIngestHandler_QueueUnavailable(t *testing.T) {
	mockQueue := queuemocks.NewQueue(t)
	mockQueue.EXPECT().
		Enqueue(mock.Anything, mock.Anything).
		Return("", errors.New("connection refused")).
		Once()

	r := newTestRouter(NewService(mockQueue, 1, 0, nil))
	resp := post(r, "/event", []byte(`{"site_id":"siteA","event_type":"pageview"}`))

	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Equal(t, retryAfterSeconds, resp.Header().Get(headerRetryAfter))
	assert.Equal(t, httperr.HttpQueueUnavailableError, decodeError(t, resp).ErrorType)
}

func TestIngestHandler_QueueFull(t *testing.T) {
	mockQueue := queuemocks.NewQueue(t)
	mockQueue.EXPECT().
		Stats(mock.Anything).
		Return(queue.Depth{Pending: 7, InFlight: 3}, nil).
		Once()

	r := newTestRouter(NewService(mockQueue, 1, 10, nil))
	resp := post(r, "/event", []byte(`{"site_id":"siteA","event_type":"pageview"}`))

	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Equal(t, httperr.HttpQueueFullError, decodeError(t, resp).ErrorType)
}

func TestIngestHandler_BelowBacklogLimit(t *testing.T) {
	mockQueue := queuemocks.NewQueue(t)
	mockQueue.EXPECT().
		Stats(mock.Anything).
		Return(queue.Depth{Pending: 5, InFlight: 4, Completed: 1000, DeadLettered: 50}, nil).
		Once()
	mockQueue.EXPECT().Enqueue(mock.Anything, mock.Anything).Return("job-4", nil).Once()

	r := newTestRouter(NewService(mockQueue, 1, 10, nil))
	resp := post(r, "/event", []byte(`{"site_id":"siteA","event_type":"pageview"}`))

	require.Equal(t, http.StatusAccepted, resp.Code)
}

func TestIngestHandler_BodySizeLimit(t *testing.T) {
	mockQueue := queuemocks.NewQueue(t)

	svc := NewService(mockQueue, 0, 0, nil) // 0 defaults to 1MB
	svc.maxBodySizeBytes = 10

	resp := post(newTestRouter(svc), "/event", []byte(`{"site_id":"siteA","event_type":"pageview"}`))

	require.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
	errResp := decodeError(t, resp)
	assert.Equal(t, httperr.HttpInvalidJsonError, errResp.ErrorType)
	assert.Contains(t, errResp.Message, "maximum allowed size")
}

func TestSubmit_ResubmissionCreatesDistinctJobs(t *testing.T) {
	q := queue.NewMemoryQueue(queue.DefaultRetryPolicy())
	svc := NewService(q, 1, 0, nil)

	sub := v1.Submission{SiteID: "siteA", EventType: "pageview"}
	first, err := svc.Submit(context.Background(), sub)
	require.NoError(t, err)
	second, err := svc.Submit(context.Background(), sub)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	depth, err := q.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), depth.Pending)
}

func TestSubmit_WrapsSentinels(t *testing.T) {
	mockQueue := queuemocks.NewQueue(t)
	mockQueue.EXPECT().Stats(mock.Anything).Return(queue.Depth{}, errors.New("down")).Once()

	svc := NewService(mockQueue, 1, 1, nil)

	_, err := svc.Submit(context.Background(), v1.Submission{SiteID: "siteA"})
	assert.ErrorIs(t, err, httperr.ErrValidation)

	_, err = svc.Submit(context.Background(), v1.Submission{SiteID: "siteA", EventType: "pageview"})
	assert.ErrorIs(t, err, httperr.ErrQueueUnavailable)
}
