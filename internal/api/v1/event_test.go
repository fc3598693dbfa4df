package v1

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestSubmission_ToEvent(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		sub     Submission
		wantErr string
		checkFn func(*testing.T, *Event)
	}{
		{
			name: "all fields",
			sub: Submission{
				SiteID:    "siteA",
				EventType: "pageview",
				Path:      strPtr("/home"),
				UserID:    strPtr("u1"),
				Timestamp: "2026-02-28T10:00:00.123Z",
			},
			checkFn: func(t *testing.T, e *Event) {
				require.Equal(t, "siteA", e.SiteID)
				require.Equal(t, "pageview", e.EventType)
				require.Equal(t, "/home", e.PathValue())
				require.Equal(t, "u1", e.UserIDValue())
				require.Equal(t, time.Date(2026, 2, 28, 10, 0, 0, 123000000, time.UTC), e.Timestamp)
				require.Equal(t, now, e.ReceivedAt)
			},
		},
		{
			name: "timestamp defaults to receipt time",
			sub:  Submission{SiteID: "siteA", EventType: "click"},
			checkFn: func(t *testing.T, e *Event) {
				require.Equal(t, now, e.Timestamp)
				require.Nil(t, e.Path)
				require.Nil(t, e.UserID)
			},
		},
		{
			name: "empty optional strings are absent",
			sub:  Submission{SiteID: "siteA", EventType: "click", Path: strPtr(""), UserID: strPtr("")},
			checkFn: func(t *testing.T, e *Event) {
				require.Nil(t, e.Path)
				require.Nil(t, e.UserID)
			},
		},
		{
			name:    "missing both required fields",
			sub:     Submission{},
			wantErr: "site_id and event_type are required",
		},
		{
			name:    "missing site_id",
			sub:     Submission{EventType: "pageview"},
			wantErr: "site_id is required",
		},
		{
			name:    "blank event_type",
			sub:     Submission{SiteID: "siteA", EventType: "   "},
			wantErr: "event_type is required",
		},
		{
			name:    "bad timestamp",
			sub:     Submission{SiteID: "siteA", EventType: "pageview", Timestamp: "yesterday"},
			wantErr: "not a valid ISO-8601 instant",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			evt, err := tc.sub.ToEvent(now)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				require.Nil(t, evt)
				return
			}
			require.NoError(t, err)
			require.NoError(t, evt.Validate())
			if tc.checkFn != nil {
				tc.checkFn(t, evt)
			}
		})
	}
}

func TestEvent_Validate(t *testing.T) {
	now := time.Now().UTC()

	require.NoError(t, (&Event{SiteID: "s", EventType: "pageview", Timestamp: now}).Validate())
	require.ErrorContains(t, (&Event{EventType: "pageview", Timestamp: now}).Validate(), "site_id")
	require.ErrorContains(t, (&Event{SiteID: "s", Timestamp: now}).Validate(), "event_type")
	require.ErrorContains(t, (&Event{SiteID: "s", EventType: "pageview"}).Validate(), "timestamp")
}

func TestEvent_JSONOmitsAbsentOptionals(t *testing.T) {
	evt := Event{
		SiteID:    "siteA",
		EventType: "pageview",
		Timestamp: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(evt)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "path")
	require.NotContains(t, string(raw), "user_id")
}
