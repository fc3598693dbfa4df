package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	v1 "github.com/aevon-lab/siteflow/internal/api/v1"
	coreerrors "github.com/aevon-lab/siteflow/internal/core/errors"
	"github.com/aevon-lab/siteflow/internal/core/storage"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAdapter_Append(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		event      *v1.Event
		mockResult func(mock sqlmock.Sqlmock, event *v1.Event)
		assertions func(t *testing.T, id string, err error)
	}{
		{
			name: "success returns stored id",
			event: &v1.Event{
				ID:         "evt-1",
				SiteID:     "siteA",
				EventType:  "pageview",
				Path:       strPtr("/home"),
				UserID:     strPtr("u1"),
				Timestamp:  now,
				ReceivedAt: now,
			},
			mockResult: func(mock sqlmock.Sqlmock, event *v1.Event) {
				mock.ExpectQuery(regexp.QuoteMeta(querySaveEvent)).
					WithArgs("evt-1", "siteA", "pageview", "/home", "u1", now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("evt-1"))
			},
			assertions: func(t *testing.T, id string, err error) {
				require.NoError(t, err)
				require.Equal(t, "evt-1", id)
			},
		},
		{
			name: "absent optionals are written as NULL",
			event: &v1.Event{
				ID:         "evt-2",
				SiteID:     "siteA",
				EventType:  "click",
				Timestamp:  now,
				ReceivedAt: now,
			},
			mockResult: func(mock sqlmock.Sqlmock, event *v1.Event) {
				mock.ExpectQuery(regexp.QuoteMeta(querySaveEvent)).
					WithArgs("evt-2", "siteA", "click", nil, nil, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("evt-2"))
			},
			assertions: func(t *testing.T, id string, err error) {
				require.NoError(t, err)
				require.Equal(t, "evt-2", id)
			},
		},
		{
			name: "empty id gets a generated one",
			event: &v1.Event{
				SiteID:     "siteA",
				EventType:  "pageview",
				Timestamp:  now,
				ReceivedAt: now,
			},
			mockResult: func(mock sqlmock.Sqlmock, event *v1.Event) {
				mock.ExpectQuery(regexp.QuoteMeta(querySaveEvent)).
					WithArgs(sqlmock.AnyArg(), "siteA", "pageview", nil, nil, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("generated"))
			},
			assertions: func(t *testing.T, id string, err error) {
				require.NoError(t, err)
				require.Equal(t, "generated", id)
			},
		},
		{
			name: "duplicate maps to ErrDuplicate",
			event: &v1.Event{
				ID:         "evt-dup",
				SiteID:     "siteA",
				EventType:  "pageview",
				Timestamp:  now,
				ReceivedAt: now,
			},
			mockResult: func(mock sqlmock.Sqlmock, event *v1.Event) {
				mock.ExpectQuery(regexp.QuoteMeta(querySaveEvent)).
					WithArgs("evt-dup", "siteA", "pageview", nil, nil, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			assertions: func(t *testing.T, id string, err error) {
				require.ErrorIs(t, err, storage.ErrDuplicate)
				require.Empty(t, id)
			},
		},
		{
			name: "database error maps to ErrPersistence",
			event: &v1.Event{
				ID:         "evt-3",
				SiteID:     "siteA",
				EventType:  "pageview",
				Timestamp:  now,
				ReceivedAt: now,
			},
			mockResult: func(mock sqlmock.Sqlmock, event *v1.Event) {
				mock.ExpectQuery(regexp.QuoteMeta(querySaveEvent)).
					WithArgs("evt-3", "siteA", "pageview", nil, nil, now, now).
					WillReturnError(errors.New("connection refused"))
			},
			assertions: func(t *testing.T, id string, err error) {
				require.ErrorIs(t, err, coreerrors.ErrPersistence)
				require.ErrorContains(t, err, "connection refused")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			adapter, mock, db := newMockAdapter(t)
			defer db.Close()

			tc.mockResult(mock, tc.event)

			id, err := adapter.Append(context.Background(), tc.event)
			tc.assertions(t, id, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAdapter_QueryBySite(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	occurredAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	receivedAt := occurredAt.Add(2 * time.Second)

	mock.ExpectQuery(regexp.QuoteMeta(queryEventsBySite)).
		WithArgs("siteA").
		WillReturnRows(sqlmock.NewRows(eventRowColumns()).
			AddRow("evt-1", "siteA", "pageview", "/home", "u1", occurredAt, receivedAt).
			AddRow("evt-2", "siteA", "pageview", nil, nil, occurredAt.Add(time.Minute), receivedAt),
		).RowsWillBeClosed()

	it, err := adapter.Query(context.Background(), storage.Predicate{SiteID: "siteA"})
	require.NoError(t, err)

	events, err := storage.Collect(context.Background(), it)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "evt-1", events[0].ID)
	require.Equal(t, "/home", events[0].PathValue())
	require.Equal(t, "u1", events[0].UserIDValue())
	require.Nil(t, events[1].Path)
	require.Nil(t, events[1].UserID)
	require.Equal(t, occurredAt.Add(time.Minute), events[1].Timestamp)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_QueryInRange(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(queryEventsBySiteInRange)).
		WithArgs("siteA", from, maxOccurredAt).
		WillReturnRows(sqlmock.NewRows(eventRowColumns())).
		RowsWillBeClosed()

	it, err := adapter.Query(context.Background(), storage.Predicate{SiteID: "siteA", From: from})
	require.NoError(t, err)

	events, err := storage.Collect(context.Background(), it)
	require.NoError(t, err)
	require.Empty(t, events)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_QueryErrorMapsToStoreUnavailable(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryEventsBySite)).
		WithArgs("siteA").
		WillReturnError(errors.New("db down"))

	_, err := adapter.Query(context.Background(), storage.Predicate{SiteID: "siteA"})
	require.ErrorIs(t, err, coreerrors.ErrStoreUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewAdapter_MissingTableFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err = newAdapter(db)
	require.ErrorContains(t, err, "events table does not exist")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_CloseReturnsDBCloseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dbCloseErr := errors.New("db close failed")

	mock.ExpectPrepare(regexp.QuoteMeta(querySaveEvent)).WillBeClosed()
	stmtSave, err := db.Prepare(querySaveEvent)
	require.NoError(t, err)

	mock.ExpectPrepare(regexp.QuoteMeta(queryEventsBySite)).WillBeClosed()
	stmtBySite, err := db.Prepare(queryEventsBySite)
	require.NoError(t, err)

	mock.ExpectPrepare(regexp.QuoteMeta(queryEventsBySiteInRange)).WillBeClosed()
	stmtInRange, err := db.Prepare(queryEventsBySiteInRange)
	require.NoError(t, err)

	mock.ExpectClose().WillReturnError(dbCloseErr)

	adapter := &Adapter{
		db:                db,
		stmtSaveEvent:     stmtSave,
		stmtEventsBySite:  stmtBySite,
		stmtEventsInRange: stmtInRange,
	}

	err = adapter.Close()
	require.Error(t, err)
	require.ErrorContains(t, err, "failed to close database")
	require.ErrorIs(t, err, dbCloseErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func newMockAdapter(t *testing.T) (*Adapter, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	adapter := &Adapter{
		db:                db,
		stmtSaveEvent:     mustPrepareStmt(t, db, mock, querySaveEvent),
		stmtEventsBySite:  mustPrepareStmt(t, db, mock, queryEventsBySite),
		stmtEventsInRange: mustPrepareStmt(t, db, mock, queryEventsBySiteInRange),
	}

	return adapter, mock, db
}

func mustPrepareStmt(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock, query string) *sql.Stmt {
	t.Helper()

	mock.ExpectPrepare(regexp.QuoteMeta(query))
	stmt, err := db.Prepare(query)
	require.NoError(t, err)

	return stmt
}

func eventRowColumns() []string {
	return []string{
		"id",
		"site_id",
		"event_type",
		"path",
		"user_id",
		"occurred_at",
		"received_at",
	}
}
