package postgres

import (
	"database/sql"
	"fmt"
	"time"

	v1 "github.com/aevon-lab/siteflow/internal/api/v1"
	"github.com/aevon-lab/siteflow/internal/core/storage"
)

var (
	// Open range ends are replaced by these bounds so one prepared statement serves both.
	minOccurredAt = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	maxOccurredAt = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
)

// rangeBounds returns the [from, to) bounds of a predicate with open ends filled in.
func rangeBounds(pred storage.Predicate) (time.Time, time.Time) {
	from, to := pred.From, pred.To
	if from.IsZero() {
		from = minOccurredAt
	}
	if to.IsZero() {
		to = maxOccurredAt
	}
	return from, to
}

// scanEventRow scans a database row into an Event struct.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanEventRow(row storage.Scanner) (*v1.Event, error) {
	var evt v1.Event
	var path, userID sql.NullString

	err := row.Scan(
		&evt.ID,
		&evt.SiteID,
		&evt.EventType,
		&path,
		&userID,
		&evt.Timestamp,
		&evt.ReceivedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan event row: %w", err)
	}

	evt.Path = storage.StringPtr(path)
	evt.UserID = storage.StringPtr(userID)
	evt.Timestamp = evt.Timestamp.UTC()
	evt.ReceivedAt = evt.ReceivedAt.UTC()
	return &evt, nil
}
