package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	v1 "github.com/aevon-lab/siteflow/internal/api/v1"
	coreerrors "github.com/aevon-lab/siteflow/internal/core/errors"
	"github.com/aevon-lab/siteflow/internal/core/storage"
	"github.com/google/uuid"
)

const (
	connectPingTimeout = 10 * time.Second

	// ReplacingMergeTree collapses rows with the same sorting key on read (FINAL),
	// so a retried insert with a job-derived event id does not double count.
	queryCreateEvents = `
		CREATE TABLE IF NOT EXISTS events (
			id          String,
			site_id     String,
			event_type  String,
			path        Nullable(String),
			user_id     Nullable(String),
			occurred_at DateTime64(3, 'UTC'),
			received_at DateTime64(3, 'UTC')
		)
		ENGINE = ReplacingMergeTree
		ORDER BY (site_id, occurred_at, id)
	`

	queryInsertEvent = `
		INSERT INTO events (id, site_id, event_type, path, user_id, occurred_at, received_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	queryEventsBySite = `
		SELECT id, site_id, event_type, path, user_id, occurred_at, received_at
		FROM events FINAL
		WHERE site_id = ?
		ORDER BY occurred_at, id
	`

	queryEventsBySiteInRange = `
		SELECT id, site_id, event_type, path, user_id, occurred_at, received_at
		FROM events FINAL
		WHERE site_id = ?
		  AND occurred_at >= ?
		  AND occurred_at < ?
		ORDER BY occurred_at, id
	`
)

var maxOccurredAt = time.Date(2299, 12, 31, 0, 0, 0, 0, time.UTC)

// EventStore implements storage.EventStore on ClickHouse through the database/sql interface.
type EventStore struct {
	db *sql.DB
}

// NewEventStore opens a ClickHouse connection from a DSN and creates the events table.
//
// Example DSN: "clickhouse://default:@localhost:9000/siteflow"
func NewEventStore(dsn string) (*EventStore, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid clickhouse dsn: %w", err)
	}
	if opts.Compression == nil {
		opts.Compression = &clickhouse.Compression{Method: clickhouse.CompressionLZ4}
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}

	db := clickhouse.OpenDB(opts)

	ctx, cancel := context.WithTimeout(context.Background(), connectPingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	if _, err := db.ExecContext(ctx, queryCreateEvents); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create events table: %w", err)
	}

	slog.Info("[ClickHouse] Event store initialized", "addr", opts.Addr, "database", opts.Auth.Database)
	return &EventStore{db: db}, nil
}

// Append inserts one event row.
func (s *EventStore) Append(ctx context.Context, event *v1.Event) (string, error) {
	id := event.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, queryInsertEvent,
		id,
		event.SiteID,
		event.EventType,
		storage.NullString(event.Path),
		storage.NullString(event.UserID),
		event.Timestamp,
		event.ReceivedAt,
	)
	if err != nil {
		return "", fmt.Errorf("%w: failed to insert event: %w", coreerrors.ErrPersistence, err)
	}

	slog.Debug("[ClickHouse] Saved event", "site_id", event.SiteID, "event_id", id)
	return id, nil
}

// Query streams the events of one site ordered by occurrence.
func (s *EventStore) Query(ctx context.Context, pred storage.Predicate) (storage.EventIterator, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if pred.Bounded() {
		to := pred.To
		if to.IsZero() {
			to = maxOccurredAt
		}
		rows, err = s.db.QueryContext(ctx, queryEventsBySiteInRange, pred.SiteID, pred.From, to)
	} else {
		rows, err = s.db.QueryContext(ctx, queryEventsBySite, pred.SiteID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query events: %w", coreerrors.ErrStoreUnavailable, err)
	}
	return storage.NewRowsIterator(rows, scanEventRow), nil
}

func (s *EventStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *EventStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close clickhouse: %w", err)
	}
	slog.Info("[ClickHouse] Event store closed gracefully")
	return nil
}

func scanEventRow(row storage.Scanner) (*v1.Event, error) {
	var evt v1.Event
	var path, userID sql.NullString

	if err := row.Scan(
		&evt.ID,
		&evt.SiteID,
		&evt.EventType,
		&path,
		&userID,
		&evt.Timestamp,
		&evt.ReceivedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan event row: %w", err)
	}

	evt.Path = storage.StringPtr(path)
	evt.UserID = storage.StringPtr(userID)
	evt.Timestamp = evt.Timestamp.UTC()
	evt.ReceivedAt = evt.ReceivedAt.UTC()
	return &evt, nil
}
