package postgres

// SQL queries for the events table.

const (
	// querySaveEvent inserts one event.
	// ON CONFLICT DO NOTHING returns no rows (sql.ErrNoRows) when the id already exists,
	// which only happens when the worker derives ids from job ids.
	querySaveEvent = `
		INSERT INTO events (
			id, site_id, event_type, path, user_id, occurred_at, received_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
		RETURNING id
	`

	// queryEventsBySite fetches every event of one site.
	// Served by idx_events_site_occurred.
	queryEventsBySite = `
		SELECT
			id, site_id, event_type, path, user_id, occurred_at, received_at
		FROM events
		WHERE site_id = $1
		ORDER BY occurred_at ASC, ingest_seq ASC
	`

	// queryEventsBySiteInRange fetches the events of one site in [from, to).
	queryEventsBySiteInRange = `
		SELECT
			id, site_id, event_type, path, user_id, occurred_at, received_at
		FROM events
		WHERE site_id = $1
		  AND occurred_at >= $2
		  AND occurred_at < $3
		ORDER BY occurred_at ASC, ingest_seq ASC
	`
)
