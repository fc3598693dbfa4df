package postgres

const (
	jobColumns = `id, payload, status, attempt_count, enqueued_at, available_at, leased_by, lease_expires_at, last_error`

	queryEnqueue = `
		INSERT INTO queue_jobs (id, payload, status, attempt_count, enqueued_at, available_at)
		VALUES ($1, $2, 'pending', 0, $3, $3)
	`

	// Jobs whose lease ran out on their final attempt are dead-lettered
	// before the lease query so they are never redelivered.
	queryExpireExhausted = `
		UPDATE queue_jobs
		SET status = 'dead_lettered',
		    lease_expires_at = NULL,
		    last_error = 'lease expired after ' || attempt_count || ' attempts'
		WHERE status = 'in_flight'
		  AND lease_expires_at < $1
		  AND attempt_count >= $2
	`

	queryLease = `
		UPDATE queue_jobs
		SET status = 'in_flight',
		    attempt_count = attempt_count + 1,
		    leased_by = $1,
		    lease_expires_at = $2
		WHERE id = (
			SELECT id FROM queue_jobs
			WHERE (status = 'pending' AND available_at <= $3)
			   OR (status = 'in_flight' AND lease_expires_at < $3)
			ORDER BY available_at, enqueued_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING ` + jobColumns

	queryAck = `
		UPDATE queue_jobs
		SET status = 'completed', lease_expires_at = NULL
		WHERE id = $1 AND status = 'in_flight' AND attempt_count = $2
	`

	queryNack = `
		UPDATE queue_jobs
		SET status = CASE WHEN attempt_count >= $3 THEN 'dead_lettered' ELSE 'pending' END,
		    available_at = CASE WHEN attempt_count >= $3 THEN available_at ELSE $4 END,
		    lease_expires_at = NULL,
		    last_error = $5
		WHERE id = $1 AND status = 'in_flight' AND attempt_count = $2
		RETURNING status
	`

	queryDeadLetter = `
		UPDATE queue_jobs
		SET status = 'dead_lettered', lease_expires_at = NULL, last_error = $3
		WHERE id = $1 AND status = 'in_flight' AND attempt_count = $2
	`

	queryGet = `SELECT ` + jobColumns + ` FROM queue_jobs WHERE id = $1`

	queryStatus = `SELECT status, attempt_count FROM queue_jobs WHERE id = $1`

	queryListDeadLetters = `
		SELECT ` + jobColumns + `
		FROM queue_jobs
		WHERE status = 'dead_lettered'
		ORDER BY enqueued_at
		LIMIT $1
	`

	queryDepth = `SELECT status, COUNT(*) FROM queue_jobs GROUP BY status`

	queryRedrive = `
		INSERT INTO queue_jobs (id, payload, status, attempt_count, enqueued_at, available_at)
		SELECT $1, payload, 'pending', 0, $2, $2
		FROM queue_jobs
		WHERE id = $3 AND status = 'dead_lettered'
	`
)
