package postgres

// SQL queries for the plan ledger

const (
	// queryCheckLedgerTable reports whether migrations created the ledger table.
	queryCheckLedgerTable = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'planned_batches'
		)
	`

	// queryUpsertPlannedBatch records one planned window.
	// The batch id is derived from (model, granularity, window start), so a
	// partial window that grows on a later run updates its row in place.
	queryUpsertPlannedBatch = `
		INSERT INTO planned_batches (
			model_name, batch_id, granularity, window_start, window_end,
			label, model_fingerprint, planned_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (model_name, batch_id)
		DO UPDATE SET
			window_end        = EXCLUDED.window_end,
			model_fingerprint = EXCLUDED.model_fingerprint,
			planned_at        = EXCLUDED.planned_at
	`

	queryListPlannedBatches = `
		SELECT
			model_name, batch_id, granularity, window_start, window_end,
			label, model_fingerprint, planned_at
		FROM planned_batches
		WHERE model_name = $1
		  AND window_start >= $2
		  AND window_start < $3
		ORDER BY window_start ASC
	`
)
