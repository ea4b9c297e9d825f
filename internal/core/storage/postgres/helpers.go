package postgres

import (
	"fmt"

	v1 "github.com/aevon-lab/microbatch/internal/api/v1"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanPlannedBatchRow scans one ledger row.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanPlannedBatchRow(row scanner) (v1.PlannedBatch, error) {
	var b v1.PlannedBatch
	err := row.Scan(
		&b.ModelName,
		&b.BatchID,
		&b.Granularity,
		&b.WindowStart,
		&b.WindowEnd,
		&b.Label,
		&b.ModelFingerprint,
		&b.PlannedAt,
	)
	if err != nil {
		return v1.PlannedBatch{}, fmt.Errorf("failed to scan planned batch row: %w", err)
	}
	b.WindowStart = b.WindowStart.UTC()
	b.WindowEnd = b.WindowEnd.UTC()
	b.PlannedAt = b.PlannedAt.UTC()
	return b, nil
}
