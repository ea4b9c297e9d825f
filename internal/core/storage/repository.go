package storage

import (
	"context"
	"time"

	v1 "github.com/aevon-lab/microbatch/internal/api/v1"
)

// PlanStore is the plan ledger: a record of which windows were planned for each model.
// It is an audit trail only. Nothing reads it back to derive a checkpoint.
type PlanStore interface {
	// SavePlan records every batch of plan in one transaction.
	// A batch already recorded for the model (same batch id) gets its end,
	// fingerprint and planned_at refreshed.
	SavePlan(ctx context.Context, plan *v1.PlanResponse) error

	// ListPlannedBatches returns the batches of model whose window starts in [from, to),
	// ordered by window start.
	ListPlannedBatches(ctx context.Context, model string, from, to time.Time) ([]v1.PlannedBatch, error)
}
