package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	v1 "github.com/aevon-lab/microbatch/internal/api/v1"
)

func newMockAdapter(t *testing.T) (*Adapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAdapterWithDB(db), mock
}

func samplePlan() *v1.PlanResponse {
	plannedAt := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	return &v1.PlanResponse{
		Model:       "daily_orders",
		Granularity: "day",
		Fingerprint: "abc123",
		Batches: []v1.Batch{
			{
				ID:       uuid.MustParse("11111111-1111-5111-8111-111111111111"),
				Start:    time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
				End:      time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
				Label:    "2024-03-09",
				Coverage: decimal.NewFromInt(1),
			},
			{
				ID:       uuid.MustParse("22222222-2222-5222-8222-222222222222"),
				Start:    time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
				End:      time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
				Label:    "2024-03-10",
				Coverage: decimal.RequireFromString("0.5"),
			},
		},
		PlannedAt: plannedAt,
	}
}

func TestSavePlan_UpsertsAllBatchesInOneTransaction(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	plan := samplePlan()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(queryUpsertPlannedBatch))
	for _, b := range plan.Batches {
		prep.ExpectExec().
			WithArgs(plan.Model, b.ID.String(), plan.Granularity, b.Start, b.End, b.Label, plan.Fingerprint, plan.PlannedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, adapter.SavePlan(context.Background(), plan))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSavePlan_RollsBackOnExecError(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	plan := samplePlan()
	first := plan.Batches[0]

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(queryUpsertPlannedBatch))
	prep.ExpectExec().
		WithArgs(plan.Model, first.ID.String(), plan.Granularity, first.Start, first.End, first.Label, plan.Fingerprint, plan.PlannedAt).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := adapter.SavePlan(context.Background(), plan)
	require.Error(t, err)
	require.Contains(t, err.Error(), "plan ledger save: upsert batch")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSavePlan_BeginError(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	err := adapter.SavePlan(context.Background(), samplePlan())
	require.Error(t, err)
	require.Contains(t, err.Error(), "begin tx")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSavePlan_EmptyPlanIsNoOp(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	require.NoError(t, adapter.SavePlan(context.Background(), &v1.PlanResponse{Model: "m"}))
	require.NoError(t, adapter.SavePlan(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListPlannedBatches_ReturnsRowsInOrder(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	plannedAt := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	id1 := uuid.MustParse("11111111-1111-5111-8111-111111111111")
	id2 := uuid.MustParse("22222222-2222-5222-8222-222222222222")

	rows := sqlmock.NewRows([]string{
		"model_name", "batch_id", "granularity", "window_start", "window_end",
		"label", "model_fingerprint", "planned_at",
	}).
		AddRow("daily_orders", id1.String(), "day",
			time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			"2024-03-09", "abc123", plannedAt).
		AddRow("daily_orders", id2.String(), "day",
			time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
			"2024-03-10", "abc123", plannedAt)

	mock.ExpectQuery(regexp.QuoteMeta(queryListPlannedBatches)).
		WithArgs("daily_orders", from, to).
		WillReturnRows(rows)

	batches, err := adapter.ListPlannedBatches(context.Background(), "daily_orders", from, to)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	require.Equal(t, id1, batches[0].BatchID)
	require.Equal(t, "2024-03-09", batches[0].Label)
	require.Equal(t, id2, batches[1].BatchID)
	require.True(t, batches[1].WindowEnd.Equal(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListPlannedBatches_EmptyIsNotNil(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(regexp.QuoteMeta(queryListPlannedBatches)).
		WithArgs("nobody", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"model_name"}))

	batches, err := adapter.ListPlannedBatches(context.Background(), "nobody", from, to)
	require.NoError(t, err)
	require.NotNil(t, batches)
	require.Empty(t, batches)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListPlannedBatches_QueryError(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(regexp.QuoteMeta(queryListPlannedBatches)).
		WithArgs("daily_orders", from, to).
		WillReturnError(sql.ErrConnDone)

	_, err := adapter.ListPlannedBatches(context.Background(), "daily_orders", from, to)
	require.ErrorIs(t, err, sql.ErrConnDone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateSchema(t *testing.T) {
	tests := []struct {
		name    string
		exists  bool
		wantErr bool
	}{
		{name: "table present", exists: true},
		{name: "table missing", exists: false, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			adapter, mock := newMockAdapter(t)
			mock.ExpectQuery(regexp.QuoteMeta(queryCheckLedgerTable)).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tc.exists))

			err := adapter.ValidateSchema(context.Background())
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
