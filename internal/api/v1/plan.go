package v1

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlanRequest carries the per-run inputs of a plan.
// Timestamps travel as RFC 3339 strings and must carry a zone ("Z" or an offset).
type PlanRequest struct {
	// Model is taken from the URL path, never from the body.
	Model string `json:"-"`

	// Checkpoint is the end of previously completed processing.
	// Empty means "now" on the planner's clock.
	Checkpoint string `json:"checkpoint,omitempty"`

	// EventTimeStart and EventTimeEnd are explicit overrides of the computed range.
	EventTimeStart string `json:"event_time_start,omitempty"`
	EventTimeEnd   string `json:"event_time_end,omitempty"`

	// FullRefresh plans a non-incremental run.
	FullRefresh bool `json:"full_refresh"`
}

// PlanInputs is a PlanRequest with its timestamps parsed. Nil means "not given".
type PlanInputs struct {
	Checkpoint     *time.Time
	EventTimeStart *time.Time
	EventTimeEnd   *time.Time
	FullRefresh    bool
}

// Parse validates the request timestamps.
func (r *PlanRequest) Parse() (PlanInputs, error) {
	var (
		in  = PlanInputs{FullRefresh: r.FullRefresh}
		err error
	)
	if in.Checkpoint, err = parseOptional("checkpoint", r.Checkpoint); err != nil {
		return PlanInputs{}, err
	}
	if in.EventTimeStart, err = parseOptional("event_time_start", r.EventTimeStart); err != nil {
		return PlanInputs{}, err
	}
	if in.EventTimeEnd, err = parseOptional("event_time_end", r.EventTimeEnd); err != nil {
		return PlanInputs{}, err
	}
	if in.EventTimeStart != nil && in.EventTimeEnd != nil && in.EventTimeStart.After(*in.EventTimeEnd) {
		return PlanInputs{}, fmt.Errorf("event_time_start must not be after event_time_end")
	}
	return in, nil
}

// ParseTimestamp parses an RFC 3339 timestamp into UTC.
// Offsets that match the host zone are not mapped onto time.Local.
func ParseTimestamp(s string) (time.Time, error) {
	ts, err := time.ParseInLocation(time.RFC3339, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}

func parseOptional(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	ts, err := ParseTimestamp(value)
	if err != nil {
		return nil, fmt.Errorf("%s must be an RFC 3339 timestamp with a zone: %w", field, err)
	}
	return &ts, nil
}

// Batch is one planned window.
type Batch struct {
	ID       uuid.UUID       `json:"id"`
	Start    time.Time       `json:"start"`
	End      time.Time       `json:"end"`
	Label    string          `json:"label"`
	Coverage decimal.Decimal `json:"coverage"` // fraction of one unit
}

// PlanResponse is the plan for one model run.
type PlanResponse struct {
	Model       string    `json:"model"`
	Granularity string    `json:"granularity"`
	Lookback    int       `json:"lookback"`
	Fingerprint string    `json:"fingerprint"`
	FullRefresh bool      `json:"full_refresh"`
	Checkpoint  time.Time `json:"checkpoint"`

	// Start is null when the run has no lower bound (full scan).
	Start      *time.Time      `json:"start"`
	End        time.Time       `json:"end"`
	Batches    []Batch         `json:"batches"`
	TotalUnits decimal.Decimal `json:"total_units"`
	PlannedAt  time.Time       `json:"planned_at"`
}

// ModelInfo describes a loaded model.
type ModelInfo struct {
	Name        string `json:"name"`
	Granularity string `json:"granularity"`
	Lookback    int    `json:"lookback"`
	EventTime   string `json:"event_time,omitempty"`
	Description string `json:"description,omitempty"`
	Fingerprint string `json:"fingerprint"`
}

// PlannedBatch is one row of the plan ledger.
type PlannedBatch struct {
	ModelName        string    `json:"model"`
	BatchID          uuid.UUID `json:"batch_id"`
	Granularity      string    `json:"granularity"`
	WindowStart      time.Time `json:"window_start"`
	WindowEnd        time.Time `json:"window_end"`
	Label            string    `json:"label"`
	ModelFingerprint string    `json:"model_fingerprint"`
	PlannedAt        time.Time `json:"planned_at"`
}
