package microbatch

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// coveragePlaces is the number of decimal places kept for unit coverage.
const coveragePlaces = 6

// batchNamespace scopes batch ids; changing it changes every id ever issued.
var batchNamespace = uuid.MustParse("6f1c2b8e-3d4a-5e8f-9a0b-7c6d5e4f3a21")

// BatchWindow is one half-open [Start, End) interval processed as a unit of work.
type BatchWindow struct {
	Start time.Time
	End   time.Time
}

// BuildBatches splits [start, end) into consecutive windows of one unit each.
// The last window is clipped to end; an unaligned start gives a partial first window.
// start == end yields no windows.
func BuildBatches(start, end time.Time, g Granularity) ([]BatchWindow, error) {
	if _, err := g.rule(); err != nil {
		return nil, err
	}
	start, err := normalizeUTC(start)
	if err != nil {
		return nil, fmt.Errorf("batch start: %w", err)
	}
	end, err = normalizeUTC(end)
	if err != nil {
		return nil, fmt.Errorf("batch end: %w", err)
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvertedRange,
			start.Format(time.RFC3339Nano), end.Format(time.RFC3339Nano))
	}

	batches := make([]BatchWindow, 0)
	current := start
	for current.Before(end) {
		next, err := OffsetTimestamp(current, g, 1)
		if err != nil {
			return nil, err
		}
		if next.After(end) {
			next = end
		}
		batches = append(batches, BatchWindow{Start: current, End: next})
		current = next
	}
	return batches, nil
}

// ID returns a deterministic identifier for the batch of model starting at w.Start.
// The end is not part of the identity, so a partial window that grows on a
// later run keeps its id.
func (w BatchWindow) ID(model string, g Granularity) uuid.UUID {
	name := fmt.Sprintf("%s|%s|%s", model, g, w.Start.UTC().Format(time.RFC3339Nano))
	return uuid.NewSHA1(batchNamespace, []byte(name))
}

// Label is FormatBatchStart applied to the window start.
func (w BatchWindow) Label(g Granularity) string {
	return FormatBatchStart(w.Start, g)
}

// Coverage is the fraction of the containing unit that w spans: 1 for a full
// window, less for a clipped one. Calendar units are measured exactly, so a
// full February and a full March both report 1.
func (w BatchWindow) Coverage(g Granularity) (decimal.Decimal, error) {
	unitStart, err := TruncateTimestamp(w.Start, g)
	if err != nil {
		return decimal.Zero, err
	}
	unitEnd := units[g].shift(unitStart, 1)

	span := decimal.NewFromInt(int64(w.End.Sub(w.Start)))
	unit := decimal.NewFromInt(int64(unitEnd.Sub(unitStart)))
	return span.DivRound(unit, coveragePlaces), nil
}

// TotalUnits sums the coverage of every batch.
func TotalUnits(batches []BatchWindow, g Granularity) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, b := range batches {
		c, err := b.Coverage(g)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(c)
	}
	return total, nil
}
