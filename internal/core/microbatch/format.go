package microbatch

import "time"

// FormatBatchStart renders a batch start for display and identifiers.
// The label is taken in UTC. Returns "" when the granularity or the start is
// absent, and for a naive (time.Local) start.
// Hour batches keep the time of day; coarser batches are date-only.
func FormatBatchStart(batchStart time.Time, g Granularity) string {
	if g == "" || batchStart.IsZero() {
		return ""
	}
	r, ok := units[g]
	if !ok {
		return ""
	}
	start, err := normalizeUTC(batchStart)
	if err != nil {
		return ""
	}
	return start.Format(r.layout)
}
