package microbatch

import "time"

// TruncateTimestamp floors ts to the start of the unit that contains it.
// Example: TruncateTimestamp(2024-09-05T03:56:01Z, Month) → 2024-09-01T00:00:00Z
func TruncateTimestamp(ts time.Time, g Granularity) (time.Time, error) {
	r, err := g.rule()
	if err != nil {
		return time.Time{}, err
	}
	utc, err := normalizeUTC(ts)
	if err != nil {
		return time.Time{}, err
	}
	return r.truncate(utc), nil
}

// OffsetTimestamp truncates ts and then moves it by n whole units.
// n may be negative; n == 0 is plain truncation. Because the shift starts
// from a unit boundary, month shifts always land on day 1.
func OffsetTimestamp(ts time.Time, g Granularity, n int) (time.Time, error) {
	truncated, err := TruncateTimestamp(ts, g)
	if err != nil {
		return time.Time{}, err
	}
	return units[g].shift(truncated, n), nil
}
