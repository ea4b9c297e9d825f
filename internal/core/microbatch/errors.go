package microbatch

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidGranularity is returned for a batch size outside hour, day, month, year.
	ErrInvalidGranularity = errors.New("invalid granularity")

	// ErrNaiveTimestamp is returned for timestamps without a caller-chosen zone.
	// A time in time.Local is a wall-clock reading and is treated as naive.
	ErrNaiveTimestamp = errors.New("timestamp has no explicit zone")

	// ErrInvertedRange is returned when a range start is after its end.
	ErrInvertedRange = errors.New("range start is after range end")

	// ErrNegativeLookback is returned when lookback is below zero.
	ErrNegativeLookback = errors.New("lookback must be >= 0")
)

// normalizeUTC rejects naive timestamps and returns ts in UTC.
func normalizeUTC(ts time.Time) (time.Time, error) {
	if ts.Location() == time.Local {
		return time.Time{}, fmt.Errorf("%w: %s", ErrNaiveTimestamp, ts.Format(time.RFC3339Nano))
	}
	return ts.UTC(), nil
}
