package microbatch

import (
	"fmt"
	"strings"
	"time"
)

// Granularity is the unit at which incremental work is partitioned.
type Granularity string

const (
	Hour  Granularity = "hour"
	Day   Granularity = "day"
	Month Granularity = "month"
	Year  Granularity = "year"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// unitRule holds everything that differs between granularities.
// Adding a granularity means adding one entry to units; nothing else switches on it.
type unitRule struct {
	truncate func(t time.Time) time.Time
	shift    func(t time.Time, n int) time.Time
	layout   string
}

var units = map[Granularity]unitRule{
	Hour: {
		truncate: func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)
		},
		shift:  func(t time.Time, n int) time.Time { return t.Add(time.Duration(n) * time.Hour) },
		layout: dateTimeLayout,
	},
	Day: {
		truncate: func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		},
		shift:  func(t time.Time, n int) time.Time { return t.AddDate(0, 0, n) },
		layout: dateLayout,
	},
	Month: {
		truncate: func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		},
		shift:  func(t time.Time, n int) time.Time { return t.AddDate(0, n, 0) },
		layout: dateLayout,
	},
	Year: {
		truncate: func(t time.Time) time.Time {
			return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		},
		shift:  func(t time.Time, n int) time.Time { return t.AddDate(n, 0, 0) },
		layout: dateLayout,
	},
}

// Granularities lists the supported values, finest first.
var Granularities = []Granularity{Hour, Day, Month, Year}

// ParseGranularity parses a batch size such as "day" or " Hour ".
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q (must be hour, day, month or year)", ErrInvalidGranularity, s)
	}
	return g, nil
}

// Valid reports whether g is one of the supported granularities.
func (g Granularity) Valid() bool {
	_, ok := units[g]
	return ok
}

func (g Granularity) String() string {
	return string(g)
}

func (g Granularity) rule() (unitRule, error) {
	r, ok := units[g]
	if !ok {
		return unitRule{}, fmt.Errorf("%w: %q", ErrInvalidGranularity, string(g))
	}
	return r, nil
}
