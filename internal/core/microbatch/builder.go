package microbatch

import (
	"fmt"
	"time"

	"k8s.io/utils/clock"
)

// Config is the read-only input of a Builder.
type Config struct {
	Granularity Granularity
	// Lookback is the number of whole units re-covered before the checkpoint.
	Lookback    int
	Incremental bool

	// EventTimeStart and EventTimeEnd are explicit overrides; nil means "compute".
	EventTimeStart *time.Time
	EventTimeEnd   *time.Time
}

// Validate checks granularity, lookback and the zones of any overrides.
func (c Config) Validate() error {
	if !c.Granularity.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidGranularity, string(c.Granularity))
	}
	if c.Lookback < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeLookback, c.Lookback)
	}
	if c.EventTimeStart != nil {
		if _, err := normalizeUTC(*c.EventTimeStart); err != nil {
			return fmt.Errorf("event_time_start: %w", err)
		}
	}
	if c.EventTimeEnd != nil {
		if _, err := normalizeUTC(*c.EventTimeEnd); err != nil {
			return fmt.Errorf("event_time_end: %w", err)
		}
	}
	return nil
}

// ProcessingRange is the full span to reprocess.
// A nil Start means there is no lower bound and the caller scans everything.
type ProcessingRange struct {
	Start *time.Time
	End   time.Time
}

// Bounded reports whether the range has a lower bound.
func (r ProcessingRange) Bounded() bool {
	return r.Start != nil
}

// ResolveEnd returns overrideEnd as given (normalized to UTC, never truncated),
// or the current time of clk.
func ResolveEnd(clk clock.PassiveClock, overrideEnd *time.Time) (time.Time, error) {
	if overrideEnd != nil {
		end, err := normalizeUTC(*overrideEnd)
		if err != nil {
			return time.Time{}, fmt.Errorf("event_time_end: %w", err)
		}
		return end, nil
	}
	return clk.Now().UTC(), nil
}

// ResolveStart computes the lower bound of the range.
//
// An explicit start wins and is only truncated; lookback is not applied to it.
// A full (non-incremental) run without an explicit start has no lower bound.
// Otherwise the checkpoint is truncated and moved back lookback units.
func ResolveStart(
	overrideStart *time.Time,
	incremental bool,
	checkpoint time.Time,
	g Granularity,
	lookback int,
) (*time.Time, error) {
	if lookback < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeLookback, lookback)
	}

	if overrideStart != nil {
		start, err := TruncateTimestamp(*overrideStart, g)
		if err != nil {
			return nil, fmt.Errorf("event_time_start: %w", err)
		}
		return &start, nil
	}

	if !incremental {
		if !g.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidGranularity, string(g))
		}
		return nil, nil
	}

	start, err := OffsetTimestamp(checkpoint, g, -lookback)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: %w", err)
	}
	return &start, nil
}

// Builder binds a Config to a clock.
type Builder struct {
	cfg   Config
	clock clock.PassiveClock
}

// Option customizes a Builder.
type Option func(*Builder)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c clock.PassiveClock) Option {
	return func(b *Builder) {
		b.clock = c
	}
}

// NewBuilder validates cfg eagerly and returns a Builder reading the real clock
// unless WithClock is given.
func NewBuilder(cfg Config, opts ...Option) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Builder{cfg: cfg, clock: clock.RealClock{}}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Config returns the builder's configuration.
func (b *Builder) Config() Config {
	return b.cfg
}

// ResolveEnd returns the configured end override or the builder clock's now.
func (b *Builder) ResolveEnd() (time.Time, error) {
	return ResolveEnd(b.clock, b.cfg.EventTimeEnd)
}

// ResolveStart applies the configured start override, incremental flag and lookback to checkpoint.
func (b *Builder) ResolveStart(checkpoint time.Time) (*time.Time, error) {
	return ResolveStart(b.cfg.EventTimeStart, b.cfg.Incremental, checkpoint, b.cfg.Granularity, b.cfg.Lookback)
}

// ResolveRange combines ResolveStart and ResolveEnd.
func (b *Builder) ResolveRange(checkpoint time.Time) (ProcessingRange, error) {
	start, err := b.ResolveStart(checkpoint)
	if err != nil {
		return ProcessingRange{}, err
	}
	end, err := b.ResolveEnd()
	if err != nil {
		return ProcessingRange{}, err
	}
	return ProcessingRange{Start: start, End: end}, nil
}

// BuildBatches splits [start, end) at the configured granularity.
func (b *Builder) BuildBatches(start, end time.Time) ([]BatchWindow, error) {
	return BuildBatches(start, end, b.cfg.Granularity)
}

// BatchesFor partitions r; an unbounded range yields no batches.
func (b *Builder) BatchesFor(r ProcessingRange) ([]BatchWindow, error) {
	if !r.Bounded() {
		return nil, nil
	}
	return b.BuildBatches(*r.Start, r.End)
}

// FormatBatchStart labels batchStart at the configured granularity.
func (b *Builder) FormatBatchStart(batchStart time.Time) string {
	return FormatBatchStart(batchStart, b.cfg.Granularity)
}
