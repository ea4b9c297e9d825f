package planning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	v1 "github.com/aevon-lab/microbatch/internal/api/v1"
	"github.com/aevon-lab/microbatch/internal/core/microbatch"
	"github.com/aevon-lab/microbatch/internal/core/storage"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"k8s.io/utils/clock"
)

var (
	// ErrModelNotFound marks requests for a model that is not loaded (HTTP 404).
	ErrModelNotFound = errors.New("model not found")

	// ErrInvalidPlan marks request validation errors that should return HTTP 400.
	ErrInvalidPlan = errors.New("invalid plan request")

	// ErrLedgerDisabled is returned by ledger reads when no database is configured.
	ErrLedgerDisabled = errors.New("plan ledger disabled")
)

// Service plans batch windows for the loaded models and optionally records
// each plan in the ledger.
type Service struct {
	models      map[string]microbatch.Model
	names       []string
	store       storage.PlanStore // nil when the ledger is disabled
	clock       clock.PassiveClock
	workerCount int
	inflight    singleflight.Group
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the wall clock used for default checkpoints, open ends
// and planned_at.
func WithClock(c clock.PassiveClock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// NewService creates a planning service. store may be nil.
func NewService(models []microbatch.Model, store storage.PlanStore, workerCount int, opts ...Option) *Service {
	modelMap := make(map[string]microbatch.Model, len(models))
	names := make([]string, 0, len(models))
	for _, m := range models {
		modelMap[m.Name] = m
		names = append(names, m.Name)
	}
	sort.Strings(names)

	if workerCount <= 0 {
		workerCount = 1
	}

	s := &Service{
		models:      modelMap,
		names:       names,
		store:       store,
		clock:       clock.RealClock{},
		workerCount: workerCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Models returns the loaded models sorted by name.
func (s *Service) Models() []microbatch.Model {
	out := make([]microbatch.Model, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.models[name])
	}
	return out
}

// LedgerEnabled reports whether plans are being recorded.
func (s *Service) LedgerEnabled() bool {
	return s.store != nil
}

// PlanModel plans one run of req.Model.
// Identical concurrent requests share a single computation. The shared plan
// is not tied to any one caller's cancellation; each caller stops waiting
// when its own ctx is done.
func (s *Service) PlanModel(ctx context.Context, req v1.PlanRequest) (*v1.PlanResponse, error) {
	model, ok := s.models[req.Model]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, req.Model)
	}

	in, err := req.Parse()
	if err != nil {
		return nil, invalidPlanf("%v", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := s.inflight.DoChan(flightKey(req), func() (interface{}, error) {
		return s.plan(flightCtx, model, in)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			slog.Debug("[Planner] Coalesced concurrent plan request", "model", model.Name)
		}
		return res.Val.(*v1.PlanResponse), nil
	}
}

// PlanAll plans every model with at most workerCount plans in flight.
// Results are ordered by model name. The first error cancels the remaining plans.
func (s *Service) PlanAll(ctx context.Context, req v1.PlanRequest) ([]*v1.PlanResponse, error) {
	if _, err := req.Parse(); err != nil {
		return nil, invalidPlanf("%v", err)
	}

	results := make([]*v1.PlanResponse, len(s.names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workerCount)

	for i, name := range s.names {
		g.Go(func() error {
			r := req
			r.Model = name
			resp, err := s.PlanModel(gctx, r)
			if err != nil {
				return fmt.Errorf("model %s: %w", name, err)
			}
			results[i] = resp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// PlannedBatches returns ledger rows of model whose window starts in [from, to).
func (s *Service) PlannedBatches(ctx context.Context, model string, from, to time.Time) ([]v1.PlannedBatch, error) {
	if s.store == nil {
		return nil, ErrLedgerDisabled
	}
	if _, ok := s.models[model]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, model)
	}
	if !from.Before(to) {
		return nil, invalidPlanf("start must be before end")
	}

	batches, err := s.store.ListPlannedBatches(ctx, model, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("query plan ledger: %w", err)
	}
	return batches, nil
}

func (s *Service) plan(ctx context.Context, model microbatch.Model, in v1.PlanInputs) (*v1.PlanResponse, error) {
	cfg := model.Config(!in.FullRefresh)
	cfg.EventTimeStart = in.EventTimeStart
	cfg.EventTimeEnd = in.EventTimeEnd

	builder, err := microbatch.NewBuilder(cfg, microbatch.WithClock(s.clock))
	if err != nil {
		return nil, classify(err)
	}

	checkpoint := s.clock.Now().UTC()
	if in.Checkpoint != nil {
		checkpoint = *in.Checkpoint
	}

	r, err := builder.ResolveRange(checkpoint)
	if err != nil {
		return nil, classify(err)
	}
	windows, err := builder.BatchesFor(r)
	if err != nil {
		return nil, classify(err)
	}

	batches := make([]v1.Batch, 0, len(windows))
	for _, w := range windows {
		coverage, err := w.Coverage(model.Granularity)
		if err != nil {
			return nil, classify(err)
		}
		batches = append(batches, v1.Batch{
			ID:       w.ID(model.Name, model.Granularity),
			Start:    w.Start,
			End:      w.End,
			Label:    builder.FormatBatchStart(w.Start),
			Coverage: coverage,
		})
	}
	total, err := microbatch.TotalUnits(windows, model.Granularity)
	if err != nil {
		return nil, classify(err)
	}

	resp := &v1.PlanResponse{
		Model:       model.Name,
		Granularity: model.Granularity.String(),
		Lookback:    model.Lookback,
		Fingerprint: model.Fingerprint,
		FullRefresh: in.FullRefresh,
		Checkpoint:  checkpoint,
		Start:       r.Start,
		End:         r.End,
		Batches:     batches,
		TotalUnits:  total,
		PlannedAt:   s.clock.Now().UTC(),
	}

	if s.store != nil {
		if err := s.store.SavePlan(ctx, resp); err != nil {
			return nil, fmt.Errorf("record plan: %w", err)
		}
	}

	slog.Info("[Planner] Planned model",
		"model", model.Name,
		"granularity", model.Granularity,
		"full_refresh", in.FullRefresh,
		"batches", len(batches),
		"bounded", r.Bounded(),
	)
	return resp, nil
}

// classify maps planner input errors onto ErrInvalidPlan and leaves the rest alone.
func classify(err error) error {
	switch {
	case errors.Is(err, microbatch.ErrInvalidGranularity),
		errors.Is(err, microbatch.ErrNaiveTimestamp),
		errors.Is(err, microbatch.ErrInvertedRange),
		errors.Is(err, microbatch.ErrNegativeLookback):
		return invalidPlanf("%v", err)
	default:
		return err
	}
}

func flightKey(req v1.PlanRequest) string {
	return strings.Join([]string{
		req.Model,
		req.Checkpoint,
		req.EventTimeStart,
		req.EventTimeEnd,
		fmt.Sprint(req.FullRefresh),
	}, "|")
}

func invalidPlanf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidPlan, fmt.Sprintf(format, args...))
}
