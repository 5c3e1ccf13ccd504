// Package scheduler runs the polling loop that fires slots at their
// scheduled minute. A tick shorter than one minute guarantees every minute
// boundary is observed; the claim registrar guarantees each slot fires at
// most once regardless of how many ticks land inside the same minute.
package scheduler

import (
	"context"
	"time"

	"rosebot/internal/claim"
	"rosebot/internal/pipeline"
	"rosebot/internal/schedule"
	"rosebot/pkg/logx"
)

// DefaultTickInterval stays strictly below one minute.
const DefaultTickInterval = 45 * time.Second

// Options tunes a Service. Zero values pick defaults.
type Options struct {
	TickInterval time.Duration
	// Now is injectable for tests.
	Now func() time.Time
}

// Service polls the clock and dispatches due slots.
type Service struct {
	reg  *claim.Registrar
	pipe *pipeline.Service
	log  logx.Logger
	loc  *time.Location
	tick time.Duration
	now  func() time.Time
}

func New(reg *claim.Registrar, pipe *pipeline.Service, loc *time.Location, log logx.Logger, opts Options) *Service {
	if opts.TickInterval <= 0 || opts.TickInterval >= time.Minute {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		reg:  reg,
		pipe: pipe,
		log:  log,
		loc:  loc,
		tick: opts.TickInterval,
		now:  opts.Now,
	}
}

// Run blocks until ctx is canceled. One tick runs immediately so a restart
// inside a scheduled minute does not miss the slot.
func (s *Service) Run(ctx context.Context) error {
	s.log.Info("scheduler started",
		logx.Duration("tick", s.tick),
		logx.String("timezone", s.loc.String()),
	)
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	s.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick evaluates the current minute: rolls the day if needed, then fires
// any due fixed or random slot that has not been claimed yet. Each slot is
// handled independently; one failure never blocks the others.
func (s *Service) Tick(ctx context.Context) {
	now := s.now().In(s.loc)
	st := s.reg.EnsureDay(now)

	for _, slot := range schedule.Fixed {
		if !slot.Matches(now) {
			continue
		}
		s.fire(ctx, slot)
	}

	// Random times may have been refreshed by the rollover above; the
	// state returned by EnsureDay is already current for this tick.
	for _, hm := range st.RandomTimes {
		slot := schedule.RandomSlot(hm[0], hm[1])
		if !slot.Matches(now) {
			continue
		}
		s.fire(ctx, slot)
	}
}

func (s *Service) fire(ctx context.Context, slot schedule.Slot) {
	if !s.reg.Claim(slot.Key()) {
		return
	}
	s.log.Info("slot due",
		logx.String("slot", slot.Key()),
		logx.String("clock", slot.Clock()),
	)
	s.pipe.Dispatch(ctx, slot)
}
