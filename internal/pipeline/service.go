// Package pipeline turns a claimed slot into a delivered notification:
// generate, truncate to the provider limit, rate-limit, send. Every stage
// makes exactly one attempt; a failure is recorded and the slot stays
// consumed.
package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"rosebot/internal/deliver"
	"rosebot/internal/eventbus"
	"rosebot/internal/generate"
	"rosebot/internal/schedule"
	"rosebot/pkg/logx"
)

const (
	defaultGenTimeout = 10 * time.Second
	defaultDelTimeout = 10 * time.Second
)

// Options tunes a Service. Zero values pick sane defaults.
type Options struct {
	GenerateTimeout time.Duration
	DeliverTimeout  time.Duration
	// RatePerSec caps outbound sends; <=0 disables limiting.
	RatePerSec  int
	HistorySize int
	// Now is injectable for tests.
	Now func() time.Time
	// Rand seeds prompt-theme rotation; nil uses a time-seeded source.
	Rand *rand.Rand
}

// Service owns the generate-then-deliver path and the recent-activity log.
type Service struct {
	gen generate.Generator
	del deliver.Deliverer
	bus eventbus.Bus
	log logx.Logger

	limiter    *rate.Limiter
	hist       *history
	genTimeout time.Duration
	delTimeout time.Duration
	now        func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

func New(gen generate.Generator, del deliver.Deliverer, bus eventbus.Bus, log logx.Logger, opts Options) *Service {
	if opts.GenerateTimeout <= 0 {
		opts.GenerateTimeout = defaultGenTimeout
	}
	if opts.DeliverTimeout <= 0 {
		opts.DeliverTimeout = defaultDelTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	var limiter *rate.Limiter
	if opts.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), 1)
	}
	return &Service{
		gen:        gen,
		del:        del,
		bus:        bus,
		log:        log,
		limiter:    limiter,
		hist:       newHistory(opts.HistorySize),
		genTimeout: opts.GenerateTimeout,
		delTimeout: opts.DeliverTimeout,
		now:        opts.Now,
		rng:        opts.Rand,
	}
}

// Dispatch runs the full path for one slot and records the outcome. The
// returned Result mirrors the newest history entry.
func (s *Service) Dispatch(ctx context.Context, slot schedule.Slot) Result {
	res := Result{
		At:        s.now(),
		Kind:      slot.Kind,
		Sanctuary: slot.Sanctuary,
	}

	prompt := s.promptFor(slot)

	genCtx, cancel := context.WithTimeout(ctx, s.genTimeout)
	text, err := s.gen.Generate(genCtx, prompt.System, prompt.User)
	cancel()
	if err != nil {
		res.Detail = fmt.Sprintf("generate: %v", err)
		s.record(res, slot)
		return res
	}
	text = deliver.Truncate(text, s.del.Limit())
	res.Message = text

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			res.Detail = fmt.Sprintf("rate wait: %v", err)
			s.record(res, slot)
			return res
		}
	}

	delCtx, cancel := context.WithTimeout(ctx, s.delTimeout)
	status, err := s.del.Deliver(delCtx, text, prompt.Title)
	cancel()
	res.Delivered = status.Success
	res.Detail = status.Detail
	if err != nil && res.Detail == "" {
		res.Detail = err.Error()
	}
	s.record(res, slot)
	return res
}

// Trigger sends a message for the named target immediately, outside any
// claim bookkeeping: head, pelvis, heart, or integration.
func (s *Service) Trigger(ctx context.Context, target string) (Result, error) {
	slot, err := slotForTarget(target, s.now())
	if err != nil {
		return Result{}, err
	}
	return s.Dispatch(ctx, slot), nil
}

// Snapshot returns the recent-activity log, oldest first.
func (s *Service) Snapshot() []Result {
	return s.hist.snapshot()
}

func (s *Service) promptFor(slot schedule.Slot) generate.Prompt {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return generate.For(slot, s.rng)
}

func (s *Service) record(res Result, slot schedule.Slot) {
	s.hist.add(res)
	if res.Delivered {
		s.log.Info("message delivered",
			logx.String("slot", slot.Key()),
			logx.String("sanctuary", string(slot.Sanctuary)),
			logx.Int("chars", len([]rune(res.Message))),
		)
		s.bus.Publish(eventbus.Event{Type: eventbus.TypeMessageSent, Time: res.At, Data: slot.Key()})
		return
	}
	s.log.Error("message failed",
		logx.String("slot", slot.Key()),
		logx.String("detail", res.Detail),
	)
	s.bus.Publish(eventbus.Event{Type: eventbus.TypeMessageFailed, Time: res.At, Data: slot.Key()})
}

func slotForTarget(target string, now time.Time) (schedule.Slot, error) {
	if target == "integration" {
		return schedule.RandomSlot(now.Hour(), now.Minute()), nil
	}
	for _, slot := range schedule.Fixed {
		if string(slot.Sanctuary) == target {
			return slot, nil
		}
	}
	return schedule.Slot{}, fmt.Errorf("pipeline: unknown target %q", target)
}
