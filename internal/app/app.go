// Package app wires the whole bot together: configuration, logging, the
// control store, the claim registrar, the generate-then-deliver pipeline
// and the polling scheduler.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rosebot/internal/claim"
	"rosebot/internal/config"
	"rosebot/internal/controlstore"
	"rosebot/internal/deliver"
	"rosebot/internal/eventbus"
	"rosebot/internal/generate"
	"rosebot/internal/observability/pprof"
	"rosebot/internal/pipeline"
	rtsup "rosebot/internal/runtime/supervisor"
	"rosebot/internal/schedule"
	"rosebot/internal/scheduler"
	"rosebot/pkg/logx"
)

// DefaultTimezone matches the audience the fixed schedule was designed for.
const DefaultTimezone = "America/Sao_Paulo"

type App struct {
	cfgm *config.Manager
	sup  *rtsup.Supervisor

	log  logx.Logger
	logs *logx.Service
	bus  eventbus.Bus

	loc   *time.Location
	store controlstore.Store
	reg   *claim.Registrar
	pipe  *pipeline.Service
	sched *scheduler.Service
	pprof *pprof.Service

	schedEnabled bool
}

func NewApp(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	log = log.With(logx.String("comp", "app"))

	loc, err := loadTimezone(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	bus := eventbus.New()

	scfg, err := mapStoreConfig(cfg)
	if err != nil {
		return nil, err
	}
	store, err := controlstore.Open(scfg, log.With(logx.String("comp", "store")))
	if err != nil {
		return nil, err
	}
	reg := claim.NewRegistrar(store, log.With(logx.String("comp", "claim")), bus)

	gcfg, err := mapGeneratorConfig(cfg)
	if err != nil {
		return nil, err
	}
	gen, err := generate.NewAnthropic(gcfg, log.With(logx.String("comp", "generate")))
	if err != nil {
		return nil, err
	}

	del, err := deliver.Open(cfg.Delivery, log.With(logx.String("comp", "deliver")))
	if err != nil {
		return nil, err
	}

	popts, err := mapPipelineOptions(cfg)
	if err != nil {
		return nil, err
	}
	pipe := pipeline.New(gen, del, bus, log.With(logx.String("comp", "pipeline")), popts)

	tick, err := config.ParseDurationOrDefault("scheduler.tick_interval",
		cfg.Scheduler.TickInterval, scheduler.DefaultTickInterval)
	if err != nil {
		return nil, err
	}
	sched := scheduler.New(reg, pipe, loc, log.With(logx.String("comp", "scheduler")),
		scheduler.Options{TickInterval: tick})

	pprofSvc := pprof.New(mapPprofConfig(cfg), log.With(logx.String("comp", "pprof")))

	return &App{
		cfgm:         cfgm,
		log:          log,
		logs:         logSvc,
		bus:          bus,
		loc:          loc,
		store:        store,
		reg:          reg,
		pipe:         pipe,
		sched:        sched,
		pprof:        pprofSvc,
		schedEnabled: cfg.Scheduler.Enabled,
	}, nil
}

// Done is closed when the app supervisor context is canceled.
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

// Err returns the first fatal error observed by the supervisor, if any.
func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

// Trigger sends a message for the named target immediately, outside the
// daily claim bookkeeping: head, pelvis, heart or integration.
func (a *App) Trigger(ctx context.Context, target string) (pipeline.Result, error) {
	return a.pipe.Trigger(ctx, target)
}

// History returns the recent delivery log, oldest first.
func (a *App) History() []pipeline.Result { return a.pipe.Snapshot() }

// ControlState returns today's claim record.
func (a *App) ControlState() controlstore.State { return a.reg.Snapshot() }

// SlotStatus describes one of today's slots for display.
type SlotStatus struct {
	Slot    schedule.Slot
	Claimed bool
	Next    time.Time
}

// Schedule returns today's full schedule: the fixed slots plus the random
// times drawn for today, each with its claim state and next firing time.
func (a *App) Schedule() []SlotStatus {
	now := time.Now().In(a.loc)
	st := a.reg.EnsureDay(now)

	slots := make([]schedule.Slot, 0, len(schedule.Fixed)+len(st.RandomTimes))
	slots = append(slots, schedule.Fixed...)
	for _, hm := range st.RandomTimes {
		slots = append(slots, schedule.RandomSlot(hm[0], hm[1]))
	}

	out := make([]SlotStatus, 0, len(slots))
	for _, s := range slots {
		next, err := schedule.NextOccurrence(now, s.Hour, s.Minute)
		if err != nil {
			a.log.Warn("next occurrence", logx.String("slot", s.Key()), logx.Err(err))
		}
		out = append(out, SlotStatus{Slot: s, Claimed: st.HasSent(s.Key()), Next: next})
	}
	return out
}

func (a *App) Start(ctx context.Context) error {
	a.sup = rtsup.New(ctx, rtsup.WithLogger(a.log), rtsup.WithCancelOnError(true))

	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))
	a.cfgm.SetValidator(func(_ context.Context, cfg *config.Config) error {
		return validateConfig(cfg)
	})

	if a.schedEnabled {
		a.sup.Go("scheduler.run", a.sched.Run)
	} else {
		a.log.Warn("scheduler disabled via config; only manual sends will work")
	}

	a.pprof.Reconfigure(a.sup.Context(), mapPprofConfig(a.cfgm.Get()))

	events, unsub := a.bus.Subscribe(128)
	a.sup.Go0("eventbus.log", func(c context.Context) {
		defer unsub()
		for {
			select {
			case <-c.Done():
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				a.log.Debug("event", logx.String("type", e.Type), logx.Time("time", e.Time), logx.Any("data", e.Data))
			}
		}
	})

	sub := a.cfgm.Subscribe(8)
	a.sup.Go0("config.reload", func(c context.Context) {
		defer a.cfgm.Unsubscribe(sub)
		for {
			select {
			case <-c.Done():
				return
			case newCfg, ok := <-sub:
				if !ok {
					return
				}
				a.applyReload(c, newCfg)
			}
		}
	})

	a.sup.Go("config.watch", func(c context.Context) error {
		return a.cfgm.Watch(c)
	})

	a.log.Info("app started", logx.String("timezone", a.loc.String()))
	return nil
}

// applyReload hot-applies the subset of the config that can change at
// runtime: logging and pprof. Store, delivery, generator and schedule
// changes need a restart; say so instead of half-applying them.
func (a *App) applyReload(ctx context.Context, cfg *config.Config) {
	if cfg == nil {
		return
	}
	a.logs.Apply(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	a.pprof.Reconfigure(ctx, mapPprofConfig(cfg))

	if cfg.Timezone != "" && cfg.Timezone != a.loc.String() {
		a.log.Warn("timezone changed in config; restart required")
	}
	if cfg.Scheduler.Enabled != a.schedEnabled {
		a.log.Warn("scheduler.enabled changed in config; restart required")
	}
	a.log.Info("config reloaded")
}

func (a *App) Stop(ctx context.Context) error {
	if a.sup == nil {
		return nil
	}
	a.log.Info("stopping")
	a.sup.Cancel()

	// Each step gets an upper bound so one component cannot stall the stop.
	step := func(name string, max time.Duration, fn func(context.Context) error) {
		stepCtx, cancel := context.WithTimeout(ctx, max)
		defer cancel()
		done := make(chan error, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					done <- fmt.Errorf("panic in stop step %s: %v", name, r)
				}
			}()
			done <- fn(stepCtx)
		}()
		select {
		case err := <-done:
			if err != nil {
				a.log.Warn("stop step error", logx.String("name", name), logx.Err(err))
			}
		case <-stepCtx.Done():
			a.log.Warn("stop step deadline reached (continuing)", logx.String("name", name))
		}
	}

	step("pprof", 1*time.Second, func(c context.Context) error { a.pprof.Stop(c); return nil })
	step("store", 1*time.Second, func(context.Context) error { return a.store.Close() })
	step("supervisor", 2*time.Second, func(c context.Context) error { return a.sup.Wait(c) })

	a.log.Info("stopped")
	if a.logs != nil {
		_ = a.logs.Close()
	}
	return nil
}

func loadTimezone(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("timezone: invalid %q: %w", tz, err)
	}
	return loc, nil
}
