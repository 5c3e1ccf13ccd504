package claim

import (
	"math/rand"
	"sync"
	"time"

	"rosebot/internal/controlstore"
	"rosebot/internal/eventbus"
	"rosebot/internal/schedule"
	logx "rosebot/pkg/logx"
)

// DateLayout is the calendar-date form stored in the control record.
const DateLayout = "2006-01-02"

// Registrar serializes every read-modify-write of the control store so that
// claiming a slot is atomic across concurrent callers: the scheduler tick
// and a manual trigger both go through here, never to the store directly.
//
// One mutex wraps each full load-check-mutate-save sequence. Checking and
// writing as separate unlocked steps would reintroduce the double-send race
// this type exists to prevent. Across processes the store file gives only
// best-effort dedup (narrow read-modify-write window); the design assumes a
// single active scheduler instance.
type Registrar struct {
	mu    sync.Mutex
	store controlstore.Store
	log   logx.Logger
	bus   eventbus.Bus
	rng   *rand.Rand // guarded by mu
}

func NewRegistrar(store controlstore.Store, log logx.Logger, bus eventbus.Bus) *Registrar {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Registrar{
		store: store,
		log:   log,
		bus:   bus,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// EnsureDay makes the stored state current for the calendar date of now and
// returns a snapshot of it. On day rollover the whole record is atomically
// replaced: empty sent set, fresh random times (one per window). Idempotent
// within a day; it never re-randomizes an already-current record.
func (r *Registrar) EnsureDay(now time.Time) controlstore.State {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.loadLocked()
	today := now.Format(DateLayout)
	if st.Date == today {
		return st.Clone()
	}

	fresh := controlstore.State{
		Date:        today,
		Sent:        []string{},
		RandomTimes: schedule.DrawRandomTimes(r.rng),
	}
	r.saveLocked(fresh)
	r.log.Info("day rolled", logx.String("date", today), logx.Any("random_times", fresh.RandomTimes))
	if r.bus != nil {
		r.bus.Publish(eventbus.Event{Type: eventbus.TypeDayRolled, Data: fresh.Clone()})
	}
	return fresh.Clone()
}

// Claim marks key as sent. It returns true exactly once per key per day
// under single-process operation; every later call the same day returns
// false. A claim is never released: a failed delivery still consumes the
// slot (at-most-once policy).
func (r *Registrar) Claim(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.loadLocked()
	if st.HasSent(key) {
		return false
	}
	st.Sent = append(st.Sent, key)
	r.saveLocked(st)
	if r.bus != nil {
		r.bus.Publish(eventbus.Event{Type: eventbus.TypeSlotClaimed, Data: key})
	}
	return true
}

// Snapshot returns a read-only copy of the current control state.
func (r *Registrar) Snapshot() controlstore.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked().Clone()
}

// loadLocked reads the store, degrading to the zero state on read faults.
// Losing the record only risks a duplicate send; it must never crash the
// claim path.
func (r *Registrar) loadLocked() controlstore.State {
	st, err := r.store.Load()
	if err != nil {
		r.log.Warn("control state unreadable; using empty state", logx.Err(err))
		if r.bus != nil {
			r.bus.Publish(eventbus.Event{Type: eventbus.TypeStoreDegraded, Data: err.Error()})
		}
		return controlstore.State{}
	}
	return st
}

// saveLocked persists best-effort: a failed write is surfaced through the
// log and the bus but not propagated to the claim decision.
func (r *Registrar) saveLocked(st controlstore.State) {
	if err := r.store.Save(st); err != nil {
		r.log.Warn("control state write failed", logx.Err(err))
		if r.bus != nil {
			r.bus.Publish(eventbus.Event{Type: eventbus.TypeStoreDegraded, Data: err.Error()})
		}
	}
}
