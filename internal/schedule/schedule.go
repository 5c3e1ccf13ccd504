package schedule

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/robfig/cron/v3"
)

// Sanctuary identifies which of the three daily sanctuaries a fixed slot
// belongs to.
type Sanctuary string

const (
	SanctuaryHead   Sanctuary = "head"
	SanctuaryPelvis Sanctuary = "pelvis"
	SanctuaryHeart  Sanctuary = "heart"
	// SanctuaryAll marks integration messages spanning all three.
	SanctuaryAll Sanctuary = "all"
)

type Kind string

const (
	KindFixed  Kind = "fixed"
	KindRandom Kind = "random"
)

// Slot is one scheduled delivery opportunity on a given day.
type Slot struct {
	Kind      Kind
	Hour      int
	Minute    int
	Sanctuary Sanctuary // SanctuaryAll for random slots
	Theme     string    // empty for random slots
}

// Key is the claim token recorded in the control store. Fixed-slot keys are
// stable across days (same clock time every day); random-slot keys change
// daily because the clock time itself changes.
func (s Slot) Key() string {
	return fmt.Sprintf("%s_%d_%d", s.Kind, s.Hour, s.Minute)
}

// Clock renders the slot time as HH:MM.
func (s Slot) Clock() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// Matches reports whether the slot falls in the minute of t.
func (s Slot) Matches(t time.Time) bool {
	return t.Hour() == s.Hour && t.Minute() == s.Minute
}

// Fixed is the build-time daily schedule. Not configurable at runtime.
var Fixed = []Slot{
	{Kind: KindFixed, Hour: 8, Minute: 0, Sanctuary: SanctuaryHead, Theme: "intention"},
	{Kind: KindFixed, Hour: 12, Minute: 0, Sanctuary: SanctuaryPelvis, Theme: "renewal"},
	{Kind: KindFixed, Hour: 20, Minute: 0, Sanctuary: SanctuaryHeart, Theme: "reflection"},
}

// Window is an inclusive [start, end] minute range from which one random
// slot is drawn per day. Windows are defined to exclude every fixed-slot
// clock time; Validate checks this at startup.
type Window struct {
	StartHour, StartMinute int
	EndHour, EndMinute     int
}

func (w Window) startMinutes() int { return w.StartHour*60 + w.StartMinute }
func (w Window) endMinutes() int   { return w.EndHour*60 + w.EndMinute }

// Contains reports whether (hour, minute) falls inside the window.
func (w Window) Contains(hour, minute int) bool {
	m := hour*60 + minute
	return m >= w.startMinutes() && m <= w.endMinutes()
}

// Windows are the build-time randomized windows: two per day, each yielding
// exactly one integration slot.
var Windows = []Window{
	{StartHour: 9, StartMinute: 0, EndHour: 10, EndMinute: 59},
	{StartHour: 14, StartMinute: 0, EndHour: 18, EndMinute: 59},
}

// RandomSlot builds the integration slot for a drawn (hour, minute).
func RandomSlot(hour, minute int) Slot {
	return Slot{Kind: KindRandom, Hour: hour, Minute: minute, Sanctuary: SanctuaryAll}
}

// DrawRandomTimes draws one time per window, uniformly over the window's
// inclusive minute range, in window order.
func DrawRandomTimes(rng *rand.Rand) [][2]int {
	out := make([][2]int, 0, len(Windows))
	for _, w := range Windows {
		span := w.endMinutes() - w.startMinutes() + 1
		m := w.startMinutes() + rng.Intn(span)
		out = append(out, [2]int{m / 60, m % 60})
	}
	return out
}

// Validate checks the build-time schedule invariants. A violation is a
// configuration error and must halt startup, not surface mid-day.
func Validate() error {
	for _, w := range Windows {
		if w.startMinutes() > w.endMinutes() {
			return fmt.Errorf("schedule: window %02d:%02d-%02d:%02d is inverted",
				w.StartHour, w.StartMinute, w.EndHour, w.EndMinute)
		}
		if w.StartHour < 0 || w.EndHour > 23 || w.StartMinute < 0 || w.StartMinute > 59 || w.EndMinute < 0 || w.EndMinute > 59 {
			return fmt.Errorf("schedule: window %02d:%02d-%02d:%02d out of range",
				w.StartHour, w.StartMinute, w.EndHour, w.EndMinute)
		}
		for _, s := range Fixed {
			if w.Contains(s.Hour, s.Minute) {
				return fmt.Errorf("schedule: window %02d:%02d-%02d:%02d overlaps fixed slot %s",
					w.StartHour, w.StartMinute, w.EndHour, w.EndMinute, s.Clock())
			}
		}
	}
	for _, s := range Fixed {
		if _, err := cronSpec(s.Hour, s.Minute); err != nil {
			return fmt.Errorf("schedule: fixed slot %s: %w", s.Clock(), err)
		}
	}
	return nil
}

func cronSpec(hour, minute int) (cron.Schedule, error) {
	return cron.ParseStandard(fmt.Sprintf("%d %d * * *", minute, hour))
}

// NextOccurrence returns the next wall-clock time at or after now when a
// slot at (hour, minute) fires. Used for schedule display only; the loop
// itself matches minutes directly.
func NextOccurrence(now time.Time, hour, minute int) (time.Time, error) {
	sched, err := cronSpec(hour, minute)
	if err != nil {
		return time.Time{}, err
	}
	// cron.Next is strictly after its argument; step back so a call exactly
	// on the boundary reports the boundary itself.
	return sched.Next(now.Add(-time.Second)), nil
}
