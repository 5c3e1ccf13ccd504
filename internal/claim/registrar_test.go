package claim

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"rosebot/internal/controlstore"
	"rosebot/internal/schedule"
	"rosebot/pkg/logx"
)

func newTestRegistrar(t *testing.T) (*Registrar, controlstore.Store) {
	t.Helper()
	st, err := controlstore.Open(controlstore.Config{
		Driver: "file",
		Path:   filepath.Join(t.TempDir(), "control.json"),
	}, logx.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return NewRegistrar(st, logx.Nop(), nil), st
}

func TestClaimExactlyOnce(t *testing.T) {
	reg, _ := newTestRegistrar(t)
	reg.EnsureDay(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))

	const workers = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if reg.Claim("fixed_8_0") {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	n := 0
	for range wins {
		n++
	}
	if n != 1 {
		t.Fatalf("claim won %d times, want exactly 1", n)
	}
}

func TestClaimNeverReleased(t *testing.T) {
	reg, _ := newTestRegistrar(t)
	reg.EnsureDay(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))

	if !reg.Claim("fixed_8_0") {
		t.Fatalf("first claim should succeed")
	}
	// A failed delivery does not give the slot back; any retry path must
	// see the key as consumed.
	if reg.Claim("fixed_8_0") {
		t.Fatalf("second claim should fail")
	}
}

func TestEnsureDayRollover(t *testing.T) {
	reg, _ := newTestRegistrar(t)
	day1 := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 11, 0, 0, 20, 0, time.UTC)

	st := reg.EnsureDay(day1)
	if st.Date != "2026-03-10" {
		t.Fatalf("Date = %q", st.Date)
	}
	if len(st.RandomTimes) != len(schedule.Windows) {
		t.Fatalf("RandomTimes = %v, want one per window", st.RandomTimes)
	}
	reg.Claim("fixed_8_0")

	rolled := reg.EnsureDay(day2)
	if rolled.Date != "2026-03-11" {
		t.Fatalf("rolled Date = %q", rolled.Date)
	}
	if len(rolled.Sent) != 0 {
		t.Fatalf("rollover must clear sent set, got %v", rolled.Sent)
	}
	for i, hm := range rolled.RandomTimes {
		if !schedule.Windows[i].Contains(hm[0], hm[1]) {
			t.Fatalf("random time %v outside window %d", hm, i)
		}
	}
	// Yesterday's claims are gone with the old record.
	if !reg.Claim("fixed_8_0") {
		t.Fatalf("new day should accept yesterday's key again")
	}
}

func TestEnsureDayIdempotentWithinDay(t *testing.T) {
	reg, _ := newTestRegistrar(t)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	first := reg.EnsureDay(now)
	reg.Claim("fixed_8_0")
	second := reg.EnsureDay(now.Add(6 * time.Hour))

	if second.Date != first.Date {
		t.Fatalf("date changed within day: %q != %q", second.Date, first.Date)
	}
	if len(second.RandomTimes) != len(first.RandomTimes) {
		t.Fatalf("random times re-drawn within day")
	}
	for i := range first.RandomTimes {
		if first.RandomTimes[i] != second.RandomTimes[i] {
			t.Fatalf("random times re-drawn within day: %v != %v", first.RandomTimes, second.RandomTimes)
		}
	}
	if !second.HasSent("fixed_8_0") {
		t.Fatalf("claims lost within day")
	}
}

func TestClaimSurvivesRestart(t *testing.T) {
	reg, st := newTestRegistrar(t)
	reg.EnsureDay(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))
	if !reg.Claim("fixed_8_0") {
		t.Fatalf("first claim should succeed")
	}

	// A new registrar over the same store must observe the claim.
	reborn := NewRegistrar(st, logx.Nop(), nil)
	if reborn.Claim("fixed_8_0") {
		t.Fatalf("claim must survive a process restart")
	}
}
