package schedule

import (
	"math/rand"
	"testing"
	"time"
)

func TestSlotKey(t *testing.T) {
	cases := []struct {
		slot Slot
		want string
	}{
		{Fixed[0], "fixed_8_0"},
		{Fixed[1], "fixed_12_0"},
		{Fixed[2], "fixed_20_0"},
		{RandomSlot(9, 5), "random_9_5"},
		{RandomSlot(18, 59), "random_18_59"},
	}
	for _, c := range cases {
		if got := c.slot.Key(); got != c.want {
			t.Fatalf("Key() = %q, want %q", got, c.want)
		}
	}
}

func TestSlotMatches(t *testing.T) {
	slot := Fixed[0] // 08:00
	in := time.Date(2026, 3, 10, 8, 0, 42, 0, time.UTC)
	out := time.Date(2026, 3, 10, 8, 1, 0, 0, time.UTC)
	if !slot.Matches(in) {
		t.Fatalf("expected %s to match %v", slot.Clock(), in)
	}
	if slot.Matches(out) {
		t.Fatalf("expected %s not to match %v", slot.Clock(), out)
	}
}

func TestWindowContainsBoundaries(t *testing.T) {
	w := Windows[0] // 09:00-10:59
	if !w.Contains(9, 0) {
		t.Fatalf("start boundary should be inside")
	}
	if !w.Contains(10, 59) {
		t.Fatalf("end boundary should be inside")
	}
	if w.Contains(8, 59) || w.Contains(11, 0) {
		t.Fatalf("minutes adjacent to the window should be outside")
	}
}

func TestDrawRandomTimesStaysInWindows(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		times := DrawRandomTimes(rng)
		if len(times) != len(Windows) {
			t.Fatalf("got %d times, want %d", len(times), len(Windows))
		}
		for j, hm := range times {
			if !Windows[j].Contains(hm[0], hm[1]) {
				t.Fatalf("draw %v outside window %d", hm, j)
			}
		}
	}
}

func TestDrawRandomTimesCoversBoundaries(t *testing.T) {
	// The draw is inclusive on both ends; over many draws both boundary
	// minutes of the first window must show up.
	rng := rand.New(rand.NewSource(7))
	seenStart, seenEnd := false, false
	for i := 0; i < 5000; i++ {
		hm := DrawRandomTimes(rng)[0]
		if hm[0] == 9 && hm[1] == 0 {
			seenStart = true
		}
		if hm[0] == 10 && hm[1] == 59 {
			seenEnd = true
		}
	}
	if !seenStart || !seenEnd {
		t.Fatalf("boundaries not covered: start=%v end=%v", seenStart, seenEnd)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(); err != nil {
		t.Fatalf("built-in schedule should validate: %v", err)
	}
}

func TestNextOccurrence(t *testing.T) {
	loc := time.UTC

	// Exactly on the boundary reports the boundary itself.
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, loc)
	next, err := NextOccurrence(now, 8, 0)
	if err != nil {
		t.Fatalf("NextOccurrence: %v", err)
	}
	if !next.Equal(now) {
		t.Fatalf("on-boundary = %v, want %v", next, now)
	}

	// Past the slot rolls to the next day.
	now = time.Date(2026, 3, 10, 9, 30, 0, 0, loc)
	next, err = NextOccurrence(now, 8, 0)
	if err != nil {
		t.Fatalf("NextOccurrence: %v", err)
	}
	want := time.Date(2026, 3, 11, 8, 0, 0, 0, loc)
	if !next.Equal(want) {
		t.Fatalf("past-slot = %v, want %v", next, want)
	}
}
