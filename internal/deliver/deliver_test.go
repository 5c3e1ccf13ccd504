package deliver

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateShortUnchanged(t *testing.T) {
	s := "uma mensagem curta."
	if got := Truncate(s, 1024); got != s {
		t.Fatalf("short string changed: %q", got)
	}
	if got := Truncate(s, len([]rune(s))); got != s {
		t.Fatalf("exact-limit string changed: %q", got)
	}
}

func TestTruncateAtSentenceBoundary(t *testing.T) {
	// 1200 chars with the last period of the window at index 600: the cut
	// lands just after it.
	s := strings.Repeat("a", 600) + "." + strings.Repeat("b", 599)
	got := Truncate(s, 1024)
	if len([]rune(got)) != 601 {
		t.Fatalf("len = %d, want 601", len([]rune(got)))
	}
	if !strings.HasSuffix(got, ".") {
		t.Fatalf("expected cut to end at the period, got %q", got[len(got)-10:])
	}
}

func TestTruncateHardCutWithEllipsis(t *testing.T) {
	// No period anywhere: hard cut, ellipsis terminated, within the limit.
	s := strings.Repeat("x", 1200)
	got := Truncate(s, 1024)
	rs := []rune(got)
	if len(rs) != 1024 {
		t.Fatalf("len = %d, want 1024", len(rs))
	}
	if rs[len(rs)-1] != '…' {
		t.Fatalf("expected ellipsis terminator, got %q", rs[len(rs)-1])
	}
}

func TestTruncateIgnoresEarlyPeriod(t *testing.T) {
	// A period in the first half of the window does not win over the hard
	// cut; cutting there would discard too much text.
	s := strings.Repeat("y", 100) + "." + strings.Repeat("z", 1100)
	got := Truncate(s, 1024)
	rs := []rune(got)
	if len(rs) > 1024 {
		t.Fatalf("len = %d, over limit", len(rs))
	}
	if rs[len(rs)-1] != '…' {
		t.Fatalf("expected ellipsis terminator")
	}
}

func TestTruncateCountsRunes(t *testing.T) {
	// Multibyte text must be measured in runes, not bytes.
	s := strings.Repeat("ã", 50)
	got := Truncate(s, 10)
	if n := utf8.RuneCountInString(got); n > 10 {
		t.Fatalf("rune count = %d, want <= 10", n)
	}
}
