package controlstore

import (
	"os"
	"path/filepath"
	"testing"

	"rosebot/pkg/logx"
)

func newFileStore(t *testing.T) (Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "control.json")
	st, err := Open(Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st, path
}

func TestFileLoadMissing(t *testing.T) {
	st, _ := newFileStore(t)
	got, err := st.Load()
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if got.Date != "" || len(got.Sent) != 0 || len(got.RandomTimes) != 0 {
		t.Fatalf("missing file should yield zero state, got %+v", got)
	}
}

func TestFileRoundtrip(t *testing.T) {
	st, path := newFileStore(t)
	want := State{
		Date:        "2026-03-10",
		Sent:        []string{"fixed_8_0", "random_9_15"},
		RandomTimes: [][2]int{{9, 15}, {16, 40}},
	}
	if err := st.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Date != want.Date {
		t.Fatalf("Date = %q, want %q", got.Date, want.Date)
	}
	if len(got.Sent) != 2 || got.Sent[0] != "fixed_8_0" || got.Sent[1] != "random_9_15" {
		t.Fatalf("Sent = %v", got.Sent)
	}
	if len(got.RandomTimes) != 2 || got.RandomTimes[1] != [2]int{16, 40} {
		t.Fatalf("RandomTimes = %v", got.RandomTimes)
	}

	// The temp file from the atomic write must not linger.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestFileLoadCorrupt(t *testing.T) {
	st, path := newFileStore(t)
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := st.Load()
	if err == nil {
		t.Fatalf("corrupt record should report an error")
	}
	if got.Date != "" || len(got.Sent) != 0 {
		t.Fatalf("corrupt record should yield zero state, got %+v", got)
	}
}

func TestHasSent(t *testing.T) {
	s := State{Sent: []string{"fixed_8_0"}}
	if !s.HasSent("fixed_8_0") {
		t.Fatalf("expected key to be marked sent")
	}
	if s.HasSent("fixed_12_0") {
		t.Fatalf("unexpected key marked sent")
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := State{Date: "2026-03-10", Sent: []string{"a"}, RandomTimes: [][2]int{{9, 0}}}
	cp := orig.Clone()
	cp.Sent[0] = "b"
	cp.RandomTimes[0] = [2]int{10, 0}
	if orig.Sent[0] != "a" || orig.RandomTimes[0] != [2]int{9, 0} {
		t.Fatalf("Clone shares backing arrays: %+v", orig)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(Config{Driver: "redis", Path: "x"}, logx.Nop()); err == nil {
		t.Fatalf("unknown driver should error")
	}
}
