package controlstore

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("controlstore disabled")

// Config configures the control store.
//
// Driver values:
//   - "file": single JSON record on disk (default when empty)
//   - "sqlite": SQLite database file (optional build tag)
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// State is the persisted daily control record.
//
// Invariants (enforced by the claim registrar, not here):
//   - Sent contains no duplicate keys.
//   - RandomTimes holds one (hour, minute) pair per randomized window.
//   - Date is "YYYY-MM-DD" in the configured timezone, or "" when the
//     store has never been written.
type State struct {
	Date        string   `json:"date"`
	Sent        []string `json:"sent"`
	RandomTimes [][2]int `json:"random_times"`
}

// HasSent reports whether key was already claimed in this state.
func (s State) HasSent(key string) bool {
	for _, k := range s.Sent {
		if k == key {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can hand out snapshots safely.
func (s State) Clone() State {
	cp := State{Date: s.Date}
	if s.Sent != nil {
		cp.Sent = append([]string(nil), s.Sent...)
	}
	if s.RandomTimes != nil {
		cp.RandomTimes = append([][2]int(nil), s.RandomTimes...)
	}
	return cp
}

// Store is the minimal persistence API used by the claim registrar.
//
// Load must always return a usable State: a missing or corrupt record
// yields the zero State plus a non-nil error describing the fault, so the
// caller can surface the degradation without crashing (losing dedup state
// only risks a duplicate send, not corruption).
type Store interface {
	Load() (State, error)
	Save(State) error
	Close() error
}
