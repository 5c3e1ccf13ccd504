package controlstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	logx "rosebot/pkg/logx"
)

// fileStore keeps the control record as a single JSON file.
//
// Writes go through a temp file + rename so a crash mid-write never leaves
// a half-written record behind. Reads parse the file fresh on every Load;
// the record is tiny and the file is the unit shared across process
// restarts.
type fileStore struct {
	log  logx.Logger
	path string

	mu sync.Mutex
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("store.path is required for file driver")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &fileStore{log: log, path: path}, nil
}

func (s *fileStore) Load() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("controlstore read: %w", err)
	}

	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupt record: fall back to the zero state but report the fault.
		return State{}, fmt.Errorf("controlstore decode: %w", err)
	}
	return st, nil
}

func (s *fileStore) Save(st State) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("controlstore encode: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("controlstore write: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("controlstore rename: %w", err)
	}
	return nil
}

func (s *fileStore) Close() error { return nil }
