//go:build sqlite
// +build sqlite

package controlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	logx "rosebot/pkg/logx"
)

const schema = `
CREATE TABLE IF NOT EXISTS control (
	id           INTEGER PRIMARY KEY CHECK (id = 1),
	date         TEXT NOT NULL,
	sent         TEXT NOT NULL,
	random_times TEXT NOT NULL
);`

type sqliteStore struct {
	db  *sql.DB
	log logx.Logger
}

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("store.path is required for sqlite driver")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if cfg.BusyTimeout > 0 {
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &sqliteStore{db: db, log: log}, nil
}

func (s *sqliteStore) Load() (State, error) {
	if s == nil || s.db == nil {
		return State{}, ErrDisabled
	}
	var date, sent, random string
	err := s.db.QueryRow(`SELECT date, sent, random_times FROM control WHERE id = 1`).
		Scan(&date, &sent, &random)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("controlstore select: %w", err)
	}

	st := State{Date: date}
	if err := json.Unmarshal([]byte(sent), &st.Sent); err != nil {
		return State{}, fmt.Errorf("controlstore decode sent: %w", err)
	}
	if err := json.Unmarshal([]byte(random), &st.RandomTimes); err != nil {
		return State{}, fmt.Errorf("controlstore decode random_times: %w", err)
	}
	return st, nil
}

func (s *sqliteStore) Save(st State) error {
	if s == nil || s.db == nil {
		return ErrDisabled
	}
	sent, err := json.Marshal(st.Sent)
	if err != nil {
		return err
	}
	random, err := json.Marshal(st.RandomTimes)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO control(id, date, sent, random_times) VALUES(1,?,?,?)
		 ON CONFLICT(id) DO UPDATE SET date=excluded.date, sent=excluded.sent, random_times=excluded.random_times`,
		st.Date, string(sent), string(random),
	)
	if err != nil {
		return fmt.Errorf("controlstore upsert: %w", err)
	}
	return nil
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
