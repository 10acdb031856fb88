// Package results persists finished burn runs to a local SQLite database so
// scores can be compared across sessions.
package results

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run is one completed stress run.
type Run struct {
	ID            string
	StartedAt     time.Time
	DurationSecs  int64
	Cores         int
	Score         uint64
	AvgCPUPercent float64
}

// Store wraps the history database. Safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal_mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		duration_secs INTEGER NOT NULL,
		cores INTEGER NOT NULL,
		score INTEGER NOT NULL,
		avg_cpu_percent REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_score ON runs(score DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

// Record inserts a finished run. An empty ID is filled with a fresh UUID; the
// stored run (with ID set) is returned.
func (s *Store) Record(run Run) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (id, started_at, duration_secs, cores, score, avg_cpu_percent)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.Unix(), run.DurationSecs, run.Cores, int64(run.Score), run.AvgCPUPercent,
	)
	if err != nil {
		return Run{}, fmt.Errorf("recording run: %w", err)
	}
	return run, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit < 1 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, started_at, duration_secs, cores, score, avg_cpu_percent
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// Best returns the highest-scoring run, or ok=false if the history is empty.
func (s *Store) Best() (Run, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT id, started_at, duration_secs, cores, score, avg_cpu_percent
		 FROM runs ORDER BY score DESC, started_at DESC LIMIT 1`)
	if err != nil {
		return Run{}, false, fmt.Errorf("querying best run: %w", err)
	}
	defer rows.Close()

	runs, err := scanRuns(rows)
	if err != nil {
		return Run{}, false, err
	}
	if len(runs) == 0 {
		return Run{}, false, nil
	}
	return runs[0], true, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var (
			r       Run
			started int64
			score   int64
		)
		if err := rows.Scan(&r.ID, &started, &r.DurationSecs, &r.Cores, &score, &r.AvgCPUPercent); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		r.StartedAt = time.Unix(started, 0)
		r.Score = uint64(score)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run rows: %w", err)
	}
	return runs, nil
}
