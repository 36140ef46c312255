// Package history persists completed sweeps so later runs can be compared
// against them for regressions.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"benchtab/internal/bench"
)

// Cell is one persisted table cell. Only present cells are stored; absent
// cells are reconstructed by their absence.
type Cell struct {
	Procedure string `json:"procedure"`
	Config    int64  `json:"config"`
	Size      int64  `json:"size"`
	Reps      int64  `json:"reps"`
	ElapsedNs int64  `json:"elapsed_ns"`
}

// NsPerOp returns the mean per-repetition cost of the stored cell.
func (c Cell) NsPerOp() float64 {
	if c.Reps == 0 {
		return 0
	}
	return float64(c.ElapsedNs) / float64(c.Reps)
}

// Run is one saved sweep.
type Run struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	TargetMs  int64     `json:"target_ms"`
	Cells     []Cell    `json:"cells"`
}

// Snapshot flattens a completed table into a storable run.
func Snapshot(t *bench.Table, target time.Duration) Run {
	run := Run{CreatedAt: time.Now(), TargetMs: target.Milliseconds()}
	procs := t.Procedures()
	cfgs := t.Configs()
	for i, name := range procs {
		for j, cfg := range cfgs {
			m, ok := t.Measurement(i, j)
			if !ok {
				continue
			}
			run.Cells = append(run.Cells, Cell{
				Procedure: name,
				Config:    int64(cfg),
				Size:      t.ProblemSize(i, j),
				Reps:      m.Reps,
				ElapsedNs: m.Elapsed.Nanoseconds(),
			})
		}
	}
	return run
}

// Store is the persistence interface for sweep history.
type Store interface {
	Save(run Run) (int64, error)
	LoadLatest() (*Run, error)
	LoadAll() ([]Run, error)
	Close() error
}

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// applies migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME NOT NULL,
		target_ms INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS cells (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		procedure TEXT NOT NULL,
		config INTEGER NOT NULL,
		size INTEGER NOT NULL,
		reps INTEGER NOT NULL,
		elapsed_ns INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_cells_run ON cells(run_id);
	`
	_, err := s.db.Exec(query)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save stores a run and its cells in one transaction, returning the run ID.
func (s *SQLiteStore) Save(run Run) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO runs (created_at, target_ms) VALUES (?, ?)`,
		run.CreatedAt, run.TargetMs)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, c := range run.Cells {
		if _, err := tx.Exec(
			`INSERT INTO cells (run_id, procedure, config, size, reps, elapsed_ns) VALUES (?, ?, ?, ?, ?, ?)`,
			id, c.Procedure, c.Config, c.Size, c.Reps, c.ElapsedNs); err != nil {
			return 0, fmt.Errorf("failed to insert cell: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// LoadAll returns every saved run, oldest first.
func (s *SQLiteStore) LoadAll() ([]Run, error) {
	rows, err := s.db.Query(`SELECT id, created_at, target_ms FROM runs ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.TargetMs); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		cells, err := s.loadCells(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Cells = cells
	}
	return runs, nil
}

// LoadLatest returns the most recent run, or nil when none is saved.
func (s *SQLiteStore) LoadLatest() (*Run, error) {
	var r Run
	err := s.db.QueryRow(`SELECT id, created_at, target_ms FROM runs ORDER BY id DESC LIMIT 1`).
		Scan(&r.ID, &r.CreatedAt, &r.TargetMs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cells, err := s.loadCells(r.ID)
	if err != nil {
		return nil, err
	}
	r.Cells = cells
	return &r, nil
}

func (s *SQLiteStore) loadCells(runID int64) ([]Cell, error) {
	rows, err := s.db.Query(
		`SELECT procedure, config, size, reps, elapsed_ns FROM cells WHERE run_id = ? ORDER BY id ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cells []Cell
	for rows.Next() {
		var c Cell
		if err := rows.Scan(&c.Procedure, &c.Config, &c.Size, &c.Reps, &c.ElapsedNs); err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	return cells, rows.Err()
}
