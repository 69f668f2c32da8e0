package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"pheme/internal/catalog"
	"pheme/internal/tracker"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump on schema changes; the
// journal is disposable, so a mismatch just asks the user to delete the file.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was written by a different
// schema version.
var ErrSchemaMismatch = errors.New("journal schema version mismatch")

const timeLayout = time.RFC3339

// Store is the sweep journal backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Run is one recorded sweep.
type Run struct {
	ID         string
	Category   catalog.Category
	StartedAt  time.Time
	FinishedAt time.Time
	Checked    int
	Events     int
	Skipped    int
}

// Skip is one per-item skip reason belonging to a run.
type Skip struct {
	Item   string
	Reason string
}

// Open initializes or connects to the journal database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the backing database path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Record writes one sweep report and its skip reasons, returning the run ID.
func (s *Store) Record(ctx context.Context, report tracker.SweepReport) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin journal tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sweep_runs (id, category, started_at, finished_at, checked, events, skipped)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID,
		string(report.Category),
		report.StartedAt.UTC().Format(timeLayout),
		report.FinishedAt.UTC().Format(timeLayout),
		report.Checked,
		len(report.Events),
		len(report.Skipped),
	)
	if err != nil {
		return "", fmt.Errorf("record sweep run: %w", err)
	}

	for _, skip := range report.Skipped {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO sweep_skips (run_id, item, reason) VALUES (?, ?, ?)",
			runID, skip.Name, skip.Reason,
		); err != nil {
			return "", fmt.Errorf("record skip for %q: %w", skip.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit journal tx: %w", err)
	}
	return runID, nil
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, category, started_at, finished_at, checked, events, skipped
		 FROM sweep_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sweep runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run                   Run
			category              string
			startedAt, finishedAt string
		)
		if err := rows.Scan(&run.ID, &category, &startedAt, &finishedAt, &run.Checked, &run.Events, &run.Skipped); err != nil {
			return nil, fmt.Errorf("scan sweep run: %w", err)
		}
		run.Category = catalog.Category(category)
		if run.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, fmt.Errorf("parse run start time: %w", err)
		}
		if run.FinishedAt, err = time.Parse(timeLayout, finishedAt); err != nil {
			return nil, fmt.Errorf("parse run finish time: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Skips returns the per-item skip reasons recorded for one run.
func (s *Store) Skips(ctx context.Context, runID string) ([]Skip, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT item, reason FROM sweep_skips WHERE run_id = ?", runID)
	if err != nil {
		return nil, fmt.Errorf("query skips: %w", err)
	}
	defer rows.Close()

	var skips []Skip
	for rows.Next() {
		var skip Skip
		if err := rows.Scan(&skip.Item, &skip.Reason); err != nil {
			return nil, fmt.Errorf("scan skip: %w", err)
		}
		skips = append(skips, skip)
	}
	return skips, rows.Err()
}
