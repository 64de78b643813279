package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"biopipe/internal/config"
)

// Store manages results persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the results database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
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

	store := &Store{db: db, path: dbPath}
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

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_info`).Scan(&count); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if count == 0 {
		if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_info (version) VALUES (?)`, schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
	}
	return nil
}

// CreateRun inserts a new running analysis run.
func (s *Store) CreateRun(ctx context.Context, id, subject, method string) (*Run, error) {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO analysis_runs (id, subject, method, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, subject, method, StatusRunning, now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return s.GetRun(ctx, id)
}

// CompleteRun records the final status of a run. errMsg may be empty.
func (s *Store) CompleteRun(ctx context.Context, id, status, errMsg string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE analysis_runs SET status = ?, error = ?, completed_at = ? WHERE id = ?`,
		status, nullableString(errMsg), now, id,
	)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	return nil
}

// InsertGroupStat persists one comparison-group statistics record.
func (s *Store) InsertGroupStat(ctx context.Context, stat GroupStat) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO group_statistics (
            run_id, metric, group_label, mean, std, min, max,
            sample_count, rmssd, smoothness, samples_removed
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stat.RunID, stat.Metric, stat.GroupLabel,
		stat.Mean, stat.Std, stat.Min, stat.Max,
		stat.SampleCount, stat.RMSSD, stat.Smoothness, stat.SamplesRemoved,
	)
	if err != nil {
		return fmt.Errorf("insert group statistics: %w", err)
	}
	return nil
}

// GetRun fetches a run by ID, returning nil when it does not exist.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, subject, method, status, error, created_at, completed_at
         FROM analysis_runs WHERE id = ?`,
		id,
	)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return run, err
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, subject, method, status, error, created_at, completed_at
         FROM analysis_runs ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// StatsForRun returns the group statistics of one run in insertion order.
func (s *Store) StatsForRun(ctx context.Context, runID string) ([]GroupStat, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id, metric, group_label, mean, std, min, max,
                sample_count, rmssd, smoothness, samples_removed
         FROM group_statistics WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query group statistics: %w", err)
	}
	defer rows.Close()

	var stats []GroupStat
	for rows.Next() {
		var stat GroupStat
		var rmssd, smoothness sql.NullFloat64
		if err := rows.Scan(
			&stat.RunID, &stat.Metric, &stat.GroupLabel,
			&stat.Mean, &stat.Std, &stat.Min, &stat.Max,
			&stat.SampleCount, &rmssd, &smoothness, &stat.SamplesRemoved,
		); err != nil {
			return nil, fmt.Errorf("scan group statistics: %w", err)
		}
		if rmssd.Valid {
			v := rmssd.Float64
			stat.RMSSD = &v
		}
		if smoothness.Valid {
			v := smoothness.Float64
			stat.Smoothness = &v
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var errMsg sql.NullString
	var createdAt string
	var completedAt sql.NullString
	if err := row.Scan(&run.ID, &run.Subject, &run.Method, &run.Status, &errMsg, &createdAt, &completedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.Error = errMsg.String
	if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		run.CreatedAt = parsed
	}
	if completedAt.Valid {
		if parsed, err := time.Parse(time.RFC3339Nano, completedAt.String); err == nil {
			run.CompletedAt = &parsed
		}
	}
	return &run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
