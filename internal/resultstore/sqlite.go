package resultstore

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/coursebuilder/internal/foundation/errors"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens the store at dbPath. Use ":memory:" for an in-memory
// database, or a file path for persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryStorage, "opening sqlite database").
			WithContext("path", dbPath).Build()
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, errors.WrapError(err, errors.CategoryStorage, "initializing schema").
			WithContext("path", dbPath).Build()
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		submission_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		ok INTEGER NOT NULL,
		grade INTEGER,
		detail TEXT NOT NULL,
		num_exercises INTEGER NOT NULL,
		num_submitted INTEGER NOT NULL,
		num_tests INTEGER NOT NULL,
		num_passed INTEGER NOT NULL,
		num_failed INTEGER NOT NULL,
		num_errors INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_submission_id ON results(submission_id);
	CREATE INDEX IF NOT EXISTS idx_created_at ON results(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record inserts one grading outcome.
func (s *SQLiteStore) Record(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var grade sql.NullInt64
	if rec.Grade != nil {
		grade = sql.NullInt64{Int64: int64(*rec.Grade), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results
		 (submission_id, created_at, ok, grade, detail,
		  num_exercises, num_submitted, num_tests, num_passed, num_failed, num_errors)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SubmissionID, createdAt.Unix(), rec.Ok, grade, rec.Detail,
		rec.NumExercises, rec.NumSubmitted, rec.NumTests, rec.NumPassed, rec.NumFailed, rec.NumErrors,
	)
	if err != nil {
		return errors.WrapError(err, errors.CategoryStorage, "inserting result").
			WithContext("submission_id", rec.SubmissionID).Build()
	}
	return nil
}

// List returns the most recent records, newest first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		selectColumns+" FROM results ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryStorage, "querying results").Build()
	}
	defer rows.Close()

	return scanRecords(rows)
}

// BySubmission returns all records for one submission id, oldest first.
func (s *SQLiteStore) BySubmission(ctx context.Context, submissionID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		selectColumns+" FROM results WHERE submission_id = ? ORDER BY id", submissionID)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryStorage, "querying results").
			WithContext("submission_id", submissionID).Build()
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const selectColumns = `SELECT id, submission_id, created_at, ok, grade, detail,
	num_exercises, num_submitted, num_tests, num_passed, num_failed, num_errors`

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var rec Record
		var createdAt int64
		var grade sql.NullInt64
		if err := rows.Scan(&rec.ID, &rec.SubmissionID, &createdAt, &rec.Ok, &grade, &rec.Detail,
			&rec.NumExercises, &rec.NumSubmitted, &rec.NumTests,
			&rec.NumPassed, &rec.NumFailed, &rec.NumErrors); err != nil {
			return nil, errors.WrapError(err, errors.CategoryStorage, "scanning result row").Build()
		}
		rec.CreatedAt = time.Unix(createdAt, 0)
		if grade.Valid {
			g := int(grade.Int64)
			rec.Grade = &g
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryStorage, "iterating result rows").Build()
	}
	return records, nil
}
