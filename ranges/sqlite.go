package ranges

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/arloliu/ttfs/errs"
)

const createRangesTable = `
CREATE TABLE IF NOT EXISTS feature_ranges (
	name      TEXT PRIMARY KEY,
	min_value REAL NOT NULL,
	max_value REAL NOT NULL
)`

// SQLiteStore persists feature ranges in a SQLite database.
//
// It is the storage a range provider writes to after aggregating min/max over a
// cleaned corpus, and the source an encoder build reads from.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the range database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open range database %s: %w", path, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open range database %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, createRangesTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create feature_ranges table: %w", err)
	}

	return &SQLiteStore{path: path, db: db}, nil
}

// Save replaces all stored ranges with the contents of reg in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, reg *Registry) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM feature_ranges`); err != nil {
		return fmt.Errorf("clear feature_ranges: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO feature_ranges (name, min_value, max_value) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for name, rng := range reg.All() {
		if _, err := stmt.ExecContext(ctx, name, rng.Min, rng.Max); err != nil {
			return fmt.Errorf("store range %q: %w", name, err)
		}
	}

	return tx.Commit()
}

// Load reads all stored ranges.
// An empty table is reported as errs.ErrNotFound: nothing has been published yet.
func (s *SQLiteStore) Load(ctx context.Context) (*Registry, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT name, min_value, max_value FROM feature_ranges`)
	if err != nil {
		return nil, fmt.Errorf("query feature_ranges: %w", err)
	}
	defer rows.Close()

	m := make(map[string]Range)
	for rows.Next() {
		var (
			name string
			rng  Range
		)
		if err := rows.Scan(&name, &rng.Min, &rng.Max); err != nil {
			return nil, errs.NewFormatError(SQLiteScheme+s.path, name, "unreadable row", err)
		}
		m[name] = rng
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(m) == 0 {
		return nil, errs.NewNotFoundError(SQLiteScheme+s.path, nil)
	}

	return New(m), nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil

	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("range database is closed")
	}

	return s.db, nil
}
