// Package progress persists manual category assignments for peer
// transactions across sessions.
//
// Assignments are append-only: recategorizing a transaction inserts a new
// row, and reads resolve to the most recent assignment. History is never
// rewritten, so an export reflects exactly what was decided and when.
package progress

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Store is a SQLite-backed record of category assignments.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the assignment database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath cannot be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't benefit from multiple connections
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS assignments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			transaction_id TEXT NOT NULL,
			category TEXT NOT NULL,
			assigned_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assignments_txn ON assignments(transaction_id)`,
	}
	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}
	return nil
}

// Assignment is one recorded categorization decision.
type Assignment struct {
	AssignedAt    time.Time
	TransactionID string
	Category      string
}

// Put records a category assignment for the given transaction.
func (s *Store) Put(ctx context.Context, transactionID, category string) error {
	if transactionID == "" {
		return fmt.Errorf("transactionID cannot be empty")
	}
	if category == "" {
		return fmt.Errorf("category cannot be empty")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assignments (transaction_id, category, assigned_at) VALUES (?, ?, ?)`,
		transactionID, category, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save assignment: %w", err)
	}
	return nil
}

// Get returns the most recent category assigned to the transaction, if any.
func (s *Store) Get(ctx context.Context, transactionID string) (string, bool, error) {
	var category string
	err := s.db.QueryRowContext(ctx,
		`SELECT category FROM assignments WHERE transaction_id = ? ORDER BY id DESC LIMIT 1`,
		transactionID).Scan(&category)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query assignment: %w", err)
	}
	return category, true, nil
}

// Categories returns the latest assignment per transaction.
func (s *Store) Categories(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT transaction_id, category FROM assignments ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	// Ascending scan: later rows overwrite earlier ones.
	out := make(map[string]string)
	for rows.Next() {
		var id, category string
		if err := rows.Scan(&id, &category); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		out[id] = category
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}
	return out, nil
}

// History returns every assignment recorded for the transaction, oldest first.
func (s *Store) History(ctx context.Context, transactionID string) ([]Assignment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT transaction_id, category, assigned_at FROM assignments WHERE transaction_id = ? ORDER BY id ASC`,
		transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.TransactionID, &a.Category, &a.AssignedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return out, nil
}

// Count returns the number of distinct transactions with an assignment.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT transaction_id) FROM assignments`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count assignments: %w", err)
	}
	return n, nil
}

// Lookup adapts the store into a category lookup function for ingestion.
func (s *Store) Lookup(ctx context.Context) (func(id string) (string, bool), error) {
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return func(id string) (string, bool) {
		category, ok := categories[id]
		return category, ok
	}, nil
}
