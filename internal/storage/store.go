// Package storage persists the ledger in SQLite and runs the aggregate
// queries the engines are built on. Every mutating command executes inside
// a single database transaction so cascades are all-or-nothing.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"financx/internal/core"

	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed persistent store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at dbPath, applies
// pending migrations and returns a ready Store. Pass ":memory:" for an
// ephemeral database in tests.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// SQLite does not benefit from multiple connections, and a single
	// connection keeps session pragmas and :memory: databases stable.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on failure.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// isUniqueViolation matches the driver's UNIQUE constraint error. Both
// account and category names carry UNIQUE COLLATE NOCASE indexes.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// mapNotFound turns sql.ErrNoRows into the domain's not-found error.
func mapNotFound(err error) error {
	if err == sql.ErrNoRows {
		return core.ErrNotFound
	}
	return err
}
