// Package sqlite provides a SQLite-backed shelter storage implementation.
//
// It persists users, cats, posts, and lifecycle audit events, and exposes
// the transactional gateway the lifecycle engines compose their multi-step
// operations on.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/strayhq/shelter/internal/platform/storage/sqlitemigrate"
	"github.com/strayhq/shelter/internal/shelter/storage"
	"github.com/strayhq/shelter/internal/shelter/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists shelter state in SQLite.
type Store struct {
	sqlDB *sql.DB
	queries
}

// dbtx is satisfied by both *sql.DB and *sql.Tx so the same query methods
// serve bare calls and transaction-scoped calls.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type queries struct {
	db dbtx
}

// Open opens a SQLite shelter store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, queries: queries{db: sqlDB}}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// InTx runs fn against transaction-scoped queries. Any error from fn rolls
// the transaction back and is returned unchanged; otherwise the transaction
// commits.
func (s *Store) InTx(ctx context.Context, fn func(storage.Queries) error) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if fn == nil {
		return fmt.Errorf("transaction function is required")
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	q := queries{db: tx}
	if err := fn(&q); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// classifyConstraint maps SQLite constraint failures onto storage sentinels.
// Other errors pass through unchanged.
func classifyConstraint(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return storage.ErrDuplicate
		case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
			return storage.ErrForeignKey
		}
	}
	message := strings.ToLower(err.Error())
	if strings.Contains(message, "unique constraint failed") {
		return storage.ErrDuplicate
	}
	if strings.Contains(message, "foreign key constraint failed") {
		return storage.ErrForeignKey
	}
	return err
}

var _ storage.Gateway = (*Store)(nil)
