// Package sqlite provides a SQLite-backed assignment storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/Bram-Hub/assign/internal/platform/storage/sqlitemigrate"
	"github.com/Bram-Hub/assign/internal/services/assign/storage"
	"github.com/Bram-Hub/assign/internal/services/assign/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists assignment server state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Compile-time contract assertions.
var (
	_ storage.TxBeginner = (*Store)(nil)
	_ storage.Reader     = (*Store)(nil)
)

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// BeginTx opens one transaction for a dispatched message.
func (s *Store) BeginTx(ctx context.Context) (storage.Txn, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return &Txn{tx: tx}, nil
}

// Txn wraps a SQLite transaction behind the narrow statement contract.
type Txn struct {
	tx *sql.Tx
}

// ExecContext executes one parameterized statement inside the transaction.
// Uniqueness violations surface as storage.ErrAlreadyExists so callers never
// inspect driver error codes.
func (t *Txn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, mapConstraintError(err)
	}
	return res, nil
}

// QueryRowContext runs one single-row query inside the transaction.
func (t *Txn) QueryRowContext(ctx context.Context, query string, args ...any) storage.Row {
	return t.tx.QueryRowContext(ctx, query, args...)
}

// Commit commits the transaction.
func (t *Txn) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction.
func (t *Txn) Rollback() error {
	return t.tx.Rollback()
}

// mapConstraintError converts driver uniqueness violations into the storage
// sentinel while leaving the original error in the chain.
func mapConstraintError(err error) error {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %v", storage.ErrAlreadyExists, err)
		}
	}
	return err
}

// GetUserByUsername returns the user record for a login name.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (storage.User, error) {
	if err := ctx.Err(); err != nil {
		return storage.User{}, err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return storage.User{}, fmt.Errorf("username is required")
	}
	var (
		user      storage.User
		createdAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, username, full_name, role, created_at FROM users WHERE username = ?`,
		username,
	).Scan(&user.ID, &user.Username, &user.FullName, &user.Role, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.User{}, storage.ErrNotFound
		}
		return storage.User{}, fmt.Errorf("get user: %w", err)
	}
	user.CreatedAt = fromMillis(createdAt)
	return user, nil
}

// GetClass returns one class record by id.
func (s *Store) GetClass(ctx context.Context, id int64) (storage.Class, error) {
	if err := ctx.Err(); err != nil {
		return storage.Class{}, err
	}
	var (
		class     storage.Class
		createdAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM classes WHERE id = ?`,
		id,
	).Scan(&class.ID, &class.Name, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Class{}, storage.ErrNotFound
		}
		return storage.Class{}, fmt.Errorf("get class: %w", err)
	}
	class.CreatedAt = fromMillis(createdAt)
	return class, nil
}

// GetAssignment returns one assignment record scoped to its class.
func (s *Store) GetAssignment(ctx context.Context, classID, id int64) (storage.Assignment, error) {
	if err := ctx.Err(); err != nil {
		return storage.Assignment{}, err
	}
	var (
		assignment storage.Assignment
		dueDate    int64
		createdAt  int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, class_id, name, due_date, created_at FROM assignments WHERE id = ? AND class_id = ?`,
		id, classID,
	).Scan(&assignment.ID, &assignment.ClassID, &assignment.Name, &dueDate, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Assignment{}, storage.ErrNotFound
		}
		return storage.Assignment{}, fmt.Errorf("get assignment: %w", err)
	}
	assignment.DueDate = fromMillis(dueDate)
	assignment.CreatedAt = fromMillis(createdAt)
	return assignment, nil
}
