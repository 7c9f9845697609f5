// Package storage defines persistence contracts for the assignment server core.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
var ErrAlreadyExists = errors.New("record already exists")

// Row is a single-row result ready to scan.
type Row interface {
	Scan(dest ...any) error
}

// Tx is the narrow statement handle messages execute against: parameterized
// statement execution inside an open transaction, no connection control.
type Tx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) Row
}

// Txn is an open transaction. The dispatcher owns its lifetime; messages
// only ever see the embedded Tx.
type Txn interface {
	Tx
	Commit() error
	Rollback() error
}

// TxBeginner opens one transaction per dispatched message.
type TxBeginner interface {
	BeginTx(ctx context.Context) (Txn, error)
}

// User stores one server user record.
type User struct {
	ID        int64
	Username  string
	FullName  string
	Role      string
	CreatedAt time.Time
}

// Class stores one class record.
type Class struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Assignment stores one assignment record scoped to a class.
type Assignment struct {
	ID        int64
	ClassID   int64
	Name      string
	DueDate   time.Time
	CreatedAt time.Time
}

// Reader provides read access to stored records outside the message
// pipeline.
type Reader interface {
	GetUserByUsername(ctx context.Context, username string) (User, error)
	GetClass(ctx context.Context, id int64) (Class, error)
	GetAssignment(ctx context.Context, classID, id int64) (Assignment, error)
}
