package message

import (
	"context"

	apperrors "github.com/Bram-Hub/assign/internal/platform/errors"
	"github.com/Bram-Hub/assign/internal/services/assign/domain/perm"
	"github.com/Bram-Hub/assign/internal/services/assign/storage"
)

// Type identifies a message variant on the wire.
type Type string

const (
	// TypeClassCreate creates a class.
	TypeClassCreate Type = "CLASS_CREATE"
	// TypeClassDelete deletes a class by id.
	TypeClassDelete Type = "CLASS_DELETE"
	// TypeClassEdit renames a class.
	TypeClassEdit Type = "CLASS_EDIT"
	// TypeUserCreate creates a server user.
	TypeUserCreate Type = "USER_CREATE"
	// TypeUserDelete deletes a server user by id.
	TypeUserDelete Type = "USER_DELETE"
	// TypeAssignmentCreate creates an assignment in a class.
	TypeAssignmentCreate Type = "ASSIGNMENT_CREATE"
	// TypeAssignmentDelete deletes an assignment from a class.
	TypeAssignmentDelete Type = "ASSIGNMENT_DELETE"
	// TypeAssignmentEdit edits an assignment's name and due date.
	TypeAssignmentEdit Type = "ASSIGNMENT_EDIT"
)

// Message is the contract every protocol message variant implements.
//
// A variant is immutable data plus behavior: it is produced whole by the
// registry's decode step, read during its pipeline run, and discarded once
// an outcome is produced.
type Message interface {
	// Type returns the variant's stable wire tag.
	Type() Type

	// RequiredPermission returns the permission this variant demands.
	// The tag is fixed by the variant, never by field values.
	RequiredPermission() perm.Permission

	// Validate is a pure, local check of the variant's own fields. It
	// never touches the store or the permission oracle, and it fails for
	// any zero-value instance.
	Validate() error

	// Execute issues the variant's store statements on the supplied
	// transaction handle. The dispatcher guarantees Validate and the
	// permission check have already passed.
	Execute(ctx context.Context, tx storage.Tx, principal perm.Principal) error
}

// Outcome is the single result of processing one message: the OK code or
// exactly one error code, never both and never neither.
type Outcome struct {
	// Code is the fixed-vocabulary outcome code clients branch on.
	Code apperrors.Code
	// Metadata carries template values for user-facing outcome text.
	Metadata map[string]string

	err error
}

// OK returns the explicit success outcome.
func OK() Outcome {
	return Outcome{Code: apperrors.CodeOK}
}

// Failure returns an outcome for the given error code.
func Failure(code apperrors.Code) Outcome {
	return Outcome{Code: code}
}

// Success reports whether the message was applied.
func (o Outcome) Success() bool {
	return o.Code == apperrors.CodeOK
}

// Err exposes the internal cause for logging. It is nil on success and may
// be nil for failures determined entirely within the core.
func (o Outcome) Err() error {
	return o.err
}
