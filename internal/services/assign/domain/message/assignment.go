package message

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/Bram-Hub/assign/internal/platform/errors"
	"github.com/Bram-Hub/assign/internal/services/assign/domain/perm"
	"github.com/Bram-Hub/assign/internal/services/assign/storage"
)

// AssignmentCreate creates an assignment inside a class.
type AssignmentCreate struct {
	ClassID int64     `json:"class_id"`
	Name    string    `json:"name"`
	DueDate time.Time `json:"due_date"`
}

// Type returns the variant's wire tag.
func (AssignmentCreate) Type() Type { return TypeAssignmentCreate }

// RequiredPermission returns the permission this variant demands.
func (AssignmentCreate) RequiredPermission() perm.Permission {
	return perm.PermAssignmentCreateDelete
}

// Validate checks the class id, name, and due date.
func (m AssignmentCreate) Validate() error {
	if m.ClassID <= 0 {
		return apperrors.New(apperrors.CodeClassIDInvalid, "class id must be positive")
	}
	if strings.TrimSpace(m.Name) == "" {
		return apperrors.New(apperrors.CodeAssignmentNameEmpty, "assignment name is required")
	}
	if m.DueDate.IsZero() {
		return apperrors.New(apperrors.CodeAssignmentDueInvalid, "assignment due date is required")
	}
	return nil
}

// Execute verifies the class exists, then inserts the assignment.
func (m AssignmentCreate) Execute(ctx context.Context, tx storage.Tx, _ perm.Principal) error {
	if err := classExists(ctx, tx, m.ClassID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO assignments (class_id, name, due_date, created_at) VALUES (?, ?, ?, ?)`,
		m.ClassID,
		strings.TrimSpace(m.Name),
		m.DueDate.UTC().UnixMilli(),
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

// AssignmentDelete deletes an assignment from a class.
type AssignmentDelete struct {
	ClassID      int64 `json:"class_id"`
	AssignmentID int64 `json:"assignment_id"`
}

// Type returns the variant's wire tag.
func (AssignmentDelete) Type() Type { return TypeAssignmentDelete }

// RequiredPermission returns the permission this variant demands.
func (AssignmentDelete) RequiredPermission() perm.Permission {
	return perm.PermAssignmentCreateDelete
}

// Validate checks both identifiers are positive.
func (m AssignmentDelete) Validate() error {
	if m.ClassID <= 0 {
		return apperrors.New(apperrors.CodeClassIDInvalid, "class id must be positive")
	}
	if m.AssignmentID <= 0 {
		return apperrors.New(apperrors.CodeAssignmentIDInvalid, "assignment id must be positive")
	}
	return nil
}

// Execute deletes the assignment row scoped to its class. An already-absent
// target reports NOT_FOUND.
func (m AssignmentDelete) Execute(ctx context.Context, tx storage.Tx, _ perm.Principal) error {
	res, err := tx.ExecContext(ctx,
		`DELETE FROM assignments WHERE id = ? AND class_id = ?`,
		m.AssignmentID,
		m.ClassID,
	)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete assignment rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.WithMetadata(apperrors.CodeNotFound,
			fmt.Sprintf("assignment %d not found in class %d", m.AssignmentID, m.ClassID),
			map[string]string{
				"AssignmentID": strconv.FormatInt(m.AssignmentID, 10),
				"ClassID":      strconv.FormatInt(m.ClassID, 10),
			},
		)
	}
	return nil
}

// AssignmentEdit replaces an assignment's name and due date.
type AssignmentEdit struct {
	ClassID      int64     `json:"class_id"`
	AssignmentID int64     `json:"assignment_id"`
	Name         string    `json:"name"`
	DueDate      time.Time `json:"due_date"`
}

// Type returns the variant's wire tag.
func (AssignmentEdit) Type() Type { return TypeAssignmentEdit }

// RequiredPermission returns the permission this variant demands.
func (AssignmentEdit) RequiredPermission() perm.Permission { return perm.PermAssignmentEdit }

// Validate checks identifiers, name, and due date.
func (m AssignmentEdit) Validate() error {
	if m.ClassID <= 0 {
		return apperrors.New(apperrors.CodeClassIDInvalid, "class id must be positive")
	}
	if m.AssignmentID <= 0 {
		return apperrors.New(apperrors.CodeAssignmentIDInvalid, "assignment id must be positive")
	}
	if strings.TrimSpace(m.Name) == "" {
		return apperrors.New(apperrors.CodeAssignmentNameEmpty, "assignment name is required")
	}
	if m.DueDate.IsZero() {
		return apperrors.New(apperrors.CodeAssignmentDueInvalid, "assignment due date is required")
	}
	return nil
}

// Execute updates the assignment row scoped to its class.
func (m AssignmentEdit) Execute(ctx context.Context, tx storage.Tx, _ perm.Principal) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE assignments SET name = ?, due_date = ? WHERE id = ? AND class_id = ?`,
		strings.TrimSpace(m.Name),
		m.DueDate.UTC().UnixMilli(),
		m.AssignmentID,
		m.ClassID,
	)
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update assignment rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.WithMetadata(apperrors.CodeNotFound,
			fmt.Sprintf("assignment %d not found in class %d", m.AssignmentID, m.ClassID),
			map[string]string{
				"AssignmentID": strconv.FormatInt(m.AssignmentID, 10),
				"ClassID":      strconv.FormatInt(m.ClassID, 10),
			},
		)
	}
	return nil
}

// classExists reports NOT_FOUND when the class row is absent.
func classExists(ctx context.Context, tx storage.Tx, classID int64) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM classes WHERE id = ?`, classID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.WithMetadata(apperrors.CodeNotFound,
				fmt.Sprintf("class %d not found", classID),
				map[string]string{"ClassID": strconv.FormatInt(classID, 10)},
			)
		}
		return fmt.Errorf("check class exists: %w", err)
	}
	return nil
}
