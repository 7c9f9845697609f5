package message

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/Bram-Hub/assign/internal/platform/errors"
	"github.com/Bram-Hub/assign/internal/services/assign/domain/perm"
	"github.com/Bram-Hub/assign/internal/services/assign/storage"
)

// ClassCreate creates a class with the given name.
type ClassCreate struct {
	Name string `json:"name"`
}

// Type returns the variant's wire tag.
func (ClassCreate) Type() Type { return TypeClassCreate }

// RequiredPermission returns the permission this variant demands.
func (ClassCreate) RequiredPermission() perm.Permission { return perm.PermClassCreateDelete }

// Validate checks the class name is present.
func (m ClassCreate) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return apperrors.New(apperrors.CodeClassNameEmpty, "class name is required")
	}
	return nil
}

// Execute inserts the class record.
func (m ClassCreate) Execute(ctx context.Context, tx storage.Tx, _ perm.Principal) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO classes (name, created_at) VALUES (?, ?)`,
		strings.TrimSpace(m.Name),
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert class: %w", err)
	}
	return nil
}

// ClassDelete deletes a class by id. Deleting a class cascades to its
// membership and assignments at the schema level.
type ClassDelete struct {
	ClassID int64 `json:"class_id"`
}

// Type returns the variant's wire tag.
func (ClassDelete) Type() Type { return TypeClassDelete }

// RequiredPermission returns the permission this variant demands.
func (ClassDelete) RequiredPermission() perm.Permission { return perm.PermClassCreateDelete }

// Validate checks the target class id is positive.
func (m ClassDelete) Validate() error {
	if m.ClassID <= 0 {
		return apperrors.New(apperrors.CodeClassIDInvalid, "class id must be positive")
	}
	return nil
}

// Execute deletes the class row. An already-absent target reports NOT_FOUND
// so repeated deletes stay idempotent rather than surfacing a store fault.
func (m ClassDelete) Execute(ctx context.Context, tx storage.Tx, _ perm.Principal) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM classes WHERE id = ?`, m.ClassID)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete class rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.WithMetadata(apperrors.CodeNotFound,
			fmt.Sprintf("class %d not found", m.ClassID),
			map[string]string{"ClassID": strconv.FormatInt(m.ClassID, 10)},
		)
	}
	return nil
}

// ClassEdit renames a class.
type ClassEdit struct {
	ClassID int64  `json:"class_id"`
	Name    string `json:"name"`
}

// Type returns the variant's wire tag.
func (ClassEdit) Type() Type { return TypeClassEdit }

// RequiredPermission returns the permission this variant demands.
func (ClassEdit) RequiredPermission() perm.Permission { return perm.PermClassEdit }

// Validate checks the target id and the replacement name.
func (m ClassEdit) Validate() error {
	if m.ClassID <= 0 {
		return apperrors.New(apperrors.CodeClassIDInvalid, "class id must be positive")
	}
	if strings.TrimSpace(m.Name) == "" {
		return apperrors.New(apperrors.CodeClassNameEmpty, "class name is required")
	}
	return nil
}

// Execute updates the class name.
func (m ClassEdit) Execute(ctx context.Context, tx storage.Tx, _ perm.Principal) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE classes SET name = ? WHERE id = ?`,
		strings.TrimSpace(m.Name),
		m.ClassID,
	)
	if err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update class rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.WithMetadata(apperrors.CodeNotFound,
			fmt.Sprintf("class %d not found", m.ClassID),
			map[string]string{"ClassID": strconv.FormatInt(m.ClassID, 10)},
		)
	}
	return nil
}
