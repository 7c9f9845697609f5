package message

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/Bram-Hub/assign/internal/platform/errors"
	"github.com/Bram-Hub/assign/internal/services/assign/domain/perm"
	"github.com/Bram-Hub/assign/internal/services/assign/storage"
)

// UserCreate creates a server user.
type UserCreate struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Type returns the variant's wire tag.
func (UserCreate) Type() Type { return TypeUserCreate }

// RequiredPermission returns the permission this variant demands.
func (UserCreate) RequiredPermission() perm.Permission { return perm.PermUserEdit }

// Validate checks the username and role.
func (m UserCreate) Validate() error {
	if strings.TrimSpace(m.Username) == "" {
		return apperrors.New(apperrors.CodeUserNameEmpty, "username is required")
	}
	if !perm.ValidRole(perm.Role(m.Role)) {
		return apperrors.WithMetadata(apperrors.CodeUserRoleInvalid,
			fmt.Sprintf("unknown role %q", m.Role),
			map[string]string{"Role": m.Role},
		)
	}
	return nil
}

// Execute inserts the user record. A taken username reports
// USER_ALREADY_EXISTS via the store's uniqueness sentinel.
func (m UserCreate) Execute(ctx context.Context, tx storage.Tx, _ perm.Principal) error {
	username := strings.TrimSpace(m.Username)
	_, err := tx.ExecContext(ctx,
		`INSERT INTO users (username, full_name, role, created_at) VALUES (?, ?, ?, ?)`,
		username,
		strings.TrimSpace(m.FullName),
		m.Role,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return apperrors.WithMetadata(apperrors.CodeUserExists,
				fmt.Sprintf("username %q is taken", username),
				map[string]string{"Username": username},
			)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UserDelete deletes a server user by id.
type UserDelete struct {
	UserID int64 `json:"user_id"`
}

// Type returns the variant's wire tag.
func (UserDelete) Type() Type { return TypeUserDelete }

// RequiredPermission returns the permission this variant demands.
func (UserDelete) RequiredPermission() perm.Permission { return perm.PermUserEdit }

// Validate checks the target user id is positive.
func (m UserDelete) Validate() error {
	if m.UserID <= 0 {
		return apperrors.New(apperrors.CodeUserIDInvalid, "user id must be positive")
	}
	return nil
}

// Execute deletes the user row. Principals cannot delete themselves, and an
// already-absent target reports NOT_FOUND.
func (m UserDelete) Execute(ctx context.Context, tx storage.Tx, principal perm.Principal) error {
	if principal.ID == m.UserID {
		return apperrors.New(apperrors.CodeUserSelfDelete, "principal cannot delete itself")
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, m.UserID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.WithMetadata(apperrors.CodeNotFound,
			fmt.Sprintf("user %d not found", m.UserID),
			map[string]string{"UserID": strconv.FormatInt(m.UserID, 10)},
		)
	}
	return nil
}
