// Package perm defines the permission tags messages require and the oracle
// that decides whether a principal holds them.
//
// The core only consumes the one-method Oracle interface; rule storage
// beyond the shipped role-rank table belongs to the surrounding service.
package perm

// Permission is a named capability a principal may or may not hold.
type Permission string

const (
	// PermUserList allows listing server users.
	PermUserList Permission = "USER_LIST"
	// PermUserEdit allows creating, editing, and deleting users.
	PermUserEdit Permission = "USER_EDIT"
	// PermClassCreateDelete allows creating and deleting classes.
	PermClassCreateDelete Permission = "CLASS_CREATE_DELETE"
	// PermClassEdit allows renaming classes and managing membership.
	PermClassEdit Permission = "CLASS_EDIT"
	// PermAssignmentCreateDelete allows creating and deleting assignments.
	PermAssignmentCreateDelete Permission = "ASSIGNMENT_CREATE_DELETE"
	// PermAssignmentEdit allows editing assignments.
	PermAssignmentEdit Permission = "ASSIGNMENT_EDIT"
	// PermProblemCreateDelete allows creating and deleting problems.
	PermProblemCreateDelete Permission = "PROBLEM_CREATE_DELETE"
)

// Role identifies a principal's server role.
type Role string

const (
	// RoleAdmin is the unrestricted server administrator role.
	RoleAdmin Role = "admin"
	// RoleInstructor runs classes and assignments.
	RoleInstructor Role = "instructor"
	// RoleTA assists with assignments inside a class.
	RoleTA Role = "ta"
	// RoleStudent submits work; holds no management capability.
	RoleStudent Role = "student"
)

// rank orders roles by authority; lower values hold more capability.
func rank(role Role) (int, bool) {
	switch role {
	case RoleAdmin:
		return 1, true
	case RoleInstructor:
		return 2, true
	case RoleTA:
		return 3, true
	case RoleStudent:
		return 4, true
	default:
		return 0, false
	}
}

// ValidRole reports whether role is one of the known server roles.
func ValidRole(role Role) bool {
	_, ok := rank(role)
	return ok
}

// Principal is the authenticated actor a message executes on behalf of.
type Principal struct {
	ID       int64
	Username string
	Role     Role
}

// Oracle answers whether a principal holds a permission.
type Oracle interface {
	HasPermission(principal Principal, permission Permission) bool
}

// Roles is a role-rank permission oracle: each permission carries the
// minimum role rank allowed to exercise it.
type Roles struct {
	minRank map[Permission]int
}

// DefaultRoles returns the stock permission table: admins hold everything,
// instructors manage their classes and assignments, TAs may edit
// assignments, students hold no management permissions.
func DefaultRoles() *Roles {
	return &Roles{minRank: map[Permission]int{
		PermUserList:               2,
		PermUserEdit:               1,
		PermClassCreateDelete:      2,
		PermClassEdit:              2,
		PermAssignmentCreateDelete: 2,
		PermAssignmentEdit:         3,
		PermProblemCreateDelete:    2,
	}}
}

// HasPermission reports whether the principal's role meets the permission's
// minimum rank. Unknown roles and unknown permissions hold nothing.
func (r *Roles) HasPermission(principal Principal, permission Permission) bool {
	if r == nil {
		return false
	}
	roleRank, ok := rank(principal.Role)
	if !ok {
		return false
	}
	required, ok := r.minRank[permission]
	if !ok {
		return false
	}
	return roleRank <= required
}
