package auth

import "errors"

// RBAC roles
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// Permissions per role
var Permissions = map[string][]string{
	RoleAdmin: {
		"users:read",
		"users:write",
		"users:delete",
		"classes:write",
		"subjects:write",
		"notices:write",
		"registrations:decide",
		"system:admin",
	},
	RoleTeacher: {
		"users:read",
		"grades:write",
		"assignments:write",
		"classes:read",
		"subjects:read",
	},
	RoleStudent: {
		"users:read:self",
		"grades:read:self",
		"assignments:read",
		"classes:read",
	},
}

// HasPermission reports whether the role carries the permission.
func HasPermission(role, permission string) bool {
	permissions, exists := Permissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// CanPerformAction reports whether the token holder may perform the action.
func CanPerformAction(claims *Claims, permission string) bool {
	return HasPermission(claims.Role, permission)
}

// IsAdmin reports whether the token holder is an administrator.
func IsAdmin(claims *Claims) bool {
	return claims.Role == RoleAdmin
}

// IsStaff reports whether the token holder is a teacher or administrator.
func IsStaff(claims *Claims) bool {
	return claims.Role == RoleTeacher || claims.Role == RoleAdmin
}

// ValidateRole checks that the role is one of the known roles.
func ValidateRole(role string) error {
	switch role {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return nil
	default:
		return errors.New("invalid role")
	}
}
