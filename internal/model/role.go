package model

import "strings"

// Role is an authorization level assigned to an authenticated user.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleStudent Role = "STUDENT"
)

// ParseRole normalizes a raw role string and maps it into the closed role
// set. It returns false when the value does not name a known role.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleManager:
		return RoleManager, true
	case RoleStudent:
		return RoleStudent, true
	}
	return "", false
}

// Managerial reports whether the role uses the management surfaces of the
// platform rather than the student ones.
func (r Role) Managerial() bool {
	return r == RoleAdmin || r == RoleManager
}
