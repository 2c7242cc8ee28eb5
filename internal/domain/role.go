package domain

import "fmt"

// Role enumerates the closed set of account roles.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleClinician Role = "CLINICIAN"
	RolePatient   Role = "PATIENT"
)

// Known reports whether the role is one of the defined values.
func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleClinician, RolePatient:
		return true
	}
	return false
}

// ParseRole converts a raw string into a Role, rejecting anything outside the set.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.Known() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}
