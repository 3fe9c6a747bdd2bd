package domain

import (
	"fmt"
	"strings"
)

// Role is a closed enumeration of caller categories. Values are stored and
// compared in lower case; ParseRole is the single place where free-form role
// strings enter the system.
type Role string

const (
	RoleSuperAdmin    Role = "superadmin"
	RoleContentAdmin  Role = "contentadmin"
	RoleDeliveryAdmin Role = "deliveryadmin"
	RoleSeller        Role = "seller"
	RoleCustomer      Role = "customer"
)

// ValidRoles returns the set of valid roles.
func ValidRoles() []Role {
	return []Role{RoleSuperAdmin, RoleContentAdmin, RoleDeliveryAdmin, RoleSeller, RoleCustomer}
}

// ParseRole normalizes and validates a role string. Comparison is
// case-insensitive, so "Seller" and "seller" parse to the same role.
// An unrecognized role is rejected rather than silently matching nothing.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range ValidRoles() {
		if r == valid {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// IsAdmin reports whether the role is one of the administrator roles.
func (r Role) IsAdmin() bool {
	return r == RoleSuperAdmin || r == RoleContentAdmin || r == RoleDeliveryAdmin
}

func (r Role) String() string {
	return string(r)
}
