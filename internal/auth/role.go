package auth

import "strings"

// Role is the closed set of permission levels a user can hold.
type Role int

const (
	RoleCustomer Role = iota
	RoleAdmin
	RoleSuperAdmin
)

// ParseRole maps a profile role string to a Role. Anything unrecognised is a
// customer.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin
	case "super_admin", "superadmin":
		return RoleSuperAdmin
	default:
		return RoleCustomer
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleSuperAdmin:
		return "super_admin"
	default:
		return "customer"
	}
}

// AtLeast reports whether r grants everything min grants.
func (r Role) AtLeast(min Role) bool {
	return r >= min
}

func (r Role) IsAdmin() bool      { return r.AtLeast(RoleAdmin) }
func (r Role) IsSuperAdmin() bool { return r == RoleSuperAdmin }

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
