package domain

import "fmt"

// Role is the closed set of account roles. Role checks at the login gate and
// in the route allow-lists match against these values only.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleDonor     Role = "donor"
	RoleRecipient Role = "recipient"
)

// ParseRole maps a wire string to a Role. The empty string defaults to
// RoleRecipient, matching the registration default.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleDonor, RoleRecipient:
		return Role(s), nil
	case "":
		return RoleRecipient, nil
	}
	return "", fmt.Errorf("unknown role %q: %w", s, ErrValidation)
}

// IsUser reports whether the role belongs to the "user" login mode, i.e. any
// non-admin role.
func (r Role) IsUser() bool {
	return r == RoleDonor || r == RoleRecipient
}
