// Package identity holds what the session client and the identity service
// agree on about a user: the closed set of roles, the token claims and the
// shape of sign-in credentials.
package identity

import (
	"fmt"
	"strings"
)

// Role is an authorisation tier. The set is closed.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleClient    Role = "client"
	RoleDeveloper Role = "developer"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleClient, RoleDeveloper}

// Valid reports whether r is one of Roles.
func (r Role) Valid() bool {
	for _, v := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

// ParseRole converts s to a Role, ignoring case and surrounding spaces.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}
