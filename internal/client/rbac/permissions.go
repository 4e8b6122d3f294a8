// Package rbac is the static role table of the client: what each role may do
// and where each role lands after sign-in. Everything here is pure and fixed
// for the life of the process.
package rbac

import (
	"slices"

	"github.com/dmitrijs2005/gatekeeper/internal/identity"
)

// Permission represents a named capability.
type Permission string

const (
	PermDashboardView    Permission = "dashboard:view"
	PermProfileEdit      Permission = "profile:edit"
	PermMessagesSend     Permission = "messages:send"
	PermProjectsView     Permission = "projects:view"
	PermProjectsCreate   Permission = "projects:create"
	PermProjectsManage   Permission = "projects:manage"
	PermDevelopersView   Permission = "developers:view"
	PermDevelopersManage Permission = "developers:manage"
	PermUsersManage      Permission = "users:manage"
	PermAnalyticsView    Permission = "analytics:view"
	PermSettingsManage   Permission = "settings:manage"
)

// rolePermissions is the single source of truth for what a role may do.
var rolePermissions = map[identity.Role][]Permission{
	identity.RoleAdmin: {
		PermDashboardView,
		PermProfileEdit,
		PermMessagesSend,
		PermProjectsView,
		PermProjectsCreate,
		PermProjectsManage,
		PermDevelopersView,
		PermDevelopersManage,
		PermUsersManage,
		PermAnalyticsView,
		PermSettingsManage,
	},
	identity.RoleClient: {
		PermDashboardView,
		PermProfileEdit,
		PermMessagesSend,
		PermProjectsView,
		PermProjectsCreate,
		PermDevelopersView,
	},
	identity.RoleDeveloper: {
		PermDashboardView,
		PermProfileEdit,
		PermMessagesSend,
		PermProjectsView,
	},
}

// PermissionSet is an unordered set of permissions.
type PermissionSet map[Permission]struct{}

// Has reports whether p is in the set. A nil set has nothing.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Sorted returns the members in lexical order.
func (s PermissionSet) Sorted() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Equal reports whether both sets hold the same permissions.
func (s PermissionSet) Equal(o PermissionSet) bool {
	if len(s) != len(o) {
		return false
	}
	for p := range s {
		if !o.Has(p) {
			return false
		}
	}
	return true
}

// PermissionsFor returns a fresh set for role. Unknown roles get an empty set.
func PermissionsFor(role identity.Role) PermissionSet {
	perms := rolePermissions[role]
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}
