package rbac

import (
	"strings"

	"github.com/dmitrijs2005/gatekeeper/internal/identity"
)

// HomeRoute is where a role without a dashboard is sent.
const HomeRoute = "/"

var defaultRoutes = map[identity.Role]string{
	identity.RoleAdmin:     "/admin",
	identity.RoleClient:    "/client",
	identity.RoleDeveloper: "/developer",
}

// DefaultRouteFor returns the dashboard a role lands on after sign-in.
func DefaultRouteFor(role identity.Role) string {
	if r, ok := defaultRoutes[role]; ok {
		return r
	}
	return HomeRoute
}

// DashboardRoutes lists the dashboard root of every role, in identity.Roles order.
func DashboardRoutes() []string {
	out := make([]string, 0, len(identity.Roles))
	for _, role := range identity.Roles {
		out = append(out, defaultRoutes[role])
	}
	return out
}

// IsDashboardPath reports whether path lies under any role's dashboard.
func IsDashboardPath(path string) bool {
	for _, root := range defaultRoutes {
		if HasPathPrefix(path, root) {
			return true
		}
	}
	return false
}

// CanAccess reports whether role may open path: its own dashboard prefix
// must match, except that admin may open every role's dashboard.
func CanAccess(role identity.Role, path string) bool {
	if r, ok := defaultRoutes[role]; ok && HasPathPrefix(path, r) {
		return true
	}
	return role == identity.RoleAdmin && IsDashboardPath(path)
}

// HasPathPrefix is a prefix match on whole path segments, so "/admin"
// covers "/admin" and "/admin/users" but not "/administrators".
func HasPathPrefix(path, prefix string) bool {
	if prefix == "/" {
		return strings.HasPrefix(path, "/")
	}
	prefix = strings.TrimSuffix(prefix, "/")
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || rest[0] == '/' || rest[0] == '?' || rest[0] == '#'
}
