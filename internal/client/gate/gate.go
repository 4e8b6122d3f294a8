// Package gate decides whether a route may be shown for the current session
// snapshot.
package gate

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/client/rbac"
	"github.com/dmitrijs2005/gatekeeper/internal/client/services"
)

const (
	LoginRoute = "/login"
	// DefaultGrace is how long an unauthenticated visitor stays on a route
	// before being sent to sign in.
	DefaultGrace = 100 * time.Millisecond
)

type Kind int

const (
	// Loading means the session is not settled; show nothing protected.
	Loading Kind = iota
	Allow
	// Redirect sends the visitor to sign in after Delay.
	Redirect
	// Deny sends the visitor to their own dashboard.
	Deny
)

func (k Kind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	case Deny:
		return "deny"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

type Decision struct {
	Kind   Kind
	Target string
	Delay  time.Duration
	// Degraded is set when access rests on unverified token claims.
	Degraded bool
}

type Gate struct {
	grace  time.Duration
	public []string
}

// New builds a gate. The home route and LoginRoute are always public;
// publicPaths adds more, matched on whole path segments.
func New(grace time.Duration, publicPaths ...string) *Gate {
	if grace < 0 {
		grace = 0
	}
	return &Gate{
		grace:  grace,
		public: append([]string{LoginRoute}, publicPaths...),
	}
}

func (g *Gate) IsPublic(path string) bool {
	if path == rbac.HomeRoute {
		return true
	}
	for _, p := range g.public {
		if rbac.HasPathPrefix(path, p) {
			return true
		}
	}
	return false
}

// Decide applies the route policy to path. Public routes are always
// allowed. An unauthenticated visitor is redirected to sign in after the
// grace delay. An authenticated visitor is allowed only under their role's
// default route; admin is also allowed under every other role's dashboard.
// Any other path is denied and sends the visitor to their own dashboard.
func (g *Gate) Decide(snap services.Snapshot, path string) Decision {
	if g.IsPublic(path) {
		return Decision{Kind: Allow, Degraded: snap.State == services.StateDegraded}
	}

	switch snap.State {
	case services.StateAuthenticated, services.StateDegraded:
	case services.StateUnauthenticated:
		return Decision{Kind: Redirect, Target: LoginTarget(path), Delay: g.grace}
	default:
		return Decision{Kind: Loading}
	}

	if snap.User == nil {
		return Decision{Kind: Loading}
	}
	d := Decision{Kind: Allow, Degraded: snap.State == services.StateDegraded}
	if !rbac.CanAccess(snap.User.Role, path) {
		d.Kind = Deny
		d.Target = rbac.DefaultRouteFor(snap.User.Role)
	}
	return d
}

// LoginTarget is the sign-in route that returns to path afterwards.
func LoginTarget(path string) string {
	return LoginRoute + "?redirect=" + url.QueryEscape(path)
}
