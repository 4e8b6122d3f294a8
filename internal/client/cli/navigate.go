package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/client/gate"
	"github.com/dmitrijs2005/gatekeeper/internal/client/rbac"
)

var errNotSignedIn = errors.New("not signed in")

// sleep is a test seam for the redirect grace delay.
var sleep = func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Can reports whether the current user holds perm.
func (a *App) Can(perm string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not signed in")
		return errNotSignedIn
	}
	if a.store.HasPermission(rbac.Permission(perm)) {
		fmt.Fprintf(a.out, "yes: %s\n", perm)
	} else {
		fmt.Fprintf(a.out, "no: %s\n", perm)
	}
	return nil
}

// Open navigates to path as the route gate allows.
func (a *App) Open(ctx context.Context, path string) error {
	d := a.gate.Decide(a.store.Snapshot(), path)

	switch d.Kind {
	case gate.Loading:
		fmt.Fprintln(a.out, "Session is still being checked")
		return nil
	case gate.Redirect:
		fmt.Fprintln(a.out, "Sign-in required")
		if err := sleep(ctx, d.Delay); err != nil {
			return err
		}
		a.navigate(d.Target)
		return nil
	case gate.Deny:
		fmt.Fprintf(a.out, "Access to %s denied\n", path)
		a.navigate(d.Target)
		return nil
	}

	if d.Degraded {
		fmt.Fprintln(a.out, "(unverified session)")
	}
	a.navigate(path)
	return nil
}

// Dashboard goes to the current user's dashboard.
func (a *App) Dashboard() error {
	if a.store.RedirectToDashboard() == "" {
		fmt.Fprintln(a.out, "Not signed in")
		return errNotSignedIn
	}
	return nil
}
