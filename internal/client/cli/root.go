package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gatekeeper/internal/client/services"
)

func (a *App) getStatus() string {
	snap := a.store.Snapshot()
	switch snap.State {
	case services.StateAuthenticated:
		return fmt.Sprintf("(%s %s)", snap.User.Email, snap.User.Role)
	case services.StateDegraded:
		return fmt.Sprintf("(%s %s, offline)", snap.User.Email, snap.User.Role)
	case services.StateUnauthenticated:
		return "(signed out)"
	default:
		return ""
	}
}

// Root checks the session, then runs the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Gatekeeper session client (type 'help' for commands)")

	_ = a.Check(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}
