package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gatekeeper/internal/client/client"
	"github.com/dmitrijs2005/gatekeeper/internal/client/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and signs in through the SessionStore.
// Validation, throttle and server errors are printed and returned.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	u, err := a.store.Login(ctx, email, password)
	if err != nil {
		fmt.Fprintln(a.out, loginMessage(err))
		return err
	}

	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", u.Email, u.Role)
	return nil
}

func loginMessage(err error) string {
	var (
		locked  *services.LockedError
		attempt *services.AttemptError
	)
	switch {
	case errors.Is(err, services.ErrValidation):
		return err.Error()
	case errors.As(err, &locked):
		return fmt.Sprintf("Too many failed attempts. Try again in %d minute(s).", locked.Minutes)
	case errors.As(err, &attempt):
		reason := "Invalid credentials"
		switch {
		case errors.Is(err, client.ErrUnavailable):
			reason = "Server unavailable"
		case errors.Is(err, client.ErrInvalidResponse):
			reason = "Invalid server response"
		}
		return fmt.Sprintf("%s. %d attempt(s) remaining.", reason, attempt.Remaining)
	default:
		return fmt.Sprintf("Login failed: %v", err)
	}
}

// Logout signs out. Local state is cleared even if the server is unreachable.
func (a *App) Logout(ctx context.Context) error {
	err := a.store.Logout(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Signed out, but local data could not be fully cleared:", err)
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

// Check re-runs session verification and reports the result.
func (a *App) Check(ctx context.Context) error {
	snap := a.store.Check(ctx)
	switch snap.State {
	case services.StateAuthenticated:
		fmt.Fprintf(a.out, "Session verified: %s (%s)\n", snap.User.Email, snap.User.Role)
	case services.StateDegraded:
		fmt.Fprintf(a.out, "WARNING: identity service unreachable; using unverified session for %s (%s)\n",
			snap.User.Email, snap.User.Role)
	case services.StateUnauthenticated:
		fmt.Fprintln(a.out, "Not signed in")
	}
	return nil
}

// Whoami prints the current identity. While signed out it shows the last
// known sign-in, which is only a hint.
func (a *App) Whoami(ctx context.Context) error {
	snap := a.store.Snapshot()
	if snap.User == nil {
		if h, ok := a.store.LastHint(ctx); ok {
			fmt.Fprintf(a.out, "Not signed in (last signed in as %s, %s)\n", h.Email, h.Role)
		} else {
			fmt.Fprintln(a.out, "Not signed in")
		}
		return nil
	}

	u := snap.User
	fmt.Fprintf(a.out, "id:          %s\n", u.ID)
	fmt.Fprintf(a.out, "email:       %s\n", u.Email)
	if u.Name != "" {
		fmt.Fprintf(a.out, "name:        %s\n", u.Name)
	}
	fmt.Fprintf(a.out, "role:        %s\n", u.Role)
	fmt.Fprintf(a.out, "session:     %s\n", snap.State)

	perms := make([]string, 0, len(u.Permissions))
	for _, p := range u.Permissions.Sorted() {
		perms = append(perms, string(p))
	}
	fmt.Fprintf(a.out, "permissions: %v\n", perms)
	return nil
}
