package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gatekeeper/internal/identity"
)

var (
	// ErrValidation is an input error caught before any network call. It is
	// not counted against the login throttle.
	ErrValidation = errors.New("validation failed")
	// ErrLoginBlocked matches every *LockedError.
	ErrLoginBlocked = errors.New("login temporarily blocked")
)

// ValidateCredentials checks the shape of the sign-in form.
func ValidateCredentials(email, password string) error {
	if err := (identity.Credentials{Email: email, Password: password}).Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// LockedError is a sign-in refused because of, or resulting in, a lockout.
type LockedError struct {
	Minutes int
	// Err is the failure that triggered the lockout; nil when the attempt
	// was refused without contacting the server.
	Err error
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("too many failed login attempts, try again in %d %s", e.Minutes, plural(e.Minutes, "minute"))
}

func (e *LockedError) Is(target error) bool { return target == ErrLoginBlocked }

func (e *LockedError) Unwrap() error { return e.Err }

// AttemptError is a counted sign-in failure below the lockout threshold.
type AttemptError struct {
	Remaining int
	Err       error
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("%v: %d %s remaining", e.Err, e.Remaining, plural(e.Remaining, "attempt"))
}

func (e *AttemptError) Unwrap() error { return e.Err }

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
