package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gatekeeper/internal/identity"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
)

// SeedAdmin creates an active admin account for email unless one already
// exists. An empty email skips seeding. It reports whether a user was created.
func SeedAdmin(ctx context.Context, s *Service, email, password string, log logging.Logger) (bool, error) {
	if email == "" {
		return false, nil
	}

	_, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		log.Debug(ctx, "admin exists, skipping seed", "email", email)
		return false, nil
	case !errors.Is(err, ErrNotFound):
		return false, fmt.Errorf("checking seed admin: %w", err)
	}

	if _, err := s.Register(ctx, email, "Administrator", password, identity.RoleAdmin); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return false, nil
		}
		return false, fmt.Errorf("creating seed admin: %w", err)
	}

	log.Warn(ctx, "seed admin account created", "email", email, "action_required", "change the seed password")
	return true, nil
}
