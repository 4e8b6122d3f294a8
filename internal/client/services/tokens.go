package services

import (
	"context"

	"github.com/dmitrijs2005/gatekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/dbx"
)

func (s *SessionStore) loadToken(ctx context.Context) (string, error) {
	v, err := s.getMetadataRepo().Get(ctx, common.TokenKey)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// saveSession persists the token and the UI hints in one transaction.
func (s *SessionStore) saveSession(ctx context.Context, token string, u *User) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.TokenKey, []byte(token)); err != nil {
			return err
		}
		return setHints(ctx, repo, u)
	})
}

func (s *SessionStore) saveHints(ctx context.Context, u *User) error {
	return setHints(ctx, s.getMetadataRepo(), u)
}

func setHints(ctx context.Context, repo metadata.Repository, u *User) error {
	if err := repo.Set(ctx, common.EmailHintKey, []byte(u.Email)); err != nil {
		return err
	}
	return repo.Set(ctx, common.RoleHintKey, []byte(u.Role))
}

// clearSession removes the token and the hints. The throttle record stays.
func (s *SessionStore) clearSession(ctx context.Context) error {
	return s.getMetadataRepo().Delete(ctx, common.TokenKey, common.EmailHintKey, common.RoleHintKey)
}

// deleteTokenIf removes the stored token only while it still equals token.
func (s *SessionStore) deleteTokenIf(ctx context.Context, token string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		cur, err := repo.Get(ctx, common.TokenKey)
		if err != nil {
			return err
		}
		if string(cur) != token {
			return nil
		}
		return repo.Delete(ctx, common.TokenKey)
	})
}

// Hint is the last known sign-in, for display only.
type Hint struct {
	Email string
	Role  string
}

// LastHint returns the stored UI hints, if any. It is never an
// authorization source.
func (s *SessionStore) LastHint(ctx context.Context) (Hint, bool) {
	repo := s.getMetadataRepo()
	email, err := repo.Get(ctx, common.EmailHintKey)
	if err != nil {
		s.log.Debug(ctx, "read ui hints", "error", err)
		return Hint{}, false
	}
	if email == nil {
		return Hint{}, false
	}
	role, _ := repo.Get(ctx, common.RoleHintKey)
	return Hint{Email: string(email), Role: string(role)}, true
}
