package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/identity"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactive           = errors.New("account is disabled")
	ErrUnknownUser        = errors.New("user no longer exists")
)

type Service struct {
	repo             Repository
	jwtSecret        []byte
	validityDuration time.Duration
}

func NewService(repo Repository, secretKey string, validityDuration time.Duration) *Service {
	return &Service{
		repo:             repo,
		jwtSecret:        []byte(secretKey),
		validityDuration: validityDuration,
	}
}

// TokenTTL is the lifetime of issued tokens.
func (s *Service) TokenTTL() time.Duration {
	return s.validityDuration
}

// Register creates an active user with the given role.
func (s *Service) Register(ctx context.Context, email, name, password string, role identity.Role) (*User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w %q", identity.ErrUnknownRole, role)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, &User{
		Email:        strings.TrimSpace(email),
		Name:         name,
		Role:         role,
		PasswordHash: hash,
		IsActive:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login checks the credentials and returns the user together with a signed
// token. Unknown emails and wrong passwords are indistinguishable.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, "", fmt.Errorf("stored hash for %s: %w", user.ID, err)
	}
	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, "", ErrInactive
	}

	token, err := auth.GenerateToken(user.Claims(), s.jwtSecret, s.validityDuration)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Verify validates token and re-reads its user, which must still exist and
// be active. Token problems come back as auth.ErrInvalidToken or
// auth.ErrTokenExpired.
func (s *Service) Verify(ctx context.Context, token string) (*User, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, claims.Identifier())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInactive
	}

	return user, nil
}
