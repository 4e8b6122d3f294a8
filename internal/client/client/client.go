package client

import (
	"context"

	"github.com/dmitrijs2005/gatekeeper/internal/identity"
)

// LoginResponse is a successful sign-in: the user and the credential token.
type LoginResponse struct {
	User  *identity.Claims `json:"user"`
	Token string           `json:"token"`
}

type Client interface {
	Close() error
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	Logout(ctx context.Context) error
	// Verify asks the server who the caller is. A non-empty token is sent as a
	// bearer credential; cookies are always sent.
	Verify(ctx context.Context, token string) (*identity.Claims, error)

	// Cookie mirror of the persisted token.
	MirrorToken(token string)
	HasAuthCookie() bool
	ClearAuthCookie(match string)
}
