package users

import (
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/identity"
)

// User is an account known to the identity server.
type User struct {
	ID           string
	Email        string
	Name         string
	Role         identity.Role
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}

// Claims returns the token payload describing u.
func (u *User) Claims() identity.Claims {
	active := u.IsActive
	return identity.Claims{
		UserID:   u.ID,
		Email:    u.Email,
		Role:     u.Role,
		Name:     u.Name,
		IsActive: &active,
	}
}
