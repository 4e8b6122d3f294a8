package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformedToken means the token could not be decoded. Callers must
	// read it as "unknown", never as "unauthenticated".
	ErrMalformedToken = errors.New("malformed token")
	// ErrIncompleteClaims means the payload decoded but lacks an id, email or valid role.
	ErrIncompleteClaims = errors.New("incomplete claims")
	ErrUnknownRole      = errors.New("unknown role")
)

// Claims is the token payload and the body of a successful verification.
// The id travels as "userId" or, from older issuers, as "id".
type Claims struct {
	jwt.RegisteredClaims

	UserID   string `json:"userId,omitempty"`
	LegacyID string `json:"id,omitempty"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Name     string `json:"name,omitempty"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// Identifier returns the user id, preferring userId over id over sub.
func (c *Claims) Identifier() string {
	switch {
	case c.UserID != "":
		return c.UserID
	case c.LegacyID != "":
		return c.LegacyID
	default:
		return c.Subject
	}
}

// Active reports the isActive claim; a missing claim counts as active.
func (c *Claims) Active() bool {
	return c.IsActive == nil || *c.IsActive
}

// Check verifies that the claims are enough to build an identity.
func (c *Claims) Check() error {
	if c.Identifier() == "" {
		return fmt.Errorf("%w: missing user id", ErrIncompleteClaims)
	}
	if c.Email == "" {
		return fmt.Errorf("%w: missing email", ErrIncompleteClaims)
	}
	if !c.Role.Valid() {
		return fmt.Errorf("%w: %w %q", ErrIncompleteClaims, ErrUnknownRole, c.Role)
	}
	return nil
}

// Decode reads the payload of a JWT without verifying its signature or
// expiry. It exists only for the degraded, offline path and must never be
// the sole authority for granting access.
func Decode(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected three segments", ErrMalformedToken)
	}

	// Only the payload is read; the header, and with it alg, is ignored.
	payload, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	claims := &Claims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	return claims, nil
}
