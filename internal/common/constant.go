// Package common contains names shared by the session client and the
// identity service: the auth cookie, the API routes and the local storage keys.
package common

// AuthCookieName is the cookie carrying the session token. The identity
// service sets it httpOnly; the client mirrors the same name and value.
const AuthCookieName = "auth_token"

// API routes served by the identity service.
const (
	LoginPath  = "/api/auth/login"
	LogoutPath = "/api/auth/logout"
	VerifyPath = "/api/auth/verify"
	HealthPath = "/api/health"
)

// Keys of the client's persistent key/value store.
const (
	// TokenKey holds the raw credential token.
	TokenKey = "auth_token"
	// EmailHintKey and RoleHintKey are UI hints only, never an authorization source.
	EmailHintKey = "user_email"
	RoleHintKey  = "user_role"
	// LoginAttemptsKey holds the JSON-encoded login throttle record.
	LoginAttemptsKey = "login_attempts"
)
