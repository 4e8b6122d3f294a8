package client

import "errors"

var (
	// ErrUnavailable is an indeterminate outcome: the server could not be
	// reached, timed out, failed, or answered with something unreadable.
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthorized is an authoritative rejection by the server.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidResponse is a success status whose body lacks required data.
	ErrInvalidResponse = errors.New("invalid response")
)
