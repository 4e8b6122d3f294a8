// Package client contains the session client's side of the identity service
// protocol.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) for the three
//     endpoints the session manager needs: Login, Logout and Verify, plus
//     the cookie mirror of the persisted token.
//  2. A concrete HTTP/JSON implementation (see HTTPClient) that keeps cookies
//     for the server origin in a jar, bounds Verify with a timeout and maps
//     transport outcomes to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Outcomes are exposed as sentinel errors for errors.Is: ErrUnauthorized is
// an authoritative rejection, ErrUnavailable an indeterminate one (network,
// timeout, server fault), ErrInvalidResponse a 2xx body missing required
// data. Callers must not treat ErrUnavailable as a signed-out user.
package client
