// Package cli provides the interactive command-line front end of the session
// client.
//
// It wires configuration, the local database, the identity service client,
// the SessionStore and the route gate, then runs a REPL. On start it runs a
// session check, the equivalent of a page load, and reports the result.
//
// Commands:
//   - login / logout
//   - whoami, check
//   - can <permission>, open <path>, dashboard
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
