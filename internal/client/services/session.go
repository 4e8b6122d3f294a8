// Package services contains application services for the session client.
// SessionStore is the single authority on who the current user is: it
// reconciles the persisted token, the identity service and the auth cookie,
// and owns sign-in, sign-out and the login throttle.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/client/client"
	"github.com/dmitrijs2005/gatekeeper/internal/client/rbac"
	"github.com/dmitrijs2005/gatekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gatekeeper/internal/client/throttle"
	"github.com/dmitrijs2005/gatekeeper/internal/identity"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
)

// State is where the verification state machine currently is.
type State int

const (
	StateUnchecked State = iota
	StateChecking
	StateAuthenticated
	// StateDegraded is an identity taken from unverified token claims while
	// the identity service was unreachable.
	StateDegraded
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUnchecked:
		return "unchecked"
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateDegraded:
		return "degraded"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Settled reports whether s is a terminal state of a check.
func (s State) Settled() bool {
	return s == StateAuthenticated || s == StateDegraded || s == StateUnauthenticated
}

// User is the resolved identity. It is replaced as a whole on every
// verification and must be treated as read-only.
type User struct {
	ID          string
	Email       string
	Role        identity.Role
	Name        string
	IsActive    bool
	Permissions rbac.PermissionSet
}

func newUser(c *identity.Claims) *User {
	return &User{
		ID:          c.Identifier(),
		Email:       c.Email,
		Role:        c.Role,
		Name:        c.Name,
		IsActive:    c.Active(),
		Permissions: rbac.PermissionsFor(c.Role),
	}
}

// Snapshot is what consumers observe. Seq grows with every Check, Login
// and Logout.
type Snapshot struct {
	State State
	User  *User
	Seq   uint64
}

// Navigator moves the UI to a route.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

type SessionStore struct {
	client  client.Client
	db      *sql.DB
	tracker *throttle.Tracker
	nav     Navigator
	log     logging.Logger

	mu     sync.Mutex
	seq    uint64
	state  State
	user   *User
	nextID int
	subs   map[int]func(Snapshot)
}

// NewSessionStore builds a store over the API client and the local
// database. now may be nil.
func NewSessionStore(c client.Client, db *sql.DB, nav Navigator, log logging.Logger, now func() time.Time) *SessionStore {
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	if log == nil {
		log = logging.Nop()
	}
	log = log.With("component", "session")
	return &SessionStore{
		client:  c,
		db:      db,
		tracker: throttle.NewTracker(metadata.NewSQLiteRepository(db), log, now),
		nav:     nav,
		log:     log,
		subs:    make(map[int]func(Snapshot)),
	}
}

func (s *SessionStore) getMetadataRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(s.db)
}

// Check runs the verification chain and settles the store in one of the
// terminal states. A check overtaken by a newer Check, Login or Logout
// discards its result and returns the current snapshot.
func (s *SessionStore) Check(ctx context.Context) Snapshot {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.state = StateChecking
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)

	token, err := s.loadToken(ctx)
	if err != nil {
		s.log.Error(ctx, "read stored token", "error", err)
	}

	var (
		claims      *identity.Claims
		denySeen    bool
		netErrSeen  bool
		tokenDenied bool
	)

	classify := func(err error) {
		if errors.Is(err, client.ErrUnauthorized) {
			denySeen = true
			return
		}
		netErrSeen = true
	}

	if token != "" {
		claims, err = s.client.Verify(ctx, token)
		if err != nil {
			classify(err)
			if denySeen {
				tokenDenied = true
				s.purgeToken(ctx, token)
			}
			s.log.Debug(ctx, "token verification failed", "error", err)
		}
	}

	if claims == nil {
		claims, err = s.client.Verify(ctx, "")
		if err != nil {
			classify(err)
			s.log.Debug(ctx, "cookie verification failed", "error", err)
		}
	}

	next := StateAuthenticated
	if claims == nil {
		next = StateUnauthenticated
		if netErrSeen && token != "" && !tokenDenied {
			if c, derr := identity.Decode(token); derr == nil && c.Check() == nil && c.Active() {
				claims = c
				next = StateDegraded
			}
		}
	}

	s.mu.Lock()
	if s.seq != seq {
		snap = s.snapshotLocked()
		s.mu.Unlock()
		s.log.Debug(ctx, "discarding stale check", "seq", seq, "current", snap.Seq)
		return snap
	}

	switch next {
	case StateUnauthenticated:
		s.user = nil
		if denySeen {
			if err := s.clearSession(ctx); err != nil {
				s.log.Error(ctx, "clear rejected session", "error", err)
			}
			s.client.ClearAuthCookie(token)
		}
	case StateAuthenticated, StateDegraded:
		s.user = newUser(claims)
		if token != "" && !tokenDenied {
			s.client.MirrorToken(token)
		}
		if next == StateAuthenticated {
			if err := s.saveHints(ctx, s.user); err != nil {
				s.log.Error(ctx, "save ui hints", "error", err)
			}
		}
	}
	s.state = next
	snap = s.snapshotLocked()
	s.mu.Unlock()

	switch next {
	case StateDegraded:
		s.log.Warn(ctx, "identity service unreachable, using unverified token claims", "role", snap.User.Role)
	case StateAuthenticated:
		s.log.Info(ctx, "session verified", "role", snap.User.Role)
	default:
		s.log.Info(ctx, "no session", "rejected", denySeen, "network_error", netErrSeen)
	}

	s.publish(snap)
	return snap
}

// purgeToken drops a token the server rejected, along with a cookie mirror
// of the same value. A token stored since then is left alone.
func (s *SessionStore) purgeToken(ctx context.Context, token string) {
	if err := s.deleteTokenIf(ctx, token); err != nil {
		s.log.Error(ctx, "purge rejected token", "error", err)
	}
	s.client.ClearAuthCookie(token)
}

// Login signs in. On any failure the current session is left as it was.
func (s *SessionStore) Login(ctx context.Context, email, password string) (*User, error) {
	if err := ValidateCredentials(email, password); err != nil {
		return nil, err
	}

	rec, err := s.tracker.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("login throttle: %w", err)
	}
	if now := s.tracker.Now(); throttle.IsBlocked(rec, now) {
		return nil, &LockedError{Minutes: throttle.RemainingMinutes(rec, now)}
	}

	resp, err := s.client.Login(ctx, email, password)
	if err == nil {
		err = checkLoginResponse(resp)
	}
	if errors.Is(err, context.Canceled) {
		// abandoned by the caller, not a rejected attempt
		return nil, err
	}
	if err != nil {
		return nil, s.loginFailed(ctx, err)
	}

	user := newUser(resp.User)
	if err := s.saveSession(ctx, resp.Token, user); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	s.client.MirrorToken(resp.Token)

	if err := s.tracker.Success(ctx); err != nil {
		s.log.Error(ctx, "reset login throttle", "error", err)
	}

	s.mu.Lock()
	s.seq++
	s.state = StateAuthenticated
	s.user = user
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Info(ctx, "signed in", "role", user.Role)
	s.publish(snap)
	s.RedirectToDashboard()
	return user, nil
}

func checkLoginResponse(resp *client.LoginResponse) error {
	if resp == nil || resp.User == nil || resp.Token == "" {
		return fmt.Errorf("%w: user and token are required", client.ErrInvalidResponse)
	}
	if err := resp.User.Check(); err != nil {
		return fmt.Errorf("%w: %v", client.ErrInvalidResponse, err)
	}
	return nil
}

func (s *SessionStore) loginFailed(ctx context.Context, cause error) error {
	rec, err := s.tracker.Failure(ctx)
	if err != nil {
		s.log.Error(ctx, "record failed login", "error", err)
		return fmt.Errorf("login failed: %w", cause)
	}

	s.log.Warn(ctx, "login failed", "attempts", rec.Attempts, "error", cause)

	if throttle.IsBlocked(rec, s.tracker.Now()) {
		return &LockedError{Minutes: throttle.RemainingMinutes(rec, s.tracker.Now()), Err: cause}
	}
	return &AttemptError{Remaining: throttle.RemainingAttempts(rec), Err: cause}
}

// Logout tells the server, best effort, and then always clears the local
// session. The returned error only reports local storage failures; the
// store is Unauthenticated either way.
func (s *SessionStore) Logout(ctx context.Context) error {
	if err := s.client.Logout(ctx); err != nil {
		s.log.Warn(ctx, "server logout failed, clearing locally", "error", err)
	}

	s.client.ClearAuthCookie("")
	err := s.clearSession(ctx)

	s.mu.Lock()
	s.seq++
	s.state = StateUnauthenticated
	s.user = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Info(ctx, "signed out")
	s.publish(snap)

	if err != nil {
		return fmt.Errorf("clear local session: %w", err)
	}
	return nil
}

// Identity returns the current user, or nil.
func (s *SessionStore) Identity() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *SessionStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *SessionStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *SessionStore) snapshotLocked() Snapshot {
	return Snapshot{State: s.state, User: s.user, Seq: s.seq}
}

func (s *SessionStore) HasPermission(p rbac.Permission) bool {
	u := s.Identity()
	return u != nil && u.Permissions.Has(p)
}

// HasRole reports whether the current user has any of roles.
func (s *SessionStore) HasRole(roles ...identity.Role) bool {
	u := s.Identity()
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// RedirectToDashboard navigates to the current user's dashboard and returns
// the route. Without a user it does nothing and returns "".
func (s *SessionStore) RedirectToDashboard() string {
	u := s.Identity()
	if u == nil {
		return ""
	}
	route := rbac.DefaultRouteFor(u.Role)
	s.nav.Navigate(route)
	return route
}

// Subscribe registers fn for every published snapshot and returns a
// function that removes it. fn runs on the publishing goroutine.
func (s *SessionStore) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *SessionStore) publish(snap Snapshot) {
	s.mu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Close releases the API client.
func (s *SessionStore) Close() error {
	return s.client.Close()
}
