/*
Package session owns the client-side belief about which user is signed in.

The manager is a small state machine: it starts out loading, resolves to an
authenticated or anonymous session, and moves between those two states on
explicit login, register, and logout. Every protected view and the feed
synchronizer observe the same session value through Subscribe, so arbitration
rules are re-evaluated on every change rather than duplicated per view.
*/
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"gchat/internal/app/api"
	"gchat/internal/app/token"
	"gchat/internal/pkg/errs"
	"gchat/internal/pkg/logx"
)

// Session is the derived session state published to observers.
type Session struct {
	// User is the authenticated member, or nil while anonymous.
	User *api.Member

	// Loading is true until the startup resolution finishes. While it is
	// true, views must render a neutral state and take no redirect action.
	Loading bool
}

// Authenticated reports whether the session has a resolved, signed-in user.
func (s Session) Authenticated() bool {
	return !s.Loading && s.User != nil
}

// Manager resolves and owns the authenticated-user state.
type Manager struct {
	api    *api.Client
	tokens *token.Store

	mu      sync.Mutex
	current Session
	subs    map[int]func(Session)
	nextSub int
}

// NewManager returns a manager in the initial loading state.
func NewManager(client *api.Client, tokens *token.Store) *Manager {
	return &Manager{
		api:     client,
		tokens:  tokens,
		current: Session{Loading: true},
		subs:    make(map[int]func(Session)),
	}
}

// Current returns the session as last resolved.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Subscribe registers fn to be called with every session change, and calls it
// once immediately with the current state. It returns an unsubscribe function.
func (m *Manager) Subscribe(fn func(Session)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	current := m.current
	m.mu.Unlock()

	fn(current)

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Resolve performs the startup identity lookup and moves the session out of
// the loading state exactly once per call.
//
// A stored credential that cannot be verified, for any reason, is cleared
// before the session becomes anonymous: an unverifiable token must never
// leave the client in an ambiguous authenticated state.
func (m *Manager) Resolve(ctx context.Context) {
	if _, ok := m.tokens.Read(); !ok {
		logx.Info("session: no stored credential, starting anonymous")
		m.setSession(Session{})
		return
	}

	member, err := m.api.Me(ctx)
	if err != nil {
		logx.Warn("session: stored credential rejected, clearing it", "error", err)
		if clearErr := m.tokens.Clear(); clearErr != nil {
			logx.Error(clearErr, "session: failed to clear rejected credential")
		}
		m.setSession(Session{})
		return
	}

	logx.Info("session: restored from stored credential", "user_id", member.ID, "username", member.Username)
	m.setSession(Session{User: &member})
}

// Login authenticates with the given credentials. On success the credential is
// persisted and the session becomes authenticated in one observable step.
// On failure it returns an auth-kind error carrying the server's detail
// message when one was provided.
func (m *Manager) Login(ctx context.Context, username, password string) (api.Member, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return api.Member{}, errs.NewError(errs.ErrMissingCredentials)
	}

	result, err := m.api.Login(ctx, username, password)
	if err != nil {
		logx.Warn("session: login failed", "username", username, "error", err)
		return api.Member{}, authError(errs.ErrInvalidCredentials, err)
	}

	m.establish(result)
	logx.Info("session: login succeeded", "user_id", result.Member.ID, "username", result.Member.Username)
	return result.Member, nil
}

// Register creates a new account. The success and failure contract matches Login.
func (m *Manager) Register(ctx context.Context, username, password string) (api.Member, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return api.Member{}, errs.NewError(errs.ErrMissingCredentials)
	}

	result, err := m.api.Register(ctx, username, password)
	if err != nil {
		logx.Warn("session: registration failed", "username", username, "error", err)
		return api.Member{}, authError(errs.ErrRegistrationFailed, err)
	}

	m.establish(result)
	logx.Info("session: registration succeeded", "user_id", result.Member.ID, "username", result.Member.Username)
	return result.Member, nil
}

// Logout ends the session. It never fails observably: the remote call is
// best-effort, and local state is the source of truth for signed-in status.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.api.Logout(ctx); err != nil {
		logx.Warn("session: remote logout failed, clearing local session anyway", "error", err)
	}

	if err := m.tokens.Clear(); err != nil {
		logx.Error(err, "session: failed to clear stored credential on logout")
	}

	m.setSession(Session{})
	logx.Info("session: logged out")
}

// establish persists the credential and publishes the authenticated session.
// A storage failure degrades to an in-memory session rather than failing the
// sign-in; it is logged and the user stays signed in until the process exits.
func (m *Manager) establish(result api.AuthResult) {
	if err := m.tokens.Save(result.Token); err != nil {
		logx.Error(err, "session: credential not persisted, session is in-memory only")
	}
	m.setSession(Session{User: &result.Member})
}

// setSession replaces the current session and notifies subscribers outside
// the lock, each with the same snapshot.
func (m *Manager) setSession(next Session) {
	m.mu.Lock()
	m.current = next
	observers := make([]func(Session), 0, len(m.subs))
	for _, fn := range m.subs {
		observers = append(observers, fn)
	}
	m.mu.Unlock()

	for _, fn := range observers {
		fn(next)
	}
}

// authError shapes a transport failure into an auth-kind error, preferring the
// server's detail message when the failure carries one.
func authError(code int, err error) *errs.CustomError {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return errs.NewErrorWithDetail(code, apiErr.Detail)
	}
	return errs.NewError(code)
}
