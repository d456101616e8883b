package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/naai-app/naai/internal/core/domain"
	"github.com/naai-app/naai/internal/core/ports"
	"github.com/naai-app/naai/internal/core/validate"
	"github.com/naai-app/naai/internal/metrics"
)

// SessionManager owns the client's session: the in-memory state machine
// (unknown → authenticated/unauthenticated), the persisted token, and the
// login/signup/logout operations that mutate them. It is the sole writer of
// both; route guards and screens are read-only observers.
//
// Every session-mutating operation takes a sequence number when issued and
// applies its completion only while that number is still the latest. Logout
// (and 401 invalidation) bump the sequence, so a login that resolves after a
// logout cannot resurrect the session.
type SessionManager struct {
	mu        sync.Mutex
	store     ports.CredentialStore
	api       ports.AuthAPI
	log       zerolog.Logger
	state     domain.SessionState
	token     string
	seq       uint64
	observers []func(domain.SessionState)

	initialized bool
}

// NewSessionManager builds a manager starting in the unknown phase. When the
// API client supports it, the manager binds itself as the client's token
// source and 401-invalidation hook.
func NewSessionManager(store ports.CredentialStore, api ports.AuthAPI, log zerolog.Logger) *SessionManager {
	m := &SessionManager{
		store: store,
		api:   api,
		log:   log,
		state: domain.SessionState{Phase: domain.PhaseUnknown},
	}
	if b, ok := api.(ports.SessionBinder); ok {
		b.BindSession(m)
	}
	return m
}

// State returns a snapshot of the current session state.
func (m *SessionManager) State() domain.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers an observer invoked synchronously, in order, on every
// state transition. Observers receive the new state as an argument and must
// not call back into the manager.
func (m *SessionManager) Subscribe(fn func(domain.SessionState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// Token reports the current session token. Read by the API client on every
// outgoing request.
func (m *SessionManager) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

// Initialize recovers the session persisted by a previous run. With no
// stored token it settles on unauthenticated without any network call;
// otherwise it validates the token against /auth/me and clears it when the
// server rejects it or cannot be reached. Must be called exactly once per
// process; a second call is a programming error.
func (m *SessionManager) Initialize(ctx context.Context) {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		panic("session: Initialize called twice")
	}
	m.initialized = true

	token, ok, err := m.store.Load()
	if err != nil {
		m.log.Warn().Err(err).Msg("credential store read failed, treating as absent")
	}
	if !ok {
		m.setStateLocked(domain.SessionState{Phase: domain.PhaseUnauthenticated})
		m.mu.Unlock()
		return
	}
	m.token = token
	seq := m.issueLocked()
	m.mu.Unlock()

	user, err := m.api.Me(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if seq != m.seq {
		// A 401 on the recovery call already invalidated the session.
		return
	}
	if err != nil {
		m.log.Info().Err(err).Msg("session recovery failed, clearing stored token")
		m.clearLocked()
		m.setStateLocked(domain.SessionState{Phase: domain.PhaseUnauthenticated})
		return
	}
	m.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("session recovered")
	m.setStateLocked(domain.SessionState{Phase: domain.PhaseAuthenticated, User: &user})
}

// Login exchanges credentials for a session. On success the token is
// persisted and the state becomes authenticated; on failure the state is
// left untouched and the error carries the server's message. A success
// arriving after a newer operation (e.g. logout) is discarded and returns
// domain.ErrSuperseded.
func (m *SessionManager) Login(ctx context.Context, email, password string) error {
	m.mu.Lock()
	seq := m.issueLocked()
	m.mu.Unlock()

	sess, err := m.api.Login(ctx, email, password)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		metrics.AuthFailuresTotal.WithLabelValues("login").Inc()
		return err
	}
	return m.completeAuthLocked(seq, sess, "login")
}

// Signup registers a new account with the same success/failure semantics as
// Login. Input is validated client-side first; a validation failure never
// reaches the network.
func (m *SessionManager) Signup(ctx context.Context, input ports.SignupInput) error {
	if err := validate.Struct(input); err != nil {
		return err
	}

	m.mu.Lock()
	seq := m.issueLocked()
	m.mu.Unlock()

	sess, err := m.api.Signup(ctx, input)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		metrics.AuthFailuresTotal.WithLabelValues("signup").Inc()
		return err
	}
	return m.completeAuthLocked(seq, sess, "signup")
}

// Logout clears the stored token and synchronously transitions to
// unauthenticated. Idempotent: calling it while already unauthenticated has
// no effect and no side effects.
func (m *SessionManager) Logout() {
	m.invalidate("logout")
}

// Invalidate implements the API client's 401 hook: same steps as Logout.
func (m *SessionManager) Invalidate() {
	m.invalidate("unauthorized response")
}

func (m *SessionManager) invalidate(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Always bump the sequence so any in-flight login/signup completion is
	// stale, even when there is no session to tear down: a logout issued
	// while a login is in flight must win over the login's late success.
	m.issueLocked()
	if m.state.Phase == domain.PhaseUnauthenticated {
		return
	}
	m.clearLocked()
	m.log.Info().Str("reason", reason).Msg("session ended")
	m.setStateLocked(domain.SessionState{Phase: domain.PhaseUnauthenticated})
}

// completeAuthLocked applies a successful login/signup completion, unless a
// newer operation has been issued in the meantime.
func (m *SessionManager) completeAuthLocked(seq uint64, sess domain.Session, op string) error {
	if seq != m.seq {
		m.log.Debug().Str("op", op).Msg("discarding stale session completion")
		return domain.ErrSuperseded
	}
	if err := m.store.Save(sess.Token); err != nil {
		return fmt.Errorf("persist session token: %w", err)
	}
	m.token = sess.Token
	user := sess.User
	m.log.Info().Str("op", op).Str("user_id", user.ID).Str("role", string(user.Role)).Msg("authenticated")
	m.setStateLocked(domain.SessionState{Phase: domain.PhaseAuthenticated, User: &user})
	return nil
}

func (m *SessionManager) issueLocked() uint64 {
	m.seq++
	return m.seq
}

func (m *SessionManager) clearLocked() {
	m.token = ""
	if err := m.store.Clear(); err != nil {
		m.log.Warn().Err(err).Msg("credential store clear failed")
	}
}

// setStateLocked records the new state and publishes it to every observer,
// in subscription order, before returning.
func (m *SessionManager) setStateLocked(s domain.SessionState) {
	m.state = s
	metrics.SessionTransitionsTotal.WithLabelValues(s.Phase.String()).Inc()
	for _, fn := range m.observers {
		fn(s)
	}
}
