package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/naai-app/naai/internal/core/domain"
	"github.com/naai-app/naai/internal/core/ports"
)

type stubStore struct {
	mu     sync.Mutex
	token  string
	has    bool
	saves  int
	clears int
}

func (s *stubStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.has = token, true
	s.saves++
	return nil
}

func (s *stubStore) Load() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.has, nil
}

func (s *stubStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.has = "", false
	s.clears++
	return nil
}

func (s *stubStore) snapshot() (string, bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.has, s.clears
}

type stubAPI struct {
	mu       sync.Mutex
	hook     ports.SessionHook
	loginFn  func(email, password string) (domain.Session, error)
	signupFn func(input ports.SignupInput) (domain.Session, error)
	meFn     func() (domain.User, error)

	loginCalls  int
	signupCalls int
	meCalls     int
}

func (a *stubAPI) BindSession(h ports.SessionHook) { a.hook = h }

func (a *stubAPI) Login(_ context.Context, email, password string) (domain.Session, error) {
	a.mu.Lock()
	a.loginCalls++
	fn := a.loginFn
	a.mu.Unlock()
	return fn(email, password)
}

func (a *stubAPI) Signup(_ context.Context, input ports.SignupInput) (domain.Session, error) {
	a.mu.Lock()
	a.signupCalls++
	fn := a.signupFn
	a.mu.Unlock()
	return fn(input)
}

func (a *stubAPI) Me(_ context.Context) (domain.User, error) {
	a.mu.Lock()
	a.meCalls++
	fn := a.meFn
	a.mu.Unlock()
	return fn()
}

func testUser() domain.User {
	return domain.User{ID: "u_1", Name: "Ann", Email: "a@x.com", Role: domain.RoleCustomer}
}

func testSession() domain.Session {
	return domain.Session{Token: "tok-1", User: testUser()}
}

func newManager(t *testing.T) (*SessionManager, *stubStore, *stubAPI) {
	t.Helper()
	store := &stubStore{}
	api := &stubAPI{
		loginFn:  func(string, string) (domain.Session, error) { return testSession(), nil },
		signupFn: func(ports.SignupInput) (domain.Session, error) { return testSession(), nil },
		meFn:     func() (domain.User, error) { return testUser(), nil },
	}
	m := NewSessionManager(store, api, zerolog.Nop())
	return m, store, api
}

func TestNewSessionManager_BindsItself(t *testing.T) {
	m, _, api := newManager(t)
	if api.hook == nil {
		t.Fatalf("manager did not bind itself to the API client")
	}
	if _, ok := api.hook.Token(); ok {
		t.Fatalf("expected no token before any session exists")
	}
	if got := m.State().Phase; got != domain.PhaseUnknown {
		t.Fatalf("expected unknown phase before Initialize, got %v", got)
	}
}

func TestInitialize_NoStoredToken(t *testing.T) {
	m, _, api := newManager(t)

	m.Initialize(context.Background())

	if got := m.State().Phase; got != domain.PhaseUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", got)
	}
	if api.meCalls != 0 {
		t.Fatalf("expected no network call without a stored token, got %d", api.meCalls)
	}
}

func TestInitialize_ValidStoredToken(t *testing.T) {
	m, store, api := newManager(t)
	if err := store.Save("tok-1"); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	api.meFn = func() (domain.User, error) {
		token, ok := api.hook.Token()
		if !ok || token != "tok-1" {
			t.Errorf("expected stored token on the recovery call, got %q", token)
		}
		return testUser(), nil
	}

	m.Initialize(context.Background())

	state := m.State()
	if state.Phase != domain.PhaseAuthenticated {
		t.Fatalf("expected authenticated, got %v", state.Phase)
	}
	if state.User == nil || state.User.Email != "a@x.com" {
		t.Fatalf("unexpected user: %+v", state.User)
	}
}

func TestInitialize_RejectedToken(t *testing.T) {
	m, store, api := newManager(t)
	if err := store.Save("stale"); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	api.meFn = func() (domain.User, error) {
		// The real client invalidates the session before returning a 401.
		api.hook.Invalidate()
		return domain.User{}, domain.ErrUnauthorized
	}

	m.Initialize(context.Background())

	if got := m.State().Phase; got != domain.PhaseUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", got)
	}
	if _, has, _ := store.snapshot(); has {
		t.Fatalf("expected store cleared after rejected token")
	}
}

func TestInitialize_NetworkError(t *testing.T) {
	m, store, api := newManager(t)
	if err := store.Save("tok-1"); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	api.meFn = func() (domain.User, error) {
		return domain.User{}, domain.ErrNetwork
	}

	m.Initialize(context.Background())

	if got := m.State().Phase; got != domain.PhaseUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", got)
	}
	if _, has, _ := store.snapshot(); has {
		t.Fatalf("expected store cleared after unreachable server")
	}
}

func TestInitialize_TwicePanics(t *testing.T) {
	m, _, _ := newManager(t)
	m.Initialize(context.Background())

	defer func() {
		if recover() == nil {
			t.Fatalf("expected second Initialize to panic")
		}
	}()
	m.Initialize(context.Background())
}

func TestLogin_Success(t *testing.T) {
	m, store, _ := newManager(t)
	m.Initialize(context.Background())

	if err := m.Login(context.Background(), "a@x.com", "secret1"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	state := m.State()
	if state.Phase != domain.PhaseAuthenticated {
		t.Fatalf("expected authenticated, got %v", state.Phase)
	}
	if token, has, _ := store.snapshot(); !has || token != "tok-1" {
		t.Fatalf("expected token persisted, got %q has=%v", token, has)
	}
	if token, ok := m.Token(); !ok || token != "tok-1" {
		t.Fatalf("expected manager to expose the new token, got %q", token)
	}
}

func TestLogin_FailureLeavesStateUntouched(t *testing.T) {
	m, store, api := newManager(t)
	m.Initialize(context.Background())
	api.loginFn = func(string, string) (domain.Session, error) {
		return domain.Session{}, &domain.APIError{Status: 401, Message: "invalid email or password"}
	}

	err := m.Login(context.Background(), "a@x.com", "wrong")
	if err == nil || err.Error() != "invalid email or password" {
		t.Fatalf("expected server message, got %v", err)
	}
	if got := m.State().Phase; got != domain.PhaseUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", got)
	}
	if _, has, _ := store.snapshot(); has {
		t.Fatalf("no token should be persisted on a failed login")
	}
}

func TestSignup_Success(t *testing.T) {
	m, store, _ := newManager(t)
	m.Initialize(context.Background())

	input := ports.SignupInput{
		Name:            "Ann",
		Email:           "a@x.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Role:            domain.RoleCustomer,
	}
	if err := m.Signup(context.Background(), input); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	state := m.State()
	if state.Phase != domain.PhaseAuthenticated {
		t.Fatalf("expected authenticated, got %v", state.Phase)
	}
	if state.User.Role != domain.RoleCustomer {
		t.Fatalf("unexpected role: %s", state.User.Role)
	}
	if _, has, _ := store.snapshot(); !has {
		t.Fatalf("expected token persisted after signup")
	}
}

func TestSignup_ValidationNeverReachesNetwork(t *testing.T) {
	m, _, api := newManager(t)
	m.Initialize(context.Background())

	cases := []struct {
		name  string
		input ports.SignupInput
	}{
		{"bad role", ports.SignupInput{Email: "a@x.com", Password: "secret1", ConfirmPassword: "secret1", Role: "admin"}},
		{"short password", ports.SignupInput{Email: "a@x.com", Password: "abc", ConfirmPassword: "abc", Role: domain.RoleCustomer}},
		{"password mismatch", ports.SignupInput{Email: "a@x.com", Password: "secret1", ConfirmPassword: "secret2", Role: domain.RoleCustomer}},
		{"bad email", ports.SignupInput{Email: "not-an-email", Password: "secret1", ConfirmPassword: "secret1", Role: domain.RoleBarber}},
	}

	for _, tc := range cases {
		err := m.Signup(context.Background(), tc.input)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
	}
	if api.signupCalls != 0 {
		t.Fatalf("validation failures must not reach the network, got %d calls", api.signupCalls)
	}
	if got := m.State().Phase; got != domain.PhaseUnauthenticated {
		t.Fatalf("state must be untouched, got %v", got)
	}
}

func TestLoginThenLogout(t *testing.T) {
	m, store, _ := newManager(t)
	m.Initialize(context.Background())

	if err := m.Login(context.Background(), "a@x.com", "secret1"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	m.Logout()

	if got := m.State().Phase; got != domain.PhaseUnauthenticated {
		t.Fatalf("expected unauthenticated after logout, got %v", got)
	}
	if _, has, _ := store.snapshot(); has {
		t.Fatalf("expected store empty after logout")
	}
	if _, ok := m.Token(); ok {
		t.Fatalf("expected no token after logout")
	}
}

func TestLogout_Idempotent(t *testing.T) {
	m, store, _ := newManager(t)
	m.Initialize(context.Background())
	if err := m.Login(context.Background(), "a@x.com", "secret1"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	m.Logout()
	_, _, clearsAfterFirst := store.snapshot()
	m.Logout()
	_, _, clearsAfterSecond := store.snapshot()

	if clearsAfterSecond != clearsAfterFirst {
		t.Fatalf("second logout must not repeat side effects: %d vs %d", clearsAfterFirst, clearsAfterSecond)
	}
	if got := m.State().Phase; got != domain.PhaseUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", got)
	}
}

func TestUnauthorizedResponseInvalidatesSession(t *testing.T) {
	m, store, api := newManager(t)
	m.Initialize(context.Background())
	if err := m.Login(context.Background(), "a@x.com", "secret1"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Any endpoint returning 401 triggers the hook, regardless of caller.
	api.hook.Invalidate()

	if got := m.State().Phase; got != domain.PhaseUnauthenticated {
		t.Fatalf("expected unauthenticated after 401, got %v", got)
	}
	if _, has, _ := store.snapshot(); has {
		t.Fatalf("expected store cleared after 401")
	}
}

func TestObserversSeeTransitionsInOrder(t *testing.T) {
	m, _, _ := newManager(t)
	var phases []domain.Phase
	m.Subscribe(func(s domain.SessionState) { phases = append(phases, s.Phase) })

	m.Initialize(context.Background())
	if err := m.Login(context.Background(), "a@x.com", "secret1"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	m.Logout()

	want := []domain.Phase{domain.PhaseUnauthenticated, domain.PhaseAuthenticated, domain.PhaseUnauthenticated}
	if len(phases) != len(want) {
		t.Fatalf("expected %d transitions, got %d (%v)", len(want), len(phases), phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Fatalf("transition %d: expected %v, got %v", i, want[i], phases[i])
		}
	}
}

func TestLateLoginDiscardedAfterLogout(t *testing.T) {
	m, store, api := newManager(t)
	m.Initialize(context.Background())

	started := make(chan struct{})
	release := make(chan struct{})
	api.mu.Lock()
	api.loginFn = func(string, string) (domain.Session, error) {
		close(started)
		<-release
		return testSession(), nil
	}
	api.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.Login(context.Background(), "a@x.com", "secret1")
	}()

	<-started
	m.Logout()
	close(release)

	if err := <-errCh; !errors.Is(err, domain.ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded for the late login, got %v", err)
	}
	if got := m.State().Phase; got != domain.PhaseUnauthenticated {
		t.Fatalf("late login must not resurrect the session, got %v", got)
	}
	if _, has, _ := store.snapshot(); has {
		t.Fatalf("late login must not persist its token")
	}
}

func TestNewerLoginWinsOverOlder(t *testing.T) {
	m, store, api := newManager(t)
	m.Initialize(context.Background())

	firstStarted := make(chan struct{})
	firstRelease := make(chan struct{})
	stale := domain.Session{Token: "tok-old", User: testUser()}
	api.mu.Lock()
	api.loginFn = func(string, string) (domain.Session, error) {
		close(firstStarted)
		<-firstRelease
		return stale, nil
	}
	api.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.Login(context.Background(), "a@x.com", "old-password")
	}()
	<-firstStarted

	api.mu.Lock()
	api.loginFn = func(string, string) (domain.Session, error) { return testSession(), nil }
	api.mu.Unlock()
	if err := m.Login(context.Background(), "a@x.com", "secret1"); err != nil {
		t.Fatalf("second login failed: %v", err)
	}

	close(firstRelease)
	if err := <-errCh; !errors.Is(err, domain.ErrSuperseded) {
		t.Fatalf("expected first login to be superseded, got %v", err)
	}
	if token, _, _ := store.snapshot(); token != "tok-1" {
		t.Fatalf("expected newest token to win, got %q", token)
	}
	if state := m.State(); state.Phase != domain.PhaseAuthenticated {
		t.Fatalf("expected authenticated, got %v", state.Phase)
	}
}
