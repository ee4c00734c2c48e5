package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"chargecars-portal/internal/domain"
	"chargecars-portal/internal/store"
	"chargecars-portal/internal/xano"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type recordedEvents struct {
	mu     sync.Mutex
	events []SessionEvent
}

func (r *recordedEvents) add(ev SessionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordedEvents) last() SessionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return SessionEvent{}
	}
	return r.events[len(r.events)-1]
}

func newTestManager(api AuthAPI, st store.Store) (*SessionManager, *recordedEvents) {
	rec := &recordedEvents{}
	m := NewSessionManager(zap.NewNop(), api, st,
		WithClock(func() time.Time { return fixedNow }),
		WithListener(rec.add),
	)
	return m, rec
}

func mustGet(t *testing.T, st store.Store, key string) (string, bool) {
	t.Helper()
	v, ok, err := st.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("store get %s: %v", key, err)
	}
	return v, ok
}

func assertCleared(t *testing.T, st store.Store) {
	t.Helper()
	for _, key := range store.SessionKeys {
		if _, ok := mustGet(t, st, key); ok {
			t.Fatalf("expected %s to be cleared", key)
		}
	}
}

func TestLogin_WithEmbeddedUser(t *testing.T) {
	api := &xano.FakeAuth{LoginResult: xano.AuthResult{
		Token:  "tok-1",
		Expiry: "3600",
		User: &domain.Profile{
			ID:         "7",
			SignupType: "customer",
			Contact:    &domain.Contact{FirstName: "Anna", LastName: "de Vries", Email: "anna@example.nl"},
		},
	}}
	st := store.NewMemoryStore()
	m, rec := newTestManager(api, st)

	sess, err := m.Login(context.Background(), "anna@example.nl", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !sess.Authenticated() || sess.State != domain.StateAuthenticated {
		t.Fatalf("expected authenticated session, got %+v", sess)
	}
	if sess.Profile.FirstName != "Anna" || sess.Profile.Email != "anna@example.nl" {
		t.Fatalf("expected contact merged into profile, got %+v", sess.Profile)
	}
	if api.MeCalls != 0 {
		t.Fatalf("expected no /me call when user is embedded, got %d", api.MeCalls)
	}

	if tok, _ := mustGet(t, st, store.KeyAuthToken); tok != "tok-1" {
		t.Fatalf("expected token persisted, got %q", tok)
	}
	expiry, _ := mustGet(t, st, store.KeyTokenExpiry)
	if expiry != fixedNow.Add(time.Hour).Format(time.RFC3339) {
		t.Fatalf("unexpected persisted expiry %q", expiry)
	}
	if role, _ := mustGet(t, st, store.KeyUserRole); role != "customer" {
		t.Fatalf("expected role persisted, got %q", role)
	}
	if ev := rec.last(); ev.State != domain.StateAuthenticated || !ev.Authenticated {
		t.Fatalf("unexpected last event %+v", ev)
	}
}

func TestLogin_WithoutUserFetchesProfile(t *testing.T) {
	api := &xano.FakeAuth{
		LoginResult: xano.AuthResult{Token: "tok-2"},
		MeProfile:   domain.Profile{ID: "9", FirstName: "Bram", ContactType: "internal"},
	}
	st := store.NewMemoryStore()
	m, _ := newTestManager(api, st)

	if _, err := m.Login(context.Background(), "bram@example.nl", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if api.MeCalls != 1 || api.LastToken != "tok-2" {
		t.Fatalf("expected one /me call with new token, got %d (%q)", api.MeCalls, api.LastToken)
	}
	if !m.IsAuthenticated() {
		t.Fatalf("expected authenticated")
	}
	if _, ok := mustGet(t, st, store.KeyTokenExpiry); ok {
		t.Fatalf("expected no expiry persisted when none was returned")
	}
	if role, _ := mustGet(t, st, store.KeyUserRole); role != "internal" {
		t.Fatalf("expected contact type as role, got %q", role)
	}
}

func TestLogin_Failures(t *testing.T) {
	cases := []struct {
		name    string
		api     *xano.FakeAuth
		message string
		kind    error
	}{
		{
			name:    "server message",
			api:     &xano.FakeAuth{LoginErr: &xano.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid Credentials."}},
			message: "Invalid Credentials.",
			kind:    ErrLoginFailed,
		},
		{
			name:    "network error",
			api:     &xano.FakeAuth{LoginErr: xano.ErrNetwork},
			message: "Login failed",
			kind:    ErrLoginFailed,
		},
		{
			name:    "missing token",
			api:     &xano.FakeAuth{LoginResult: xano.AuthResult{}},
			message: "No authentication token received",
			kind:    ErrMissingToken,
		},
		{
			name:    "missing token with message",
			api:     &xano.FakeAuth{LoginResult: xano.AuthResult{Message: "Account locked"}},
			message: "Account locked",
			kind:    ErrMissingToken,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := store.NewMemoryStore()
			m, _ := newTestManager(tc.api, st)

			_, err := m.Login(context.Background(), "a@b.nl", "pw")
			var authErr *AuthError
			if !errors.As(err, &authErr) {
				t.Fatalf("expected AuthError, got %v", err)
			}
			if authErr.Message != tc.message {
				t.Fatalf("message = %q, want %q", authErr.Message, tc.message)
			}
			if !errors.Is(err, tc.kind) {
				t.Fatalf("expected %v in chain, got %v", tc.kind, err)
			}
			if m.State() != domain.StateUnauthenticated || m.IsAuthenticated() {
				t.Fatalf("expected unauthenticated after failure")
			}
			if m.LastError() != tc.message {
				t.Fatalf("LastError = %q", m.LastError())
			}
			assertCleared(t, st)
		})
	}
}

func TestLogin_ProfileFailureLogsOut(t *testing.T) {
	api := &xano.FakeAuth{
		LoginResult: xano.AuthResult{Token: "tok"},
		MeErr:       &xano.APIError{StatusCode: http.StatusInternalServerError},
	}
	st := store.NewMemoryStore()
	m, rec := newTestManager(api, st)

	if _, err := m.Login(context.Background(), "a@b.nl", "pw"); err == nil {
		t.Fatalf("expected error")
	}
	if m.IsAuthenticated() || m.Token() != "" {
		t.Fatalf("expected session torn down")
	}
	assertCleared(t, st)
	if ev := rec.last(); ev.Redirect != LoginPath {
		t.Fatalf("expected redirect to login, got %+v", ev)
	}
}

func TestLastErrorClearedOnSuccess(t *testing.T) {
	api := &xano.FakeAuth{LoginErr: &xano.APIError{StatusCode: 401, Message: "nope"}}
	m, _ := newTestManager(api, store.NewMemoryStore())
	_, _ = m.Login(context.Background(), "a@b.nl", "pw")
	if m.LastError() != "nope" {
		t.Fatalf("expected last error")
	}

	api.LoginErr = nil
	api.LoginResult = xano.AuthResult{Token: "t", User: &domain.Profile{ID: "1"}}
	if _, err := m.Login(context.Background(), "a@b.nl", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if m.LastError() != "" {
		t.Fatalf("expected last error cleared, got %q", m.LastError())
	}
}

func TestSignup_AlwaysRefreshesProfile(t *testing.T) {
	api := &xano.FakeAuth{
		SignupResult: xano.AuthResult{Token: "new", User: &domain.Profile{ID: "stale"}},
		MeProfile:    domain.Profile{ID: "fresh", SignupType: "technician"},
	}
	st := store.NewMemoryStore()
	m, _ := newTestManager(api, st)

	input := domain.SignupInput{FirstName: "Cas", LastName: "B", Email: "c@b.nl", Password: "pw", SignupType: domain.SignupTechnician, OrganizationID: "12"}
	sess, err := m.Signup(context.Background(), input)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if api.MeCalls != 1 {
		t.Fatalf("expected profile refresh after signup, got %d /me calls", api.MeCalls)
	}
	if sess.Profile == nil || sess.Profile.ID != "fresh" {
		t.Fatalf("expected fresh profile, got %+v", sess.Profile)
	}
	if api.LastSignup.OrganizationID != "12" {
		t.Fatalf("expected organization id forwarded")
	}
	if role, _ := mustGet(t, st, store.KeyUserRole); role != "technician" {
		t.Fatalf("unexpected role %q", role)
	}
}

func TestSignup_RejectsUnknownType(t *testing.T) {
	api := &xano.FakeAuth{}
	m, _ := newTestManager(api, store.NewMemoryStore())

	_, err := m.Signup(context.Background(), domain.SignupInput{Email: "x@y.nl", SignupType: "admin"})
	if !errors.Is(err, ErrInvalidSignupType) {
		t.Fatalf("expected ErrInvalidSignupType, got %v", err)
	}
	if api.Calls() != 0 {
		t.Fatalf("expected no network calls, got %d", api.Calls())
	}
}

func TestSignup_FailureMessage(t *testing.T) {
	api := &xano.FakeAuth{SignupErr: xano.ErrNetwork}
	m, _ := newTestManager(api, store.NewMemoryStore())

	_, err := m.Signup(context.Background(), domain.SignupInput{Email: "x@y.nl", SignupType: domain.SignupCustomer})
	var authErr *AuthError
	if !errors.As(err, &authErr) || authErr.Message != "Signup failed" {
		t.Fatalf("expected generic signup failure, got %v", err)
	}
}

func seedStore(t *testing.T, st store.Store, token, expiry string) {
	t.Helper()
	ctx := context.Background()
	if err := st.Set(ctx, store.KeyAuthToken, token); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if expiry != "" {
		if err := st.Set(ctx, store.KeyTokenExpiry, expiry); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if err := st.Set(ctx, store.KeyUserRole, "customer"); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestInit_ExpiredTokenClearsWithoutNetwork(t *testing.T) {
	api := &xano.FakeAuth{}
	st := store.NewMemoryStore()
	seedStore(t, st, "old", fixedNow.Add(-time.Minute).Format(time.RFC3339))
	m, _ := newTestManager(api, st)

	m.Init(context.Background())

	if api.Calls() != 0 {
		t.Fatalf("expected zero network calls, got %d", api.Calls())
	}
	if m.State() != domain.StateUnauthenticated {
		t.Fatalf("expected unauthenticated, got %s", m.State())
	}
	assertCleared(t, st)
}

func TestInit_ValidTokenRestoresSession(t *testing.T) {
	api := &xano.FakeAuth{MeProfile: domain.Profile{ID: "1", SignupType: "internal"}}
	st := store.NewMemoryStore()
	seedStore(t, st, "live", fixedNow.Add(time.Hour).Format(time.RFC3339))
	m, _ := newTestManager(api, st)

	m.Init(context.Background())

	if !m.IsAuthenticated() || m.State() != domain.StateAuthenticated {
		t.Fatalf("expected restored session, state %s", m.State())
	}
	if api.MeCalls != 1 || api.LastToken != "live" {
		t.Fatalf("expected one /me call with persisted token")
	}
	snap := m.Snapshot()
	if snap.ExpiresAt == nil || !snap.ExpiresAt.Equal(fixedNow.Add(time.Hour)) {
		t.Fatalf("expected expiry restored, got %v", snap.ExpiresAt)
	}
}

func TestInit_RejectedTokenTearsDown(t *testing.T) {
	api := &xano.FakeAuth{MeErr: &xano.APIError{StatusCode: http.StatusUnauthorized}}
	st := store.NewMemoryStore()
	seedStore(t, st, "revoked", "")
	m, rec := newTestManager(api, st)

	m.Init(context.Background())

	if m.State() != domain.StateUnauthenticated {
		t.Fatalf("expected unauthenticated, got %s", m.State())
	}
	assertCleared(t, st)
	if ev := rec.last(); ev.Redirect != "" {
		t.Fatalf("expected silent teardown, got redirect %q", ev.Redirect)
	}
}

func TestInit_UnparseableExpiryIsIgnored(t *testing.T) {
	api := &xano.FakeAuth{MeProfile: domain.Profile{ID: "1"}}
	st := store.NewMemoryStore()
	seedStore(t, st, "tok", "not-a-date")
	m, _ := newTestManager(api, st)

	m.Init(context.Background())

	if !m.IsAuthenticated() {
		t.Fatalf("expected session validated against /me")
	}
}

func TestInit_NoTokenStaysUnauthenticated(t *testing.T) {
	api := &xano.FakeAuth{}
	m, _ := newTestManager(api, store.NewMemoryStore())
	m.Init(context.Background())
	if m.State() != domain.StateUnauthenticated || api.Calls() != 0 {
		t.Fatalf("expected idle unauthenticated manager")
	}
}

func TestCheckSession(t *testing.T) {
	t.Run("expired returns false without network", func(t *testing.T) {
		api := &xano.FakeAuth{}
		st := store.NewMemoryStore()
		seedStore(t, st, "tok", fixedNow.Add(-time.Second).Format(time.RFC3339))
		m, _ := newTestManager(api, st)

		if m.CheckSession(context.Background()) {
			t.Fatalf("expected false")
		}
		if api.Calls() != 0 {
			t.Fatalf("expected no network calls")
		}
		assertCleared(t, st)
	})

	t.Run("no token", func(t *testing.T) {
		api := &xano.FakeAuth{}
		m, _ := newTestManager(api, store.NewMemoryStore())
		if m.CheckSession(context.Background()) || api.Calls() != 0 {
			t.Fatalf("expected false without calls")
		}
	})

	t.Run("api error returns false", func(t *testing.T) {
		api := &xano.FakeAuth{MeErr: xano.ErrNetwork}
		st := store.NewMemoryStore()
		seedStore(t, st, "tok", "")
		m, _ := newTestManager(api, st)
		if m.CheckSession(context.Background()) {
			t.Fatalf("expected false")
		}
	})

	t.Run("valid", func(t *testing.T) {
		api := &xano.FakeAuth{MeProfile: domain.Profile{ID: "1"}}
		st := store.NewMemoryStore()
		seedStore(t, st, "tok", fixedNow.Add(time.Hour).Format(time.RFC3339))
		m, _ := newTestManager(api, st)
		if !m.CheckSession(context.Background()) {
			t.Fatalf("expected true")
		}
	})
}

func TestLogout_IdempotentAndPanicSafe(t *testing.T) {
	api := &xano.FakeAuth{LoginResult: xano.AuthResult{Token: "t", User: &domain.Profile{ID: "1", SignupType: "customer"}}}
	st := store.NewMemoryStore()
	rec := &recordedEvents{}
	m := NewSessionManager(zap.NewNop(), api, st,
		WithClock(func() time.Time { return fixedNow }),
		WithListener(func(SessionEvent) { panic("listener boom") }),
		WithListener(rec.add),
	)

	if _, err := m.Login(context.Background(), "a@b.nl", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	m.Logout(context.Background())
	m.Logout(context.Background())

	if m.State() != domain.StateUnauthenticated || m.IsAuthenticated() {
		t.Fatalf("expected unauthenticated")
	}
	assertCleared(t, st)
	if ev := rec.last(); ev.Redirect != LoginPath || ev.Authenticated {
		t.Fatalf("unexpected logout event %+v", ev)
	}
}

func TestLogout_WithoutSession(t *testing.T) {
	m, rec := newTestManager(&xano.FakeAuth{}, store.NewMemoryStore())
	m.Logout(context.Background())
	if m.State() != domain.StateUnauthenticated {
		t.Fatalf("expected unauthenticated")
	}
	if rec.last().Redirect != LoginPath {
		t.Fatalf("expected redirect even without session")
	}
}

func TestRefreshProfile_LogoutWins(t *testing.T) {
	api := &xano.FakeAuth{
		LoginResult: xano.AuthResult{Token: "t", User: &domain.Profile{ID: "1", SignupType: "customer"}},
		MeProfile:   domain.Profile{ID: "1", SignupType: "internal"},
	}
	st := store.NewMemoryStore()
	m, _ := newTestManager(api, st)
	ctx := context.Background()
	if _, err := m.Login(ctx, "a@b.nl", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	api.MeHook = func() { m.Logout(ctx) }
	err := m.RefreshProfile(ctx)
	if !errors.Is(err, ErrSessionChanged) {
		t.Fatalf("expected ErrSessionChanged, got %v", err)
	}
	if m.IsAuthenticated() || m.State() != domain.StateUnauthenticated {
		t.Fatalf("expected logout to win over refresh")
	}
	assertCleared(t, st)
}

func TestRefreshProfile_StaleResultAfterNewLogin(t *testing.T) {
	api := &xano.FakeAuth{
		LoginResult: xano.AuthResult{Token: "first", User: &domain.Profile{ID: "1"}},
		MeProfile:   domain.Profile{ID: "stale"},
	}
	m, _ := newTestManager(api, store.NewMemoryStore())
	ctx := context.Background()
	if _, err := m.Login(ctx, "a@b.nl", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	api.MeHook = func() {
		api.MeHook = nil
		api.LoginResult = xano.AuthResult{Token: "second", User: &domain.Profile{ID: "2"}}
		if _, err := m.Login(ctx, "b@b.nl", "pw"); err != nil {
			t.Errorf("second login: %v", err)
		}
	}
	if err := m.RefreshProfile(ctx); !errors.Is(err, ErrSessionChanged) {
		t.Fatalf("expected ErrSessionChanged, got %v", err)
	}
	snap := m.Snapshot()
	if snap.Token != "second" || snap.Profile == nil || snap.Profile.ID != "2" {
		t.Fatalf("expected second session untouched, got %+v", snap)
	}
}

// roleHookStore ejecuta afterRole una vez, justo despues de escribir el rol.
type roleHookStore struct {
	store.Store
	afterRole func()
}

func (s *roleHookStore) Set(ctx context.Context, key, value string) error {
	if err := s.Store.Set(ctx, key, value); err != nil {
		return err
	}
	if key == store.KeyUserRole && s.afterRole != nil {
		hook := s.afterRole
		s.afterRole = nil
		hook()
	}
	return nil
}

func TestApplyProfile_LogoutDuringRoleWriteClearsRole(t *testing.T) {
	api := &xano.FakeAuth{LoginResult: xano.AuthResult{Token: "t1", User: &domain.Profile{ID: "1", SignupType: "customer"}}}
	st := &roleHookStore{Store: store.NewMemoryStore()}
	m, _ := newTestManager(api, st)
	ctx := context.Background()

	st.afterRole = func() { m.Logout(ctx) }
	if _, err := m.Login(ctx, "a@b.nl", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	assertCleared(t, st)
}

func TestApplyProfile_StaleRoleWriteKeepsNewerSessionRole(t *testing.T) {
	api := &xano.FakeAuth{LoginResult: xano.AuthResult{Token: "t1", User: &domain.Profile{ID: "1", SignupType: "customer"}}}
	st := &roleHookStore{Store: store.NewMemoryStore()}
	m, _ := newTestManager(api, st)
	ctx := context.Background()

	st.afterRole = func() {
		m.Logout(ctx)
		api.LoginResult = xano.AuthResult{Token: "t2", User: &domain.Profile{ID: "2", SignupType: "internal"}}
		if _, err := m.Login(ctx, "b@b.nl", "pw"); err != nil {
			t.Errorf("second login: %v", err)
		}
	}
	if _, err := m.Login(ctx, "a@b.nl", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if token, _ := mustGet(t, st, store.KeyAuthToken); token != "t2" {
		t.Fatalf("expected newer token persisted, got %q", token)
	}
	if role, ok := mustGet(t, st, store.KeyUserRole); !ok || role != "internal" {
		t.Fatalf("expected newer session role kept, got %q (%v)", role, ok)
	}
}

func TestLogin_NullProfileLogsOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api:auth/login":
			w.Write([]byte(`{"authToken":"tok"}`))
		case "/api:auth/me":
			w.Write([]byte(`null`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	client := xano.NewClient(srv.URL, "auth", "V2", 2*time.Second, zap.NewNop())
	st := store.NewMemoryStore()
	m, rec := newTestManager(client, st)
	ctx := context.Background()

	if _, err := m.Login(ctx, "a@b.nl", "pw"); !errors.Is(err, xano.ErrMalformed) {
		t.Fatalf("expected malformed profile error, got %v", err)
	}
	if m.IsAuthenticated() || m.State() != domain.StateUnauthenticated {
		t.Fatalf("expected logout after null profile, state %s", m.State())
	}
	if rec.last().Redirect != LoginPath {
		t.Fatalf("expected redirect to login, got %+v", rec.last())
	}
	assertCleared(t, st)

	// la misma respuesta en un check no autentica una sesion restaurada
	seedStore(t, st, "tok", "")
	if m.CheckSession(ctx) {
		t.Fatalf("expected check to fail on null profile")
	}
}

func TestRefreshProfile_NoTokenLogsOut(t *testing.T) {
	api := &xano.FakeAuth{}
	m, rec := newTestManager(api, store.NewMemoryStore())
	if err := m.RefreshProfile(context.Background()); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
	if api.Calls() != 0 || rec.last().Redirect != LoginPath {
		t.Fatalf("expected logout without network call")
	}
}

func TestCurrentSessionWithoutManager(t *testing.T) {
	sess := CurrentSession(context.Background())
	if sess.State != domain.StateUnauthenticated || sess.Authenticated() {
		t.Fatalf("expected unauthenticated snapshot, got %+v", sess)
	}

	m, _ := newTestManager(&xano.FakeAuth{}, store.NewMemoryStore())
	ctx := WithSessionManager(context.Background(), m)
	if got, ok := SessionManagerFrom(ctx); !ok || got != m {
		t.Fatalf("expected manager from context")
	}
}

func TestParseTokenExpiry(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(fixedNow.Add(2 * time.Hour)),
	}).SignedString([]byte("any"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	cases := []struct {
		name  string
		raw   string
		token string
		want  time.Time
		isNil bool
	}{
		{name: "relative seconds", raw: "86400", want: fixedNow.Add(24 * time.Hour)},
		{name: "unix seconds", raw: "1741650000", want: time.Unix(1741650000, 0).UTC()},
		{name: "unix millis", raw: "1741650000000", want: time.UnixMilli(1741650000000).UTC()},
		{name: "rfc3339", raw: "2025-03-11T08:00:00Z", want: time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)},
		{name: "jwt exp fallback", raw: "", token: signed, want: fixedNow.Add(2 * time.Hour)},
		{name: "opaque token", raw: "", token: "opaque", isNil: true},
		{name: "garbage", raw: "soon", token: "opaque", isNil: true},
		{name: "non positive", raw: "0", isNil: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseTokenExpiry(tc.raw, tc.token, fixedNow)
			if tc.isNil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if got == nil || !got.Equal(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
