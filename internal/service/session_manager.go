package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"chargecars-portal/internal/domain"
	"chargecars-portal/internal/store"
	"chargecars-portal/internal/xano"
)

// LoginPath es la pantalla de entrada a la que se redirige tras un logout.
const LoginPath = "/auth/login"

const (
	msgLoginFailed  = "Login failed"
	msgSignupFailed = "Signup failed"
	msgMissingToken = "No authentication token received"
)

var (
	ErrNoToken           = errors.New("no token available")
	ErrMissingToken      = errors.New("no authentication token received")
	ErrLoginFailed       = errors.New("login failed")
	ErrSignupFailed      = errors.New("signup failed")
	ErrInvalidSignupType = errors.New("invalid signup type")
	ErrSessionChanged    = errors.New("session changed during refresh")
	ErrRateLimited       = errors.New("rate limited")
)

// AuthError es el fallo visible de login/signup. Message es el texto del
// servidor o el mensaje generico.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

// AuthAPI es el backend de autenticacion (Xano o un doble de test).
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (xano.AuthResult, error)
	Signup(ctx context.Context, input domain.SignupInput) (xano.AuthResult, error)
	Me(ctx context.Context, token string) (domain.Profile, error)
}

// SessionEvent se emite en cada cambio de estado de la sesion.
type SessionEvent struct {
	State         domain.SessionState `json:"state"`
	Authenticated bool                `json:"authenticated"`
	Redirect      string              `json:"redirect,omitempty"`
}

type SessionListener func(SessionEvent)

type SessionOption func(*SessionManager)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) { m.now = now }
}

// WithListener registra un observador de cambios de sesion.
func WithListener(l SessionListener) SessionOption {
	return func(m *SessionManager) {
		if l != nil {
			m.listeners = append(m.listeners, l)
		}
	}
}

// SessionManager es el dueño unico de la sesion de un cliente. Las llamadas de
// red se hacen sin sostener el mutex; generation detecta si un logout o un
// login nuevo ocurrio mientras tanto.
type SessionManager struct {
	logger *zap.Logger
	api    AuthAPI
	store  store.Store
	now    func() time.Time

	mu         sync.Mutex
	token      string
	expiresAt  *time.Time
	profile    *domain.Profile
	state      domain.SessionState
	lastErr    string
	generation uint64

	listeners []SessionListener
}

func NewSessionManager(logger *zap.Logger, api AuthAPI, st store.Store, opts ...SessionOption) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &SessionManager{
		logger: logger,
		api:    api,
		store:  st,
		now:    time.Now,
		state:  domain.StateUnauthenticated,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init restaura la sesion persistida al arrancar. Un token caducado se borra
// sin tocar la red; en otro caso se valida una sola vez con CheckSession.
func (m *SessionManager) Init(ctx context.Context) {
	token, expiresAt, err := m.readPersisted(ctx)
	if err != nil {
		m.logger.Warn("session init: read store failed", zap.Error(err))
	}
	if token == "" {
		m.setState(domain.StateUnauthenticated)
		return
	}
	if m.expired(expiresAt) {
		m.logger.Info("session init: persisted token expired")
		m.teardown(ctx, "")
		return
	}

	m.mu.Lock()
	m.token = token
	m.expiresAt = expiresAt
	m.state = domain.StateInitializing
	m.mu.Unlock()
	m.notify("")

	if !m.CheckSession(ctx) {
		m.teardown(ctx, "")
	}
}

func (m *SessionManager) Login(ctx context.Context, email, password string) (domain.Session, error) {
	res, err := m.api.Login(ctx, email, password)
	if err != nil {
		return domain.Session{}, m.authFailure("login", ErrLoginFailed, msgLoginFailed, err)
	}
	if res.Token == "" {
		return domain.Session{}, m.authFailure("login", ErrMissingToken, firstNonEmpty(res.Message, msgMissingToken), nil)
	}

	gen, err := m.install(ctx, res.Token, ParseTokenExpiry(res.Expiry, res.Token, m.now()))
	if err != nil {
		return domain.Session{}, m.authFailure("login", ErrLoginFailed, msgLoginFailed, err)
	}

	if res.User != nil {
		if !m.applyProfile(ctx, gen, res.Token, *res.User) {
			return domain.Session{}, m.authFailure("login", ErrSessionChanged, msgLoginFailed, ErrSessionChanged)
		}
		return m.Snapshot(), nil
	}
	if err := m.RefreshProfile(ctx); err != nil {
		return domain.Session{}, m.authFailure("login", ErrLoginFailed, msgLoginFailed, err)
	}
	return m.Snapshot(), nil
}

// Signup registra la cuenta y siempre recarga el perfil desde /me.
func (m *SessionManager) Signup(ctx context.Context, input domain.SignupInput) (domain.Session, error) {
	if !input.SignupType.Valid() {
		return domain.Session{}, m.authFailure("signup", ErrInvalidSignupType, msgSignupFailed, nil)
	}
	res, err := m.api.Signup(ctx, input)
	if err != nil {
		return domain.Session{}, m.authFailure("signup", ErrSignupFailed, msgSignupFailed, err)
	}
	if res.Token == "" {
		return domain.Session{}, m.authFailure("signup", ErrMissingToken, firstNonEmpty(res.Message, msgSignupFailed), nil)
	}
	if _, err := m.install(ctx, res.Token, ParseTokenExpiry(res.Expiry, res.Token, m.now())); err != nil {
		return domain.Session{}, m.authFailure("signup", ErrSignupFailed, msgSignupFailed, err)
	}
	if err := m.RefreshProfile(ctx); err != nil {
		return domain.Session{}, m.authFailure("signup", ErrSignupFailed, msgSignupFailed, err)
	}
	return m.Snapshot(), nil
}

// Logout borra token, expiracion y rol, persistidos y en memoria. Es seguro
// llamarlo sin sesion y siempre termina en unauthenticated.
func (m *SessionManager) Logout(ctx context.Context) {
	m.teardown(ctx, LoginPath)
}

// RefreshProfile recarga el perfil con el token actual. Cualquier fallo
// termina en Logout. Si la sesion cambio durante la llamada el resultado se
// descarta y se devuelve ErrSessionChanged.
func (m *SessionManager) RefreshProfile(ctx context.Context) error {
	token, gen := m.currentToken(ctx)
	if token == "" {
		m.logger.Warn("refresh profile: no token")
		m.Logout(ctx)
		return ErrNoToken
	}

	m.mu.Lock()
	if m.state == domain.StateAuthenticated && m.generation == gen {
		m.state = domain.StateRefreshing
	}
	m.mu.Unlock()

	profile, err := m.api.Me(ctx, token)
	if err != nil {
		if !m.sameGeneration(gen) {
			return ErrSessionChanged
		}
		m.logger.Warn("refresh profile failed", zap.Error(err))
		m.Logout(ctx)
		return fmt.Errorf("refresh profile: %w", err)
	}
	if !m.applyProfile(ctx, gen, token, profile) {
		m.logger.Debug("refresh profile: discarded stale result")
		return ErrSessionChanged
	}
	return nil
}

// CheckSession valida el token persistido contra /me. Nunca devuelve error.
func (m *SessionManager) CheckSession(ctx context.Context) bool {
	token, gen := m.currentToken(ctx)
	if token == "" {
		return false
	}

	m.mu.Lock()
	expiresAt := m.expiresAt
	m.mu.Unlock()
	if expiresAt == nil {
		_, persisted, err := m.readPersisted(ctx)
		if err != nil {
			m.logger.Warn("check session: read store failed", zap.Error(err))
		}
		expiresAt = persisted
	}
	if m.expired(expiresAt) {
		m.teardown(ctx, "")
		return false
	}

	profile, err := m.api.Me(ctx, token)
	if err != nil {
		m.logger.Warn("check session failed", zap.Error(err))
		return false
	}
	return m.applyProfile(ctx, gen, token, profile)
}

func (m *SessionManager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != "" && m.profile != nil
}

func (m *SessionManager) State() domain.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LastError es el ultimo mensaje de fallo de login/signup.
func (m *SessionManager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Token devuelve el bearer actual para llamadas a la API de datos.
func (m *SessionManager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Snapshot devuelve una copia de la sesion actual.
func (m *SessionManager) Snapshot() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := domain.Session{Token: m.token, State: m.state}
	if m.expiresAt != nil {
		t := *m.expiresAt
		s.ExpiresAt = &t
	}
	if m.profile != nil {
		p := *m.profile
		s.Profile = &p
	}
	return s
}

// install persiste un token nuevo y abre una generacion nueva.
func (m *SessionManager) install(ctx context.Context, token string, expiresAt *time.Time) (uint64, error) {
	if err := m.store.Set(ctx, store.KeyAuthToken, token); err != nil {
		return 0, fmt.Errorf("persist token: %w", err)
	}
	if expiresAt != nil {
		if err := m.store.Set(ctx, store.KeyTokenExpiry, expiresAt.UTC().Format(time.RFC3339)); err != nil {
			return 0, fmt.Errorf("persist expiry: %w", err)
		}
	} else if err := m.store.Delete(ctx, store.KeyTokenExpiry); err != nil {
		return 0, fmt.Errorf("clear expiry: %w", err)
	}

	m.mu.Lock()
	m.generation++
	m.token = token
	m.expiresAt = expiresAt
	m.profile = nil
	m.state = domain.StateInitializing
	gen := m.generation
	m.mu.Unlock()
	return gen, nil
}

// applyProfile instala el perfil solo si la sesion no cambio desde gen.
func (m *SessionManager) applyProfile(ctx context.Context, gen uint64, token string, profile domain.Profile) bool {
	merged := profile.MergeContact()

	m.mu.Lock()
	if m.generation != gen || (m.token != "" && m.token != token) {
		m.mu.Unlock()
		return false
	}
	m.token = token
	m.profile = &merged
	m.state = domain.StateAuthenticated
	m.lastErr = ""
	m.mu.Unlock()

	if role := merged.Role(); role != "" {
		if err := m.store.Set(ctx, store.KeyUserRole, role); err != nil {
			m.logger.Warn("persist user role failed", zap.Error(err))
		} else if !m.sameGeneration(gen) {
			m.reconcileRole(ctx, token)
		}
	}
	m.notify("")
	return true
}

// reconcileRole corrige el rol escrito por una generacion que ya no es la
// actual: sin sesion persistida se borra, y si hay otra sesion se deja el rol
// de esa sesion.
func (m *SessionManager) reconcileRole(ctx context.Context, token string) {
	persisted, _, err := m.store.Get(ctx, store.KeyAuthToken)
	if err != nil {
		m.logger.Warn("reconcile user role: read token failed", zap.Error(err))
		return
	}
	if persisted == token {
		return
	}
	if persisted == "" {
		if err := m.store.Delete(ctx, store.KeyUserRole); err != nil {
			m.logger.Warn("reconcile user role: delete failed", zap.Error(err))
		}
		return
	}

	m.mu.Lock()
	var role string
	if m.token == persisted && m.profile != nil {
		role = m.profile.Role()
	}
	m.mu.Unlock()
	// si la sesion nueva aun no tiene perfil, escribira su rol al aplicarlo
	if role == "" {
		return
	}
	if err := m.store.Set(ctx, store.KeyUserRole, role); err != nil {
		m.logger.Warn("reconcile user role: restore failed", zap.Error(err))
	}
}

// teardown borra la sesion. Ningun paso puede impedir que el estado final sea
// unauthenticated.
func (m *SessionManager) teardown(ctx context.Context, redirect string) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("session teardown panic", zap.Any("panic", r))
		}
		m.mu.Lock()
		m.generation++
		m.token = ""
		m.expiresAt = nil
		m.profile = nil
		m.state = domain.StateUnauthenticated
		m.mu.Unlock()
		m.notify(redirect)
	}()

	if err := store.ClearSession(ctx, m.store); err != nil {
		m.logger.Warn("clear session store failed", zap.Error(err))
		for _, key := range store.SessionKeys {
			if err := m.store.Delete(ctx, key); err != nil {
				m.logger.Warn("clear session key failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
}

func (m *SessionManager) authFailure(op string, kind error, message string, cause error) error {
	var apiErr *xano.APIError
	if errors.As(cause, &apiErr) && apiErr.Message != "" {
		message = apiErr.Message
	}
	m.mu.Lock()
	m.lastErr = message
	m.mu.Unlock()

	fields := []zap.Field{zap.String("op", op), zap.String("reason", message)}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	m.logger.Warn("authentication failed", fields...)

	if cause == nil {
		return &AuthError{Message: message, Err: kind}
	}
	return &AuthError{Message: message, Err: errors.Join(kind, cause)}
}

// currentToken devuelve el token en memoria o, si no hay, el persistido.
func (m *SessionManager) currentToken(ctx context.Context) (string, uint64) {
	m.mu.Lock()
	token, gen := m.token, m.generation
	m.mu.Unlock()
	if token != "" {
		return token, gen
	}
	persisted, _, err := m.store.Get(ctx, store.KeyAuthToken)
	if err != nil {
		m.logger.Warn("read token failed", zap.Error(err))
		return "", gen
	}
	return persisted, gen
}

func (m *SessionManager) readPersisted(ctx context.Context) (string, *time.Time, error) {
	token, _, err := m.store.Get(ctx, store.KeyAuthToken)
	if err != nil {
		return "", nil, err
	}
	raw, ok, err := m.store.Get(ctx, store.KeyTokenExpiry)
	if err != nil || !ok {
		return token, nil, err
	}
	expiresAt, perr := time.Parse(time.RFC3339, raw)
	if perr != nil {
		m.logger.Warn("ignoring unparseable token expiry", zap.String("value", raw))
		return token, nil, nil
	}
	return token, &expiresAt, nil
}

func (m *SessionManager) expired(expiresAt *time.Time) bool {
	return expiresAt != nil && expiresAt.Before(m.now())
}

func (m *SessionManager) sameGeneration(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation == gen
}

func (m *SessionManager) setState(state domain.SessionState) {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
	m.notify("")
}

func (m *SessionManager) notify(redirect string) {
	m.mu.Lock()
	ev := SessionEvent{
		State:         m.state,
		Authenticated: m.token != "" && m.profile != nil,
		Redirect:      redirect,
	}
	listeners := m.listeners
	m.mu.Unlock()

	for _, l := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					m.logger.Error("session listener panic", zap.Any("panic", r))
				}
			}()
			l(ev)
		}()
	}
}
