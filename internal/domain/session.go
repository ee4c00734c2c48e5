package domain

import "time"

// SessionState es el estado del ciclo de vida de la sesion de un cliente.
type SessionState string

const (
	StateUnauthenticated SessionState = "unauthenticated"
	StateInitializing    SessionState = "initializing"
	StateAuthenticated   SessionState = "authenticated"
	StateRefreshing      SessionState = "refreshing"
)

// Session representa al actor autenticado de un cliente.
type Session struct {
	Token     string       `json:"-"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
	Profile   *Profile     `json:"profile,omitempty"`
	State     SessionState `json:"state"`
}

// Authenticated es verdadero solo si hay token y perfil.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.Profile != nil
}
