package service

import (
	"context"

	"chargecars-portal/internal/domain"
)

type sessionManagerKey struct{}

// WithSessionManager adjunta el manager del cliente al contexto.
func WithSessionManager(ctx context.Context, m *SessionManager) context.Context {
	return context.WithValue(ctx, sessionManagerKey{}, m)
}

// SessionManagerFrom recupera el manager del contexto, si existe.
func SessionManagerFrom(ctx context.Context) (*SessionManager, bool) {
	m, ok := ctx.Value(sessionManagerKey{}).(*SessionManager)
	return m, ok && m != nil
}

// CurrentSession devuelve la sesion del contexto o una sesion vacia
// unauthenticated cuando no hay manager.
func CurrentSession(ctx context.Context) domain.Session {
	m, ok := SessionManagerFrom(ctx)
	if !ok {
		return domain.Session{State: domain.StateUnauthenticated}
	}
	return m.Snapshot()
}
