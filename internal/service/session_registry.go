package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"chargecars-portal/internal/store"
)

// SessionRegistry mantiene un SessionManager por cliente del portal. Cada
// cliente tiene su propio namespace en el store.
type SessionRegistry struct {
	logger  *zap.Logger
	api     AuthAPI
	scoper  store.Scoper
	now     func() time.Time
	onEvent func(sessionID string, ev SessionEvent)

	mu      sync.Mutex
	entries map[string]*registryEntry
}

type registryEntry struct {
	manager  *SessionManager
	init     sync.Once
	lastSeen time.Time
}

func NewSessionRegistry(logger *zap.Logger, api AuthAPI, scoper store.Scoper) *SessionRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionRegistry{
		logger:  logger,
		api:     api,
		scoper:  scoper,
		now:     time.Now,
		entries: make(map[string]*registryEntry),
	}
}

// OnEvent registra el destino de los eventos de todas las sesiones.
// Debe llamarse antes de servir trafico.
func (r *SessionRegistry) OnEvent(fn func(sessionID string, ev SessionEvent)) {
	r.onEvent = fn
}

// Get devuelve el manager del cliente, creandolo e inicializandolo desde el
// store la primera vez.
func (r *SessionRegistry) Get(ctx context.Context, sessionID string) *SessionManager {
	r.mu.Lock()
	entry, ok := r.entries[sessionID]
	if !ok {
		entry = &registryEntry{manager: r.newManager(sessionID)}
		r.entries[sessionID] = entry
	}
	entry.lastSeen = r.now()
	r.mu.Unlock()

	// Init no debe abortarse si el request que lo disparo se cancela.
	entry.init.Do(func() {
		entry.manager.Init(context.WithoutCancel(ctx))
	})
	return entry.manager
}

// Forget suelta el manager en memoria; lo persistido queda en el store.
func (r *SessionRegistry) Forget(sessionID string) {
	r.mu.Lock()
	delete(r.entries, sessionID)
	r.mu.Unlock()
}

// Sweep descarta los managers sin uso desde hace mas de maxIdle.
func (r *SessionRegistry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, entry := range r.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			removed++
		}
	}
	if removed > 0 {
		r.logger.Debug("session registry sweep", zap.Int("removed", removed), zap.Int("remaining", len(r.entries)))
	}
	return removed
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *SessionRegistry) newManager(sessionID string) *SessionManager {
	opts := []SessionOption{WithClock(r.now)}
	if r.onEvent != nil {
		fn := r.onEvent
		opts = append(opts, WithListener(func(ev SessionEvent) { fn(sessionID, ev) }))
	}
	logger := r.logger.With(zap.String("session_id", sessionID))
	return NewSessionManager(logger, r.api, r.scoper.Scope(sessionID), opts...)
}
