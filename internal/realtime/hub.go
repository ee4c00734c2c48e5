// Package realtime empuja los cambios de sesion a los clientes del portal
// conectados por websocket.
package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"chargecars-portal/internal/domain"
)

// Message es la notificacion de cambio de sesion.
type Message struct {
	Type          string              `json:"type"`
	State         domain.SessionState `json:"state"`
	Authenticated bool                `json:"authenticated"`
	Redirect      string              `json:"redirect,omitempty"`
}

// NewSessionMessage arma el mensaje session_<estado>.
func NewSessionMessage(state domain.SessionState, authenticated bool, redirect string) Message {
	return Message{
		Type:          "session_" + string(state),
		State:         state,
		Authenticated: authenticated,
		Redirect:      redirect,
	}
}

// Hub agrupa los clientes por sesion del portal.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[*Client]struct{}
	logger   *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		sessions: make(map[string]map[*Client]struct{}),
		logger:   logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	group, ok := h.sessions[c.sessionID]
	if !ok {
		group = make(map[*Client]struct{})
		h.sessions[c.sessionID] = group
	}
	group[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister saca al cliente y cierra su canal de envio.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if group, ok := h.sessions[c.sessionID]; ok {
		if _, ok := group[c]; ok {
			delete(group, c)
			close(c.send)
		}
		if len(group) == 0 {
			delete(h.sessions, c.sessionID)
		}
	}
	h.mu.Unlock()
}

// Publish envia msg a todas las pestañas de una sesion.
func (h *Hub) Publish(sessionID string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal session message", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.sessions[sessionID] {
		select {
		case c.send <- data:
		default:
			// buffer lleno: se descarta
		}
	}
}

// ClientCount devuelve los clientes conectados de una sesion.
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}
