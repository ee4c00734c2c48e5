package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chargecars-portal/internal/service"
)

const (
	portalCookieName  = "portal_session"
	sessionIDKey      = "portal_session_id"
	sessionManagerKey = "session_manager"
)

// SessionBinder resuelve la cookie del portal al SessionManager del cliente.
type SessionBinder struct {
	logger   *zap.Logger
	tokens   *service.PortalTokenService
	registry *service.SessionRegistry
	secure   bool
}

func NewSessionBinder(logger *zap.Logger, tokens *service.PortalTokenService, registry *service.SessionRegistry, secureCookie bool) *SessionBinder {
	return &SessionBinder{logger: logger, tokens: tokens, registry: registry, secure: secureCookie}
}

// Middleware adjunta el manager al contexto. Si la cookie falta o no es
// valida se abre una sesion de portal nueva.
func (b *SessionBinder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := ""
		renew := true
		if raw, err := c.Cookie(portalCookieName); err == nil && raw != "" {
			claims, perr := b.tokens.Parse(raw)
			if perr == nil {
				sid = claims.SessionID
				// se renueva pasada la mitad de la vida de la cookie
				renew = claims.ExpiresAt != nil && time.Until(claims.ExpiresAt.Time) < b.tokens.TTL()/2
			} else {
				b.logger.Debug("portal cookie rejected", zap.Error(perr))
			}
		}
		if sid == "" {
			sid = b.tokens.NewSessionID()
		}
		if renew {
			if err := b.setCookie(c, sid); err != nil {
				b.logger.Error("issue portal cookie failed", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
				c.Abort()
				return
			}
		}

		m := b.registry.Get(c.Request.Context(), sid)
		c.Set(sessionIDKey, sid)
		c.Set(sessionManagerKey, m)
		c.Request = c.Request.WithContext(service.WithSessionManager(c.Request.Context(), m))
		c.Next()
	}
}

// Rotate abre una sesion de portal vacia con un sid nuevo. Login y signup
// autentican siempre sobre un sid recien emitido, nunca sobre el que trae
// el cliente.
func (b *SessionBinder) Rotate(c *gin.Context) (string, *service.SessionManager) {
	sid := b.tokens.NewSessionID()
	return sid, b.registry.Get(c.Request.Context(), sid)
}

// Adopt instala la sesion rotada como la del cliente: reemplaza la cookie y
// descarta la sesion anterior.
func (b *SessionBinder) Adopt(c *gin.Context, sid string, m *service.SessionManager) error {
	// la cookie que haya puesto el middleware en esta respuesta ya no vale
	c.Writer.Header().Del("Set-Cookie")
	if err := b.setCookie(c, sid); err != nil {
		return err
	}

	oldSID := GetSessionID(c)
	if prev, ok := GetSessionManager(c); ok && prev != m {
		if prev.IsAuthenticated() {
			prev.Logout(c.Request.Context())
		}
		b.registry.Forget(oldSID)
	}

	c.Set(sessionIDKey, sid)
	c.Set(sessionManagerKey, m)
	c.Request = c.Request.WithContext(service.WithSessionManager(c.Request.Context(), m))
	return nil
}

// Discard suelta una sesion rotada que no llego a autenticarse.
func (b *SessionBinder) Discard(c *gin.Context, sid string, m *service.SessionManager) {
	if m.Token() != "" {
		m.Logout(c.Request.Context())
	}
	b.registry.Forget(sid)
}

func (b *SessionBinder) setCookie(c *gin.Context, sid string) error {
	token, expiresAt, err := b.tokens.Issue(sid)
	if err != nil {
		return err
	}
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(portalCookieName, token, maxAge, "/", "", b.secure, true)
	return nil
}

// RequireAuth corta con 401 y la ruta de login si no hay sesion valida.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := GetSessionManager(c)
		if !ok || !m.IsAuthenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "redirect": service.LoginPath})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetSessionManager obtiene el manager del cliente desde el contexto de gin.
func GetSessionManager(c *gin.Context) (*service.SessionManager, bool) {
	val, ok := c.Get(sessionManagerKey)
	if !ok {
		return nil, false
	}
	m, ok := val.(*service.SessionManager)
	return m, ok && m != nil
}

func GetSessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
