package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chargecars-portal/internal/domain"
	"chargecars-portal/internal/service"
	"chargecars-portal/internal/xano"
)

// AuthHandler expone el ciclo de vida de la sesion.
type AuthHandler struct {
	logger  *zap.Logger
	binder  *SessionBinder
	limiter service.LoginLimiter
}

func NewAuthHandler(logger *zap.Logger, binder *SessionBinder, limiter service.LoginLimiter) *AuthHandler {
	return &AuthHandler{logger: logger, binder: binder, limiter: limiter}
}

type sessionResponse struct {
	State         domain.SessionState  `json:"state"`
	Authenticated bool                 `json:"authenticated"`
	ExpiresAt     *time.Time           `json:"expires_at,omitempty"`
	User          *service.ProfileView `json:"user,omitempty"`
	Profile       *domain.Profile      `json:"profile,omitempty"`
}

func newSessionResponse(s domain.Session) sessionResponse {
	resp := sessionResponse{
		State:         s.State,
		Authenticated: s.Authenticated(),
		ExpiresAt:     s.ExpiresAt,
		Profile:       s.Profile,
	}
	if s.Profile != nil {
		view := service.NewProfileView(s.Profile)
		resp.User = &view
	}
	return resp
}

// Login maneja POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if h.limiter != nil && !h.limiter.Allow(req.Email) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		return
	}

	sid, m := h.binder.Rotate(c)
	sess, err := m.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.binder.Discard(c, sid, m)
		c.JSON(authErrorStatus(err, http.StatusUnauthorized), gin.H{"error": authErrorMessage(err)})
		return
	}
	if !h.adopt(c, sid, m) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": newSessionResponse(sess)})
}

// Signup maneja POST /auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		FirstName      string `json:"first_name" binding:"required"`
		LastName       string `json:"last_name" binding:"required"`
		Email          string `json:"email" binding:"required,email"`
		Password       string `json:"password" binding:"required"`
		SignupType     string `json:"signup_type" binding:"required"`
		OrganizationID string `json:"organization_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid signup request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sid, m := h.binder.Rotate(c)
	sess, err := m.Signup(c.Request.Context(), domain.SignupInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Password:       req.Password,
		SignupType:     domain.SignupType(req.SignupType),
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		h.binder.Discard(c, sid, m)
		c.JSON(authErrorStatus(err, http.StatusBadRequest), gin.H{"error": authErrorMessage(err)})
		return
	}
	if !h.adopt(c, sid, m) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": newSessionResponse(sess)})
}

// Logout maneja POST /auth/logout. Siempre responde 200.
func (h *AuthHandler) Logout(c *gin.Context) {
	if m, ok := GetSessionManager(c); ok {
		m.Logout(c.Request.Context())
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged_out", "redirect": service.LoginPath})
}

// Refresh maneja POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	m, ok := GetSessionManager(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "redirect": service.LoginPath})
		return
	}
	if err := m.RefreshProfile(c.Request.Context()); err != nil {
		if errors.Is(err, service.ErrSessionChanged) {
			c.JSON(http.StatusConflict, gin.H{"error": "session changed"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "redirect": service.LoginPath})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": newSessionResponse(m.Snapshot())})
}

// Session maneja GET /auth/session sin llamadas de red.
func (h *AuthHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"session": newSessionResponse(service.CurrentSession(c.Request.Context()))})
}

// Check maneja GET /auth/check.
func (h *AuthHandler) Check(c *gin.Context) {
	m, ok := GetSessionManager(c)
	authenticated := ok && m.CheckSession(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"authenticated": authenticated})
}

func (h *AuthHandler) adopt(c *gin.Context, sid string, m *service.SessionManager) bool {
	if err := h.binder.Adopt(c, sid, m); err != nil {
		h.logger.Error("rotate portal session failed", zap.Error(err))
		h.binder.Discard(c, sid, m)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
		return false
	}
	return true
}

func authErrorStatus(err error, fallback int) int {
	var apiErr *xano.APIError
	switch {
	case errors.Is(err, service.ErrInvalidSignupType):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrMissingToken), errors.Is(err, xano.ErrNetwork), errors.Is(err, xano.ErrMalformed):
		return http.StatusBadGateway
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		return apiErr.StatusCode
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	}
	return fallback
}

func authErrorMessage(err error) string {
	var authErr *service.AuthError
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	return err.Error()
}
