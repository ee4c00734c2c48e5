package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chargecars-portal/internal/domain"
	"chargecars-portal/internal/realtime"
	"chargecars-portal/internal/service"
	"chargecars-portal/internal/status"
	"chargecars-portal/internal/xano"
)

// DataAPI es la API de datos V2 que el portal reenvia con el token del cliente.
type DataAPI interface {
	ListOrders(ctx context.Context, token string, f domain.OrderFilters) ([]domain.Order, domain.Pagination, error)
	GetOrder(ctx context.Context, token, id string) (domain.Order, error)
	ListCustomers(ctx context.Context, token string, f domain.CustomerFilters) ([]domain.Customer, domain.Pagination, error)
	GetCustomer(ctx context.Context, token, id string) (domain.Customer, error)
	CustomerMetrics(ctx context.Context, token string) (domain.CustomerMetrics, error)
}

// PortalHandler sirve las vistas de datos del portal.
type PortalHandler struct {
	logger    *zap.Logger
	data      DataAPI
	dashboard *service.DashboardService
	resolver  *status.Resolver
	hub       *realtime.Hub
}

func NewPortalHandler(logger *zap.Logger, data DataAPI, dashboard *service.DashboardService, resolver *status.Resolver, hub *realtime.Hub) *PortalHandler {
	if resolver == nil {
		resolver = status.Default()
	}
	return &PortalHandler{logger: logger, data: data, dashboard: dashboard, resolver: resolver, hub: hub}
}

// ListOrders maneja GET /orders.
func (h *PortalHandler) ListOrders(c *gin.Context) {
	var filters domain.OrderFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filters"})
		return
	}
	orders, page, err := h.data.ListOrders(c.Request.Context(), sessionToken(c), filters)
	if err != nil {
		h.upstreamError(c, "list orders", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": h.dashboard.DecorateOrders(orders), "pagination": page})
}

// GetOrder maneja GET /orders/:id.
func (h *PortalHandler) GetOrder(c *gin.Context) {
	order, err := h.data.GetOrder(c.Request.Context(), sessionToken(c), c.Param("id"))
	if err != nil {
		h.upstreamError(c, "get order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": h.dashboard.DecorateOrder(order)})
}

// ListCustomers maneja GET /customers.
func (h *PortalHandler) ListCustomers(c *gin.Context) {
	var filters domain.CustomerFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filters"})
		return
	}
	customers, page, err := h.data.ListCustomers(c.Request.Context(), sessionToken(c), filters)
	if err != nil {
		h.upstreamError(c, "list customers", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers, "pagination": page})
}

// GetCustomer maneja GET /customers/:id.
func (h *PortalHandler) GetCustomer(c *gin.Context) {
	customer, err := h.data.GetCustomer(c.Request.Context(), sessionToken(c), c.Param("id"))
	if err != nil {
		h.upstreamError(c, "get customer", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// CustomerMetrics maneja GET /customers/metrics.
func (h *PortalHandler) CustomerMetrics(c *gin.Context) {
	metrics, err := h.data.CustomerMetrics(c.Request.Context(), sessionToken(c))
	if err != nil {
		h.upstreamError(c, "customer metrics", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}

// DashboardStats maneja GET /dashboard/stats.
func (h *PortalHandler) DashboardStats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context(), sessionToken(c))
	if err != nil {
		h.upstreamError(c, "dashboard stats", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// Status maneja GET /status/:code.
func (h *PortalHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"badge": h.resolver.Badge(domain.StatusCode(c.Param("code")))})
}

// Statuses maneja GET /status con los tokens canonicos.
func (h *PortalHandler) Statuses(c *gin.Context) {
	codes := status.CanonicalCodes()
	badges := make([]domain.StatusBadge, 0, len(codes))
	for _, code := range codes {
		badges = append(badges, h.resolver.Badge(code))
	}
	c.JSON(http.StatusOK, gin.H{"statuses": badges})
}

// SessionSocket maneja GET /ws/session.
func (h *PortalHandler) SessionSocket(c *gin.Context) {
	if h.hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "realtime disabled"})
		return
	}
	c.Writer.Header().Del("Content-Type")
	h.hub.Serve(c.Writer, c.Request, GetSessionID(c))
}

// Health maneja GET /healthz.
func (h *PortalHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// upstreamError traduce fallos de Xano. Un 401 significa que el token ya no
// vale: se cierra la sesion y se manda al login.
func (h *PortalHandler) upstreamError(c *gin.Context, op string, err error) {
	if xano.IsUnauthorized(err) {
		if m, ok := GetSessionManager(c); ok {
			m.Logout(c.Request.Context())
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "redirect": service.LoginPath})
		return
	}
	h.logger.Warn("upstream call failed", zap.String("op", op), zap.Error(err))
	c.JSON(xano.HTTPStatus(err), gin.H{"error": xano.UserMessage(err)})
}

func sessionToken(c *gin.Context) string {
	if m, ok := GetSessionManager(c); ok {
		return strings.TrimSpace(m.Token())
	}
	return ""
}
