package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configura el router de Gin con middlewares y rutas del portal.
func NewRouter(
	logger *zap.Logger,
	binder *SessionBinder,
	authH *AuthHandler,
	portalH *PortalHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", portalH.Health)
	r.GET("/status", portalH.Statuses)
	r.GET("/status/:code", portalH.Status)

	// Todo lo demas necesita la sesion del cliente.
	s := r.Group("", binder.Middleware())

	auth := s.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/signup", authH.Signup)
	auth.POST("/logout", authH.Logout)
	auth.POST("/refresh", authH.Refresh)
	auth.GET("/session", authH.Session)
	auth.GET("/check", authH.Check)

	s.GET("/ws/session", portalH.SessionSocket)

	protected := s.Group("", RequireAuth())
	protected.GET("/orders", portalH.ListOrders)
	protected.GET("/orders/:id", portalH.GetOrder)
	protected.GET("/customers", portalH.ListCustomers)
	protected.GET("/customers/metrics", portalH.CustomerMetrics)
	protected.GET("/customers/:id", portalH.GetCustomer)
	protected.GET("/dashboard/stats", portalH.DashboardStats)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
