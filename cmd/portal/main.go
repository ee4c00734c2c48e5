package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"chargecars-portal/internal/config"
	"chargecars-portal/internal/db"
	apihttp "chargecars-portal/internal/http"
	"chargecars-portal/internal/realtime"
	"chargecars-portal/internal/service"
	"chargecars-portal/internal/status"
	"chargecars-portal/internal/store"
	"chargecars-portal/internal/xano"
)

const (
	sweepInterval = 10 * time.Minute
	maxIdle       = time.Hour
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	if err := cfg.ValidateServer(); err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
			_ = redisClient.Close()
			redisClient = nil
		}
		cancel()
	}

	storage, closeStore := openStore(ctx, cfg, redisClient, logger)
	defer closeStore()

	var limiter service.LoginLimiter = service.NewLoginLimiter(cfg.LoginRateWindow(), cfg.LoginRateLimit)
	if redisClient != nil {
		limiter = service.NewRedisLoginLimiter(redisClient, cfg.LoginRateWindow(), cfg.LoginRateLimit)
	}

	xanoClient := xano.NewClient(cfg.XanoBaseURL, cfg.XanoAuthGroup, cfg.XanoAPIGroup, cfg.XanoTimeout(), logger)
	hub := realtime.NewHub(logger)
	registry := service.NewSessionRegistry(logger, xanoClient, storage)
	registry.OnEvent(func(sessionID string, ev service.SessionEvent) {
		hub.Publish(sessionID, realtime.NewSessionMessage(ev.State, ev.Authenticated, ev.Redirect))
	})
	tokens := service.NewPortalTokenService(cfg.PortalSecret, cfg.PortalSessionTTL())
	resolver := status.Default()
	dashboard := service.NewDashboardService(logger, xanoClient, resolver)

	binder := apihttp.NewSessionBinder(logger, tokens, registry, cfg.CookieSecure)
	router := apihttp.NewRouter(
		logger,
		binder,
		apihttp.NewAuthHandler(logger, binder, limiter),
		apihttp.NewPortalHandler(logger, xanoClient, dashboard, resolver, hub),
	)

	go sweepSessions(ctx, registry)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("store", cfg.StoreDriver))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

// openStore elige el almacenamiento de sesion. Si Redis no responde se cae a
// memoria en vez de abortar el arranque.
func openStore(ctx context.Context, cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) (store.Scoper, func()) {
	switch cfg.StoreDriver {
	case config.StoreRedis:
		if redisClient != nil {
			return store.NewRedisStore(redisClient, cfg.PortalSessionTTL()), func() { _ = redisClient.Close() }
		}
		logger.Warn("redis unavailable, falling back to memory store")
	case config.StorePostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		if err := db.Ping(ctx, pool); err != nil {
			logger.Fatal("db ping", zap.Error(err))
		}
		if err := db.EnsurePgSchema(ctx, pool); err != nil {
			logger.Fatal("db schema", zap.Error(err))
		}
		return store.NewPgStore(pool), pool.Close
	case config.StoreSQLite:
		conn, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			logger.Fatal("sqlite open", zap.Error(err))
		}
		return store.NewSQLiteStore(conn), func() { _ = conn.Close() }
	}
	return store.NewMemoryStore(), func() {}
}

func sweepSessions(ctx context.Context, registry *service.SessionRegistry) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			registry.Sweep(maxIdle)
		case <-ctx.Done():
			return
		}
	}
}
