package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Drivers de almacenamiento de sesion soportados.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config centraliza la configuración del portal.
type Config struct {
	HTTPPort                string `env:"HTTP_PORT" envDefault:"8080"`
	XanoBaseURL             string `env:"XANO_BASE_URL" envDefault:"https://api.chargecars.nl"`
	XanoAPIGroup            string `env:"XANO_API_GROUP" envDefault:"V2"`
	XanoAuthGroup           string `env:"XANO_AUTH_GROUP" envDefault:"auth"`
	XanoTimeoutSeconds      int    `env:"XANO_TIMEOUT_SECONDS" envDefault:"15"`
	StoreDriver             string `env:"STORE_DRIVER" envDefault:"memory"`
	DatabaseURL             string `env:"DATABASE_URL"`
	SQLitePath              string `env:"SQLITE_PATH" envDefault:"portal.db"`
	RedisAddr               string `env:"REDIS_ADDR"`
	RedisPassword           string `env:"REDIS_PASSWORD"`
	RedisDB                 int    `env:"REDIS_DB" envDefault:"0"`
	PortalSecret            string `env:"PORTAL_SECRET"`
	PortalSessionTTLMinutes int    `env:"PORTAL_SESSION_TTL_MINUTES" envDefault:"720"`
	LoginRateLimit          int    `env:"LOGIN_RATE_LIMIT" envDefault:"5"`
	LoginRateWindowSeconds  int    `env:"LOGIN_RATE_WINDOW_SECONDS" envDefault:"600"`
	CookieSecure            bool   `env:"COOKIE_SECURE" envDefault:"false"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate comprueba que el driver elegido tenga lo que necesita.
func (c *Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case StoreMemory:
	case StoreRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("STORE_DRIVER=redis requires REDIS_ADDR"))
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("STORE_DRIVER=postgres requires DATABASE_URL"))
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("STORE_DRIVER=sqlite requires SQLITE_PATH"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if strings.TrimSpace(c.XanoBaseURL) == "" {
		errs = append(errs, errors.New("XANO_BASE_URL is empty"))
	}
	if c.XanoTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("XANO_TIMEOUT_SECONDS must be positive"))
	}
	return errors.Join(errs...)
}

// ValidateServer suma a Validate lo que solo necesita el gateway HTTP: sin
// PORTAL_SECRET no se puede firmar la cookie de sesion.
func (c *Config) ValidateServer() error {
	var errs []error
	if err := c.Validate(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.PortalSecret) == "" {
		errs = append(errs, errors.New("PORTAL_SECRET is required to sign portal sessions"))
	}
	if c.PortalSessionTTLMinutes <= 0 {
		errs = append(errs, errors.New("PORTAL_SESSION_TTL_MINUTES must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) XanoTimeout() time.Duration {
	return time.Duration(c.XanoTimeoutSeconds) * time.Second
}

func (c *Config) PortalSessionTTL() time.Duration {
	return time.Duration(c.PortalSessionTTLMinutes) * time.Minute
}

func (c *Config) LoginRateWindow() time.Duration {
	return time.Duration(c.LoginRateWindowSeconds) * time.Second
}
