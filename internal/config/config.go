package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type Config struct {
	// Server
	Port        string
	Environment string
	LogLevel    string

	// Backend
	APIBaseURL   string
	APIToken     string
	APITimeout   time.Duration
	APIRateLimit float64
	APIRateBurst int

	// Session
	SessionSecret string
	SessionCookie string
	SessionTTL    time.Duration
	AuthMode      string // "backend" or "local"
	AdminAccounts string // email:role:bcrypt-hash, comma separated

	// Secret Manager
	GCPProjectID       string
	SessionSecretName  string
	APITokenSecretName string

	// Redis (session revocation list)
	RedisURL string

	// NATS (audit events)
	NATSURL     string
	NATSSubject string

	// CORS
	AllowedOrigins []string

	// Views
	InventoryPageSize int
	AutoCloseDelay    time.Duration
	StoreName         string
}

func Load() *Config {
	apiRateLimit, _ := strconv.ParseFloat(getEnv("API_RATE_LIMIT", "20"), 64)
	apiRateBurst, _ := strconv.Atoi(getEnv("API_RATE_BURST", "10"))
	inventoryPageSize, _ := strconv.Atoi(getEnv("INVENTORY_PAGE_SIZE", "10"))

	return &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Backend
		APIBaseURL:   strings.TrimSuffix(getEnv("API_BASE_URL", "http://localhost:3000/api"), "/"),
		APIToken:     getEnv("API_TOKEN", ""),
		APITimeout:   getDuration("API_TIMEOUT", 15*time.Second),
		APIRateLimit: apiRateLimit,
		APIRateBurst: apiRateBurst,

		// Session
		SessionSecret: getEnv("SESSION_SECRET", "change-me-in-production"),
		SessionCookie: getEnv("SESSION_COOKIE", "admin_session"),
		SessionTTL:    getDuration("SESSION_TTL", 8*time.Hour),
		AuthMode:      strings.ToLower(getEnv("AUTH_MODE", "backend")),
		AdminAccounts: getEnv("ADMIN_ACCOUNTS", ""),

		// Secret Manager
		GCPProjectID:       getEnv("GCP_PROJECT_ID", ""),
		SessionSecretName:  getEnv("SESSION_SECRET_NAME", "admin-console-session-secret"),
		APITokenSecretName: getEnv("API_TOKEN_SECRET_NAME", ""),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// NATS
		NATSURL:     getEnv("NATS_URL", ""),
		NATSSubject: getEnv("NATS_SUBJECT", "admin.console.audit"),

		// CORS
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:4200")),

		// Views
		InventoryPageSize: inventoryPageSize,
		AutoCloseDelay:    getDuration("BULK_UPLOAD_AUTO_CLOSE", 2*time.Second),
		StoreName:         getEnv("STORE_NAME", "Store"),
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if c.AuthMode != "backend" && c.AuthMode != "local" {
		return fmt.Errorf("AUTH_MODE must be backend or local, got %q", c.AuthMode)
	}
	if c.AuthMode == "local" && c.AdminAccounts == "" {
		return fmt.Errorf("ADMIN_ACCOUNTS is required when AUTH_MODE=local")
	}
	if c.IsProduction() && c.SessionSecret == "change-me-in-production" {
		return fmt.Errorf("SESSION_SECRET must be set in production")
	}
	return nil
}

// SecretSource reads named secrets, e.g. GCP Secret Manager.
type SecretSource interface {
	Access(ctx context.Context, name string) (string, error)
}

// ResolveSecrets overwrites SESSION_SECRET and API_TOKEN with the values
// stored under their secret names. An empty name keeps the env value.
func (c *Config) ResolveSecrets(ctx context.Context, src SecretSource) error {
	if c.SessionSecretName != "" {
		value, err := src.Access(ctx, c.SessionSecretName)
		if err != nil {
			return fmt.Errorf("session secret: %w", err)
		}
		c.SessionSecret = value
	}
	if c.APITokenSecretName != "" {
		value, err := src.Access(ctx, c.APITokenSecretName)
		if err != nil {
			return fmt.Errorf("api token: %w", err)
		}
		c.APIToken = value
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// NewLogger builds the process logger: JSON in production, text otherwise.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	if c.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration accepts Go durations ("15s") or plain milliseconds.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
