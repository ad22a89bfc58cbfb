package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/terracehq/terrace-auth/internal/auth/service"
	"github.com/terracehq/terrace-auth/pkg/jwtx"
	"github.com/terracehq/terrace-auth/pkg/mailx"
)

type Config struct {
	SessionSecret string        // Required: secret the session signing key is derived from
	Issuer        string        // Optional: issuer claim for session tokens (default: terrace-auth)
	CookieName    string        // Optional: session cookie name (default: terrace_session)
	SessionTTL    time.Duration // Derived from Env unless AUTH_SESSION_TTL overrides it

	DatabaseFile string        // Optional: path to SQLite database file (default: ./auth.db)
	ResetTTL     time.Duration // Optional: reset code lifetime (default: 15m)
	ResetBaseURL string        // Optional: public URL prefix for emailed reset links

	SMTP mailx.Config // Optional: SMTP settings; unset means mail is logged, not sent

	// Optional first-run seed account, created only when the users table is
	// empty. Without it a fresh deployment has no way to log in.
	SeedEmail     string
	SeedPassword  string
	SeedFirstName string
	SeedLastName  string

	Env                  string        // Environment (dev, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

// LoadConfig reads configuration from the environment. The only hard
// requirement is AUTH_SESSION_SECRET; everything else has a dev-friendly
// default.
func LoadConfig() (Config, error) {
	cfg := Config{
		SessionSecret: os.Getenv("AUTH_SESSION_SECRET"),
		Issuer:        getEnvOrDefault("AUTH_ISSUER", "terrace-auth"),
		CookieName:    getEnvOrDefault("AUTH_COOKIE_NAME", "terrace_session"),
		DatabaseFile:  getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		ResetTTL:      getEnvDurationOrDefault("AUTH_RESET_TTL", service.DefaultResetTTL),
		ResetBaseURL:  os.Getenv("AUTH_RESET_BASE_URL"),
		SMTP: mailx.Config{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvIntOrDefault("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
		SeedEmail:            os.Getenv("AUTH_SEED_EMAIL"),
		SeedPassword:         os.Getenv("AUTH_SEED_PASSWORD"),
		SeedFirstName:        getEnvOrDefault("AUTH_SEED_FIRST_NAME", "Admin"),
		SeedLastName:         getEnvOrDefault("AUTH_SEED_LAST_NAME", "User"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	if cfg.SessionSecret == "" {
		return Config{}, errors.New("AUTH_SESSION_SECRET is required")
	}

	// Session lifetime follows the deployment mode; prod gets short tokens,
	// everything else gets year-long dev tokens. An explicit TTL wins.
	defaultTTL := jwtx.DefaultDevSessionTTL
	if cfg.Env == "prod" {
		defaultTTL = jwtx.DefaultProdSessionTTL
	}
	cfg.SessionTTL = getEnvDurationOrDefault("AUTH_SESSION_TTL", defaultTTL)

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
