package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingDatabaseURL is returned by Load when DATABASE_URL is not set.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")

// DatabaseConfig holds connection string and pool settings for the event store.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
}

// EmailConfig holds settings for the booking confirmation mailer.
type EmailConfig struct {
	Provider           string
	FromAddress        string
	FromName           string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
}

// AdminConfig holds the single organizer account allowed to manage events.
type AdminConfig struct {
	Email        string
	PasswordSalt string
	PasswordHash string
	JWTSecret    string
	TokenTTL     time.Duration
}

// Config holds all configuration for the application
type Config struct {
	Environment    string
	Port           string
	SiteURL        string
	RequestTimeout time.Duration
	AllowedOrigins []string
	RedisAddr      string
	EventCacheTTL  time.Duration
	DB             DatabaseConfig
	Email          EmailConfig
	Admin          AdminConfig
}

// Load loads configuration from environment variables.
// Outside production it first tries to load a .env file.
// A missing DATABASE_URL is a fatal startup condition and returns ErrMissingDatabaseURL.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production .env usually does not exist and the process environment is used as-is.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:    env,
		Port:           getString("PORT", "8080"),
		SiteURL:        strings.TrimSuffix(getString("SITE_URL", "http://localhost:3000"), "/"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 10*time.Second),
		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		EventCacheTTL:  getDuration("EVENT_CACHE_TTL", 5*time.Minute),
		DB: DatabaseConfig{
			URL:             strings.TrimSpace(os.Getenv("DATABASE_URL")),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnectTimeout:  getDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		},
		Email: EmailConfig{
			Provider:           getString("EMAIL_PROVIDER", "noop"),
			FromAddress:        getString("EMAIL_FROM_ADDRESS", "no-reply@devevent.local"),
			FromName:           getString("EMAIL_FROM_NAME", "DevEvent"),
			AWSRegion:          getString("AWS_REGION", "us-east-1"),
			AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
		Admin: AdminConfig{
			Email:        strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
			PasswordSalt: os.Getenv("ADMIN_PASSWORD_SALT"),
			PasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			JWTSecret:    os.Getenv("JWT_SECRET"),
			TokenTTL:     getDuration("ADMIN_TOKEN_TTL", 12*time.Hour),
		},
	}

	if cfg.DB.URL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if cfg.Admin.JWTSecret == "" {
		if env == "production" {
			return nil, errors.New("JWT_SECRET is required in production")
		}
		cfg.Admin.JWTSecret = "dev-secret"
	}

	return cfg, nil
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		log.Printf("Warning: invalid %s=%q, using %d", key, s, def)
		return def
	}
	return v
}

// getDuration accepts Go duration strings ("5s", "30m") or a bare number of seconds.
func getDuration(key string, def time.Duration) time.Duration {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	log.Printf("Warning: invalid %s=%q, using %s", key, s, def)
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
