package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	AWS      AWSConfig
	Email    EmailConfig
	Worker   WorkerConfig
	Cache    CacheConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	Environment  string // development, staging, production
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string // if set, used as-is (e.g. postgres://localhost:5432/venuelink?sslmode=disable)
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AuthConfig holds bearer token verification settings.
// PublicKeyPEM selects RS256 (identity provider keys); otherwise HS256 with Secret.
type AuthConfig struct {
	Secret       string
	PublicKeyPEM string
	Issuer       string
	RoleClaim    string
	ExpireHours  int
}

// AWSConfig holds AWS credentials and the bucket for organization logos.
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	LogosBucket     string
}

// EmailConfig holds SMTP settings for booking notifications.
type EmailConfig struct {
	FromAddress string
	FromName    string
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
}

// WorkerConfig holds background worker settings.
type WorkerConfig struct {
	SweepInterval time.Duration // how often confirmed bookings in the past are completed
}

// CacheConfig holds Redis cache TTLs.
type CacheConfig struct {
	VenueTTL time.Duration
}

// DSN returns the PostgreSQL connection string.
// If DatabaseConfig.URL is set (e.g. DATABASE_URL env), it is used as-is; otherwise built from components.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// IsDevelopment reports whether the server runs in development mode.
func (c ServerConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			ReadTimeout:  getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout: getEnvInt("WRITE_TIMEOUT_SEC", 30),
		},
		Database: DatabaseConfig{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "venuelink"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 15),
			MinConns: getEnvInt("DB_MIN_CONNS", 0),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			Secret:       getEnv("JWT_SECRET", "dev-secret-key-change-in-production"),
			PublicKeyPEM: os.Getenv("AUTH_PUBLIC_KEY_PEM"),
			Issuer:       os.Getenv("AUTH_ISSUER"),
			RoleClaim:    getEnv("AUTH_ROLE_CLAIM", "org_role"),
			ExpireHours:  getEnvInt("JWT_EXPIRE_HOURS", 24),
		},
		AWS: AWSConfig{
			Region:          os.Getenv("AWS_REGION"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			LogosBucket:     getEnv("AWS_S3_LOGOS_BUCKET", "venuelink-logos"),
		},
		Email: EmailConfig{
			FromAddress: getEnv("EMAIL_FROM_ADDRESS", "noreply@venuelink.app"),
			FromName:    getEnv("EMAIL_FROM_NAME", "VenueLink"),
			SMTPHost:    getEnv("SMTP_HOST", ""),
			SMTPPort:    getEnvInt("SMTP_PORT", 587),
			SMTPUser:    getEnv("SMTP_USER", ""),
			SMTPPass:    getEnv("SMTP_PASS", ""),
		},
		Worker: WorkerConfig{
			SweepInterval: getEnvDuration("WORKER_SWEEP_INTERVAL", 15*time.Minute),
		},
		Cache: CacheConfig{
			VenueTTL: getEnvDuration("CACHE_VENUE_TTL", 10*time.Minute),
		},
	}
	if cfg.Auth.PublicKeyPEM == "" && cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("either JWT_SECRET or AUTH_PUBLIC_KEY_PEM must be set")
	}
	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
