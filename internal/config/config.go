package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Email    EmailConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Port            string
	Env             string // dev or prod
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	TrustedOrigins  []string // CORS allowed origins
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// TokenBackend selects the session token implementation.
const (
	TokenBackendPaseto = "paseto"
	TokenBackendJWT    = "jwt"
)

type AuthConfig struct {
	// Symmetric signing key, must be exactly 32 bytes
	SessionKey []byte
	// TokenBackend is "paseto" (v4.local) or "jwt" (HS256)
	TokenBackend         string
	SessionTokenDuration time.Duration
	ResetTokenDuration   time.Duration
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	// BaseURL is the frontend base for confirmation/reset links
	BaseURL string
}

type AdminConfig struct {
	// BootstrapEmails are promoted to the admin role once at startup.
	// This replaces any runtime allow-list: authorization itself only ever
	// consults the role column.
	BootstrapEmails []string
}

// Load reads configuration from environment variables.
// A .env file is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Env:             getEnv("APP_ENV", "dev"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
			TrustedOrigins:  getSliceEnv("TRUSTED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "talentbridge"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			SessionKey:           []byte(getEnv("SESSION_KEY", "")),
			TokenBackend:         getEnv("TOKEN_BACKEND", TokenBackendPaseto),
			SessionTokenDuration: getDurationEnv("SESSION_TOKEN_DURATION", 24*time.Hour),
			ResetTokenDuration:   getDurationEnv("RESET_TOKEN_DURATION", 1*time.Hour),
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUser:     getEnv("SMTP_USER", ""),
			SMTPPassword: getEnv("SMTP_PASS", ""),
			BaseURL:      getEnv("BASE_URL", "http://localhost:3000"),
		},
		Admin: AdminConfig{
			BootstrapEmails: getSliceEnv("ADMIN_EMAILS", nil),
		},
	}

	// Symmetric key length is fixed for both PASETO v4.local and HS256
	if len(cfg.Auth.SessionKey) != 32 {
		return nil, fmt.Errorf("SESSION_KEY must be exactly 32 bytes, got %d", len(cfg.Auth.SessionKey))
	}

	if cfg.Auth.TokenBackend != TokenBackendPaseto && cfg.Auth.TokenBackend != TokenBackendJWT {
		return nil, fmt.Errorf("TOKEN_BACKEND must be %q or %q, got %q",
			TokenBackendPaseto, TokenBackendJWT, cfg.Auth.TokenBackend)
	}

	return cfg, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// IsDevelopment returns true if the environment is set to dev
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	seconds, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return time.Duration(seconds) * time.Second
}

func getSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
