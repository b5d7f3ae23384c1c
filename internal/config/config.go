// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
	Redis    RedisConfig
	AI       AIConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds the connection settings. Driver is "postgres" or "sqlite".
// RawDSN (DATABASE_DSN) wins over the discrete fields when set.
type DatabaseConfig struct {
	Driver   string
	RawDSN   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Path     string // sqlite file
	Debug    bool
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env               string
	LogLevel          string
	Migrations        bool
	Seed              bool
	EnquiryRatePerMin int
}

// AuthConfig holds admin session and OTP settings.
type AuthConfig struct {
	SessionSecret   string
	SessionTTL      time.Duration
	CookieSecure    bool
	OTPTTL          time.Duration
	OTPMaxAttempts  int
	LoginRatePerMin int
	ProfileCacheTTL time.Duration
}

// SMTPConfig holds outgoing mail settings. An empty Host logs mails instead.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// RedisConfig selects the Redis-backed OTP store and rate limiter when URL is set.
type RedisConfig struct {
	URL string
}

// AIConfig holds the image generation upstreams.
type AIConfig struct {
	GeminiAPIKey string
	PromptURL    string
	ImageURL     string
	Timeout      time.Duration // one budget for prompt rewrite and image fetch together
	MaxWidth     int
	RatePerMin   int
}

// CORSConfig lists browser origins allowed to call the API with credentials.
type CORSConfig struct {
	AllowedOrigins []string
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.RawDSN != "" {
		return d.RawDSN
	}
	if d.Driver == "sqlite" {
		return d.Path
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format (golang-migrate).
func (d DatabaseConfig) URL() string {
	if strings.HasPrefix(d.RawDSN, "postgres://") || strings.HasPrefix(d.RawDSN, "postgresql://") {
		return d.RawDSN
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// IsProduction reports whether APP_ENV is production.
func (a AppConfig) IsProduction() bool { return a.Env == "production" }

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 90),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			RawDSN:   getEnv("DATABASE_DSN", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "directory"),
			Password: getEnv("DB_PASSWORD", "directory"),
			DBName:   getEnv("DB_NAME", "directory"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "directory.db"),
			Debug:    getEnvBool("DB_DEBUG", false),
		},
		App: AppConfig{
			Env:               getEnv("APP_ENV", "development"),
			LogLevel:          getEnv("LOG_LEVEL", "info"),
			Migrations:        getEnvBool("MIGRATIONS", false),
			Seed:              getEnvBool("DB_SEED", false),
			EnquiryRatePerMin: getEnvInt("ENQUIRY_RATE_PER_MIN", 10),
		},
		Auth: AuthConfig{
			SessionSecret:   getEnv("SESSION_SECRET", "devsessionsecret"),
			SessionTTL:      getEnvDuration("SESSION_TTL", 24*time.Hour),
			CookieSecure:    getEnvBool("COOKIE_SECURE", false),
			OTPTTL:          getEnvDuration("OTP_TTL", 5*time.Minute),
			OTPMaxAttempts:  getEnvInt("OTP_MAX_ATTEMPTS", 5),
			LoginRatePerMin: getEnvInt("LOGIN_RATE_PER_MIN", 10),
			ProfileCacheTTL: getEnvDuration("PROFILE_CACHE_TTL", time.Minute),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASS", ""),
			From:     getEnv("SMTP_FROM", getEnv("SMTP_USER", "no-reply@localhost")),
			FromName: getEnv("SMTP_FROM_NAME", "JustDial Security"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		AI: AIConfig{
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			PromptURL:    getEnv("AI_PROMPT_URL", "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"),
			ImageURL:     getEnv("AI_IMAGE_URL", "https://image.pollinations.ai/prompt"),
			Timeout:      getEnvDuration("AI_TIMEOUT", 60*time.Second),
			MaxWidth:     getEnvInt("AI_IMAGE_MAX_WIDTH", 1024),
			RatePerMin:   getEnvInt("AI_RATE_PER_MIN", 20),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// getEnvDuration parses Go durations ("5m", "24h"); bare integers are seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	return defaultValue
}

// getEnvList splits a comma separated variable, dropping blanks.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
