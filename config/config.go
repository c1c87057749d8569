package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"portfolio-backend/pkg/email"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string
	// SMTP relay
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
	SMTPFromEmail  string // Optional sender override, defaults to the SMTP login
	SMTPTimeout    time.Duration
	ContactEmailTo string
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Contact endpoint rate limiting
	ContactRateLimit         int
	ContactRateWindowSeconds int
	ContactRateFailClosed    bool // Reject instead of counting in memory when Redis errors
	// CORS
	AllowedOrigins []string
}

func LoadConfig() (*Config, error) {
	// .env is only present locally; production relies on the real environment
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      resolveEnv(),
		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		// SMTP Configuration
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnvInt("SMTP_PORT", 587),
		SMTPUsername:   getEnv("SMTP_USERNAME", getEnv("SMTP_USER", "")),
		SMTPPassword:   getEnv("SMTP_PASSWORD", getEnv("SMTP_PASS", "")),
		SMTPFromEmail:  getEnv("SMTP_FROM_EMAIL", ""),
		SMTPTimeout:    time.Duration(getEnvInt("SMTP_TIMEOUT_SECONDS", 0)) * time.Second,
		ContactEmailTo: getEnv("CONTACT_EMAIL", email.DefaultDestination),
		// Redis/Upstash Configuration
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Rate Limiting Configuration
		ContactRateLimit:         getEnvInt("CONTACT_RATE_LIMIT", 5),            // 5 submissions
		ContactRateWindowSeconds: getEnvInt("CONTACT_RATE_WINDOW_SECONDS", 600), // per 10 minutes
		ContactRateFailClosed:    getEnvBool("CONTACT_RATE_LIMIT_FAIL_CLOSED", false),
		AllowedOrigins:           getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	if cfg.SMTPUsername == "" || cfg.SMTPPassword == "" {
		log.Println("WARNING: SMTP credentials not configured. Contact submissions will be rejected.")
	}

	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// IsProduction reports whether error details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Email projects the relay settings consumed by the mail dispatch service.
func (c *Config) Email() email.Config {
	return email.Config{
		Host:        c.SMTPHost,
		Port:        c.SMTPPort,
		Username:    c.SMTPUsername,
		Secret:      c.SMTPPassword,
		From:        c.SMTPFromEmail,
		Destination: c.ContactEmailTo,
		Timeout:     c.SMTPTimeout,
	}
}

func resolveEnv() string {
	env := strings.ToLower(getEnv("APP_ENV", ""))
	switch env {
	case EnvProduction, "prod":
		return EnvProduction
	case EnvDevelopment, "dev":
		return EnvDevelopment
	}
	if os.Getenv("GIN_MODE") == "release" {
		return EnvProduction
	}
	return EnvDevelopment
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool parses a boolean environment variable or returns fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping blanks
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, strings.TrimRight(item, "/"))
		}
	}
	return out
}
