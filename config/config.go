package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultFrontendOrigin = "https://natsu-gallery-frontend.vercel.app"

type Config struct {
	Port        string
	ServiceName string
	Environment string
	// CORS: only these origins may call the API from a browser
	AllowedOrigins []string
	TrustedProxies []string
	MaxBodyBytes   int64
	// Logging
	LogLevel  string
	LogFormat string
	// SMTP Configuration
	SMTPHost          string
	SMTPPort          int
	SMTPSecure        bool // implicit TLS, as for port 465
	SMTPUsername      string
	SMTPPassword      string
	SMTPFromEmail     string // defaults to SMTPUsername
	ContactEmailTo    string
	EmailTimeout      time.Duration
	EmailMaxPerMinute int
	// Redis Configuration (optional shared rate-limit store)
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds int
	RateLimitMax           int
	RateLimitPruneInterval time.Duration
	RateLimitFailClosed    bool
}

func LoadConfig() (*Config, error) {
	// .env is only present locally; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "5000"),
		ServiceName:    getEnv("SERVICE_NAME", "natsu-gallery-backend"),
		Environment:    environment(),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", DefaultFrontendOrigin)),
		TrustedProxies: splitList(getEnv("TRUSTED_PROXIES", "")),
		MaxBodyBytes:   int64(getEnvInt("MAX_BODY_BYTES", 16*1024)),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		// SMTP Configuration
		SMTPHost:          getEnv("EMAIL_HOST", ""),
		SMTPPort:          getEnvInt("EMAIL_PORT", 587),
		SMTPSecure:        getEnvBool("EMAIL_SECURE", false),
		SMTPUsername:      getEnv("EMAIL_USER", ""),
		SMTPPassword:      getEnv("EMAIL_PASS", ""),
		SMTPFromEmail:     getEnv("EMAIL_FROM", ""),
		ContactEmailTo:    getEnv("EMAIL_RECEIVER", ""),
		EmailTimeout:      getEnvDuration("EMAIL_TIMEOUT", 10*time.Second),
		EmailMaxPerMinute: getEnvInt("EMAIL_MAX_PER_MINUTE", 30),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Rate Limiting Configuration
		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60), // 1 minute window
		RateLimitMax:           getEnvInt("RATE_LIMIT_MAX", 5),             // 5 requests per window
		RateLimitPruneInterval: getEnvDuration("RATE_LIMIT_PRUNE_INTERVAL", 5*time.Minute),
		RateLimitFailClosed:    getEnvBool("RATE_LIMIT_FAIL_CLOSED", false),
	}

	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{DefaultFrontendOrigin}
	}

	if cfg.SMTPHost == "" || cfg.ContactEmailTo == "" {
		log.Println("WARNING: EMAIL_HOST or EMAIL_RECEIVER is missing. Contact submissions will fail.")
	}
	if cfg.RedisURL == "" {
		log.Println("INFO: REDIS_URL not configured. Rate limiting uses the in-memory store.")
	}

	return cfg, nil
}

// RateLimitWindow is the configured window as a duration.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("30s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	value = strings.TrimSpace(value)
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimRight(strings.TrimSpace(p), "/")
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func environment() string {
	if os.Getenv("GIN_MODE") == "release" {
		return "production"
	}
	return "development"
}
