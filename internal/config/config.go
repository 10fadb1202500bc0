package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

type Config struct {
	// Server settings
	ServerAddr   string
	BaseURL      string
	Environment  string
	IsProduction bool

	// JWT settings
	JWTSecret     string
	JWTExpiration time.Duration

	// Session settings (OAuth state cookie)
	SessionSecret string
	StateTTL      time.Duration

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string

	// GitHub OAuth
	GitHubClientID     string
	GitHubClientSecret string
	GitHubRedirectURL  string
	GitHubScopes       []string

	// GitHub App (webhooks, installation tokens)
	GitHubAppID         string
	GitHubAppPrivateKey string // PEM, decoded from base64 env transport
	GitHubWebhookSecret string
	GitHubAPIBaseURL    string

	// OAuth HTTP client
	OAuthTimeout time.Duration

	// Redis (optional: shared cache + distributed rate limiting)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// User cache
	UserCacheTTL time.Duration

	// Metrics
	MetricsEnabled bool
	MetricsToken   string

	// Rate limiting
	EnableRateLimit          bool
	AuthRateLimit            int // requests per minute on auth endpoints
	WebhookRateLimit         int // requests per minute on webhook intake
	RateLimitCleanupInterval time.Duration
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	env := getEnv("ENVIRONMENT", EnvDevelopment)

	return &Config{
		ServerAddr:   getEnv("SERVER_ADDR", ":8080"),
		BaseURL:      getEnv("BASE_URL", "http://localhost:8080"),
		Environment:  env,
		IsProduction: env == EnvProduction,

		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTExpiration: getEnvDuration("JWT_EXPIRATION", 168*time.Hour), // 7 days

		SessionSecret: getEnv("SESSION_SECRET", "session-secret-change-in-production"),
		StateTTL:      getEnvDuration("OAUTH_STATE_TTL", 15*time.Minute),

		DatabaseDriver: getEnv("DATABASE_DRIVER", "sqlite"),
		DatabaseDSN:    getEnv("DATABASE_DSN", defaultDSN()),

		GitHubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
		GitHubRedirectURL: getEnv(
			"GITHUB_REDIRECT_URL",
			getEnv("BASE_URL", "http://localhost:8080")+"/auth/github/callback",
		),
		GitHubScopes: getEnvSlice("GITHUB_SCOPES", nil),

		GitHubAppID:         getEnv("GITHUB_APP_ID", ""),
		GitHubAppPrivateKey: decodePrivateKey(getEnv("GITHUB_APP_PRIVATE_KEY", "")),
		GitHubWebhookSecret: getEnv("GITHUB_WEBHOOK_SECRET", ""),
		GitHubAPIBaseURL:    getEnv("GITHUB_API_BASE_URL", "https://api.github.com"),

		OAuthTimeout: getEnvDuration("OAUTH_TIMEOUT", 15*time.Second),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		UserCacheTTL: getEnvDuration("USER_CACHE_TTL", 5*time.Minute),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		MetricsToken:   getEnv("METRICS_TOKEN", ""),

		EnableRateLimit:          getEnvBool("ENABLE_RATE_LIMIT", true),
		AuthRateLimit:            getEnvInt("AUTH_RATE_LIMIT", 30),
		WebhookRateLimit:         getEnvInt("WEBHOOK_RATE_LIMIT", 120),
		RateLimitCleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
	}
}

func defaultDSN() string {
	if getEnv("DATABASE_DRIVER", "sqlite") == "sqlite" {
		return getEnv("DATABASE_PATH", "repolens.db")
	}
	return ""
}

// decodePrivateKey decodes a base64-encoded PEM key. Raw PEM passes through
// unchanged so local setups can paste the key directly.
func decodePrivateKey(value string) string {
	if value == "" || strings.HasPrefix(value, "-----BEGIN") {
		return value
	}
	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return value
	}
	return string(decoded)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var parts []string
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}
