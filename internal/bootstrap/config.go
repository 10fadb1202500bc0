package bootstrap

import (
	"errors"
	"log"

	"github.com/repolens/repolens/internal/config"
	"github.com/repolens/repolens/internal/token"
)

// validateConfiguration fails fast on unusable configuration
func validateConfiguration(cfg *config.Config) {
	if err := validateTokenConfig(cfg); err != nil {
		log.Fatalf("Invalid token configuration: %v", err)
	}
	if err := validateOAuthConfig(cfg); err != nil {
		log.Fatalf("Invalid GitHub OAuth configuration: %v", err)
	}
	if cfg.IsProduction && cfg.SessionSecret == "session-secret-change-in-production" {
		log.Fatal("SESSION_SECRET must be set in production")
	}
	if cfg.GitHubWebhookSecret == "" {
		log.Println("[Config] GITHUB_WEBHOOK_SECRET not set; webhook deliveries will be rejected")
	}
}

func validateTokenConfig(cfg *config.Config) error {
	if len(cfg.JWTSecret) < token.MinSecretLength {
		return token.ErrSecretTooShort
	}
	return nil
}

func validateOAuthConfig(cfg *config.Config) error {
	if cfg.GitHubClientID == "" {
		return errors.New("GITHUB_CLIENT_ID is required")
	}
	if cfg.GitHubClientSecret == "" {
		return errors.New("GITHUB_CLIENT_SECRET is required")
	}
	if cfg.GitHubRedirectURL == "" {
		return errors.New("GITHUB_REDIRECT_URL is required")
	}
	return nil
}
