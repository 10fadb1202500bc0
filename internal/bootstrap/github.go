package bootstrap

import (
	"fmt"
	"log"
	"net/http"

	"github.com/repolens/repolens/internal/config"
	"github.com/repolens/repolens/internal/github"
)

// initializeOAuthClient creates the GitHub OAuth client
func initializeOAuthClient(cfg *config.Config) *github.OAuthClient {
	return github.NewOAuthClient(github.OAuthConfig{
		ClientID:     cfg.GitHubClientID,
		ClientSecret: cfg.GitHubClientSecret,
		RedirectURL:  cfg.GitHubRedirectURL,
		Scopes:       cfg.GitHubScopes,
		APIBaseURL:   cfg.GitHubAPIBaseURL,
		HTTPClient:   &http.Client{Timeout: cfg.OAuthTimeout},
	})
}

// initializeAppAuth creates the GitHub App client when app credentials are
// configured. Returns nil otherwise; installation tokens are then
// unavailable but the OAuth flow still works.
func initializeAppAuth(cfg *config.Config) (*github.AppAuth, error) {
	if cfg.GitHubAppID == "" || cfg.GitHubAppPrivateKey == "" {
		log.Println("[GitHub] App credentials not configured; installation tokens disabled")
		return nil, nil
	}

	appAuth, err := github.NewAppAuth(
		cfg.GitHubAppID,
		cfg.GitHubAppPrivateKey,
		cfg.GitHubAPIBaseURL,
		&http.Client{Timeout: cfg.OAuthTimeout},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GitHub App auth: %w", err)
	}

	log.Printf("[GitHub] App auth initialized (app_id: %s)", cfg.GitHubAppID)
	return appAuth, nil
}
