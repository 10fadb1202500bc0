package bootstrap

import (
	"log"

	"github.com/repolens/repolens/internal/config"
	"github.com/repolens/repolens/internal/github"
	"github.com/repolens/repolens/internal/handlers"
	"github.com/repolens/repolens/internal/metrics"
	"github.com/repolens/repolens/internal/services"
	"github.com/repolens/repolens/internal/store"
	"github.com/repolens/repolens/internal/token"
)

// handlerSet holds all HTTP handlers plus the token service the auth
// middleware needs
type handlerSet struct {
	auth     *handlers.AuthHandler
	webhook  *handlers.WebhookHandler
	project  *handlers.ProjectHandler
	analysis *handlers.AnalysisHandler
	admin    *handlers.AdminHandler
	health   *handlers.HealthHandler

	tokens *token.Service
}

// initializeHandlers creates all HTTP handlers
func initializeHandlers(
	cfg *config.Config,
	db *store.Store,
	oauthClient *github.OAuthClient,
	userService *services.UserService,
	projectService *services.ProjectService,
	analysisService *services.AnalysisService,
	recorder metrics.Recorder,
) handlerSet {
	tokens, err := token.New(cfg.JWTSecret, "repolens", cfg.JWTExpiration)
	if err != nil {
		// Secret length is validated in phase 1
		log.Fatalf("Failed to create token service: %v", err)
	}

	return handlerSet{
		auth: handlers.NewAuthHandler(
			oauthClient,
			userService,
			tokens,
			recorder,
			cfg.StateTTL,
		),
		webhook:  handlers.NewWebhookHandler(db, cfg.GitHubWebhookSecret, recorder),
		project:  handlers.NewProjectHandler(projectService),
		analysis: handlers.NewAnalysisHandler(analysisService),
		admin:    handlers.NewAdminHandler(userService),
		health:   handlers.NewHealthHandler(db),

		tokens: tokens,
	}
}
