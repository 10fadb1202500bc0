package bootstrap

import (
	"github.com/repolens/repolens/internal/cache"
	"github.com/repolens/repolens/internal/config"
	"github.com/repolens/repolens/internal/models"
	"github.com/repolens/repolens/internal/services"
	"github.com/repolens/repolens/internal/store"
)

// initializeServices creates all business logic services
func initializeServices(
	cfg *config.Config,
	db *store.Store,
	userCache cache.Cache[models.User],
) (*services.UserService, *services.ProjectService, *services.AnalysisService) {
	userService := services.NewUserService(db, userCache, cfg.UserCacheTTL)
	projectService := services.NewProjectService(db)
	analysisService := services.NewAnalysisService(db, projectService)

	return userService, projectService, analysisService
}
