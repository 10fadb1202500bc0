package bootstrap

import (
	"net/http"

	"github.com/repolens/repolens/internal/cache"
	"github.com/repolens/repolens/internal/config"
	"github.com/repolens/repolens/internal/github"
	"github.com/repolens/repolens/internal/metrics"
	"github.com/repolens/repolens/internal/models"
	"github.com/repolens/repolens/internal/services"
	"github.com/repolens/repolens/internal/store"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config

	// Core infrastructure
	DB              *store.Store
	MetricsRecorder metrics.Recorder
	RedisClient     *redis.Client
	UserCache       cache.Cache[models.User]

	// GitHub integration
	OAuthClient *github.OAuthClient
	AppAuth     *github.AppAuth

	// Services
	UserService     *services.UserService
	ProjectService  *services.ProjectService
	AnalysisService *services.AnalysisService

	// HTTP
	HandlerSet handlerSet
	Router     *gin.Engine
	Server     *http.Server
}

// Run initializes and starts the application
func Run(cfg *config.Config) error {
	app := &Application{Config: cfg}

	// Phase 1: Validate configuration
	validateConfiguration(cfg)

	// Phase 2: Initialize infrastructure
	if err := app.initializeInfrastructure(); err != nil {
		return err
	}

	// Phase 3: Initialize business layer
	if err := app.initializeBusinessLayer(); err != nil {
		return err
	}

	// Phase 4: Initialize HTTP layer
	app.initializeHTTPLayer()

	// Phase 5: Start server with graceful shutdown
	app.startWithGracefulShutdown()

	return nil
}

// initializeInfrastructure sets up database, metrics, Redis, and caches
func (app *Application) initializeInfrastructure() error {
	var err error

	app.DB, err = initializeDatabase(app.Config)
	if err != nil {
		return err
	}

	app.MetricsRecorder = initializeMetrics(app.Config)

	app.RedisClient, err = initializeRedisClient(app.Config)
	if err != nil {
		return err
	}

	app.UserCache = initializeUserCache(app.Config, app.RedisClient)

	return nil
}

// initializeBusinessLayer sets up GitHub clients and services
func (app *Application) initializeBusinessLayer() error {
	var err error

	app.OAuthClient = initializeOAuthClient(app.Config)
	app.AppAuth, err = initializeAppAuth(app.Config)
	if err != nil {
		return err
	}

	app.UserService,
		app.ProjectService,
		app.AnalysisService = initializeServices(app.Config, app.DB, app.UserCache)

	return nil
}

// initializeHTTPLayer sets up handlers, router, and server
func (app *Application) initializeHTTPLayer() {
	app.HandlerSet = initializeHandlers(
		app.Config,
		app.DB,
		app.OAuthClient,
		app.UserService,
		app.ProjectService,
		app.AnalysisService,
		app.MetricsRecorder,
	)

	app.Router = setupRouter(
		app.Config,
		app.HandlerSet,
		app.MetricsRecorder,
		app.RedisClient,
	)

	app.Server = createHTTPServer(app.Config, app.Router)
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager()

	addServerRunningJob(m, app.Server)
	addServerShutdownJob(m, app.Server)
	addRedisClientShutdownJob(m, app.RedisClient)
	addUserCacheShutdownJob(m, app.UserCache)

	<-m.Done()
}
