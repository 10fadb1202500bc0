package bootstrap

import (
	"log"
	"net/http"

	"github.com/repolens/repolens/internal/config"
	"github.com/repolens/repolens/internal/metrics"
	"github.com/repolens/repolens/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	h handlerSet,
	recorder metrics.Recorder,
	redisClient *redis.Client,
) *gin.Engine {
	setupGinMode(cfg)
	r := gin.New()

	r.Use(metrics.HTTPMetricsMiddleware(recorder))
	r.Use(gin.Logger(), gin.Recovery())

	setupSessionMiddleware(r, cfg)

	r.GET("/health", h.health.Check)

	setupMetricsEndpoint(r, cfg)

	rateLimiters := setupRateLimiting(cfg, redisClient)

	setupAllRoutes(r, h, rateLimiters)

	logServerStartup(cfg)

	return r
}

// setupSessionMiddleware configures the cookie session that carries the
// OAuth state nonce
func setupSessionMiddleware(r *gin.Engine, cfg *config.Config) {
	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.StateTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("repolens_session", sessionStore))
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	switch {
	case !cfg.MetricsEnabled:
		log.Printf("Prometheus metrics disabled")
	case cfg.MetricsToken != "":
		log.Printf("Prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		log.Printf("Prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// setupAllRoutes configures all application routes
func setupAllRoutes(r *gin.Engine, h handlerSet, rateLimiters rateLimitMiddlewares) {
	// OAuth login flow (public)
	auth := r.Group("/auth")
	{
		auth.GET("/github", rateLimiters.auth, h.auth.Login)
		auth.GET("/github/callback", rateLimiters.auth, h.auth.Callback)
		auth.GET("/me", middleware.RequireAuth(h.tokens), h.auth.Me)
		auth.POST("/logout", h.auth.Logout)
	}

	// Webhook intake (public, HMAC-verified)
	r.POST("/webhooks/github", rateLimiters.webhook, h.webhook.Handle)

	// Project & analysis API (require login)
	api := r.Group("/api")
	api.Use(middleware.RequireAuth(h.tokens))
	{
		api.POST("/projects", h.project.Create)
		api.GET("/projects", h.project.List)
		api.GET("/projects/:id", h.project.Get)
		api.PATCH("/projects/:id", h.project.Update)
		api.DELETE("/projects/:id", h.project.Delete)

		api.POST("/projects/:id/sessions", h.analysis.StartSession)
		api.GET("/projects/:id/sessions", h.analysis.ListSessions)
		api.GET("/sessions/:id", h.analysis.GetSession)
		api.GET("/sessions/:id/findings", h.analysis.ListFindings)
		api.GET("/sessions/:id/reports", h.analysis.ListReports)
	}

	// Admin routes (require admin role)
	admin := r.Group("/api/admin")
	admin.Use(middleware.RequireAuth(h.tokens), middleware.RequireAdmin())
	{
		admin.GET("/users", h.admin.ListUsers)
	}
}

// setupGinMode sets Gin mode based on environment configuration
func setupGinMode(cfg *config.Config) {
	mode := ginModeMap[cfg.IsProduction]
	gin.SetMode(mode)
	log.Printf("Gin mode: %s", ginModeLogMessage[cfg.IsProduction])
}

var ginModeMap = map[bool]string{
	true:  gin.ReleaseMode,
	false: gin.DebugMode,
}

var ginModeLogMessage = map[bool]string{
	true:  "Release (production)",
	false: "Debug (development)",
}

// logServerStartup logs server startup information
func logServerStartup(cfg *config.Config) {
	log.Printf("RepoLens backend starting on %s", cfg.ServerAddr)
	log.Printf("GitHub login: %s/auth/github", cfg.BaseURL)
	log.Printf("Webhook intake: %s/webhooks/github", cfg.BaseURL)
}
