package api

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ericfisherdev/codereview/internal/api/middleware"
	"github.com/ericfisherdev/codereview/internal/config"
	"github.com/ericfisherdev/codereview/internal/services"
)

// RouterConfig collects everything the router assembly needs.
type RouterConfig struct {
	Server      config.ServerConfig
	Logger      *slog.Logger
	OAuth       services.OAuthService
	Sessions    services.SessionService
	Reviews     services.ReviewService
	GitHub      services.GitHubService
	RateLimiter *middleware.RateLimitManager
}

// NewRouter assembles the middleware chain and every route into a
// ready-to-serve engine.
func NewRouter(rc RouterConfig) *gin.Engine {
	if rc.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.DefaultLogging())
	router.Use(middleware.Recovery(rc.Logger))

	if rc.Server.IsProduction() {
		router.Use(middleware.CORS([]string{rc.Server.GetFrontendURL()}))
	} else {
		router.Use(middleware.DefaultCORS())
	}

	if rc.RateLimiter != nil {
		router.Use(rc.RateLimiter.Middleware())
	}

	normalizer := NewErrorNormalizer(rc.Logger)
	session := middleware.NewSessionMiddleware(rc.Sessions)

	NewHealthHandler().RegisterRoutes(router)

	apiGroup := router.Group("/api")
	NewAuthHandler(rc.OAuth, rc.Sessions, normalizer).RegisterRoutes(apiGroup)
	NewReviewHandler(rc.Reviews, normalizer).RegisterRoutes(apiGroup)
	NewGitHubHandler(rc.GitHub, normalizer).RegisterRoutes(apiGroup, session)

	if dist := rc.Server.GetFrontendDist(); dist != "" && rc.Server.IsProduction() {
		registerFrontend(router, dist)
	}

	return router
}

// registerFrontend serves the built frontend, answering every
// non-API path with index.html so client-side routing works.
func registerFrontend(router *gin.Engine, dist string) {
	router.Static("/assets", filepath.Join(dist, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(dist, "favicon.ico"))

	index := filepath.Join(dist, "index.html")
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Not found",
			})
			return
		}
		c.File(index)
	})
}
