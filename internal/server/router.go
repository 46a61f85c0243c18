package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/trackline/trackline-backend/internal/handlers"
	"github.com/trackline/trackline-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName     string
	AllowedOrigins  []string
	AuthHandler     *handlers.AuthHandler
	UserHandler     *handlers.UserHandler
	CatalogHandler  *handlers.CatalogHandler
	AdminHandler    *handlers.AdminHandler
	ProgressHandler *handlers.ProgressHandler
	AuthMiddleware  *middleware.AuthMiddleware
	RateLimit       *middleware.RateLimitMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")

	// Public catalog. OptionalAuth lets logged-in members see full lesson
	// bodies without making the routes private.
	catalog := api.Group("/")
	catalog.Use(cfg.AuthMiddleware.OptionalAuth())
	catalog.GET("/tracks", cfg.CatalogHandler.ListTracks)
	catalog.GET("/tracks/:id", cfg.CatalogHandler.GetTrack)
	catalog.GET("/series/:id/lessons", cfg.CatalogHandler.ListLessonsForSeries)
	catalog.GET("/lessons/:id", cfg.CatalogHandler.GetLesson)

	// Credential endpoints, rate limited.
	api.POST("/register", cfg.RateLimit.Limit("register"), cfg.AuthHandler.Register)
	api.POST("/login", cfg.RateLimit.Limit("login"), cfg.AuthHandler.Login)
	api.POST("/refresh", cfg.AuthHandler.Refresh)
	api.POST("/logout", cfg.AuthHandler.Logout)

	// Member routes.
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	protected.GET("/me", cfg.UserHandler.GetMe)
	protected.GET("/progress", cfg.ProgressHandler.ListProgress)
	protected.GET("/lessons/:id/progress", cfg.ProgressHandler.GetProgress)
	protected.PUT("/lessons/:id/progress", cfg.ProgressHandler.RecordProgress)

	// Admin routes.
	admin := api.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequireAdmin())
	admin.PUT("/:kind/:id", cfg.AdminHandler.UpdateContent)
	admin.POST("/:kind/:id/lock", cfg.AdminHandler.Lock)
	admin.POST("/:kind/:id/unlock", cfg.AdminHandler.Unlock)

	return router
}
