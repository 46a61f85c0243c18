package app

import (
	"github.com/gin-gonic/gin"

	"github.com/trackline/trackline-backend/internal/server"
)

func wireRouter(cfg Config, h Handlers, m Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:     "trackline-backend",
		AllowedOrigins:  cfg.AllowedOrigins,
		AuthHandler:     h.Auth,
		UserHandler:     h.User,
		CatalogHandler:  h.Catalog,
		AdminHandler:    h.Admin,
		ProgressHandler: h.Progress,
		AuthMiddleware:  m.Auth,
		RateLimit:       m.RateLimit,
	})
}
