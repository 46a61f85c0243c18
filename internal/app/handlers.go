package app

import (
	"github.com/trackline/trackline-backend/internal/handlers"
	"github.com/trackline/trackline-backend/internal/logger"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	User     *handlers.UserHandler
	Catalog  *handlers.CatalogHandler
	Admin    *handlers.AdminHandler
	Progress *handlers.ProgressHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:     handlers.NewAuthHandler(s.Auth),
		User:     handlers.NewUserHandler(s.User),
		Catalog:  handlers.NewCatalogHandler(s.Catalog),
		Admin:    handlers.NewAdminHandler(s.Admin),
		Progress: handlers.NewProgressHandler(s.Progress),
	}
}
