package app

import (
	"gorm.io/gorm"

	"github.com/trackline/trackline-backend/internal/logger"
	"github.com/trackline/trackline-backend/internal/services"
)

type Services struct {
	Auth     services.AuthService
	User     services.UserService
	Catalog  services.CatalogService
	Admin    services.AdminService
	Progress services.ProgressService
}

func wireServices(contentDB, userDB *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	log.Info("Wiring services...")
	return Services{
		Auth:     services.NewAuthService(userDB, log, r.User, r.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		User:     services.NewUserService(userDB, log, r.User),
		Catalog:  services.NewCatalogService(contentDB, log, r.Track, r.Series, r.Lesson, r.Video),
		Admin:    services.NewAdminService(contentDB, log, r.Track, r.Series, r.Lesson, r.Video),
		Progress: services.NewProgressService(userDB, log, r.LessonProgress, r.Lesson),
	}
}
