package app

import (
	goredis "github.com/redis/go-redis/v9"

	"github.com/trackline/trackline-backend/internal/logger"
	"github.com/trackline/trackline-backend/internal/middleware"
)

type Middleware struct {
	Auth      *middleware.AuthMiddleware
	RateLimit *middleware.RateLimitMiddleware
}

func wireMiddleware(log *logger.Logger, cfg Config, services Services, rdb *goredis.Client) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth:      middleware.NewAuthMiddleware(log, services.Auth),
		RateLimit: middleware.NewRateLimitMiddleware(log, rdb, cfg.RateLimitMax, cfg.RateLimitWindow),
	}
}
