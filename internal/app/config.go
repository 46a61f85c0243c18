package app

import (
	"strings"
	"time"

	"github.com/trackline/trackline-backend/internal/logger"
	"github.com/trackline/trackline-backend/internal/utils"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Port            string
	AllowedOrigins  []string
	RedisAddr       string
	RateLimitMax    int
	RateLimitWindow time.Duration
	Environment     string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	port := utils.GetEnv("PORT", "8080", log)
	origins := utils.GetEnv("ALLOWED_ORIGINS", "http://localhost:5173", log)
	redisAddr := utils.GetEnv("REDIS_ADDR", "", log)
	rateLimitMax := utils.GetEnvAsInt("RATE_LIMIT_MAX", 10, log)
	rateLimitWindowSeconds := utils.GetEnvAsInt("RATE_LIMIT_WINDOW", 60, log)
	environment := utils.GetEnv("ENVIRONMENT", "development", log)
	return Config{
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		Port:            port,
		AllowedOrigins:  splitOrigins(origins),
		RedisAddr:       redisAddr,
		RateLimitMax:    rateLimitMax,
		RateLimitWindow: time.Duration(rateLimitWindowSeconds) * time.Second,
		Environment:     environment,
	}
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			origins = append(origins, part)
		}
	}
	return origins
}
