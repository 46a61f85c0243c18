package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/trackline/trackline-backend/internal/db"
	"github.com/trackline/trackline-backend/internal/logger"
	"github.com/trackline/trackline-backend/internal/observability"
)

type App struct {
	Log       *logger.Logger
	ContentDB *gorm.DB
	UserDB    *gorm.DB
	Router    *gin.Engine
	Cfg       Config
	Repos     Repos
	Services  Services
	redis     *goredis.Client
	otelStop  func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelStop := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "trackline-backend",
		Environment: cfg.Environment,
	})

	contentSvc, err := db.NewContentDBService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init content db: %w", err)
	}
	if err := contentSvc.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("content db automigrate: %w", err)
	}
	userSvc, err := db.NewUserDBService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init user db: %w", err)
	}
	if err := userSvc.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("user db automigrate: %w", err)
	}
	contentDB := contentSvc.DB()
	userDB := userSvc.DB()

	// Rate limiting degrades to a no-op without redis.
	var rdb *goredis.Client
	if cfg.RedisAddr != "" {
		rdb = goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn("Redis unreachable, rate limiting disabled", "addr", cfg.RedisAddr, "error", err)
			rdb = nil
		}
	}

	reposet := wireRepos(contentDB, userDB, log)
	serviceset := wireServices(contentDB, userDB, log, cfg, reposet)
	handlerset := wireHandlers(log, serviceset)
	mw := wireMiddleware(log, cfg, serviceset, rdb)
	router := wireRouter(cfg, handlerset, mw)

	return &App{
		Log:       log,
		ContentDB: contentDB,
		UserDB:    userDB,
		Router:    router,
		Cfg:       cfg,
		Repos:     reposet,
		Services:  serviceset,
		redis:     rdb,
		otelStop:  otelStop,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.redis != nil {
		a.redis.Close()
	}
	if a.otelStop != nil {
		if err := a.otelStop(context.Background()); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
