package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/trackline/trackline-backend/internal/logger"
	"github.com/trackline/trackline-backend/internal/types"
	"github.com/trackline/trackline-backend/internal/utils"
)

// The application keeps two SQLite files: content.db holds the seeded
// catalog, users.db holds accounts and progress. Keeping them apart means a
// re-seed can never touch user data and the content file can be shipped as
// an artifact.

type ContentDBService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentDBService(log *logger.Logger) (*ContentDBService, error) {
	serviceLog := log.With("service", "ContentDBService")

	path := utils.GetEnv("CONTENT_DB_PATH", "content.db", log)

	serviceLog.Info("Opening content database...", "path", path)
	gdb, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{})
	if err != nil {
		serviceLog.Error("Failed to open content database", "error", err)
		return nil, fmt.Errorf("open content database: %w", err)
	}

	return &ContentDBService{db: gdb, log: serviceLog}, nil
}

func (s *ContentDBService) AutoMigrateAll() error {
	s.log.Info("Auto migrating content tables...")
	if err := s.db.AutoMigrate(
		&types.Track{},
		&types.Series{},
		&types.Lesson{},
		&types.Video{},
	); err != nil {
		s.log.Error("Auto migration failed for content tables", "error", err)
		return err
	}
	return nil
}

func (s *ContentDBService) DB() *gorm.DB {
	return s.db
}

type UserDBService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserDBService(log *logger.Logger) (*UserDBService, error) {
	serviceLog := log.With("service", "UserDBService")

	path := utils.GetEnv("USER_DB_PATH", "users.db", log)

	serviceLog.Info("Opening user database...", "path", path)
	gdb, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{})
	if err != nil {
		serviceLog.Error("Failed to open user database", "error", err)
		return nil, fmt.Errorf("open user database: %w", err)
	}

	return &UserDBService{db: gdb, log: serviceLog}, nil
}

func (s *UserDBService) AutoMigrateAll() error {
	s.log.Info("Auto migrating user tables...")
	if err := s.db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.LessonProgress{},
	); err != nil {
		s.log.Error("Auto migration failed for user tables", "error", err)
		return err
	}
	return nil
}

func (s *UserDBService) DB() *gorm.DB {
	return s.db
}

// Busy timeout keeps the seeder and a concurrent admin request from failing
// on SQLite's single-writer lock; foreign keys stay on within each file.
func dsn(path string) string {
	return fmt.Sprintf("%s?_busy_timeout=5000&_foreign_keys=on", path)
}
