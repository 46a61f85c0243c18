package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trackline/trackline-backend/internal/apperr"
	"github.com/trackline/trackline-backend/internal/logger"
	"github.com/trackline/trackline-backend/internal/repos"
	"github.com/trackline/trackline-backend/internal/types"
)

type ProgressUpdate struct {
	SecondsWatched   int  `json:"seconds_watched"`
	LastPositionSecs int  `json:"last_position_secs"`
	Completed        bool `json:"completed"`
}

type ProgressService interface {
	GetProgress(ctx context.Context, userID uuid.UUID, lessonID string) (*types.LessonProgress, error)
	ListProgress(ctx context.Context, userID uuid.UUID) ([]*types.LessonProgress, error)
	RecordProgress(ctx context.Context, userID uuid.UUID, lessonID string, update ProgressUpdate) (*types.LessonProgress, error)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	progressRepo repos.LessonProgressRepo
	lessonRepo   repos.LessonRepo
}

func NewProgressService(
	db *gorm.DB,
	log *logger.Logger,
	progressRepo repos.LessonProgressRepo,
	lessonRepo repos.LessonRepo,
) ProgressService {
	serviceLog := log.With("service", "ProgressService")
	return &progressService{
		db:           db,
		log:          serviceLog,
		progressRepo: progressRepo,
		lessonRepo:   lessonRepo,
	}
}

func (ps *progressService) GetProgress(ctx context.Context, userID uuid.UUID, lessonID string) (*types.LessonProgress, error) {
	return ps.progressRepo.GetByUserAndLesson(ctx, nil, userID, lessonID)
}

func (ps *progressService) ListProgress(ctx context.Context, userID uuid.UUID) ([]*types.LessonProgress, error) {
	return ps.progressRepo.ListByUserID(ctx, nil, userID)
}

func (ps *progressService) RecordProgress(ctx context.Context, userID uuid.UUID, lessonID string, update ProgressUpdate) (*types.LessonProgress, error) {
	// The lesson lives in the content database; existence is checked there
	// before writing progress to the user database.
	if _, err := ps.lessonRepo.GetByID(ctx, nil, lessonID); err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("failed to check lesson %s: %w", lessonID, err)
	}
	if update.SecondsWatched < 0 || update.LastPositionSecs < 0 {
		return nil, apperr.NewValidationError("progress", lessonID, "seconds", "must not be negative")
	}

	now := time.Now()
	progress := &types.LessonProgress{
		ID:               uuid.New(),
		UserID:           userID,
		LessonID:         lessonID,
		SecondsWatched:   update.SecondsWatched,
		LastPositionSecs: update.LastPositionSecs,
		Completed:        update.Completed,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if update.Completed {
		progress.CompletedAt = &now
	}
	return ps.progressRepo.Upsert(ctx, nil, progress)
}
