package repos

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/trackline/trackline-backend/internal/apperr"
	"github.com/trackline/trackline-backend/internal/logger"
	"github.com/trackline/trackline-backend/internal/types"
)

type VideoRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Video, error)
	ListByLessonID(ctx context.Context, tx *gorm.DB, lessonID string) ([]*types.Video, error)
	Insert(ctx context.Context, tx *gorm.DB, video *types.Video) error
	UpdateIfVersion(ctx context.Context, tx *gorm.DB, video *types.Video, expectedVersion int64) error
	SetLocked(ctx context.Context, tx *gorm.DB, id string, locked bool, now time.Time) error
}

type videoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVideoRepo(db *gorm.DB, baseLog *logger.Logger) VideoRepo {
	repoLog := baseLog.With("repo", "VideoRepo")
	return &videoRepo{db: db, log: repoLog}
}

func (r *videoRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Video, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var video types.Video
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&video).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &video, nil
}

func (r *videoRepo) ListByLessonID(ctx context.Context, tx *gorm.DB, lessonID string) ([]*types.Video, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Video
	if err := transaction.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("position ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *videoRepo) Insert(ctx context.Context, tx *gorm.DB, video *types.Video) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(video).Error; err != nil {
		return err
	}
	return nil
}

func (r *videoRepo) UpdateIfVersion(ctx context.Context, tx *gorm.DB, video *types.Video, expectedVersion int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	updates := map[string]interface{}{
		"lesson_id":        video.LessonID,
		"title":            video.Title,
		"provider":         video.Provider,
		"playback_id":      video.PlaybackID,
		"duration_seconds": video.DurationSeconds,
		"position":         video.Position,
		"metadata":         video.Metadata,
		"updated_at":       video.UpdatedAt,
		"last_modified_by": video.LastModifiedBy,
		"version":          expectedVersion + 1,
	}
	res := transaction.WithContext(ctx).
		Model(&types.Video{}).
		Where("id = ? AND version = ?", video.ID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.explainMiss(ctx, transaction, video.ID)
	}
	return nil
}

func (r *videoRepo) SetLocked(ctx context.Context, tx *gorm.DB, id string, locked bool, now time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Video{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_locked":  locked,
			"updated_at": now,
			"version":    gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *videoRepo) explainMiss(ctx context.Context, transaction *gorm.DB, id string) error {
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Video{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.ErrNotFound
	}
	return apperr.ErrVersionConflict
}
