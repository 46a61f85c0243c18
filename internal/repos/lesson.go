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

type LessonRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Lesson, error)
	ListBySeriesID(ctx context.Context, tx *gorm.DB, seriesID string) ([]*types.Lesson, error)
	Insert(ctx context.Context, tx *gorm.DB, lesson *types.Lesson) error
	UpdateIfVersion(ctx context.Context, tx *gorm.DB, lesson *types.Lesson, expectedVersion int64) error
	SetLocked(ctx context.Context, tx *gorm.DB, id string, locked bool, now time.Time) error
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

func (r *lessonRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var lesson types.Lesson
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

func (r *lessonRepo) ListBySeriesID(ctx context.Context, tx *gorm.DB, seriesID string) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Lesson
	if err := transaction.WithContext(ctx).
		Where("series_id = ?", seriesID).
		Order("position ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) Insert(ctx context.Context, tx *gorm.DB, lesson *types.Lesson) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(lesson).Error; err != nil {
		return err
	}
	return nil
}

func (r *lessonRepo) UpdateIfVersion(ctx context.Context, tx *gorm.DB, lesson *types.Lesson, expectedVersion int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	updates := map[string]interface{}{
		"series_id":        lesson.SeriesID,
		"title":            lesson.Title,
		"description":      lesson.Description,
		"body_md":          lesson.BodyMD,
		"duration_minutes": lesson.DurationMinutes,
		"free_preview":     lesson.FreePreview,
		"position":         lesson.Position,
		"metadata":         lesson.Metadata,
		"updated_at":       lesson.UpdatedAt,
		"last_modified_by": lesson.LastModifiedBy,
		"version":          expectedVersion + 1,
	}
	res := transaction.WithContext(ctx).
		Model(&types.Lesson{}).
		Where("id = ? AND version = ?", lesson.ID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.explainMiss(ctx, transaction, lesson.ID)
	}
	return nil
}

func (r *lessonRepo) SetLocked(ctx context.Context, tx *gorm.DB, id string, locked bool, now time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Lesson{}).
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

func (r *lessonRepo) explainMiss(ctx context.Context, transaction *gorm.DB, id string) error {
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Lesson{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.ErrNotFound
	}
	return apperr.ErrVersionConflict
}
