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

type SeriesRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Series, error)
	ListByTrackID(ctx context.Context, tx *gorm.DB, trackID string) ([]*types.Series, error)
	Insert(ctx context.Context, tx *gorm.DB, series *types.Series) error
	UpdateIfVersion(ctx context.Context, tx *gorm.DB, series *types.Series, expectedVersion int64) error
	SetLocked(ctx context.Context, tx *gorm.DB, id string, locked bool, now time.Time) error
}

type seriesRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSeriesRepo(db *gorm.DB, baseLog *logger.Logger) SeriesRepo {
	repoLog := baseLog.With("repo", "SeriesRepo")
	return &seriesRepo{db: db, log: repoLog}
}

func (r *seriesRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Series, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var series types.Series
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&series).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &series, nil
}

func (r *seriesRepo) ListByTrackID(ctx context.Context, tx *gorm.DB, trackID string) ([]*types.Series, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Series
	if err := transaction.WithContext(ctx).
		Where("track_id = ?", trackID).
		Order("position ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *seriesRepo) Insert(ctx context.Context, tx *gorm.DB, series *types.Series) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(series).Error; err != nil {
		return err
	}
	return nil
}

func (r *seriesRepo) UpdateIfVersion(ctx context.Context, tx *gorm.DB, series *types.Series, expectedVersion int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	updates := map[string]interface{}{
		"track_id":         series.TrackID,
		"title":            series.Title,
		"description":      series.Description,
		"position":         series.Position,
		"metadata":         series.Metadata,
		"updated_at":       series.UpdatedAt,
		"last_modified_by": series.LastModifiedBy,
		"version":          expectedVersion + 1,
	}
	res := transaction.WithContext(ctx).
		Model(&types.Series{}).
		Where("id = ? AND version = ?", series.ID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.explainMiss(ctx, transaction, series.ID)
	}
	return nil
}

func (r *seriesRepo) SetLocked(ctx context.Context, tx *gorm.DB, id string, locked bool, now time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Series{}).
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

func (r *seriesRepo) explainMiss(ctx context.Context, transaction *gorm.DB, id string) error {
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Series{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.ErrNotFound
	}
	return apperr.ErrVersionConflict
}
