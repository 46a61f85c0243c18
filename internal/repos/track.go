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

type TrackRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Track, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Track, error)
	Insert(ctx context.Context, tx *gorm.DB, track *types.Track) error
	UpdateIfVersion(ctx context.Context, tx *gorm.DB, track *types.Track, expectedVersion int64) error
	SetLocked(ctx context.Context, tx *gorm.DB, id string, locked bool, now time.Time) error
}

type trackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTrackRepo(db *gorm.DB, baseLog *logger.Logger) TrackRepo {
	repoLog := baseLog.With("repo", "TrackRepo")
	return &trackRepo{db: db, log: repoLog}
}

func (r *trackRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Track, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var track types.Track
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&track).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &track, nil
}

func (r *trackRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Track, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Track
	if err := transaction.WithContext(ctx).
		Order("position ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *trackRepo) Insert(ctx context.Context, tx *gorm.DB, track *types.Track) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(track).Error; err != nil {
		return err
	}
	return nil
}

// UpdateIfVersion writes the payload and audit columns only when the stored
// version still matches expectedVersion. A zero row count means either the
// record vanished or a concurrent writer advanced the version.
func (r *trackRepo) UpdateIfVersion(ctx context.Context, tx *gorm.DB, track *types.Track, expectedVersion int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	updates := map[string]interface{}{
		"title":            track.Title,
		"description":      track.Description,
		"position":         track.Position,
		"metadata":         track.Metadata,
		"updated_at":       track.UpdatedAt,
		"last_modified_by": track.LastModifiedBy,
		"version":          expectedVersion + 1,
	}
	res := transaction.WithContext(ctx).
		Model(&types.Track{}).
		Where("id = ? AND version = ?", track.ID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.explainMiss(ctx, transaction, track.ID)
	}
	return nil
}

func (r *trackRepo) SetLocked(ctx context.Context, tx *gorm.DB, id string, locked bool, now time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Track{}).
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

func (r *trackRepo) explainMiss(ctx context.Context, transaction *gorm.DB, id string) error {
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Track{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.ErrNotFound
	}
	return apperr.ErrVersionConflict
}
