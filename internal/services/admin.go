package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/trackline/trackline-backend/internal/apperr"
	"github.com/trackline/trackline-backend/internal/logger"
	"github.com/trackline/trackline-backend/internal/repos"
	"github.com/trackline/trackline-backend/internal/types"
)

// ContentPatch is a partial admin edit. Nil pointers leave the stored field
// alone. Parent ids are deliberately absent; reparenting is not an admin
// panel operation.
type ContentPatch struct {
	Title           *string         `json:"title,omitempty"`
	Description     *string         `json:"description,omitempty"`
	BodyMD          *string         `json:"body_md,omitempty"`
	DurationMinutes *int            `json:"duration_minutes,omitempty"`
	FreePreview     *bool           `json:"free_preview,omitempty"`
	Provider        *string         `json:"provider,omitempty"`
	PlaybackID      *string         `json:"playback_id,omitempty"`
	DurationSeconds *int            `json:"duration_seconds,omitempty"`
	Position        *int            `json:"position,omitempty"`
	Metadata        json.RawMessage `json:"metadata,omitempty"`
}

// AdminService owns every mutation that comes from a person. Each edit
// re-tags the record with the editing admin's id, which is what later
// protects it from silent re-seeding.
type AdminService interface {
	UpdateContent(ctx context.Context, kind types.ContentKind, id string, patch ContentPatch, editorID string) error
	SetLocked(ctx context.Context, kind types.ContentKind, id string, locked bool) error
}

type adminService struct {
	db         *gorm.DB
	log        *logger.Logger
	trackRepo  repos.TrackRepo
	seriesRepo repos.SeriesRepo
	lessonRepo repos.LessonRepo
	videoRepo  repos.VideoRepo
}

func NewAdminService(
	db *gorm.DB,
	log *logger.Logger,
	trackRepo repos.TrackRepo,
	seriesRepo repos.SeriesRepo,
	lessonRepo repos.LessonRepo,
	videoRepo repos.VideoRepo,
) AdminService {
	serviceLog := log.With("service", "AdminService")
	return &adminService{
		db:         db,
		log:        serviceLog,
		trackRepo:  trackRepo,
		seriesRepo: seriesRepo,
		lessonRepo: lessonRepo,
		videoRepo:  videoRepo,
	}
}

func (s *adminService) UpdateContent(ctx context.Context, kind types.ContentKind, id string, patch ContentPatch, editorID string) error {
	if editorID == "" || editorID == types.ActorScript {
		return fmt.Errorf("editor id must identify a human user")
	}
	now := time.Now()

	var err error
	switch kind {
	case types.KindTrack:
		err = s.updateTrack(ctx, id, patch, editorID, now)
	case types.KindSeries:
		err = s.updateSeries(ctx, id, patch, editorID, now)
	case types.KindLesson:
		err = s.updateLesson(ctx, id, patch, editorID, now)
	case types.KindVideo:
		err = s.updateVideo(ctx, id, patch, editorID, now)
	default:
		return fmt.Errorf("unknown content kind %q", kind)
	}
	if err != nil {
		return err
	}

	s.log.Info("Content edited", "kind", kind, "id", id, "editor", editorID)
	return nil
}

// SetLocked is the only path that ever changes is_locked. Seeding runs
// honor the flag but never write it.
func (s *adminService) SetLocked(ctx context.Context, kind types.ContentKind, id string, locked bool) error {
	now := time.Now()

	var err error
	switch kind {
	case types.KindTrack:
		err = s.trackRepo.SetLocked(ctx, nil, id, locked, now)
	case types.KindSeries:
		err = s.seriesRepo.SetLocked(ctx, nil, id, locked, now)
	case types.KindLesson:
		err = s.lessonRepo.SetLocked(ctx, nil, id, locked, now)
	case types.KindVideo:
		err = s.videoRepo.SetLocked(ctx, nil, id, locked, now)
	default:
		return fmt.Errorf("unknown content kind %q", kind)
	}
	if err != nil {
		return err
	}

	s.log.Info("Content lock changed", "kind", kind, "id", id, "locked", locked)
	return nil
}

func (s *adminService) updateTrack(ctx context.Context, id string, patch ContentPatch, editorID string, now time.Time) error {
	track, err := s.trackRepo.GetByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if track.IsLocked {
		return apperr.ErrLocked
	}
	if patch.Title != nil {
		track.Title = *patch.Title
	}
	if patch.Description != nil {
		track.Description = *patch.Description
	}
	if patch.Position != nil {
		track.Position = *patch.Position
	}
	if patch.Metadata != nil {
		track.Metadata = datatypes.JSON(patch.Metadata)
	}
	track.UpdatedAt = now
	track.LastModifiedBy = editorID
	return s.trackRepo.UpdateIfVersion(ctx, nil, track, track.Version)
}

func (s *adminService) updateSeries(ctx context.Context, id string, patch ContentPatch, editorID string, now time.Time) error {
	series, err := s.seriesRepo.GetByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if series.IsLocked {
		return apperr.ErrLocked
	}
	if patch.Title != nil {
		series.Title = *patch.Title
	}
	if patch.Description != nil {
		series.Description = *patch.Description
	}
	if patch.Position != nil {
		series.Position = *patch.Position
	}
	if patch.Metadata != nil {
		series.Metadata = datatypes.JSON(patch.Metadata)
	}
	series.UpdatedAt = now
	series.LastModifiedBy = editorID
	return s.seriesRepo.UpdateIfVersion(ctx, nil, series, series.Version)
}

func (s *adminService) updateLesson(ctx context.Context, id string, patch ContentPatch, editorID string, now time.Time) error {
	lesson, err := s.lessonRepo.GetByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if lesson.IsLocked {
		return apperr.ErrLocked
	}
	if patch.Title != nil {
		lesson.Title = *patch.Title
	}
	if patch.Description != nil {
		lesson.Description = *patch.Description
	}
	if patch.BodyMD != nil {
		lesson.BodyMD = *patch.BodyMD
	}
	if patch.DurationMinutes != nil {
		lesson.DurationMinutes = *patch.DurationMinutes
	}
	if patch.FreePreview != nil {
		lesson.FreePreview = *patch.FreePreview
	}
	if patch.Position != nil {
		lesson.Position = *patch.Position
	}
	if patch.Metadata != nil {
		lesson.Metadata = datatypes.JSON(patch.Metadata)
	}
	lesson.UpdatedAt = now
	lesson.LastModifiedBy = editorID
	return s.lessonRepo.UpdateIfVersion(ctx, nil, lesson, lesson.Version)
}

func (s *adminService) updateVideo(ctx context.Context, id string, patch ContentPatch, editorID string, now time.Time) error {
	video, err := s.videoRepo.GetByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if video.IsLocked {
		return apperr.ErrLocked
	}
	if patch.Title != nil {
		video.Title = *patch.Title
	}
	if patch.Provider != nil {
		video.Provider = *patch.Provider
	}
	if patch.PlaybackID != nil {
		video.PlaybackID = *patch.PlaybackID
	}
	if patch.DurationSeconds != nil {
		video.DurationSeconds = *patch.DurationSeconds
	}
	if patch.Position != nil {
		video.Position = *patch.Position
	}
	if patch.Metadata != nil {
		video.Metadata = datatypes.JSON(patch.Metadata)
	}
	video.UpdatedAt = now
	video.LastModifiedBy = editorID
	return s.videoRepo.UpdateIfVersion(ctx, nil, video, video.Version)
}
