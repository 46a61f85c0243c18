package seeder

import (
	"time"

	"gorm.io/datatypes"

	"github.com/trackline/trackline-backend/internal/types"
)

// Outcome is the reconciliation decision for one incoming record.
type Outcome int

const (
	OutcomeInsert Outcome = iota
	OutcomeUpdate
	OutcomeSkipLocked
	OutcomeSkipHumanEdit
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInsert:
		return "insert"
	case OutcomeUpdate:
		return "update"
	case OutcomeSkipLocked:
		return "skip_locked"
	case OutcomeSkipHumanEdit:
		return "skip_human_edit"
	}
	return "unknown"
}

// Decide applies the reconciliation policy to one record. existing is nil
// when the store has no record for the incoming id.
//
// The lock is the hard stop: overrideMode never bypasses it, only an
// explicit admin unlock does. Human curation (last_modified_by != "script")
// is the soft stop, bypassed only by overrideMode. Pure function; the
// driver owns all store access.
func Decide(existing *types.Audit, overrideMode bool) Outcome {
	if existing == nil {
		return OutcomeInsert
	}
	if existing.IsLocked {
		return OutcomeSkipLocked
	}
	if existing.HumanCurated() && !overrideMode {
		return OutcomeSkipHumanEdit
	}
	return OutcomeUpdate
}

// NewAudit is the audit block for a freshly inserted script record.
func NewAudit(now time.Time) types.Audit {
	return types.Audit{
		CreatedAt:      now,
		UpdatedAt:      now,
		LastModifiedBy: types.ActorScript,
		Version:        1,
	}
}

// updatedAudit reasserts script ownership over an existing record. Even
// under override mode the overwrite makes the record script-authored again.
// CreatedAt is preserved; the version bump happens in the conditional
// update keyed on existing.Version.
func updatedAudit(existing types.Audit, now time.Time) types.Audit {
	existing.UpdatedAt = now
	existing.LastModifiedBy = types.ActorScript
	return existing
}

// The merge helpers build the record to persist for an Update outcome:
// incoming payload fields replace the stored ones wholesale, audit columns
// follow updatedAudit. Pure, so the policy tests cover them directly.

func MergeTrack(incoming types.SeedTrack, existing types.Audit, now time.Time) *types.Track {
	return &types.Track{
		ID:          incoming.ID,
		Title:       incoming.Title,
		Description: incoming.Description,
		Position:    incoming.Position,
		Metadata:    datatypes.JSON(incoming.Metadata),
		Audit:       updatedAudit(existing, now),
	}
}

func MergeSeries(incoming types.SeedSeries, existing types.Audit, now time.Time) *types.Series {
	return &types.Series{
		ID:          incoming.ID,
		TrackID:     incoming.TrackID,
		Title:       incoming.Title,
		Description: incoming.Description,
		Position:    incoming.Position,
		Metadata:    datatypes.JSON(incoming.Metadata),
		Audit:       updatedAudit(existing, now),
	}
}

func MergeLesson(incoming types.SeedLesson, existing types.Audit, now time.Time) *types.Lesson {
	return &types.Lesson{
		ID:              incoming.ID,
		SeriesID:        incoming.SeriesID,
		Title:           incoming.Title,
		Description:     incoming.Description,
		BodyMD:          incoming.BodyMD,
		DurationMinutes: incoming.DurationMinutes,
		FreePreview:     incoming.FreePreview,
		Position:        incoming.Position,
		Metadata:        datatypes.JSON(incoming.Metadata),
		Audit:           updatedAudit(existing, now),
	}
}

func MergeVideo(incoming types.SeedVideo, existing types.Audit, now time.Time) *types.Video {
	return &types.Video{
		ID:              incoming.ID,
		LessonID:        incoming.LessonID,
		Title:           incoming.Title,
		Provider:        incoming.Provider,
		PlaybackID:      incoming.PlaybackID,
		DurationSeconds: incoming.DurationSeconds,
		Position:        incoming.Position,
		Metadata:        datatypes.JSON(incoming.Metadata),
		Audit:           updatedAudit(existing, now),
	}
}

func NewTrack(incoming types.SeedTrack, now time.Time) *types.Track {
	return &types.Track{
		ID:          incoming.ID,
		Title:       incoming.Title,
		Description: incoming.Description,
		Position:    incoming.Position,
		Metadata:    datatypes.JSON(incoming.Metadata),
		Audit:       NewAudit(now),
	}
}

func NewSeries(incoming types.SeedSeries, now time.Time) *types.Series {
	return &types.Series{
		ID:          incoming.ID,
		TrackID:     incoming.TrackID,
		Title:       incoming.Title,
		Description: incoming.Description,
		Position:    incoming.Position,
		Metadata:    datatypes.JSON(incoming.Metadata),
		Audit:       NewAudit(now),
	}
}

func NewLesson(incoming types.SeedLesson, now time.Time) *types.Lesson {
	return &types.Lesson{
		ID:              incoming.ID,
		SeriesID:        incoming.SeriesID,
		Title:           incoming.Title,
		Description:     incoming.Description,
		BodyMD:          incoming.BodyMD,
		DurationMinutes: incoming.DurationMinutes,
		FreePreview:     incoming.FreePreview,
		Position:        incoming.Position,
		Metadata:        datatypes.JSON(incoming.Metadata),
		Audit:           NewAudit(now),
	}
}

func NewVideo(incoming types.SeedVideo, now time.Time) *types.Video {
	return &types.Video{
		ID:              incoming.ID,
		LessonID:        incoming.LessonID,
		Title:           incoming.Title,
		Provider:        incoming.Provider,
		PlaybackID:      incoming.PlaybackID,
		DurationSeconds: incoming.DurationSeconds,
		Position:        incoming.Position,
		Metadata:        datatypes.JSON(incoming.Metadata),
		Audit:           NewAudit(now),
	}
}
