package types

import (
	"encoding/json"
	"strings"

	"github.com/trackline/trackline-backend/internal/apperr"
)

// Pure JSON contracts for machine-authored seed content. Not DB models.
// Audit columns are never part of a seed file; the seeder owns them.

type SeedTrack struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Position    int             `json:"position,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

type SeedSeries struct {
	ID          string          `json:"id"`
	TrackID     string          `json:"track_id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Position    int             `json:"position,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

type SeedLesson struct {
	ID              string          `json:"id"`
	SeriesID        string          `json:"series_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	BodyMD          string          `json:"body_md,omitempty"`
	DurationMinutes int             `json:"duration_minutes,omitempty"`
	FreePreview     bool            `json:"free_preview,omitempty"`
	Position        int             `json:"position,omitempty"`
	Metadata        json.RawMessage `json:"metadata,omitempty"`
}

type SeedVideo struct {
	ID              string          `json:"id"`
	LessonID        string          `json:"lesson_id"`
	Title           string          `json:"title"`
	Provider        string          `json:"provider,omitempty"`
	PlaybackID      string          `json:"playback_id,omitempty"`
	DurationSeconds int             `json:"duration_seconds,omitempty"`
	Position        int             `json:"position,omitempty"`
	Metadata        json.RawMessage `json:"metadata,omitempty"`
}

// SeedBundle is one full batch of incoming records, parents first.
type SeedBundle struct {
	Tracks  []SeedTrack
	Series  []SeedSeries
	Lessons []SeedLesson
	Videos  []SeedVideo
}

func (t SeedTrack) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return apperr.NewValidationError(string(KindTrack), t.ID, "id", "required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return apperr.NewValidationError(string(KindTrack), t.ID, "title", "required")
	}
	return nil
}

func (s SeedSeries) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return apperr.NewValidationError(string(KindSeries), s.ID, "id", "required")
	}
	if strings.TrimSpace(s.TrackID) == "" {
		return apperr.NewValidationError(string(KindSeries), s.ID, "track_id", "required")
	}
	if strings.TrimSpace(s.Title) == "" {
		return apperr.NewValidationError(string(KindSeries), s.ID, "title", "required")
	}
	return nil
}

func (l SeedLesson) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return apperr.NewValidationError(string(KindLesson), l.ID, "id", "required")
	}
	if strings.TrimSpace(l.SeriesID) == "" {
		return apperr.NewValidationError(string(KindLesson), l.ID, "series_id", "required")
	}
	if strings.TrimSpace(l.Title) == "" {
		return apperr.NewValidationError(string(KindLesson), l.ID, "title", "required")
	}
	if l.DurationMinutes < 0 {
		return apperr.NewValidationError(string(KindLesson), l.ID, "duration_minutes", "must not be negative")
	}
	return nil
}

func (v SeedVideo) Validate() error {
	if strings.TrimSpace(v.ID) == "" {
		return apperr.NewValidationError(string(KindVideo), v.ID, "id", "required")
	}
	if strings.TrimSpace(v.LessonID) == "" {
		return apperr.NewValidationError(string(KindVideo), v.ID, "lesson_id", "required")
	}
	if strings.TrimSpace(v.Title) == "" {
		return apperr.NewValidationError(string(KindVideo), v.ID, "title", "required")
	}
	if v.DurationSeconds < 0 {
		return apperr.NewValidationError(string(KindVideo), v.ID, "duration_seconds", "must not be negative")
	}
	return nil
}
