package types

import (
	"gorm.io/datatypes"
)

type Lesson struct {
	ID              string         `gorm:"primaryKey;column:id" json:"id"`
	SeriesID        string         `gorm:"column:series_id;not null;index" json:"series_id"`
	Title           string         `gorm:"column:title;not null" json:"title"`
	Description     string         `gorm:"column:description" json:"description"`
	BodyMD          string         `gorm:"column:body_md" json:"body_md,omitempty"`
	DurationMinutes int            `gorm:"column:duration_minutes;not null;default:0" json:"duration_minutes"`
	FreePreview     bool           `gorm:"column:free_preview;not null;default:false" json:"free_preview"`
	Position        int            `gorm:"column:position;not null;default:0" json:"position"`
	Metadata        datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	Audit

	Videos []*Video `gorm:"foreignKey:LessonID;references:ID" json:"videos,omitempty"`
}

func (Lesson) TableName() string { return "lesson" }
