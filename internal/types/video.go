package types

import (
	"gorm.io/datatypes"
)

type Video struct {
	ID              string         `gorm:"primaryKey;column:id" json:"id"`
	LessonID        string         `gorm:"column:lesson_id;not null;index" json:"lesson_id"`
	Title           string         `gorm:"column:title;not null" json:"title"`
	Provider        string         `gorm:"column:provider;not null" json:"provider"`
	PlaybackID      string         `gorm:"column:playback_id;not null" json:"playback_id"`
	DurationSeconds int            `gorm:"column:duration_seconds;not null;default:0" json:"duration_seconds"`
	Position        int            `gorm:"column:position;not null;default:0" json:"position"`
	Metadata        datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	Audit
}

func (Video) TableName() string { return "video" }
