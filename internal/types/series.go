package types

import (
	"gorm.io/datatypes"
)

type Series struct {
	ID          string         `gorm:"primaryKey;column:id" json:"id"`
	TrackID     string         `gorm:"column:track_id;not null;index" json:"track_id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Description string         `gorm:"column:description" json:"description"`
	Position    int            `gorm:"column:position;not null;default:0" json:"position"`
	Metadata    datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	Audit

	Lessons []*Lesson `gorm:"foreignKey:SeriesID;references:ID" json:"lessons,omitempty"`
}

func (Series) TableName() string { return "series" }
