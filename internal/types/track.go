package types

import (
	"gorm.io/datatypes"
)

type Track struct {
	ID          string         `gorm:"primaryKey;column:id" json:"id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Description string         `gorm:"column:description" json:"description"`
	Position    int            `gorm:"column:position;not null;default:0" json:"position"`
	Metadata    datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	Audit

	Series []*Series `gorm:"foreignKey:TrackID;references:ID" json:"series,omitempty"`
}

func (Track) TableName() string { return "track" }
