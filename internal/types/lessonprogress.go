package types

import (
	"time"

	"github.com/google/uuid"
)

// LessonProgress lives in the user database and references lessons in the
// content database by their string id only. No cross-database foreign key.
type LessonProgress struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_lesson,unique" json:"user_id"`
	User             *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	LessonID         string     `gorm:"column:lesson_id;not null;index:idx_user_lesson,unique" json:"lesson_id"`
	SecondsWatched   int        `gorm:"column:seconds_watched;not null;default:0" json:"seconds_watched"`
	LastPositionSecs int        `gorm:"column:last_position_secs;not null;default:0" json:"last_position_secs"`
	Completed        bool       `gorm:"column:completed;not null;default:false" json:"completed"`
	CompletedAt      *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt        time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null" json:"updated_at"`
}

func (LessonProgress) TableName() string { return "lesson_progress" }
