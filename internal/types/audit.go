package types

import (
	"time"
)

// ActorScript tags records whose last mutation came from the automated
// content importer. Any other value of LastModifiedBy is an opaque human
// user identifier assigned by the admin panel.
const ActorScript = "script"

// Audit carries the ownership and concurrency metadata shared by every
// content record. Embedded by Track, Series, Lesson and Video.
type Audit struct {
	CreatedAt      time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
	LastModifiedBy string    `gorm:"column:last_modified_by;not null;default:'script'" json:"last_modified_by"`
	IsLocked       bool      `gorm:"column:is_locked;not null;default:false" json:"is_locked"`
	Version        int64     `gorm:"column:version;not null;default:1" json:"version"`
}

// HumanCurated reports whether the last mutation came from a person.
func (a Audit) HumanCurated() bool {
	return a.LastModifiedBy != ActorScript
}

// ContentKind names an entity kind addressable by the seeder and the admin
// endpoints.
type ContentKind string

const (
	KindTrack  ContentKind = "track"
	KindSeries ContentKind = "series"
	KindLesson ContentKind = "lesson"
	KindVideo  ContentKind = "video"
)

func (k ContentKind) Valid() bool {
	switch k {
	case KindTrack, KindSeries, KindLesson, KindVideo:
		return true
	}
	return false
}
