package types

import (
	"testing"

	"github.com/trackline/trackline-backend/internal/apperr"
)

func TestSeedTrackValidate(t *testing.T) {
	tests := []struct {
		name  string
		track SeedTrack
		valid bool
	}{
		{"ok", SeedTrack{ID: "go", Title: "Go"}, true},
		{"missing id", SeedTrack{Title: "Go"}, false},
		{"blank id", SeedTrack{ID: "   ", Title: "Go"}, false},
		{"missing title", SeedTrack{ID: "go"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.track.Validate()
			if tt.valid && err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if !tt.valid && !apperr.IsValidation(err) {
				t.Fatalf("Validate: want validation error, got %v", err)
			}
		})
	}
}

func TestSeedLessonValidate(t *testing.T) {
	tests := []struct {
		name   string
		lesson SeedLesson
		valid  bool
	}{
		{"ok", SeedLesson{ID: "l1", SeriesID: "s1", Title: "Hello"}, true},
		{"missing series id", SeedLesson{ID: "l1", Title: "Hello"}, false},
		{"negative duration", SeedLesson{ID: "l1", SeriesID: "s1", Title: "Hello", DurationMinutes: -1}, false},
		{"zero duration ok", SeedLesson{ID: "l1", SeriesID: "s1", Title: "Hello", DurationMinutes: 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.lesson.Validate()
			if tt.valid && err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if !tt.valid && !apperr.IsValidation(err) {
				t.Fatalf("Validate: want validation error, got %v", err)
			}
		})
	}
}

func TestSeedVideoValidate(t *testing.T) {
	if err := (SeedVideo{ID: "v1", LessonID: "l1", Title: "walkthrough"}).Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := (SeedVideo{ID: "v1", Title: "walkthrough"}).Validate(); !apperr.IsValidation(err) {
		t.Fatalf("Validate: want validation error, got %v", err)
	}
	if err := (SeedVideo{ID: "v1", LessonID: "l1", Title: "w", DurationSeconds: -5}).Validate(); !apperr.IsValidation(err) {
		t.Fatalf("Validate: want validation error, got %v", err)
	}
}

func TestAuditHumanCurated(t *testing.T) {
	if (Audit{LastModifiedBy: ActorScript}).HumanCurated() {
		t.Fatalf("script audit reported human curated")
	}
	if !(Audit{LastModifiedBy: "admin@example.com"}).HumanCurated() {
		t.Fatalf("admin audit not reported human curated")
	}
}

func TestContentKindValid(t *testing.T) {
	for _, kind := range []ContentKind{KindTrack, KindSeries, KindLesson, KindVideo} {
		if !kind.Valid() {
			t.Fatalf("kind %q: want valid", kind)
		}
	}
	if ContentKind("album").Valid() {
		t.Fatalf("unknown kind reported valid")
	}
}
