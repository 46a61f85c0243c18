package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/trackline/trackline-backend/internal/apperr"
	"github.com/trackline/trackline-backend/internal/logger"
	"github.com/trackline/trackline-backend/internal/types"
)

type memTrackRepo struct {
	records map[string]*types.Track
}

func (f *memTrackRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Track, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (f *memTrackRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Track, error) {
	return nil, nil
}

func (f *memTrackRepo) Insert(ctx context.Context, tx *gorm.DB, track *types.Track) error {
	copied := *track
	f.records[track.ID] = &copied
	return nil
}

func (f *memTrackRepo) UpdateIfVersion(ctx context.Context, tx *gorm.DB, track *types.Track, expectedVersion int64) error {
	rec, ok := f.records[track.ID]
	if !ok {
		return apperr.ErrNotFound
	}
	if rec.Version != expectedVersion {
		return apperr.ErrVersionConflict
	}
	copied := *track
	copied.Version = expectedVersion + 1
	f.records[track.ID] = &copied
	return nil
}

func (f *memTrackRepo) SetLocked(ctx context.Context, tx *gorm.DB, id string, locked bool, now time.Time) error {
	rec, ok := f.records[id]
	if !ok {
		return apperr.ErrNotFound
	}
	rec.IsLocked = locked
	rec.UpdatedAt = now
	rec.Version++
	return nil
}

type memSeriesRepo struct{}

func (memSeriesRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Series, error) {
	return nil, apperr.ErrNotFound
}
func (memSeriesRepo) ListByTrackID(ctx context.Context, tx *gorm.DB, trackID string) ([]*types.Series, error) {
	return nil, nil
}
func (memSeriesRepo) Insert(ctx context.Context, tx *gorm.DB, series *types.Series) error {
	return nil
}
func (memSeriesRepo) UpdateIfVersion(ctx context.Context, tx *gorm.DB, series *types.Series, expectedVersion int64) error {
	return apperr.ErrNotFound
}
func (memSeriesRepo) SetLocked(ctx context.Context, tx *gorm.DB, id string, locked bool, now time.Time) error {
	return apperr.ErrNotFound
}

type memLessonRepo struct {
	records map[string]*types.Lesson
}

func (f *memLessonRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Lesson, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (f *memLessonRepo) ListBySeriesID(ctx context.Context, tx *gorm.DB, seriesID string) ([]*types.Lesson, error) {
	return nil, nil
}

func (f *memLessonRepo) Insert(ctx context.Context, tx *gorm.DB, lesson *types.Lesson) error {
	copied := *lesson
	f.records[lesson.ID] = &copied
	return nil
}

func (f *memLessonRepo) UpdateIfVersion(ctx context.Context, tx *gorm.DB, lesson *types.Lesson, expectedVersion int64) error {
	rec, ok := f.records[lesson.ID]
	if !ok {
		return apperr.ErrNotFound
	}
	if rec.Version != expectedVersion {
		return apperr.ErrVersionConflict
	}
	copied := *lesson
	copied.Version = expectedVersion + 1
	f.records[lesson.ID] = &copied
	return nil
}

func (f *memLessonRepo) SetLocked(ctx context.Context, tx *gorm.DB, id string, locked bool, now time.Time) error {
	rec, ok := f.records[id]
	if !ok {
		return apperr.ErrNotFound
	}
	rec.IsLocked = locked
	rec.Version++
	return nil
}

type memVideoRepo struct{}

func (memVideoRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Video, error) {
	return nil, apperr.ErrNotFound
}
func (memVideoRepo) ListByLessonID(ctx context.Context, tx *gorm.DB, lessonID string) ([]*types.Video, error) {
	return nil, nil
}
func (memVideoRepo) Insert(ctx context.Context, tx *gorm.DB, video *types.Video) error {
	return nil
}
func (memVideoRepo) UpdateIfVersion(ctx context.Context, tx *gorm.DB, video *types.Video, expectedVersion int64) error {
	return apperr.ErrNotFound
}
func (memVideoRepo) SetLocked(ctx context.Context, tx *gorm.DB, id string, locked bool, now time.Time) error {
	return apperr.ErrNotFound
}

func newAdminFixture(t *testing.T) (AdminService, *memTrackRepo, *memLessonRepo) {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	tracks := &memTrackRepo{records: map[string]*types.Track{}}
	lessons := &memLessonRepo{records: map[string]*types.Lesson{}}
	svc := NewAdminService(nil, log, tracks, memSeriesRepo{}, lessons, memVideoRepo{})
	return svc, tracks, lessons
}

func scriptTrack(id string) *types.Track {
	return &types.Track{
		ID:    id,
		Title: "Go",
		Audit: types.Audit{
			CreatedAt:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			UpdatedAt:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			LastModifiedBy: types.ActorScript,
			Version:        1,
		},
	}
}

func strPtr(s string) *string { return &s }

func TestUpdateContentRetagsEditor(t *testing.T) {
	svc, tracks, _ := newAdminFixture(t)
	tracks.records["go"] = scriptTrack("go")

	err := svc.UpdateContent(context.Background(), types.KindTrack, "go", ContentPatch{
		Title: strPtr("Go, revised"),
	}, "admin@example.com")
	if err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}

	got := tracks.records["go"]
	if got.Title != "Go, revised" {
		t.Fatalf("Title: want=%q got=%q", "Go, revised", got.Title)
	}
	if got.LastModifiedBy != "admin@example.com" {
		t.Fatalf("LastModifiedBy: want editor id, got=%q", got.LastModifiedBy)
	}
	if got.Version != 2 {
		t.Fatalf("Version: want=2 got=%d", got.Version)
	}
}

func TestUpdateContentLeavesUnpatchedFields(t *testing.T) {
	svc, tracks, _ := newAdminFixture(t)
	track := scriptTrack("go")
	track.Description = "the original description"
	tracks.records["go"] = track

	err := svc.UpdateContent(context.Background(), types.KindTrack, "go", ContentPatch{
		Position: intPtr(9),
	}, "admin@example.com")
	if err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	got := tracks.records["go"]
	if got.Description != "the original description" || got.Title != "Go" {
		t.Fatalf("unpatched fields changed: %+v", got)
	}
	if got.Position != 9 {
		t.Fatalf("Position: want=9 got=%d", got.Position)
	}
}

func intPtr(i int) *int { return &i }

func TestUpdateContentRejectsLockedRecord(t *testing.T) {
	svc, tracks, _ := newAdminFixture(t)
	track := scriptTrack("go")
	track.IsLocked = true
	tracks.records["go"] = track

	err := svc.UpdateContent(context.Background(), types.KindTrack, "go", ContentPatch{
		Title: strPtr("nope"),
	}, "admin@example.com")
	if !apperr.IsLocked(err) {
		t.Fatalf("UpdateContent: want ErrLocked, got %v", err)
	}
	if tracks.records["go"].Title != "Go" {
		t.Fatalf("locked record modified")
	}
}

func TestUpdateContentRejectsScriptEditor(t *testing.T) {
	svc, _, _ := newAdminFixture(t)
	for _, editor := range []string{"", types.ActorScript} {
		if err := svc.UpdateContent(context.Background(), types.KindTrack, "go", ContentPatch{}, editor); err == nil {
			t.Fatalf("UpdateContent(editor=%q): expected error, got nil", editor)
		}
	}
}

func TestUpdateContentUnknownKind(t *testing.T) {
	svc, _, _ := newAdminFixture(t)
	if err := svc.UpdateContent(context.Background(), types.ContentKind("album"), "x", ContentPatch{}, "admin@example.com"); err == nil {
		t.Fatalf("UpdateContent: expected error for unknown kind, got nil")
	}
}

func TestUpdateContentMissingRecord(t *testing.T) {
	svc, _, _ := newAdminFixture(t)
	err := svc.UpdateContent(context.Background(), types.KindTrack, "ghost", ContentPatch{}, "admin@example.com")
	if !apperr.IsNotFound(err) {
		t.Fatalf("UpdateContent: want ErrNotFound, got %v", err)
	}
}

func TestUpdateContentPatchesLessonBody(t *testing.T) {
	svc, _, lessons := newAdminFixture(t)
	lessons.records["l1"] = &types.Lesson{
		ID:       "l1",
		SeriesID: "s1",
		Title:    "Hello",
		BodyMD:   "# old",
		Audit: types.Audit{
			LastModifiedBy: types.ActorScript,
			Version:        1,
		},
	}

	err := svc.UpdateContent(context.Background(), types.KindLesson, "l1", ContentPatch{
		BodyMD:      strPtr("# new"),
		FreePreview: boolPtr(true),
	}, "admin@example.com")
	if err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	got := lessons.records["l1"]
	if got.BodyMD != "# new" || !got.FreePreview {
		t.Fatalf("lesson patch: %+v", got)
	}
	if got.SeriesID != "s1" {
		t.Fatalf("SeriesID must not change: got=%q", got.SeriesID)
	}
}

func boolPtr(b bool) *bool { return &b }

func TestSetLockedTogglesFlag(t *testing.T) {
	svc, tracks, _ := newAdminFixture(t)
	tracks.records["go"] = scriptTrack("go")

	if err := svc.SetLocked(context.Background(), types.KindTrack, "go", true); err != nil {
		t.Fatalf("SetLocked: %v", err)
	}
	if !tracks.records["go"].IsLocked {
		t.Fatalf("IsLocked: want=true")
	}
	if err := svc.SetLocked(context.Background(), types.KindTrack, "go", false); err != nil {
		t.Fatalf("SetLocked(unlock): %v", err)
	}
	if tracks.records["go"].IsLocked {
		t.Fatalf("IsLocked: want=false after unlock")
	}
}

func TestSetLockedMissingRecord(t *testing.T) {
	svc, _, _ := newAdminFixture(t)
	if err := svc.SetLocked(context.Background(), types.KindTrack, "ghost", true); !apperr.IsNotFound(err) {
		t.Fatalf("SetLocked: want ErrNotFound, got %v", err)
	}
}
