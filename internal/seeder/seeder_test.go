package seeder

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/trackline/trackline-backend/internal/apperr"
	"github.com/trackline/trackline-backend/internal/logger"
	"github.com/trackline/trackline-backend/internal/types"
)

// In-memory repo fakes. UpdateIfVersion mirrors the real conditional write:
// missing row reports not found, stale version reports a conflict.

type fakeTrackRepo struct {
	records map[string]*types.Track
	// forceConflicts makes the next N UpdateIfVersion calls fail as if a
	// concurrent writer advanced the version.
	forceConflicts int
	// vanishOnUpdate makes the next N UpdateIfVersion calls behave as if
	// the record was deleted between the read and the conditional write.
	vanishOnUpdate int
	// readErr, when set, fails every GetByID as the driver would.
	readErr error
	inserts int
	updates int
}

func newFakeTrackRepo() *fakeTrackRepo {
	return &fakeTrackRepo{records: map[string]*types.Track{}}
}

func (f *fakeTrackRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Track, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	rec, ok := f.records[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (f *fakeTrackRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Track, error) {
	out := make([]*types.Track, 0, len(f.records))
	for _, rec := range f.records {
		copied := *rec
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeTrackRepo) Insert(ctx context.Context, tx *gorm.DB, track *types.Track) error {
	copied := *track
	f.records[track.ID] = &copied
	f.inserts++
	return nil
}

func (f *fakeTrackRepo) UpdateIfVersion(ctx context.Context, tx *gorm.DB, track *types.Track, expectedVersion int64) error {
	if f.vanishOnUpdate > 0 {
		f.vanishOnUpdate--
		delete(f.records, track.ID)
		return apperr.ErrNotFound
	}
	if f.forceConflicts > 0 {
		f.forceConflicts--
		if rec, ok := f.records[track.ID]; ok {
			rec.Version++
		}
		return apperr.ErrVersionConflict
	}
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
	f.updates++
	return nil
}

func (f *fakeTrackRepo) SetLocked(ctx context.Context, tx *gorm.DB, id string, locked bool, now time.Time) error {
	rec, ok := f.records[id]
	if !ok {
		return apperr.ErrNotFound
	}
	rec.IsLocked = locked
	rec.UpdatedAt = now
	rec.Version++
	return nil
}

type fakeSeriesRepo struct {
	records map[string]*types.Series
}

func newFakeSeriesRepo() *fakeSeriesRepo {
	return &fakeSeriesRepo{records: map[string]*types.Series{}}
}

func (f *fakeSeriesRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Series, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (f *fakeSeriesRepo) ListByTrackID(ctx context.Context, tx *gorm.DB, trackID string) ([]*types.Series, error) {
	return nil, nil
}

func (f *fakeSeriesRepo) Insert(ctx context.Context, tx *gorm.DB, series *types.Series) error {
	copied := *series
	f.records[series.ID] = &copied
	return nil
}

func (f *fakeSeriesRepo) UpdateIfVersion(ctx context.Context, tx *gorm.DB, series *types.Series, expectedVersion int64) error {
	rec, ok := f.records[series.ID]
	if !ok {
		return apperr.ErrNotFound
	}
	if rec.Version != expectedVersion {
		return apperr.ErrVersionConflict
	}
	copied := *series
	copied.Version = expectedVersion + 1
	f.records[series.ID] = &copied
	return nil
}

func (f *fakeSeriesRepo) SetLocked(ctx context.Context, tx *gorm.DB, id string, locked bool, now time.Time) error {
	rec, ok := f.records[id]
	if !ok {
		return apperr.ErrNotFound
	}
	rec.IsLocked = locked
	rec.Version++
	return nil
}

type fakeLessonRepo struct {
	records map[string]*types.Lesson
}

func newFakeLessonRepo() *fakeLessonRepo {
	return &fakeLessonRepo{records: map[string]*types.Lesson{}}
}

func (f *fakeLessonRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Lesson, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (f *fakeLessonRepo) ListBySeriesID(ctx context.Context, tx *gorm.DB, seriesID string) ([]*types.Lesson, error) {
	return nil, nil
}

func (f *fakeLessonRepo) Insert(ctx context.Context, tx *gorm.DB, lesson *types.Lesson) error {
	copied := *lesson
	f.records[lesson.ID] = &copied
	return nil
}

func (f *fakeLessonRepo) UpdateIfVersion(ctx context.Context, tx *gorm.DB, lesson *types.Lesson, expectedVersion int64) error {
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

func (f *fakeLessonRepo) SetLocked(ctx context.Context, tx *gorm.DB, id string, locked bool, now time.Time) error {
	rec, ok := f.records[id]
	if !ok {
		return apperr.ErrNotFound
	}
	rec.IsLocked = locked
	rec.Version++
	return nil
}

type fakeVideoRepo struct {
	records map[string]*types.Video
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{records: map[string]*types.Video{}}
}

func (f *fakeVideoRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Video, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (f *fakeVideoRepo) ListByLessonID(ctx context.Context, tx *gorm.DB, lessonID string) ([]*types.Video, error) {
	return nil, nil
}

func (f *fakeVideoRepo) Insert(ctx context.Context, tx *gorm.DB, video *types.Video) error {
	copied := *video
	f.records[video.ID] = &copied
	return nil
}

func (f *fakeVideoRepo) UpdateIfVersion(ctx context.Context, tx *gorm.DB, video *types.Video, expectedVersion int64) error {
	rec, ok := f.records[video.ID]
	if !ok {
		return apperr.ErrNotFound
	}
	if rec.Version != expectedVersion {
		return apperr.ErrVersionConflict
	}
	copied := *video
	copied.Version = expectedVersion + 1
	f.records[video.ID] = &copied
	return nil
}

func (f *fakeVideoRepo) SetLocked(ctx context.Context, tx *gorm.DB, id string, locked bool, now time.Time) error {
	rec, ok := f.records[id]
	if !ok {
		return apperr.ErrNotFound
	}
	rec.IsLocked = locked
	rec.Version++
	return nil
}

type fixture struct {
	tracks  *fakeTrackRepo
	series  *fakeSeriesRepo
	lessons *fakeLessonRepo
	videos  *fakeVideoRepo
	log     *logger.Logger
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return &fixture{
		tracks:  newFakeTrackRepo(),
		series:  newFakeSeriesRepo(),
		lessons: newFakeLessonRepo(),
		videos:  newFakeVideoRepo(),
		log:     log,
		now:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) seeder(opts Options) *Seeder {
	if opts.Now == nil {
		opts.Now = func() time.Time { return f.now }
	}
	store := Store{
		Tracks:  f.tracks,
		Series:  f.series,
		Lessons: f.lessons,
		Videos:  f.videos,
	}
	// nil db skips the ping; the fakes stand in for the store.
	return New(nil, store, f.log, opts)
}

func sampleBundle() *types.SeedBundle {
	return &types.SeedBundle{
		Tracks: []types.SeedTrack{
			{ID: "go", Title: "Go", Position: 1},
		},
		Series: []types.SeedSeries{
			{ID: "go-101", TrackID: "go", Title: "Go 101", Position: 1},
		},
		Lessons: []types.SeedLesson{
			{ID: "go-101-1", SeriesID: "go-101", Title: "Hello", BodyMD: "# Hello", DurationMinutes: 10, Position: 1},
		},
		Videos: []types.SeedVideo{
			{ID: "go-101-1-v", LessonID: "go-101-1", Title: "Hello walkthrough", Provider: "mux", PlaybackID: "abc", DurationSeconds: 600, Position: 1},
		},
	}
}

func TestRunInsertsFreshStore(t *testing.T) {
	f := newFixture(t)
	s := f.seeder(Options{})

	summary, err := s.Run(context.Background(), sampleBundle())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Inserted != 4 || summary.Updated != 0 || summary.Total != 4 {
		t.Fatalf("summary: want inserted=4 updated=0 total=4, got %+v", summary)
	}
	if len(summary.Errors) != 0 {
		t.Fatalf("errors: want none, got %v", summary.Errors)
	}

	track := f.tracks.records["go"]
	if track == nil {
		t.Fatalf("track not persisted")
	}
	if track.LastModifiedBy != types.ActorScript {
		t.Fatalf("LastModifiedBy: want=%q got=%q", types.ActorScript, track.LastModifiedBy)
	}
	if track.Version != 1 {
		t.Fatalf("Version: want=1 got=%d", track.Version)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	f := newFixture(t)
	s := f.seeder(Options{})

	if _, err := s.Run(context.Background(), sampleBundle()); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	summary, err := s.Run(context.Background(), sampleBundle())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if summary.Inserted != 0 || summary.Updated != 4 {
		t.Fatalf("second run: want inserted=0 updated=4, got %+v", summary)
	}
	// Script records stay script records; versions advance once per run.
	if got := f.tracks.records["go"].Version; got != 2 {
		t.Fatalf("Version after rerun: want=2 got=%d", got)
	}
}

func TestRunSkipsHumanCuratedWithoutOverride(t *testing.T) {
	f := newFixture(t)
	s := f.seeder(Options{})
	if _, err := s.Run(context.Background(), sampleBundle()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// An admin rewrites the track title out of band.
	track := f.tracks.records["go"]
	track.Title = "Go, curated"
	track.LastModifiedBy = "admin@example.com"
	track.Version++

	summary, err := s.Run(context.Background(), sampleBundle())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.SkippedHumanEdit != 1 {
		t.Fatalf("SkippedHumanEdit: want=1 got=%d", summary.SkippedHumanEdit)
	}
	if got := f.tracks.records["go"].Title; got != "Go, curated" {
		t.Fatalf("human edit clobbered: got title=%q", got)
	}
}

func TestRunOverrideRetagsHumanRecord(t *testing.T) {
	f := newFixture(t)
	s := f.seeder(Options{})
	if _, err := s.Run(context.Background(), sampleBundle()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	track := f.tracks.records["go"]
	track.Title = "Go, curated"
	track.LastModifiedBy = "admin@example.com"

	summary, err := f.seeder(Options{Override: true}).Run(context.Background(), sampleBundle())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Updated != 4 {
		t.Fatalf("Updated: want=4 got=%d", summary.Updated)
	}
	got := f.tracks.records["go"]
	if got.Title != "Go" {
		t.Fatalf("override must overwrite payload: got title=%q", got.Title)
	}
	if got.LastModifiedBy != types.ActorScript {
		t.Fatalf("override must re-tag to script: got=%q", got.LastModifiedBy)
	}
}

func TestRunLockBeatsOverride(t *testing.T) {
	f := newFixture(t)
	s := f.seeder(Options{})
	if _, err := s.Run(context.Background(), sampleBundle()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	track := f.tracks.records["go"]
	track.Title = "Go, locked"
	track.LastModifiedBy = "admin@example.com"
	track.IsLocked = true

	summary, err := f.seeder(Options{Override: true}).Run(context.Background(), sampleBundle())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.SkippedLocked != 1 {
		t.Fatalf("SkippedLocked: want=1 got=%d", summary.SkippedLocked)
	}
	got := f.tracks.records["go"]
	if got.Title != "Go, locked" || got.LastModifiedBy != "admin@example.com" {
		t.Fatalf("locked record touched: %+v", got)
	}
}

func TestRunContinuesPastInvalidRecord(t *testing.T) {
	f := newFixture(t)
	s := f.seeder(Options{})

	bundle := sampleBundle()
	bundle.Tracks = append(bundle.Tracks, types.SeedTrack{ID: "bad", Title: ""})

	summary, err := s.Run(context.Background(), bundle)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Total != 5 {
		t.Fatalf("Total: want=5 got=%d", summary.Total)
	}
	if summary.Inserted != 4 {
		t.Fatalf("Inserted: want=4 got=%d", summary.Inserted)
	}
	if len(summary.Errors) != 1 {
		t.Fatalf("Errors: want=1 got=%d (%v)", len(summary.Errors), summary.Errors)
	}
	if summary.Errors[0].Kind != types.KindTrack || summary.Errors[0].ID != "bad" {
		t.Fatalf("error identity: got %+v", summary.Errors[0])
	}
	if _, ok := f.tracks.records["bad"]; ok {
		t.Fatalf("invalid record must not be written")
	}
}

func TestRunRetriesVersionConflictOnce(t *testing.T) {
	f := newFixture(t)
	s := f.seeder(Options{})
	if _, err := s.Run(context.Background(), sampleBundle()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// One mid-flight edit: the first conditional write misses, the rerun
	// reads the advanced version and lands.
	f.tracks.forceConflicts = 1

	summary, err := s.Run(context.Background(), sampleBundle())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Updated != 4 {
		t.Fatalf("Updated: want=4 got=%d", summary.Updated)
	}
	if len(summary.Errors) != 0 {
		t.Fatalf("errors: want none, got %v", summary.Errors)
	}
}

func TestRunRecordsPersistentConflictAndContinues(t *testing.T) {
	f := newFixture(t)
	s := f.seeder(Options{})
	if _, err := s.Run(context.Background(), sampleBundle()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Both the attempt and its single retry hit a conflict.
	f.tracks.forceConflicts = 2

	summary, err := s.Run(context.Background(), sampleBundle())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Errors) != 1 {
		t.Fatalf("Errors: want=1 got=%d (%v)", len(summary.Errors), summary.Errors)
	}
	if summary.Errors[0].Kind != types.KindTrack {
		t.Fatalf("error kind: got %+v", summary.Errors[0])
	}
	// The rest of the batch still ran.
	if summary.Updated != 3 {
		t.Fatalf("Updated: want=3 got=%d", summary.Updated)
	}
}

func TestRunAbortsWhenStoreDiesMidBatch(t *testing.T) {
	connErrs := []error{
		errors.New("sql: database is closed"),
		fmt.Errorf("get track: %w", driver.ErrBadConn),
		fmt.Errorf("get track: %w", sql.ErrConnDone),
	}
	for _, connErr := range connErrs {
		t.Run(connErr.Error(), func(t *testing.T) {
			f := newFixture(t)
			s := f.seeder(Options{})

			bundle := &types.SeedBundle{
				Tracks: []types.SeedTrack{
					{ID: "t1", Title: "A"},
					{ID: "t2", Title: "B"},
					{ID: "t3", Title: "C"},
				},
			}
			f.tracks.readErr = connErr

			summary, err := s.Run(context.Background(), bundle)
			if err == nil {
				t.Fatalf("Run: expected fatal error, got nil")
			}
			if !apperr.IsStoreUnavailable(err) {
				t.Fatalf("Run: want store-unavailable, got %v", err)
			}
			if summary != nil {
				t.Fatalf("aborted run must not report a partial summary: %+v", summary)
			}
		})
	}
}

func TestRunRecordsVanishedRowAndContinues(t *testing.T) {
	f := newFixture(t)
	s := f.seeder(Options{})
	if _, err := s.Run(context.Background(), sampleBundle()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// The track is deleted between the read and the conditional write.
	f.tracks.vanishOnUpdate = 1

	summary, err := s.Run(context.Background(), sampleBundle())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Errors) != 1 {
		t.Fatalf("Errors: want=1 got=%d (%v)", len(summary.Errors), summary.Errors)
	}
	if summary.Errors[0].Kind != types.KindTrack || summary.Errors[0].ID != "go" {
		t.Fatalf("error identity: got %+v", summary.Errors[0])
	}
	// The rest of the batch still ran.
	if summary.Updated != 3 {
		t.Fatalf("Updated: want=3 got=%d", summary.Updated)
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	f := newFixture(t)

	summary, err := f.seeder(Options{DryRun: true}).Run(context.Background(), sampleBundle())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Inserted != 4 {
		t.Fatalf("dry run must still report decisions: got %+v", summary)
	}
	if f.tracks.inserts != 0 || len(f.tracks.records) != 0 {
		t.Fatalf("dry run wrote to the store")
	}
}

func TestRunStopsOnCancellation(t *testing.T) {
	f := newFixture(t)
	s := f.seeder(Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Run(ctx, sampleBundle()); err == nil {
		t.Fatalf("Run: expected context error, got nil")
	}
	if len(f.tracks.records) != 0 {
		t.Fatalf("cancelled run wrote records")
	}
}
