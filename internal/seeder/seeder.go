// Package seeder reconciles machine-authored seed content into the content
// store without trampling human edits made through the admin panel.
package seeder

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/trackline/trackline-backend/internal/apperr"
	"github.com/trackline/trackline-backend/internal/logger"
	"github.com/trackline/trackline-backend/internal/repos"
	"github.com/trackline/trackline-backend/internal/types"
)

// Store is the content-store handle the driver works against. Explicitly
// constructed and passed in; no process-wide singleton.
type Store struct {
	Tracks  repos.TrackRepo
	Series  repos.SeriesRepo
	Lessons repos.LessonRepo
	Videos  repos.VideoRepo
}

type Options struct {
	// Override lets the batch overwrite human-curated (but unlocked)
	// records. Threaded through as an explicit parameter, never read from
	// the environment here.
	Override bool
	// DryRun decides and reports without writing.
	DryRun bool
	// Now defaults to time.Now. Swapped in tests.
	Now func() time.Time
}

type Seeder struct {
	db       *gorm.DB
	store    Store
	log      *logger.Logger
	override bool
	dryRun   bool
	now      func() time.Time
}

func New(db *gorm.DB, store Store, baseLog *logger.Logger, opts Options) *Seeder {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Seeder{
		db:       db,
		store:    store,
		log:      baseLog.With("service", "Seeder"),
		override: opts.Override,
		dryRun:   opts.DryRun,
		now:      now,
	}
}

// Run reconciles the whole bundle, parents first, and returns the batch
// summary. Per-record failures land in the summary and the loop continues;
// only an unreachable store or context cancellation aborts the batch.
// Records are processed strictly sequentially; each one's read-decide-write
// is independently atomic via the version-conditional update, so the batch
// may be cancelled between records without corruption.
func (s *Seeder) Run(ctx context.Context, bundle *types.SeedBundle) (*Summary, error) {
	if err := s.ping(ctx); err != nil {
		return nil, err
	}

	summary := &Summary{}
	if err := s.seedTracks(ctx, bundle.Tracks, summary); err != nil {
		return nil, err
	}
	if err := s.seedSeries(ctx, bundle.Series, summary); err != nil {
		return nil, err
	}
	if err := s.seedLessons(ctx, bundle.Lessons, summary); err != nil {
		return nil, err
	}
	if err := s.seedVideos(ctx, bundle.Videos, summary); err != nil {
		return nil, err
	}

	s.log.Info("Seed batch complete",
		"inserted", summary.Inserted,
		"updated", summary.Updated,
		"skipped_locked", summary.SkippedLocked,
		"skipped_human_edit", summary.SkippedHumanEdit,
		"total", summary.Total,
		"errors", len(summary.Errors),
		"override", s.override,
		"dry_run", s.dryRun,
	)
	return summary, nil
}

// ping distinguishes a dead store (fatal to the batch) from per-record
// failures before any iteration starts.
func (s *Seeder) ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return apperr.NewStoreError("open", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return apperr.NewStoreError("ping", err)
	}
	return nil
}

func (s *Seeder) seedTracks(ctx context.Context, items []types.SeedTrack, summary *Summary) error {
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		summary.Total++
		if err := item.Validate(); err != nil {
			summary.addError(types.KindTrack, item.ID, err)
			continue
		}
		item := item
		if err := s.seedOne(ctx, types.KindTrack, item.ID, summary,
			func(ctx context.Context) (*types.Audit, error) {
				track, err := s.store.Tracks.GetByID(ctx, nil, item.ID)
				if err != nil {
					if apperr.IsNotFound(err) {
						return nil, nil
					}
					return nil, err
				}
				audit := track.Audit
				return &audit, nil
			},
			func(ctx context.Context) error {
				return s.store.Tracks.Insert(ctx, nil, NewTrack(item, s.now()))
			},
			func(ctx context.Context, existing types.Audit) error {
				return s.store.Tracks.UpdateIfVersion(ctx, nil, MergeTrack(item, existing, s.now()), existing.Version)
			},
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedSeries(ctx context.Context, items []types.SeedSeries, summary *Summary) error {
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		summary.Total++
		if err := item.Validate(); err != nil {
			summary.addError(types.KindSeries, item.ID, err)
			continue
		}
		item := item
		if err := s.seedOne(ctx, types.KindSeries, item.ID, summary,
			func(ctx context.Context) (*types.Audit, error) {
				series, err := s.store.Series.GetByID(ctx, nil, item.ID)
				if err != nil {
					if apperr.IsNotFound(err) {
						return nil, nil
					}
					return nil, err
				}
				audit := series.Audit
				return &audit, nil
			},
			func(ctx context.Context) error {
				return s.store.Series.Insert(ctx, nil, NewSeries(item, s.now()))
			},
			func(ctx context.Context, existing types.Audit) error {
				return s.store.Series.UpdateIfVersion(ctx, nil, MergeSeries(item, existing, s.now()), existing.Version)
			},
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedLessons(ctx context.Context, items []types.SeedLesson, summary *Summary) error {
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		summary.Total++
		if err := item.Validate(); err != nil {
			summary.addError(types.KindLesson, item.ID, err)
			continue
		}
		item := item
		if err := s.seedOne(ctx, types.KindLesson, item.ID, summary,
			func(ctx context.Context) (*types.Audit, error) {
				lesson, err := s.store.Lessons.GetByID(ctx, nil, item.ID)
				if err != nil {
					if apperr.IsNotFound(err) {
						return nil, nil
					}
					return nil, err
				}
				audit := lesson.Audit
				return &audit, nil
			},
			func(ctx context.Context) error {
				return s.store.Lessons.Insert(ctx, nil, NewLesson(item, s.now()))
			},
			func(ctx context.Context, existing types.Audit) error {
				return s.store.Lessons.UpdateIfVersion(ctx, nil, MergeLesson(item, existing, s.now()), existing.Version)
			},
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedVideos(ctx context.Context, items []types.SeedVideo, summary *Summary) error {
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		summary.Total++
		if err := item.Validate(); err != nil {
			summary.addError(types.KindVideo, item.ID, err)
			continue
		}
		item := item
		if err := s.seedOne(ctx, types.KindVideo, item.ID, summary,
			func(ctx context.Context) (*types.Audit, error) {
				video, err := s.store.Videos.GetByID(ctx, nil, item.ID)
				if err != nil {
					if apperr.IsNotFound(err) {
						return nil, nil
					}
					return nil, err
				}
				audit := video.Audit
				return &audit, nil
			},
			func(ctx context.Context) error {
				return s.store.Videos.Insert(ctx, nil, NewVideo(item, s.now()))
			},
			func(ctx context.Context, existing types.Audit) error {
				return s.store.Videos.UpdateIfVersion(ctx, nil, MergeVideo(item, existing, s.now()), existing.Version)
			},
		); err != nil {
			return err
		}
	}
	return nil
}

// seedOne runs one record's read-decide-write sequence. A version conflict
// means an admin edited the record mid-flight; the sequence reruns once
// from a fresh read so the decision sees the edit (which may now flip it to
// a skip). A second conflict is recorded as a per-record error.
// The returned error is fatal to the batch; per-record failures are
// recorded in the summary instead.
func (s *Seeder) seedOne(ctx context.Context, kind types.ContentKind, id string, summary *Summary,
	read func(context.Context) (*types.Audit, error),
	insert func(context.Context) error,
	update func(context.Context, types.Audit) error,
) error {
	outcome, err := s.attempt(ctx, read, insert, update)
	if err != nil && apperr.IsVersionConflict(err) {
		s.log.Debug("Concurrent edit detected, retrying once", "kind", kind, "id", id)
		outcome, err = s.attempt(ctx, read, insert, update)
	}
	if err != nil {
		if fatal := s.escalateStoreFailure(ctx, err); fatal != nil {
			return fatal
		}
		s.log.Warn("Record failed, continuing batch", "kind", kind, "id", id, "error", err)
		summary.addError(kind, id, err)
		return nil
	}
	summary.count(outcome)
	s.log.Debug("Record reconciled", "kind", kind, "id", id, "outcome", outcome.String())
	return nil
}

// escalateStoreFailure decides whether a per-record error actually means the
// whole store is gone. Connection-level driver errors are promoted directly;
// anything ambiguous gets a fresh ping so a store that died mid-batch aborts
// the run instead of burning a false error entry per remaining record.
func (s *Seeder) escalateStoreFailure(ctx context.Context, err error) error {
	if apperr.IsStoreUnavailable(err) {
		return err
	}
	if isConnectionError(err) {
		return apperr.NewStoreError("write", err)
	}
	if pingErr := s.ping(ctx); pingErr != nil {
		return pingErr
	}
	return nil
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	// database/sql does not export its closed-DB error.
	msg := err.Error()
	return strings.Contains(msg, "database is closed") ||
		strings.Contains(msg, "connection refused")
}

func (s *Seeder) attempt(ctx context.Context,
	read func(context.Context) (*types.Audit, error),
	insert func(context.Context) error,
	update func(context.Context, types.Audit) error,
) (Outcome, error) {
	existing, err := read(ctx)
	if err != nil {
		return 0, err
	}
	outcome := Decide(existing, s.override)
	if s.dryRun {
		return outcome, nil
	}
	switch outcome {
	case OutcomeInsert:
		if err := insert(ctx); err != nil {
			return outcome, err
		}
	case OutcomeUpdate:
		if err := update(ctx, *existing); err != nil {
			return outcome, err
		}
	}
	return outcome, nil
}
