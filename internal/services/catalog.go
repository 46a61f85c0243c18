package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/trackline/trackline-backend/internal/logger"
	"github.com/trackline/trackline-backend/internal/repos"
	"github.com/trackline/trackline-backend/internal/types"
)

// CatalogService serves the public read side of the content catalog.
type CatalogService interface {
	ListTracks(ctx context.Context) ([]*types.Track, error)
	GetTrackTree(ctx context.Context, trackID string) (*types.Track, error)
	ListLessonsForSeries(ctx context.Context, seriesID string) ([]*types.Lesson, error)
	GetLesson(ctx context.Context, lessonID string, authenticated bool) (*types.Lesson, error)
}

type catalogService struct {
	db         *gorm.DB
	log        *logger.Logger
	trackRepo  repos.TrackRepo
	seriesRepo repos.SeriesRepo
	lessonRepo repos.LessonRepo
	videoRepo  repos.VideoRepo
}

func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	trackRepo repos.TrackRepo,
	seriesRepo repos.SeriesRepo,
	lessonRepo repos.LessonRepo,
	videoRepo repos.VideoRepo,
) CatalogService {
	serviceLog := log.With("service", "CatalogService")
	return &catalogService{
		db:         db,
		log:        serviceLog,
		trackRepo:  trackRepo,
		seriesRepo: seriesRepo,
		lessonRepo: lessonRepo,
		videoRepo:  videoRepo,
	}
}

func (cs *catalogService) ListTracks(ctx context.Context) ([]*types.Track, error) {
	return cs.trackRepo.List(ctx, nil)
}

// GetTrackTree returns a track with its series and each series' lessons.
// Lesson bodies are not included at this level.
func (cs *catalogService) GetTrackTree(ctx context.Context, trackID string) (*types.Track, error) {
	track, err := cs.trackRepo.GetByID(ctx, nil, trackID)
	if err != nil {
		return nil, err
	}
	seriesList, err := cs.seriesRepo.ListByTrackID(ctx, nil, trackID)
	if err != nil {
		return nil, fmt.Errorf("failed to list series for track %s: %w", trackID, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, series := range seriesList {
		series := series
		g.Go(func() error {
			lessons, lErr := cs.lessonRepo.ListBySeriesID(gctx, nil, series.ID)
			if lErr != nil {
				return fmt.Errorf("failed to list lessons for series %s: %w", series.ID, lErr)
			}
			for _, lesson := range lessons {
				lesson.BodyMD = ""
			}
			series.Lessons = lessons
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	track.Series = seriesList
	return track, nil
}

func (cs *catalogService) ListLessonsForSeries(ctx context.Context, seriesID string) ([]*types.Lesson, error) {
	if _, err := cs.seriesRepo.GetByID(ctx, nil, seriesID); err != nil {
		return nil, err
	}
	lessons, err := cs.lessonRepo.ListBySeriesID(ctx, nil, seriesID)
	if err != nil {
		return nil, err
	}
	for _, lesson := range lessons {
		lesson.BodyMD = ""
	}
	return lessons, nil
}

// GetLesson withholds the lesson body from anonymous visitors unless the
// lesson is marked as a free preview.
func (cs *catalogService) GetLesson(ctx context.Context, lessonID string, authenticated bool) (*types.Lesson, error) {
	lesson, err := cs.lessonRepo.GetByID(ctx, nil, lessonID)
	if err != nil {
		return nil, err
	}
	videos, vErr := cs.videoRepo.ListByLessonID(ctx, nil, lessonID)
	if vErr != nil {
		return nil, fmt.Errorf("failed to list videos for lesson %s: %w", lessonID, vErr)
	}
	lesson.Videos = videos
	if !authenticated && !lesson.FreePreview {
		lesson.BodyMD = ""
	}
	return lesson, nil
}
