package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/trackline/trackline-backend/internal/db"
	"github.com/trackline/trackline-backend/internal/logger"
	"github.com/trackline/trackline-backend/internal/repos"
	"github.com/trackline/trackline-backend/internal/seeder"
)

func main() {
	contentDir := flag.String("content", "seed", "directory containing manifest.yaml and seed files")
	override := flag.Bool("override", false, "overwrite human-curated records (locked records still win)")
	dryRun := flag.Bool("dry-run", false, "decide and report without writing")
	flag.Parse()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bundle, err := seeder.LoadBundle(*contentDir)
	if err != nil {
		log.Error("Failed to load seed bundle", "dir", *contentDir, "error", err)
		os.Exit(1)
	}

	contentSvc, err := db.NewContentDBService(log)
	if err != nil {
		log.Error("Failed to open content db", "error", err)
		os.Exit(1)
	}
	if err := contentSvc.AutoMigrateAll(); err != nil {
		log.Error("Content db automigrate failed", "error", err)
		os.Exit(1)
	}
	contentDB := contentSvc.DB()

	store := seeder.Store{
		Tracks:  repos.NewTrackRepo(contentDB, log),
		Series:  repos.NewSeriesRepo(contentDB, log),
		Lessons: repos.NewLessonRepo(contentDB, log),
		Videos:  repos.NewVideoRepo(contentDB, log),
	}

	s := seeder.New(contentDB, store, log, seeder.Options{
		Override: *override,
		DryRun:   *dryRun,
	})

	summary, err := s.Run(ctx, bundle)
	if err != nil {
		log.Error("Seed batch aborted", "error", err)
		os.Exit(1)
	}

	fmt.Printf("seeded %d records: %d inserted, %d updated, %d skipped (locked), %d skipped (human edit), %d errors\n",
		summary.Total, summary.Inserted, summary.Updated, summary.SkippedLocked, summary.SkippedHumanEdit, len(summary.Errors))
	for _, recErr := range summary.Errors {
		fmt.Printf("  %s/%s: %s\n", recErr.Kind, recErr.ID, recErr.Reason)
	}
	if len(summary.Errors) > 0 {
		os.Exit(2)
	}
}
