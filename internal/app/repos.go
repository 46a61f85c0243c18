package app

import (
	"gorm.io/gorm"

	"github.com/trackline/trackline-backend/internal/logger"
	"github.com/trackline/trackline-backend/internal/repos"
)

type Repos struct {
	Track          repos.TrackRepo
	Series         repos.SeriesRepo
	Lesson         repos.LessonRepo
	Video          repos.VideoRepo
	User           repos.UserRepo
	UserToken      repos.UserTokenRepo
	LessonProgress repos.LessonProgressRepo
}

func wireRepos(contentDB, userDB *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Track:          repos.NewTrackRepo(contentDB, log),
		Series:         repos.NewSeriesRepo(contentDB, log),
		Lesson:         repos.NewLessonRepo(contentDB, log),
		Video:          repos.NewVideoRepo(contentDB, log),
		User:           repos.NewUserRepo(userDB, log),
		UserToken:      repos.NewUserTokenRepo(userDB, log),
		LessonProgress: repos.NewLessonProgressRepo(userDB, log),
	}
}
