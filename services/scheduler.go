package services

import (
	"errors"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/stillframe-app/stillframe_api/model"
	"github.com/stillframe-app/stillframe_api/services/repositories"
)

// SchedulerService keeps the challenge calendar ahead of the players: on startup
// and once per interval it creates tomorrow's challenge from a movie that still
// has three unused wide stills, preferring curated ones.
type SchedulerService struct {
	appContext.DefaultService

	sqlSvc *PostgresService

	challengeRepo *repositories.ChallengeRepository

	interval time.Duration
	closed   chan struct{}
}

const SCHEDULER_SVC = "scheduler_svc"

const schedulerMinImageWidth = 1280

func (svc SchedulerService) Id() string {
	return SCHEDULER_SVC
}

func (svc *SchedulerService) Configure(ctx *appContext.Context) error {
	svc.interval = time.Hour
	svc.closed = make(chan struct{})
	return svc.DefaultService.Configure(ctx)
}

func (svc *SchedulerService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.challengeRepo = repositories.NewChallengeRepository(svc.sqlSvc.Db())

	go svc.run()
	return nil
}

func (svc *SchedulerService) Shutdown() {
	close(svc.closed)
}

func (svc *SchedulerService) run() {
	svc.ensureUpcoming()

	ticker := time.NewTicker(svc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			svc.ensureUpcoming()
		case <-svc.closed:
			return
		}
	}
}

// ensureUpcoming makes sure today and tomorrow both have a challenge row.
func (svc *SchedulerService) ensureUpcoming() {
	today := TodayUTC()
	for _, date := range []time.Time{today, today.AddDate(0, 0, 1)} {
		if err := svc.EnsureChallenge(date); err != nil {
			log.Error().Err(err).Str("date", date.Format("2006-01-02")).Msg("Failed to ensure challenge")
		}
	}
}

// EnsureChallenge creates the challenge for the given day if it does not exist.
// Safe to call repeatedly; the date uniqueness constraint resolves races.
func (svc *SchedulerService) EnsureChallenge(date time.Time) error {
	exists, err := svc.challengeRepo.ChallengeExistsForDate(date)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	movieID, err := svc.challengeRepo.PickMovieForChallenge(schedulerMinImageWidth)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Msg("No movies with three unused stills available")
			return nil
		}
		return err
	}

	imageIDs, err := svc.challengeRepo.PickImagesForChallenge(movieID, schedulerMinImageWidth)
	if err != nil {
		return err
	}
	if len(imageIDs) < 3 {
		log.Warn().Str("movie_id", movieID).Msg("Not enough unused stills for picked movie")
		return nil
	}

	challenge, err := svc.challengeRepo.CreateChallenge(&model.DailyChallenge{
		Date:     date,
		MovieID:  movieID,
		Image1ID: imageIDs[0],
		Image2ID: imageIDs[1],
		Image3ID: imageIDs[2],
	})
	if err != nil {
		// A concurrent scheduler instance may have won the date slot.
		return svc.sqlSvc.HandleError(err)
	}

	log.Info().
		Str("challenge_id", challenge.ID).
		Str("date", date.Format("2006-01-02")).
		Str("movie_id", movieID).
		Msg("Daily challenge created")
	return nil
}
