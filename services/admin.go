package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/stillframe-app/stillframe_api/dto"
	"github.com/stillframe-app/stillframe_api/model"
	"github.com/stillframe-app/stillframe_api/services/repositories"
	"github.com/stillframe-app/stillframe_api/shared"
)

// AdminService is the content-curation surface: catalog imports, manual challenge
// rows, actor tagging on stills and custom still uploads.
type AdminService struct {
	appContext.DefaultService

	sqlSvc   *PostgresService
	tmdbSvc  *TmdbService
	mediaSvc *MediaService

	movieRepo     *repositories.MovieRepository
	challengeRepo *repositories.ChallengeRepository
}

const ADMIN_SVC = "admin_svc"

func (svc AdminService) Id() string {
	return ADMIN_SVC
}

func (svc *AdminService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AdminService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.tmdbSvc = svc.Service(TMDB_SVC).(*TmdbService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)

	svc.movieRepo = repositories.NewMovieRepository(svc.sqlSvc.Db())
	svc.challengeRepo = repositories.NewChallengeRepository(svc.sqlSvc.Db())
	return nil
}

func (svc *AdminService) ImportMovie(tmdbID int) (*dto.ImportMovieResponse, error) {
	return svc.tmdbSvc.ImportMovie(tmdbID)
}

// CreateChallenge pins a movie and three of its stills to a date. The date
// uniqueness constraint enforces at most one challenge per day.
func (svc *AdminService) CreateChallenge(req dto.CreateChallengeRequest) (*dto.CreateChallengeResponse, error) {
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		return nil, shared.NewBadRequestError(err, "date must be formatted YYYY-MM-DD")
	}

	movie, err := svc.movieRepo.GetMovie(req.MovieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Movie not found")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	for _, imageID := range req.ImageIDs {
		image, err := svc.movieRepo.GetImage(imageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, shared.NewNotFoundError("Image not found: " + imageID)
			}
			return nil, svc.sqlSvc.HandleError(err)
		}
		if image.MovieID != movie.ID {
			return nil, shared.NewBadRequestError(nil, "Image does not belong to the movie: "+imageID)
		}
	}

	challenge, err := svc.challengeRepo.CreateChallenge(&model.DailyChallenge{
		Date:     date,
		MovieID:  movie.ID,
		Image1ID: req.ImageIDs[0],
		Image2ID: req.ImageIDs[1],
		Image3ID: req.ImageIDs[2],
	})
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	log.WithFields(log.Fields{
		"challenge_id": challenge.ID,
		"date":         req.Date,
		"movie_id":     movie.ID,
	}).Info("Challenge created")

	return &dto.CreateChallengeResponse{
		ChallengeID: challenge.ID,
		Date:        req.Date,
	}, nil
}

// TagImageActor curates an actor credit as visible on a still. Only ACTOR credits
// of the still's movie are taggable.
func (svc *AdminService) TagImageActor(imageID, creditID string) error {
	image, err := svc.movieRepo.GetImage(imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.NewNotFoundError("Image not found")
		}
		return svc.sqlSvc.HandleError(err)
	}

	movie, err := svc.movieRepo.GetMovie(image.MovieID)
	if err != nil {
		return svc.sqlSvc.HandleError(err)
	}

	var credit *model.MovieCredit
	for i := range movie.Credits {
		if movie.Credits[i].ID == creditID {
			credit = &movie.Credits[i]
			break
		}
	}
	if credit == nil {
		return shared.NewNotFoundError("Credit not found on the image's movie")
	}
	if credit.Role != shared.CreditRoleActor {
		return shared.NewBadRequestError(nil, "Only actor credits can be tagged on a still")
	}

	if err := svc.movieRepo.TagImageActor(imageID, creditID); err != nil {
		return svc.sqlSvc.HandleError(err)
	}
	return nil
}

// UploadImage stores a custom still in object storage and registers it as curated.
func (svc *AdminService) UploadImage(movieID, fileName, contentType string, data []byte) (*dto.UploadImageResponse, error) {
	if _, err := svc.movieRepo.GetMovie(movieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Movie not found")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	objectName := fmt.Sprintf("uploads/%s/%s", movieID, path.Base(fileName))
	filePath, err := svc.mediaSvc.Upload(context.Background(), objectName, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return nil, shared.NewBadRequestError(err, "Upload failed")
	}

	image, err := svc.movieRepo.CreateImage(&model.MovieImage{
		MovieID:   movieID,
		FilePath:  filePath,
		IsCurated: true,
	})
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	return &dto.UploadImageResponse{
		ImageID:  image.ID,
		FilePath: image.FilePath,
	}, nil
}
