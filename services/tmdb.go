package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/stillframe-app/stillframe_api/dto"
	"github.com/stillframe-app/stillframe_api/model"
	"github.com/stillframe-app/stillframe_api/services/repositories"
	"github.com/stillframe-app/stillframe_api/shared"
)

// TmdbService pulls movie metadata, credits and scene stills from the TMDB catalog
// and upserts them into the local read model. Responses are cached in redis so
// repeated imports of the same movie stay cheap.
type TmdbService struct {
	appContext.DefaultService

	httpClient *http.Client
	apiBase    string
	apiKey     string

	redisSvc *RedisService
	sqlSvc   *PostgresService
	mediaSvc *MediaService

	movieRepo *repositories.MovieRepository

	cacheExpiry time.Duration
}

const TMDB_SVC = "tmdb_svc"

// Ingest filters: only wide, language-neutral backdrops make usable stills, and
// only the top of the cast list is guessable.
const (
	tmdbMinImageWidth  = 1280
	tmdbMinAspectRatio = 1.5
	tmdbMaxCastSize    = 20
)

func (svc TmdbService) Id() string {
	return TMDB_SVC
}

func (svc *TmdbService) Configure(ctx *appContext.Context) error {
	svc.httpClient = &http.Client{
		Timeout: 10 * time.Second,
	}
	svc.apiBase = "https://api.themoviedb.org/3"
	svc.apiKey = os.Getenv("TMDB_API_KEY")
	svc.cacheExpiry = 24 * time.Hour
	return svc.DefaultService.Configure(ctx)
}

func (svc *TmdbService) Start() error {
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)
	svc.movieRepo = repositories.NewMovieRepository(svc.sqlSvc.Db())
	return nil
}

type tmdbMovieDetails struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	Overview    string `json:"overview"`
	PosterPath  string `json:"poster_path"`
}

type tmdbCredits struct {
	Cast []tmdbCastMember `json:"cast"`
	Crew []tmdbCrewMember `json:"crew"`
}

type tmdbCastMember struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character"`
}

type tmdbCrewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

type tmdbImages struct {
	Backdrops []tmdbBackdrop `json:"backdrops"`
}

type tmdbBackdrop struct {
	FilePath    string  `json:"file_path"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	Language    *string `json:"iso_639_1"`
}

// ImportMovie ingests one movie: metadata, deduplicated director/writer credits,
// the top of the cast with character names, and wide backdrops. Stills are
// mirrored into object storage in the background.
func (svc *TmdbService) ImportMovie(tmdbID int) (*dto.ImportMovieResponse, error) {
	if svc.apiKey == "" {
		return nil, shared.NewBadRequestError(nil, "TMDB_API_KEY is not configured")
	}

	var details tmdbMovieDetails
	if err := svc.fetch(fmt.Sprintf("/movie/%d", tmdbID), &details); err != nil {
		return nil, err
	}

	var credits tmdbCredits
	if err := svc.fetch(fmt.Sprintf("/movie/%d/credits", tmdbID), &credits); err != nil {
		return nil, err
	}

	var images tmdbImages
	if err := svc.fetch(fmt.Sprintf("/movie/%d/images", tmdbID), &images); err != nil {
		return nil, err
	}

	releaseYear := 0
	if len(details.ReleaseDate) >= 4 {
		fmt.Sscanf(details.ReleaseDate[:4], "%d", &releaseYear)
	}

	movie, err := svc.movieRepo.UpsertMovie(&model.Movie{
		TmdbID:      details.ID,
		Title:       details.Title,
		ReleaseYear: releaseYear,
		Overview:    details.Overview,
		PosterPath:  details.PosterPath,
	})
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	creditCount := 0
	for _, credit := range svc.buildCredits(movie.ID, &credits) {
		if err := svc.movieRepo.UpsertCredit(&credit); err != nil {
			return nil, svc.sqlSvc.HandleError(err)
		}
		creditCount++
	}

	imageCount := 0
	var mirrorPaths []string
	for _, backdrop := range images.Backdrops {
		if backdrop.Width < tmdbMinImageWidth || backdrop.AspectRatio <= tmdbMinAspectRatio || backdrop.Language != nil {
			continue
		}
		err := svc.movieRepo.UpsertImage(&model.MovieImage{
			MovieID:     movie.ID,
			FilePath:    backdrop.FilePath,
			Width:       backdrop.Width,
			Height:      backdrop.Height,
			AspectRatio: backdrop.AspectRatio,
		})
		if err != nil {
			return nil, svc.sqlSvc.HandleError(err)
		}
		mirrorPaths = append(mirrorPaths, backdrop.FilePath)
		imageCount++
	}

	go svc.mirrorStills(mirrorPaths)

	log.WithFields(log.Fields{
		"movie_id": movie.ID,
		"title":    movie.Title,
		"credits":  creditCount,
		"images":   imageCount,
	}).Info("Movie imported")

	return &dto.ImportMovieResponse{
		MovieID:     movie.ID,
		Title:       movie.Title,
		CreditCount: creditCount,
		ImageCount:  imageCount,
	}, nil
}

// buildCredits flattens the TMDB crew/cast into guessable credits: directors by
// job, writers by job or department (deduplicated by person), top cast with
// character names.
func (svc *TmdbService) buildCredits(movieID string, credits *tmdbCredits) []model.MovieCredit {
	var out []model.MovieCredit

	for _, crew := range credits.Crew {
		if crew.Job == "Director" {
			out = append(out, model.MovieCredit{
				MovieID:      movieID,
				PersonName:   crew.Name,
				Role:         shared.CreditRoleDirector,
				TmdbPersonID: crew.ID,
			})
		}
	}

	seenWriters := make(map[int]bool)
	for _, crew := range credits.Crew {
		isWriter := crew.Job == "Screenplay" || crew.Job == "Writer" || crew.Department == "Writing"
		if !isWriter || seenWriters[crew.ID] {
			continue
		}
		seenWriters[crew.ID] = true
		out = append(out, model.MovieCredit{
			MovieID:      movieID,
			PersonName:   crew.Name,
			Role:         shared.CreditRoleWriter,
			TmdbPersonID: crew.ID,
		})
	}

	cast := credits.Cast
	if len(cast) > tmdbMaxCastSize {
		cast = cast[:tmdbMaxCastSize]
	}
	for _, member := range cast {
		character := member.Character
		out = append(out, model.MovieCredit{
			MovieID:      movieID,
			PersonName:   member.Name,
			Role:         shared.CreditRoleActor,
			Character:    &character,
			TmdbPersonID: member.ID,
		})
	}

	return out
}

func (svc *TmdbService) mirrorStills(paths []string) {
	ctx := context.Background()
	for _, path := range paths {
		if err := svc.mediaSvc.MirrorImage(ctx, path); err != nil {
			log.WithError(err).WithField("path", path).Warn("Failed to mirror still")
		}
	}
}

// fetch performs one cached catalog call.
func (svc *TmdbService) fetch(path string, out interface{}) error {
	ctx := context.Background()
	cacheKey := "tmdb:" + path

	if cached, err := svc.redisSvc.Get(ctx, cacheKey); err == nil && cached != "" {
		if json.Unmarshal([]byte(cached), out) == nil {
			return nil
		}
	}

	url := fmt.Sprintf("%s%s?api_key=%s", svc.apiBase, path, svc.apiKey)
	resp, err := svc.httpClient.Get(url)
	if err != nil {
		return fmt.Errorf("tmdb request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return shared.NewNotFoundError("Movie not found in catalog")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb error %d for %s", resp.StatusCode, path)
	}

	var body json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode tmdb response: %w", err)
	}

	if err := svc.redisSvc.Set(ctx, cacheKey, []byte(body), svc.cacheExpiry); err != nil {
		log.WithError(err).Debug("Failed to cache tmdb response")
	}

	return json.Unmarshal(body, out)
}
