package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/stillframe-app/stillframe_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MovieRepository handles catalog writes for the ingest path and catalog reads for
// admin tooling.
type MovieRepository struct {
	BaseRepository
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// UpsertMovie inserts or refreshes a movie keyed by its catalog id.
func (ds *MovieRepository) UpsertMovie(movie *model.Movie) (*model.Movie, error) {
	if movie.ID == "" {
		id, _ := uuid.NewV7()
		movie.ID = id.String()
	}
	now := time.Now()
	movie.CreatedAt = now
	movie.UpdatedAt = now

	err := ds.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tmdb_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "release_year", "overview", "poster_path", "updated_at",
		}),
	}).Create(movie).Error
	if err != nil {
		return nil, err
	}

	var saved model.Movie
	if err := ds.db.Where("tmdb_id = ?", movie.TmdbID).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// UpsertCredit is keyed by (movie, person, role); actor character names refresh on
// re-ingest.
func (ds *MovieRepository) UpsertCredit(credit *model.MovieCredit) error {
	if credit.ID == "" {
		id, _ := uuid.NewV7()
		credit.ID = id.String()
	}
	now := time.Now()
	credit.CreatedAt = now
	credit.UpdatedAt = now

	return ds.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "movie_id"}, {Name: "person_name"}, {Name: "role"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"character", "tmdb_person_id", "updated_at"}),
	}).Create(credit).Error
}

// UpsertImage is keyed by (movie, file path); existing rows are left untouched so
// curation flags survive re-ingest.
func (ds *MovieRepository) UpsertImage(image *model.MovieImage) error {
	if image.ID == "" {
		id, _ := uuid.NewV7()
		image.ID = id.String()
	}
	now := time.Now()
	image.CreatedAt = now
	image.UpdatedAt = now

	return ds.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "movie_id"}, {Name: "file_path"}},
		DoNothing: true,
	}).Create(image).Error
}

func (ds *MovieRepository) GetMovie(movieID string) (*model.Movie, error) {
	var movie model.Movie
	err := ds.db.Preload("Credits").Preload("Images").First(&movie, "id = ?", movieID).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (ds *MovieRepository) GetImage(imageID string) (*model.MovieImage, error) {
	var image model.MovieImage
	err := ds.db.Preload("ImageActors.Credit").First(&image, "id = ?", imageID).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// TagImageActor curates an actor credit as visible on a still and marks the still
// curated. Repeated tagging is a no-op.
func (ds *MovieRepository) TagImageActor(imageID, creditID string) error {
	return ds.db.Transaction(func(tx *gorm.DB) error {
		id, _ := uuid.NewV7()
		tag := model.ImageActor{
			ID:        id.String(),
			ImageID:   imageID,
			CreditID:  creditID,
			CreatedAt: time.Now(),
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "image_id"}, {Name: "credit_id"}},
			DoNothing: true,
		}).Create(&tag).Error
		if err != nil {
			return err
		}

		return tx.Model(&model.MovieImage{}).
			Where("id = ?", imageID).
			UpdateColumn("is_curated", true).Error
	})
}

func (ds *MovieRepository) CreateImage(image *model.MovieImage) (*model.MovieImage, error) {
	if image.ID == "" {
		id, _ := uuid.NewV7()
		image.ID = id.String()
	}
	now := time.Now()
	image.CreatedAt = now
	image.UpdatedAt = now
	if err := ds.db.Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}
