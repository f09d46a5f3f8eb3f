package seeders

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/stillframe-app/stillframe_api/model"
	"github.com/stillframe-app/stillframe_api/shared"
)

// MovieSeeder handles seeding the development movie catalog
type MovieSeeder struct {
	db *gorm.DB
}

// NewMovieSeeder creates a new movie seeder
func NewMovieSeeder(db *gorm.DB) *MovieSeeder {
	return &MovieSeeder{db: db}
}

// SeedMovies seeds a small catalog of well known movies with credits, stills and a
// handful of curated actor tags so every guessing path is exercisable locally.
func (s *MovieSeeder) SeedMovies() error {
	for _, fixture := range s.getMovieFixtures() {
		var existing model.Movie
		if err := s.db.Where("id = ?", fixture.movie.ID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.createMovie(fixture); err != nil {
					log.Printf("Error creating movie %s: %v", fixture.movie.Title, err)
					return err
				}
				log.Printf("Created movie: %s", fixture.movie.Title)
			} else {
				log.Printf("Error checking movie %s: %v", fixture.movie.Title, err)
				return err
			}
		} else {
			log.Printf("Movie %s already exists, skipping", fixture.movie.Title)
		}
	}

	log.Println("Movie seeding completed successfully")
	return nil
}

func (s *MovieSeeder) createMovie(fixture movieFixture) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&fixture.movie).Error; err != nil {
			return err
		}
		if len(fixture.credits) > 0 {
			if err := tx.Create(&fixture.credits).Error; err != nil {
				return err
			}
		}
		if len(fixture.images) > 0 {
			if err := tx.Create(&fixture.images).Error; err != nil {
				return err
			}
		}
		if len(fixture.imageActors) > 0 {
			if err := tx.Create(&fixture.imageActors).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

type movieFixture struct {
	movie       model.Movie
	credits     []model.MovieCredit
	images      []model.MovieImage
	imageActors []model.ImageActor
}

func (s *MovieSeeder) getMovieFixtures() []movieFixture {
	now := time.Now()

	return []movieFixture{
		{
			movie: model.Movie{
				ID:          "movie_pulp_fiction",
				TmdbID:      680,
				Title:       "Pulp Fiction",
				ReleaseYear: 1994,
				Overview:    "A burger-loving hit man, his philosophical partner, a drug-addled gangster's moll and a washed-up boxer converge in this sprawling, comedic crime caper.",
				PosterPath:  "/vQWk5YBFWF4bZaofAbv0tShwBvQ.jpg",
				CreatedAt:   now,
				UpdatedAt:   now,
			},
			credits: []model.MovieCredit{
				{ID: "credit_pf_tarantino_dir", MovieID: "movie_pulp_fiction", PersonName: "Quentin Tarantino", Role: shared.CreditRoleDirector, TmdbPersonID: 138, CreatedAt: now, UpdatedAt: now},
				{ID: "credit_pf_tarantino_wri", MovieID: "movie_pulp_fiction", PersonName: "Quentin Tarantino", Role: shared.CreditRoleWriter, TmdbPersonID: 138, CreatedAt: now, UpdatedAt: now},
				{ID: "credit_pf_avary_wri", MovieID: "movie_pulp_fiction", PersonName: "Roger Avary", Role: shared.CreditRoleWriter, TmdbPersonID: 3196, CreatedAt: now, UpdatedAt: now},
				{ID: "credit_pf_travolta", MovieID: "movie_pulp_fiction", PersonName: "John Travolta", Role: shared.CreditRoleActor, Character: strPtr("Vincent Vega"), TmdbPersonID: 8891, CreatedAt: now, UpdatedAt: now},
				{ID: "credit_pf_jackson", MovieID: "movie_pulp_fiction", PersonName: "Samuel L. Jackson", Role: shared.CreditRoleActor, Character: strPtr("Jules Winnfield"), TmdbPersonID: 2231, CreatedAt: now, UpdatedAt: now},
				{ID: "credit_pf_thurman", MovieID: "movie_pulp_fiction", PersonName: "Uma Thurman", Role: shared.CreditRoleActor, Character: strPtr("Mia Wallace"), TmdbPersonID: 139, CreatedAt: now, UpdatedAt: now},
				{ID: "credit_pf_willis", MovieID: "movie_pulp_fiction", PersonName: "Bruce Willis", Role: shared.CreditRoleActor, Character: strPtr("Butch Coolidge"), TmdbPersonID: 62, CreatedAt: now, UpdatedAt: now},
			},
			images: []model.MovieImage{
				{ID: "image_pf_1", MovieID: "movie_pulp_fiction", FilePath: "/suaEOtk1N1sgg2MTM7oZd2cfVp3.jpg", Width: 1920, Height: 1080, AspectRatio: 1.778, IsCurated: true, CreatedAt: now, UpdatedAt: now},
				{ID: "image_pf_2", MovieID: "movie_pulp_fiction", FilePath: "/4cDFJr4HnXN5AdPw4AKrmLlMWdO.jpg", Width: 1920, Height: 1080, AspectRatio: 1.778, IsCurated: true, CreatedAt: now, UpdatedAt: now},
				{ID: "image_pf_3", MovieID: "movie_pulp_fiction", FilePath: "/9bs4hve9qBZtQBl1V7kPJLeg6n2.jpg", Width: 1920, Height: 1080, AspectRatio: 1.778, CreatedAt: now, UpdatedAt: now},
			},
			imageActors: []model.ImageActor{
				{ID: "tag_pf_1_travolta", ImageID: "image_pf_1", CreditID: "credit_pf_travolta", CreatedAt: now},
				{ID: "tag_pf_1_jackson", ImageID: "image_pf_1", CreditID: "credit_pf_jackson", CreatedAt: now},
				{ID: "tag_pf_2_thurman", ImageID: "image_pf_2", CreditID: "credit_pf_thurman", CreatedAt: now},
			},
		},
		{
			movie: model.Movie{
				ID:          "movie_the_matrix",
				TmdbID:      603,
				Title:       "The Matrix",
				ReleaseYear: 1999,
				Overview:    "Set in the 22nd century, The Matrix tells the story of a computer hacker who joins a group of underground insurgents fighting the vast and powerful computers who now rule the earth.",
				PosterPath:  "/f89U3ADr1oiB1s9GkdPOEpXUk5H.jpg",
				CreatedAt:   now,
				UpdatedAt:   now,
			},
			credits: []model.MovieCredit{
				{ID: "credit_mx_lana_dir", MovieID: "movie_the_matrix", PersonName: "Lana Wachowski", Role: shared.CreditRoleDirector, TmdbPersonID: 9339, CreatedAt: now, UpdatedAt: now},
				{ID: "credit_mx_lilly_dir", MovieID: "movie_the_matrix", PersonName: "Lilly Wachowski", Role: shared.CreditRoleDirector, TmdbPersonID: 9340, CreatedAt: now, UpdatedAt: now},
				{ID: "credit_mx_lana_wri", MovieID: "movie_the_matrix", PersonName: "Lana Wachowski", Role: shared.CreditRoleWriter, TmdbPersonID: 9339, CreatedAt: now, UpdatedAt: now},
				{ID: "credit_mx_lilly_wri", MovieID: "movie_the_matrix", PersonName: "Lilly Wachowski", Role: shared.CreditRoleWriter, TmdbPersonID: 9340, CreatedAt: now, UpdatedAt: now},
				{ID: "credit_mx_reeves", MovieID: "movie_the_matrix", PersonName: "Keanu Reeves", Role: shared.CreditRoleActor, Character: strPtr("Neo"), TmdbPersonID: 6384, CreatedAt: now, UpdatedAt: now},
				{ID: "credit_mx_fishburne", MovieID: "movie_the_matrix", PersonName: "Laurence Fishburne", Role: shared.CreditRoleActor, Character: strPtr("Morpheus"), TmdbPersonID: 2975, CreatedAt: now, UpdatedAt: now},
				{ID: "credit_mx_moss", MovieID: "movie_the_matrix", PersonName: "Carrie-Anne Moss", Role: shared.CreditRoleActor, Character: strPtr("Trinity"), TmdbPersonID: 530, CreatedAt: now, UpdatedAt: now},
				{ID: "credit_mx_weaving", MovieID: "movie_the_matrix", PersonName: "Hugo Weaving", Role: shared.CreditRoleActor, Character: strPtr("Agent Smith"), TmdbPersonID: 1331, CreatedAt: now, UpdatedAt: now},
			},
			images: []model.MovieImage{
				{ID: "image_mx_1", MovieID: "movie_the_matrix", FilePath: "/ncEsesgOJDNrTUED89hYbA117wo.jpg", Width: 1920, Height: 1080, AspectRatio: 1.778, IsCurated: true, CreatedAt: now, UpdatedAt: now},
				{ID: "image_mx_2", MovieID: "movie_the_matrix", FilePath: "/7u3pxc0K1wx32IleAkLv78MKgrw.jpg", Width: 1920, Height: 800, AspectRatio: 2.4, CreatedAt: now, UpdatedAt: now},
				{ID: "image_mx_3", MovieID: "movie_the_matrix", FilePath: "/l4QHerTSbMI7qgvasqxP36pqjN6.jpg", Width: 1920, Height: 1080, AspectRatio: 1.778, CreatedAt: now, UpdatedAt: now},
			},
			imageActors: []model.ImageActor{
				{ID: "tag_mx_1_reeves", ImageID: "image_mx_1", CreditID: "credit_mx_reeves", CreatedAt: now},
			},
		},
		{
			movie: model.Movie{
				ID:          "movie_spirited_away",
				TmdbID:      129,
				Title:       "Spirited Away",
				ReleaseYear: 2001,
				Overview:    "A young girl, Chihiro, becomes trapped in a strange new world of spirits. When her parents undergo a mysterious transformation, she must call upon the courage she never knew she had to free her family.",
				PosterPath:  "/39wmItIWsg5sZMyRUHLkWBcuVCM.jpg",
				CreatedAt:   now,
				UpdatedAt:   now,
			},
			credits: []model.MovieCredit{
				{ID: "credit_sa_miyazaki_dir", MovieID: "movie_spirited_away", PersonName: "Hayao Miyazaki", Role: shared.CreditRoleDirector, TmdbPersonID: 608, CreatedAt: now, UpdatedAt: now},
				{ID: "credit_sa_miyazaki_wri", MovieID: "movie_spirited_away", PersonName: "Hayao Miyazaki", Role: shared.CreditRoleWriter, TmdbPersonID: 608, CreatedAt: now, UpdatedAt: now},
				{ID: "credit_sa_hiiragi", MovieID: "movie_spirited_away", PersonName: "Rumi Hiiragi", Role: shared.CreditRoleActor, Character: strPtr("Chihiro Ogino (voice)"), TmdbPersonID: 19563, CreatedAt: now, UpdatedAt: now},
				{ID: "credit_sa_irino", MovieID: "movie_spirited_away", PersonName: "Miyu Irino", Role: shared.CreditRoleActor, Character: strPtr("Haku (voice)"), TmdbPersonID: 19564, CreatedAt: now, UpdatedAt: now},
			},
			images: []model.MovieImage{
				{ID: "image_sa_1", MovieID: "movie_spirited_away", FilePath: "/bSXfU4dwZyBA05fHgA057GvZ8Pg.jpg", Width: 1920, Height: 1080, AspectRatio: 1.778, CreatedAt: now, UpdatedAt: now},
				{ID: "image_sa_2", MovieID: "movie_spirited_away", FilePath: "/m4TUa2ciEWSlk37rOsjiSIvZDXE.jpg", Width: 1920, Height: 1038, AspectRatio: 1.85, CreatedAt: now, UpdatedAt: now},
				{ID: "image_sa_3", MovieID: "movie_spirited_away", FilePath: "/Ab8mkHmkYADjU7wQiOkia9BzGvS.jpg", Width: 1920, Height: 1080, AspectRatio: 1.778, CreatedAt: now, UpdatedAt: now},
			},
		},
	}
}

func strPtr(s string) *string {
	return &s
}
