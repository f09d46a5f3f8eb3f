package seeders

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stillframe-app/stillframe_api/model"
)

// ChallengeSeeder handles seeding daily challenges for upcoming dates
type ChallengeSeeder struct {
	db *gorm.DB
}

// NewChallengeSeeder creates a new challenge seeder
func NewChallengeSeeder(db *gorm.DB) *ChallengeSeeder {
	return &ChallengeSeeder{db: db}
}

// SeedChallenges assigns one seeded movie per day starting today, cycling through
// the catalog. Dates that already have a challenge are left alone.
func (s *ChallengeSeeder) SeedChallenges() error {
	var movies []model.Movie
	if err := s.db.Preload("Images").Order("id").Find(&movies).Error; err != nil {
		return err
	}
	if len(movies) == 0 {
		log.Println("No movies in the catalog, skipping challenge seeding")
		return nil
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	for offset := 0; offset < len(movies); offset++ {
		date := today.AddDate(0, 0, offset)
		movie := movies[offset%len(movies)]

		if len(movie.Images) < 3 {
			log.Printf("Movie %s has fewer than 3 stills, skipping", movie.Title)
			continue
		}

		var existing model.DailyChallenge
		if err := s.db.Where("date = ?", date).First(&existing).Error; err == nil {
			log.Printf("Challenge for %s already exists, skipping", date.Format("2006-01-02"))
			continue
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		id, _ := uuid.NewV7()
		challenge := model.DailyChallenge{
			ID:        id.String(),
			Date:      date,
			MovieID:   movie.ID,
			Image1ID:  movie.Images[0].ID,
			Image2ID:  movie.Images[1].ID,
			Image3ID:  movie.Images[2].ID,
			CreatedAt: time.Now(),
		}

		if err := s.db.Create(&challenge).Error; err != nil {
			log.Printf("Error creating challenge for %s: %v", date.Format("2006-01-02"), err)
			return err
		}
		log.Printf("Created challenge for %s: %s", date.Format("2006-01-02"), movie.Title)
	}

	log.Println("Challenge seeding completed successfully")
	return nil
}
