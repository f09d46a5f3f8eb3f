package seeders

import (
	"log"

	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

// NewMainSeeder creates a new main seeder
func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs all seeders in the correct order
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	// 1. Seed the admin user (no dependencies)
	adminSeeder := NewAdminSeeder(s.db)
	if err := adminSeeder.SeedAdmin(); err != nil {
		log.Printf("Admin seeding failed: %v", err)
		return err
	}

	// 2. Seed the movie catalog with credits and stills
	movieSeeder := NewMovieSeeder(s.db)
	if err := movieSeeder.SeedMovies(); err != nil {
		log.Printf("Movie seeding failed: %v", err)
		return err
	}

	// 3. Seed daily challenges (depends on movies)
	challengeSeeder := NewChallengeSeeder(s.db)
	if err := challengeSeeder.SeedChallenges(); err != nil {
		log.Printf("Challenge seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// SeedAdminOnly seeds only the admin user
func (s *MainSeeder) SeedAdminOnly() error {
	adminSeeder := NewAdminSeeder(s.db)
	return adminSeeder.SeedAdmin()
}

// SeedMoviesOnly seeds only the movie catalog
func (s *MainSeeder) SeedMoviesOnly() error {
	movieSeeder := NewMovieSeeder(s.db)
	return movieSeeder.SeedMovies()
}

// SeedChallengesOnly seeds only the daily challenges
func (s *MainSeeder) SeedChallengesOnly() error {
	challengeSeeder := NewChallengeSeeder(s.db)
	return challengeSeeder.SeedChallenges()
}
