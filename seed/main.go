// cmd/seed/main.go
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stillframe-app/stillframe_api/model"
	"github.com/stillframe-app/stillframe_api/seed/seeders"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		seedType = flag.String("type", "all", "Type of seeding: all, admin, movies, challenges")
		dbPath   = flag.String("db", "", "SQLite database path (overrides DB_NAME env var)")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	db, err := openDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Movie{},
		&model.MovieCredit{},
		&model.MovieImage{},
		&model.ImageActor{},
		&model.DailyChallenge{},
		&model.GuessSession{},
		&model.Guess{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	mainSeeder := seeders.NewMainSeeder(db)

	switch *seedType {
	case "all":
		log.Println("Running complete database seeding...")
		if err := mainSeeder.SeedAll(); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	case "admin":
		log.Println("Seeding admin user only...")
		if err := mainSeeder.SeedAdminOnly(); err != nil {
			log.Fatalf("Failed to seed admin: %v", err)
		}
	case "movies":
		log.Println("Seeding movies only...")
		if err := mainSeeder.SeedMoviesOnly(); err != nil {
			log.Fatalf("Failed to seed movies: %v", err)
		}
	case "challenges":
		log.Println("Seeding challenges only...")
		if err := mainSeeder.SeedChallengesOnly(); err != nil {
			log.Fatalf("Failed to seed challenges: %v", err)
		}
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'admin', 'movies', or 'challenges'", *seedType)
	}

	log.Println("Seeding operation completed successfully!")
}

func openDatabase(sqlitePath string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}

	if os.Getenv("SEED_DRIVER") == "postgres" {
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			os.Getenv("POSTGRES_HOST"),
			os.Getenv("POSTGRES_USER"),
			os.Getenv("POSTGRES_PASSWORD"),
			os.Getenv("POSTGRES_DB"),
			os.Getenv("POSTGRES_PORT"),
		)
		log.Println("Connecting to postgres database")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	if sqlitePath == "" {
		sqlitePath = os.Getenv("DB_NAME")
		if sqlitePath == "" {
			sqlitePath = "app.db"
		}
	}

	log.Printf("Connecting to sqlite database: %s", sqlitePath)
	return gorm.Open(sqlite.Open(sqlitePath), cfg)
}

func showHelp() {
	log.Println(`
Database Seeding Tool for the StillFrame API

Usage: go run seed/main.go [flags]

Flags:
  -type string
        Type of seeding to perform (default "all")
        Options: all, admin, movies, challenges
  -db string
        SQLite database path (overrides DB_NAME environment variable)
  -help
        Show this help message

Examples:
  # Seed everything
  go run seed/main.go

  # Seed only the movie catalog
  go run seed/main.go -type=movies

  # Seed with a custom sqlite path
  go run seed/main.go -db=./custom.db

Environment Variables:
  SEED_DRIVER - Set to "postgres" to seed the configured postgres database
  DB_NAME     - Default sqlite path (default: app.db)
`)
}
