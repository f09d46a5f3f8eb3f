package seeders

import (
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/stillframe-app/stillframe_api/model"
	"github.com/stillframe-app/stillframe_api/shared"
)

// AdminSeeder handles seeding the curation admin user
type AdminSeeder struct {
	db *gorm.DB
}

// NewAdminSeeder creates a new admin seeder
func NewAdminSeeder(db *gorm.DB) *AdminSeeder {
	return &AdminSeeder{db: db}
}

// SeedAdmin creates a default admin user when none exists. The password comes from
// SEED_ADMIN_PASSWORD and falls back to a development default.
func (s *AdminSeeder) SeedAdmin() error {
	var existingAdmin model.User
	if err := s.db.Where("role = ?", shared.RoleAdmin).First(&existingAdmin).Error; err == nil {
		log.Println("Admin user already exists, skipping admin seeding")
		return nil
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	id, _ := uuid.NewV7()

	now := time.Now()
	admin := model.User{
		ID:        id.String(),
		Email:     "admin@stillframe.app",
		Username:  "admin",
		Password:  string(hashedPassword),
		Role:      shared.RoleAdmin,
		LastLogin: now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.db.Create(&admin).Error; err != nil {
		log.Printf("Error creating admin user: %v", err)
		return err
	}

	log.Printf("Created admin user: %s", admin.Email)
	return nil
}
