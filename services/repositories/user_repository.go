package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/stillframe-app/stillframe_api/model"
	"gorm.io/gorm"
)

// UserRepository handles account rows for the identity provider.
type UserRepository struct {
	BaseRepository
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *UserRepository) CreateUser(user *model.User) (*model.User, error) {
	if user.ID == "" {
		id, _ := uuid.NewV7()
		user.ID = id.String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if err := ds.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (ds *UserRepository) GetUser(userID string) (*model.User, error) {
	var user model.User
	if err := ds.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	if err := ds.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *UserRepository) GetUserByUsername(username string) (*model.User, error) {
	var user model.User
	if err := ds.db.First(&user, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *UserRepository) TouchLastLogin(userID string) error {
	return ds.db.Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_login", time.Now()).Error
}
