package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/stillframe-app/stillframe_api/model"
	"gorm.io/gorm"
)

// ChallengeRepository handles daily challenge reads and administrative creation.
type ChallengeRepository struct {
	BaseRepository
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// GetChallenge loads a challenge with its movie, credits, stills and curated actor
// tags, everything candidate assembly needs.
func (ds *ChallengeRepository) GetChallenge(challengeID string) (*model.DailyChallenge, error) {
	var challenge model.DailyChallenge
	err := ds.challengeQuery().Where("id = ?", challengeID).First(&challenge).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

// GetChallengeByDate loads the challenge pinned to the given UTC day.
func (ds *ChallengeRepository) GetChallengeByDate(date time.Time) (*model.DailyChallenge, error) {
	var challenge model.DailyChallenge
	err := ds.challengeQuery().Where("date = ?", date).First(&challenge).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (ds *ChallengeRepository) challengeQuery() *gorm.DB {
	return ds.db.
		Preload("Movie").
		Preload("Movie.Credits").
		Preload("Image1.ImageActors.Credit").
		Preload("Image2.ImageActors.Credit").
		Preload("Image3.ImageActors.Credit")
}

func (ds *ChallengeRepository) CreateChallenge(challenge *model.DailyChallenge) (*model.DailyChallenge, error) {
	if challenge.ID == "" {
		id, _ := uuid.NewV7()
		challenge.ID = id.String()
	}
	challenge.CreatedAt = time.Now()
	if err := ds.db.Create(challenge).Error; err != nil {
		return nil, err
	}
	return challenge, nil
}

func (ds *ChallengeRepository) ChallengeExistsForDate(date time.Time) (bool, error) {
	var count int64
	err := ds.db.Model(&model.DailyChallenge{}).Where("date = ?", date).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// PickMovieForChallenge selects a movie that still has at least three wide stills
// not used by any existing challenge, at random.
func (ds *ChallengeRepository) PickMovieForChallenge(minWidth int) (string, error) {
	var movieID string
	err := ds.db.Raw(`
		SELECT mi.movie_id
		FROM movie_images mi
		LEFT JOIN daily_challenges dc1 ON dc1.image1_id = mi.id
		LEFT JOIN daily_challenges dc2 ON dc2.image2_id = mi.id
		LEFT JOIN daily_challenges dc3 ON dc3.image3_id = mi.id
		WHERE dc1.id IS NULL AND dc2.id IS NULL AND dc3.id IS NULL
		  AND mi.width >= ?
		GROUP BY mi.movie_id
		HAVING COUNT(*) >= 3
		ORDER BY RANDOM()
		LIMIT 1
	`, minWidth).Scan(&movieID).Error
	if err != nil {
		return "", err
	}
	if movieID == "" {
		return "", gorm.ErrRecordNotFound
	}
	return movieID, nil
}

// PickImagesForChallenge returns three unused wide stills of the movie, curated
// stills first, then random.
func (ds *ChallengeRepository) PickImagesForChallenge(movieID string, minWidth int) ([]string, error) {
	var imageIDs []string
	err := ds.db.Raw(`
		SELECT mi.id
		FROM movie_images mi
		LEFT JOIN daily_challenges dc1 ON dc1.image1_id = mi.id
		LEFT JOIN daily_challenges dc2 ON dc2.image2_id = mi.id
		LEFT JOIN daily_challenges dc3 ON dc3.image3_id = mi.id
		WHERE mi.movie_id = ?
		  AND dc1.id IS NULL AND dc2.id IS NULL AND dc3.id IS NULL
		  AND mi.width >= ?
		ORDER BY mi.is_curated DESC, RANDOM()
		LIMIT 3
	`, movieID, minWidth).Scan(&imageIDs).Error
	if err != nil {
		return nil, err
	}
	return imageIDs, nil
}
