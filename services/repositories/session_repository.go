package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stillframe-app/stillframe_api/model"
	"github.com/stillframe-app/stillframe_api/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSessionCompleted is returned when a mutation raced with finalization and the
// guarded update touched no row.
var ErrSessionCompleted = errors.New("session already completed")

// ErrNoMoreImages is returned when a reveal raced past the last still.
var ErrNoMoreImages = errors.New("all images already revealed")

// SessionRepository owns guess-session state. Score and reveal index are only ever
// mutated through guarded SQL-expression updates here; callers never write back a
// value they previously read.
type SessionRepository struct {
	BaseRepository
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// GetOrCreateSession is the atomic create-if-absent step. Under contention on the
// (user, challenge) unique index exactly one insert wins and every caller observes
// the winner's row.
func (ds *SessionRepository) GetOrCreateSession(userID, challengeID string) (*model.GuessSession, error) {
	id, _ := uuid.NewV7()
	now := time.Now()
	session := model.GuessSession{
		ID:          id.String(),
		UserID:      userID,
		ChallengeID: challengeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := ds.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "challenge_id"}},
		DoNothing: true,
	}).Create(&session).Error
	if err != nil {
		return nil, err
	}

	return ds.GetSession(userID, challengeID)
}

func (ds *SessionRepository) GetSession(userID, challengeID string) (*model.GuessSession, error) {
	var session model.GuessSession
	err := ds.db.
		Preload("Guesses", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// AppendGuess writes the guess log entry and, when the guess is correct, credits
// the score, both in one transaction so a failure leaves no half-applied guess.
// The credit is guarded by completed_at so a racing finalize voids the whole append.
func (ds *SessionRepository) AppendGuess(sessionID string, guess *model.Guess, credit bool) error {
	return ds.db.Transaction(func(tx *gorm.DB) error {
		id, _ := uuid.NewV7()
		guess.ID = id.String()
		guess.SessionID = sessionID
		guess.CreatedAt = time.Now()

		if err := tx.Create(guess).Error; err != nil {
			return err
		}

		if !credit {
			return nil
		}

		result := tx.Model(&model.GuessSession{}).
			Where("id = ? AND completed_at IS NULL", sessionID).
			UpdateColumns(map[string]interface{}{
				"score":      gorm.Expr("score + ?", 1),
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSessionCompleted
		}
		return nil
	})
}

// RevealNext advances the reveal index and applies the score penalty atomically.
// The predicate keeps concurrent reveals from pushing past the last still or from
// touching a finalized session.
func (ds *SessionRepository) RevealNext(sessionID string, penalty int) error {
	result := ds.db.Model(&model.GuessSession{}).
		Where("id = ? AND completed_at IS NULL AND current_image_index < ?", sessionID, shared.MaxImageIndex).
		UpdateColumns(map[string]interface{}{
			"current_image_index": gorm.Expr("current_image_index + ?", 1),
			"score":               gorm.Expr("score - ?", penalty),
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Re-read to tell the two failure modes apart.
		var session model.GuessSession
		if err := ds.db.First(&session, "id = ?", sessionID).Error; err != nil {
			return err
		}
		if session.Completed() {
			return ErrSessionCompleted
		}
		return ErrNoMoreImages
	}
	return nil
}

// Finalize sets completed_at once; repeated calls are no-ops.
func (ds *SessionRepository) Finalize(sessionID string, at time.Time) error {
	return ds.db.Model(&model.GuessSession{}).
		Where("id = ? AND completed_at IS NULL", sessionID).
		UpdateColumns(map[string]interface{}{
			"completed_at": at,
			"updated_at":   at,
		}).Error
}

func (ds *SessionRepository) ReloadSession(sessionID string) (*model.GuessSession, error) {
	var session model.GuessSession
	err := ds.db.
		Preload("Guesses", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&session, "id = ?", sessionID).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// TopScores lists completed sessions of a challenge best-first for the leaderboard
// fallback path when redis is cold.
func (ds *SessionRepository) TopScores(challengeID string, limit int) ([]model.GuessSession, error) {
	var sessions []model.GuessSession
	err := ds.db.
		Where("challenge_id = ? AND completed_at IS NOT NULL", challengeID).
		Order("score DESC, completed_at ASC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}
