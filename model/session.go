// model/session.go
package model

import (
	"time"
)

// GuessSession is one player's progress against one challenge. At most one row per
// (user, challenge) pair; created lazily on the first guess or reveal. Score and
// index are mutated only through atomic SQL-expression updates, never read-modify-
// write from the caller.
type GuessSession struct {
	ID                string     `json:"id" gorm:"primaryKey"`
	UserID            string     `json:"user_id" gorm:"not null;uniqueIndex:idx_user_challenge"`
	ChallengeID       string     `json:"challenge_id" gorm:"not null;uniqueIndex:idx_user_challenge"`
	CurrentImageIndex int        `json:"current_image_index" gorm:"default:0"`
	Score             int        `json:"score" gorm:"default:0"` // unbounded below
	CompletedAt       *time.Time `json:"completed_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Guesses []Guess `json:"guesses,omitempty" gorm:"foreignKey:SessionID"`
}

// Completed reports whether the session reached its terminal state.
func (s *GuessSession) Completed() bool {
	return s.CompletedAt != nil
}

// Guess is one append-only log entry. Rows are never updated after creation.
type Guess struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	SessionID       string    `json:"session_id" gorm:"not null;index"`
	GuessText       string    `json:"guess_text" gorm:"not null"`
	MatchedCategory *string   `json:"matched_category"`
	MatchedValue    *string   `json:"matched_value"`
	IsCorrect       bool      `json:"is_correct" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
}
