package dto

import (
	"time"

	"github.com/stillframe-app/stillframe_api/model"
)

type SubmitGuessRequest struct {
	ChallengeID string `json:"challenge_id" validate:"required"`
	GuessText   string `json:"guess_text" validate:"required"`
}

func (r SubmitGuessRequest) Validate() error {
	return GetValidator().Struct(r)
}

type RevealImageRequest struct {
	ChallengeID string `json:"challenge_id" validate:"required"`
}

func (r RevealImageRequest) Validate() error {
	return GetValidator().Struct(r)
}

// ImageResponse is one revealed still. URL points at object storage when the still
// is mirrored there, otherwise at the upstream CDN.
type ImageResponse struct {
	ID       string `json:"id"`
	ImageURL string `json:"image_url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type GuessResponse struct {
	ID              string    `json:"id"`
	GuessText       string    `json:"guess_text"`
	MatchedCategory *string   `json:"matched_category"`
	MatchedValue    *string   `json:"matched_value"`
	IsCorrect       bool      `json:"is_correct"`
	CreatedAt       time.Time `json:"created_at"`
}

type SessionResponse struct {
	ID                string          `json:"id"`
	CurrentImageIndex int             `json:"current_image_index"`
	Score             int             `json:"score"`
	CompletedAt       *time.Time      `json:"completed_at"`
	Guesses           []GuessResponse `json:"guesses"`
}

type TodayChallengeResponse struct {
	ChallengeID       string           `json:"challenge_id"`
	Date              time.Time        `json:"date"`
	Images            []ImageResponse  `json:"images"`
	CurrentImageIndex int              `json:"current_image_index"`
	TotalImages       int              `json:"total_images"`
	Session           *SessionResponse `json:"session"`
}

type SubmitGuessResponse struct {
	Guess       GuessResponse `json:"guess"`
	IsDuplicate bool          `json:"is_duplicate"`
	Score       int           `json:"score"`
}

type RevealImageResponse struct {
	CurrentImageIndex int           `json:"current_image_index"`
	Score             int           `json:"score"`
	PenaltyApplied    int           `json:"penalty_applied"`
	NewImage          ImageResponse `json:"new_image"`
}

type ActorAnswer struct {
	Name      string  `json:"name"`
	Character *string `json:"character,omitempty"`
}

type AnswerSet struct {
	Title     string        `json:"title"`
	Directors []string      `json:"directors"`
	Writers   []string      `json:"writers"`
	Actors    []ActorAnswer `json:"actors"`
}

type MovieSummary struct {
	Title       string `json:"title"`
	ReleaseYear int    `json:"release_year"`
	Overview    string `json:"overview"`
}

type ResultsResponse struct {
	Movie   MovieSummary    `json:"movie"`
	Answers AnswerSet       `json:"answers"`
	Session SessionResponse `json:"session"`
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

type LeaderboardResponse struct {
	ChallengeID string             `json:"challenge_id"`
	Entries     []LeaderboardEntry `json:"entries"`
	UserRank    *LeaderboardEntry  `json:"user_rank,omitempty"`
}

// NewGuessResponse maps the append-only log row onto the wire shape.
func NewGuessResponse(g *model.Guess) GuessResponse {
	return GuessResponse{
		ID:              g.ID,
		GuessText:       g.GuessText,
		MatchedCategory: g.MatchedCategory,
		MatchedValue:    g.MatchedValue,
		IsCorrect:       g.IsCorrect,
		CreatedAt:       g.CreatedAt,
	}
}

func NewSessionResponse(s *model.GuessSession) SessionResponse {
	resp := SessionResponse{
		ID:                s.ID,
		CurrentImageIndex: s.CurrentImageIndex,
		Score:             s.Score,
		CompletedAt:       s.CompletedAt,
		Guesses:           []GuessResponse{},
	}
	for i := range s.Guesses {
		resp.Guesses = append(resp.Guesses, NewGuessResponse(&s.Guesses[i]))
	}
	return resp
}
