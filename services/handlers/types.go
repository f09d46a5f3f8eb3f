package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stillframe-app/stillframe_api/dto"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(req dto.LoginRequest) (*dto.LoginResponse, error)
	RefreshToken(req dto.RefreshTokenRequest) (*dto.LoginResponse, error)
	RequiredAuth() fiber.Handler
	RequireRole(role string) fiber.Handler
}

type ChallengeServiceInterface interface {
	Today(userID string) (*dto.TodayChallengeResponse, error)
	SubmitGuess(userID string, req dto.SubmitGuessRequest) (*dto.SubmitGuessResponse, error)
	RevealImage(userID, challengeID string) (*dto.RevealImageResponse, error)
	Results(userID, challengeID string) (*dto.ResultsResponse, error)
	Leaderboard(userID, challengeID string) (*dto.LeaderboardResponse, error)
}

type AdminServiceInterface interface {
	ImportMovie(tmdbID int) (*dto.ImportMovieResponse, error)
	CreateChallenge(req dto.CreateChallengeRequest) (*dto.CreateChallengeResponse, error)
	TagImageActor(imageID, creditID string) error
	UploadImage(movieID, fileName, contentType string, data []byte) (*dto.UploadImageResponse, error)
}
