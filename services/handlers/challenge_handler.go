package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stillframe-app/stillframe_api/dto"
	"github.com/stillframe-app/stillframe_api/shared"
)

type ChallengeHandler struct {
	challengeSvc ChallengeServiceInterface
}

func NewChallengeHandler(challengeSvc ChallengeServiceInterface) *ChallengeHandler {
	return &ChallengeHandler{
		challengeSvc: challengeSvc,
	}
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals(shared.UserID).(string)
	return id
}

// @Summary Today's Challenge
// @Description Get the current challenge with the stills revealed so far and the caller's session
// @Tags challenge
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} shared.Response{data=dto.TodayChallengeResponse}
// @Router /api/v1/challenge/today [get]
func (h *ChallengeHandler) Today(c *fiber.Ctx) error {
	resp, err := h.challengeSvc.Today(userID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Submit Guess
// @Description Evaluate a free-text guess against the challenge's answer pool
// @Tags challenge
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submitGuessRequest body dto.SubmitGuessRequest true "Guess"
// @Success 200 {object} shared.Response{data=dto.SubmitGuessResponse}
// @Router /api/v1/challenge/guess [post]
func (h *ChallengeHandler) SubmitGuess(c *fiber.Ctx) error {
	var req dto.SubmitGuessRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.challengeSvc.SubmitGuess(userID(c), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Reveal Next Image
// @Description Reveal the next still for a one point penalty
// @Tags challenge
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param revealImageRequest body dto.RevealImageRequest true "Reveal request"
// @Success 200 {object} shared.Response{data=dto.RevealImageResponse}
// @Router /api/v1/challenge/reveal [post]
func (h *ChallengeHandler) RevealImage(c *fiber.Ctx) error {
	var req dto.RevealImageRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.challengeSvc.RevealImage(userID(c), req.ChallengeID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Results
// @Description Finalize the caller's session and return the full answer set
// @Tags challenge
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param challengeId query string true "Challenge ID"
// @Success 200 {object} shared.Response{data=dto.ResultsResponse}
// @Router /api/v1/challenge/results [get]
func (h *ChallengeHandler) Results(c *fiber.Ctx) error {
	challengeID := c.Query("challengeId")
	if challengeID == "" {
		return shared.NewBadRequestError(nil, "challengeId is required")
	}

	resp, err := h.challengeSvc.Results(userID(c), challengeID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Leaderboard
// @Description Top finishers for one challenge with the caller's rank
// @Tags challenge
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param challengeId query string true "Challenge ID"
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Router /api/v1/challenge/leaderboard [get]
func (h *ChallengeHandler) Leaderboard(c *fiber.Ctx) error {
	challengeID := c.Query("challengeId")
	if challengeID == "" {
		return shared.NewBadRequestError(nil, "challengeId is required")
	}

	resp, err := h.challengeSvc.Leaderboard(userID(c), challengeID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}
