package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/stillframe-app/stillframe_api/dto"
	"github.com/stillframe-app/stillframe_api/shared"
)

type AdminHandler struct {
	adminSvc AdminServiceInterface
}

func NewAdminHandler(adminSvc AdminServiceInterface) *AdminHandler {
	return &AdminHandler{
		adminSvc: adminSvc,
	}
}

// @Summary Import Movie
// @Description Pull a movie with its credits and stills from the upstream catalog
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param importMovieRequest body dto.ImportMovieRequest true "Movie to import"
// @Success 201 {object} shared.Response{data=dto.ImportMovieResponse}
// @Router /api/v1/admin/movies/import [post]
func (h *AdminHandler) ImportMovie(c *fiber.Ctx) error {
	var req dto.ImportMovieRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.adminSvc.ImportMovie(req.TmdbID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", resp)
}

// @Summary Create Challenge
// @Description Pin a movie and three of its stills to a calendar date
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param createChallengeRequest body dto.CreateChallengeRequest true "Challenge"
// @Success 201 {object} shared.Response{data=dto.CreateChallengeResponse}
// @Router /api/v1/admin/challenges [post]
func (h *AdminHandler) CreateChallenge(c *fiber.Ctx) error {
	var req dto.CreateChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.adminSvc.CreateChallenge(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", resp)
}

// @Summary Tag Image Actor
// @Description Mark an actor credit as visible on a still
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param imageId path string true "Image ID"
// @Param tagImageActorRequest body dto.TagImageActorRequest true "Credit to tag"
// @Success 200 {object} shared.Response
// @Router /api/v1/admin/images/{imageId}/actors [post]
func (h *AdminHandler) TagImageActor(c *fiber.Ctx) error {
	imageID := c.Params("imageId")
	if imageID == "" {
		return shared.NewBadRequestError(nil, "imageId is required")
	}

	var req dto.TagImageActorRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	if err := h.adminSvc.TagImageActor(imageID, req.CreditID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}

// @Summary Upload Still
// @Description Upload a custom still for a movie; the still is registered as curated
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param movieId path string true "Movie ID"
// @Param file formData file true "Image file"
// @Success 201 {object} shared.Response{data=dto.UploadImageResponse}
// @Router /api/v1/admin/movies/{movieId}/images [post]
func (h *AdminHandler) UploadImage(c *fiber.Ctx) error {
	movieID := c.Params("movieId")
	if movieID == "" {
		return shared.NewBadRequestError(nil, "movieId is required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return shared.NewBadRequestError(err, "file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return shared.NewBadRequestError(err, "Unable to read file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return shared.NewBadRequestError(err, "Unable to read file")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	resp, err := h.adminSvc.UploadImage(movieID, fileHeader.Filename, contentType, data)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", resp)
}
