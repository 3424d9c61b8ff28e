package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/place-directory/internal/delivery/http/middleware"
	"github.com/place-directory/internal/pkg/errors"
	"github.com/place-directory/internal/pkg/utils"
	"github.com/place-directory/internal/usecase"
)

// PictureHandler serves the picture attachments of a location.
type PictureHandler struct {
	pictureUC *usecase.PictureUseCase
	logger    *zap.Logger
}

func NewPictureHandler(pictureUC *usecase.PictureUseCase, logger *zap.Logger) *PictureHandler {
	return &PictureHandler{
		pictureUC: pictureUC,
		logger:    logger,
	}
}

// Add godoc
// @Summary Attach a picture to an owned location
// @Tags Pictures
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Location id"
// @Param picture formData file true "JPEG, PNG or WebP image, at most 10 MB"
// @Param alt_text formData string false "Accessibility caption"
// @Success 201 {object} utils.SuccessResponse{data=domain.Picture}
// @Failure 403 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/locations/{id}/pictures [post]
func (h *PictureHandler) Add(c *fiber.Ctx) error {
	locationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrLocationNotFound)
	}

	fileHeader, err := c.FormFile("picture")
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	defer file.Close()

	picture, err := h.pictureUC.Add(
		c.Context(),
		middleware.CurrentUser(c),
		locationID,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
		c.FormValue("alt_text"),
	)
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Status(fiber.StatusCreated)
	return utils.SendSuccess(c, picture, nil)
}

// UpdateAltText godoc
// @Summary Change a picture's accessibility caption
// @Tags Pictures
// @Accept json
// @Produce json
// @Param id path string true "Picture id"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/pictures/{id} [patch]
func (h *PictureHandler) UpdateAltText(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrPictureNotFound)
	}

	var req struct {
		AltText string `json:"alt_text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := h.pictureUC.UpdateAltText(c.Context(), middleware.CurrentUser(c), id, req.AltText); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, fiber.Map{"updated": true}, nil)
}

// Delete godoc
// @Summary Remove a picture from an owned location
// @Tags Pictures
// @Produce json
// @Param id path string true "Picture id"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/pictures/{id} [delete]
func (h *PictureHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrPictureNotFound)
	}

	if err := h.pictureUC.Delete(c.Context(), middleware.CurrentUser(c), id); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, fiber.Map{"deleted": true}, nil)
}
