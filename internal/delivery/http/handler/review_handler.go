package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/place-directory/internal/delivery/http/middleware"
	"github.com/place-directory/internal/pkg/errors"
	"github.com/place-directory/internal/pkg/utils"
	"github.com/place-directory/internal/pkg/validator"
	"github.com/place-directory/internal/usecase"
	"github.com/place-directory/internal/usecase/dto"
)

// ReviewHandler serves the review endpoints nested under a location.
type ReviewHandler struct {
	reviewUC *usecase.ReviewUseCase
	logger   *zap.Logger
}

func NewReviewHandler(reviewUC *usecase.ReviewUseCase, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewUC: reviewUC,
		logger:   logger,
	}
}

// List godoc
// @Summary Reviews of a location, newest first
// @Tags Reviews
// @Produce json
// @Param id path string true "Location id"
// @Success 200 {object} utils.SuccessResponse{data=[]domain.Review}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/locations/{id}/reviews [get]
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	locationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrLocationNotFound)
	}

	reviews, err := h.reviewUC.ListByLocation(c.Context(), locationID)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, reviews, &utils.Meta{Total: len(reviews)})
}

// Create godoc
// @Summary Leave a review on a location
// @Description The body must be at least 10 characters after trimming and free of profanity.
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path string true "Location id"
// @Param request body dto.SaveReviewRequest true "Review body"
// @Success 201 {object} utils.SuccessResponse{data=domain.Review}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/locations/{id}/reviews [post]
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	locationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrLocationNotFound)
	}

	var req dto.SaveReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	review, err := h.reviewUC.Create(c.Context(), middleware.CurrentUser(c), locationID, req)
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Status(fiber.StatusCreated)
	return utils.SendSuccess(c, review, nil)
}

// Update godoc
// @Summary Edit an owned review
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path string true "Review id"
// @Param request body dto.SaveReviewRequest true "Review body"
// @Success 200 {object} utils.SuccessResponse{data=domain.Review}
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/reviews/{id} [put]
func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrReviewNotFound)
	}

	var req dto.SaveReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	review, err := h.reviewUC.Update(c.Context(), middleware.CurrentUser(c), id, req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, review, nil)
}

// Delete godoc
// @Summary Delete an owned review
// @Tags Reviews
// @Produce json
// @Param id path string true "Review id"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrReviewNotFound)
	}

	if err := h.reviewUC.Delete(c.Context(), middleware.CurrentUser(c), id); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, fiber.Map{"deleted": true}, nil)
}
