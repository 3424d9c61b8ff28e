package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/place-directory/internal/pkg/utils"
	"github.com/place-directory/internal/usecase"
)

// FeatureHandler serves the accessibility feature catalog.
type FeatureHandler struct {
	featureUC *usecase.FeatureUseCase
	logger    *zap.Logger
}

func NewFeatureHandler(featureUC *usecase.FeatureUseCase, logger *zap.Logger) *FeatureHandler {
	return &FeatureHandler{
		featureUC: featureUC,
		logger:    logger,
	}
}

// List godoc
// @Summary Feature catalog grouped by category
// @Description Seeded reference data used to tag locations and to render filter controls.
// @Tags Features
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.FeatureListResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/features [get]
func (h *FeatureHandler) List(c *fiber.Ctx) error {
	result, err := h.featureUC.List(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}
