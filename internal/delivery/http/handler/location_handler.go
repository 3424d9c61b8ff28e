package handler

import (
	"strconv"
	"strings"

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

// LocationHandler serves the location endpoints: the ranked query in its
// list and map forms, the CRUD lifecycle and the favorites toggle.
type LocationHandler struct {
	locationUC *usecase.LocationUseCase
	queryUC    *usecase.QueryUseCase
	logger     *zap.Logger
}

func NewLocationHandler(locationUC *usecase.LocationUseCase, queryUC *usecase.QueryUseCase, logger *zap.Logger) *LocationHandler {
	return &LocationHandler{
		locationUC: locationUC,
		queryUC:    queryUC,
		logger:     logger,
	}
}

// List godoc
// @Summary Browse locations ranked by distance
// @Description Full-text search, feature and favorites filtering over geocoded locations, ranked by distance from the reference point. Results are capped at the 50 nearest candidates before pagination.
// @Tags Locations
// @Produce json
// @Param query query string false "Full-text query over name, address, city and zip"
// @Param latitude query number false "Reference point latitude"
// @Param longitude query number false "Reference point longitude"
// @Param feature_ids[] query []string false "Feature ids, repeatable, matched with OR"
// @Param favorites_only query bool false "Restrict to the requester's favorites"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Page size" default(10)
// @Success 200 {object} utils.SuccessResponse{data=dto.LocationQueryResponse}
// @Success 302 "Redirect to the same URL with the default reference point injected"
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/locations [get]
func (h *LocationHandler) List(c *fiber.Ctx) error {
	// A coordinate-less list request gets the configured fallback point
	// injected via redirect so the canonical URL is bookmarkable.
	if c.Query("latitude") == "" || c.Query("longitude") == "" {
		lat, lng := h.queryUC.DefaultReferencePoint()
		args := c.Context().QueryArgs()
		args.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
		args.Set("longitude", strconv.FormatFloat(lng, 'f', -1, 64))
		return c.Redirect(c.Path()+"?"+args.String(), fiber.StatusFound)
	}

	query := h.parseQuery(c)
	query.Mode = dto.ModeList
	query.Page = c.QueryInt("page", 1)
	query.PerPage = c.QueryInt("per_page", 10)

	result, err := h.queryUC.Query(c.Context(), middleware.CurrentUser(c), query)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
		Page:  result.Page,
		Limit: result.PerPage,
	})
}

// Map godoc
// @Summary Every matching pin for the map widget
// @Description Same predicates as the list endpoint but uncapped and unpaginated. Responses are marked non-cacheable.
// @Tags Locations
// @Produce json
// @Param query query string false "Full-text query over name, address, city and zip"
// @Param latitude query number false "Reference point latitude"
// @Param longitude query number false "Reference point longitude"
// @Param feature_ids[] query []string false "Feature ids, repeatable, matched with OR"
// @Param favorites_only query bool false "Restrict to the requester's favorites"
// @Success 200 {object} utils.SuccessResponse{data=dto.LocationQueryResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/locations/map [get]
func (h *LocationHandler) Map(c *fiber.Ctx) error {
	query := h.parseQuery(c)
	query.Mode = dto.ModeMap

	result, err := h.queryUC.Query(c.Context(), middleware.CurrentUser(c), query)
	if err != nil {
		return utils.SendError(c, err)
	}

	utils.DisableCaching(c)
	return utils.SendSuccess(c, result, &utils.Meta{Total: result.Total})
}

func (h *LocationHandler) parseQuery(c *fiber.Ctx) dto.LocationQuery {
	query := dto.LocationQuery{
		Query:         c.Query("query"),
		FavoritesOnly: c.QueryBool("favorites_only", false),
		FeatureIDs:    featureIDParams(c),
	}
	if lat := c.QueryFloat("latitude", 0); c.Query("latitude") != "" {
		query.Latitude = &lat
	}
	if lng := c.QueryFloat("longitude", 0); c.Query("longitude") != "" {
		query.Longitude = &lng
	}
	return query
}

// featureIDParams collects feature ids from repeated feature_ids[] values,
// each of which may itself be a comma-separated list.
func featureIDParams(c *fiber.Ctx) []string {
	var ids []string
	for _, raw := range c.Context().QueryArgs().PeekMulti("feature_ids[]") {
		for _, id := range strings.Split(string(raw), ",") {
			if id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// Get godoc
// @Summary Location detail
// @Description The full show payload: location, features, pictures with presigned URLs, reviews newest first and the requester's favorited flag.
// @Tags Locations
// @Produce json
// @Param id path string true "Location id"
// @Success 200 {object} utils.SuccessResponse{data=dto.LocationDetailResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/locations/{id} [get]
func (h *LocationHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrLocationNotFound)
	}

	result, err := h.locationUC.Get(c.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// Create godoc
// @Summary Submit a new location
// @Description Normalizes, geocodes and validates the address before persisting. Returns 422 with a field error map on validation failure.
// @Tags Locations
// @Accept json
// @Produce json
// @Param request body dto.SaveLocationRequest true "Location fields"
// @Success 201 {object} utils.SuccessResponse{data=domain.Location}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/locations [post]
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var req dto.SaveLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	loc, err := h.locationUC.Create(c.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Status(fiber.StatusCreated)
	return utils.SendSuccess(c, loc, nil)
}

// Update godoc
// @Summary Update an owned location
// @Description Re-runs the save pipeline; geocoding only re-triggers when an address component changed or coordinates are missing.
// @Tags Locations
// @Accept json
// @Produce json
// @Param id path string true "Location id"
// @Param request body dto.SaveLocationRequest true "Location fields"
// @Success 200 {object} utils.SuccessResponse{data=domain.Location}
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/locations/{id} [put]
func (h *LocationHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrLocationNotFound)
	}

	var req dto.SaveLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	loc, err := h.locationUC.Update(c.Context(), middleware.CurrentUser(c), id, req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, loc, nil)
}

// Delete godoc
// @Summary Delete an owned location
// @Description Reviews, favorites, feature links and pictures are removed together with the location.
// @Tags Locations
// @Produce json
// @Param id path string true "Location id"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/locations/{id} [delete]
func (h *LocationHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrLocationNotFound)
	}

	if err := h.locationUC.Delete(c.Context(), middleware.CurrentUser(c), id); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, fiber.Map{"deleted": true}, nil)
}

// Favorite godoc
// @Summary Bookmark a location
// @Description Idempotent: repeating the request leaves a single bookmark.
// @Tags Favorites
// @Produce json
// @Param id path string true "Location id"
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/locations/{id}/favorite [post]
func (h *LocationHandler) Favorite(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrLocationNotFound)
	}

	if err := h.locationUC.Favorite(c.Context(), middleware.CurrentUser(c), id); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, fiber.Map{"favorited": true}, nil)
}

// Unfavorite godoc
// @Summary Remove a bookmark
// @Description Removing an absent bookmark succeeds without effect.
// @Tags Favorites
// @Produce json
// @Param id path string true "Location id"
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/locations/{id}/favorite [delete]
func (h *LocationHandler) Unfavorite(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrLocationNotFound)
	}

	if err := h.locationUC.Unfavorite(c.Context(), middleware.CurrentUser(c), id); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, fiber.Map{"favorited": false}, nil)
}
