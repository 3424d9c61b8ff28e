package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/place-directory/internal/delivery/http/middleware"
	"github.com/place-directory/internal/domain"
	"github.com/place-directory/internal/pkg/errors"
	"github.com/place-directory/internal/pkg/utils"
	"github.com/place-directory/internal/pkg/validator"
	"github.com/place-directory/internal/usecase"
	"github.com/place-directory/internal/usecase/dto"
)

// UserHandler serves registration, login/logout and the profile.
type UserHandler struct {
	userUC     *usecase.UserUseCase
	logger     *zap.Logger
	cookieName string
	sessionTTL time.Duration
}

func NewUserHandler(userUC *usecase.UserUseCase, logger *zap.Logger, cookieName string, sessionTTL time.Duration) *UserHandler {
	return &UserHandler{
		userUC:     userUC,
		logger:     logger,
		cookieName: cookieName,
		sessionTTL: sessionTTL,
	}
}

// Register godoc
// @Summary Create an account
// @Description Opens a session on success; the session id is returned and set as an HttpOnly cookie.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Signup fields"
// @Success 201 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/users [post]
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	user, session, err := h.userUC.Register(c.Context(), req, c.Get("User-Agent"), c.IP())
	if err != nil {
		return utils.SendError(c, err)
	}

	h.setSessionCookie(c, session)
	c.Status(fiber.StatusCreated)
	return utils.SendSuccess(c, dto.SessionResponse{SessionID: session.ID, User: *user}, nil)
}

// Login godoc
// @Summary Open a session
// @Description Unknown email and wrong password fail with the same error.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/v1/sessions [post]
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	user, session, err := h.userUC.Login(c.Context(), req, c.Get("User-Agent"), c.IP())
	if err != nil {
		return utils.SendError(c, err)
	}

	h.setSessionCookie(c, session)
	return utils.SendSuccess(c, dto.SessionResponse{SessionID: session.ID, User: *user}, nil)
}

// Logout godoc
// @Summary Close the current session
// @Tags Users
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /api/v1/sessions [delete]
func (h *UserHandler) Logout(c *fiber.Ctx) error {
	if err := h.userUC.Logout(c.Context(), c.Cookies(h.cookieName)); err != nil {
		return utils.SendError(c, err)
	}
	c.ClearCookie(h.cookieName)
	return utils.SendSuccess(c, fiber.Map{"logged_out": true}, nil)
}

// Me godoc
// @Summary The authenticated user's profile
// @Tags Users
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.UserResponse}
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/v1/users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	profile, err := h.userUC.Profile(c.Context(), middleware.CurrentUser(c))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, profile, nil)
}

// UpdateProfile godoc
// @Summary Change the profile fields
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} utils.SuccessResponse{data=domain.User}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/users/me [patch]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	user, err := h.userUC.UpdateProfile(c.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, user, nil)
}

// UploadAvatar godoc
// @Summary Upload a profile avatar
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} utils.SuccessResponse{data=dto.UserResponse}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/users/me/avatar [put]
func (h *UserHandler) UploadAvatar(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	defer file.Close()

	user, err := h.userUC.UploadAvatar(
		c.Context(),
		middleware.CurrentUser(c),
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		return utils.SendError(c, err)
	}

	profile, err := h.userUC.Profile(c.Context(), user)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, profile, nil)
}

func (h *UserHandler) setSessionCookie(c *fiber.Ctx, session *domain.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    session.ID,
		Expires:  time.Now().Add(h.sessionTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}
