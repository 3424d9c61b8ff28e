package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/place-directory/internal/domain"
	"github.com/place-directory/internal/pkg/errors"
	"github.com/place-directory/internal/pkg/utils"
)

const currentUserKey = "currentUser"

// UserResolver maps a session cookie value to its user. A nil user with
// a nil error means the request is anonymous.
type UserResolver interface {
	Resolve(ctx context.Context, sessionID string) (*domain.User, error)
}

// Session resolves the session cookie on every request and stashes the
// user in the request locals. Resolution failures downgrade the request
// to anonymous instead of failing it.
func Session(resolver UserResolver, cookieName string, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(cookieName)
		if sessionID != "" {
			user, err := resolver.Resolve(c.Context(), sessionID)
			if err != nil {
				logger.Warn("Session resolution failed", zap.Error(err))
			} else if user != nil {
				c.Locals(currentUserKey, user)
			}
		}
		return c.Next()
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return utils.SendError(c, errors.ErrUnauthenticated)
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(currentUserKey).(*domain.User)
	return user
}
