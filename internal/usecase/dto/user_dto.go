package dto

import "github.com/place-directory/internal/domain"

// RegisterRequest carries a signup submission.
type RegisterRequest struct {
	EmailAddress string `json:"email_address" validate:"required,email"`
	Username     string `json:"username" validate:"required,max=100"`
	Password     string `json:"password" validate:"required"`
}

// LoginRequest carries a session creation submission.
type LoginRequest struct {
	EmailAddress string `json:"email_address" validate:"required,email"`
	Password     string `json:"password" validate:"required"`
}

// UpdateProfileRequest mutates the profile fields a user may change.
type UpdateProfileRequest struct {
	Username string `json:"username" validate:"required,max=100"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	User      domain.User `json:"user"`
	AvatarURL string      `json:"avatar_url,omitempty"`
}

// SessionResponse is returned on login; the session id also travels as
// an HttpOnly cookie.
type SessionResponse struct {
	SessionID string      `json:"session_id"`
	User      domain.User `json:"user"`
}
