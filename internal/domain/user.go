package domain

import (
	"time"

	"github.com/google/uuid"
)

// User owns locations, reviews and a favorites set over locations.
// PasswordDigest is a bcrypt hash and never leaves the service.
type User struct {
	ID             uuid.UUID `db:"id" json:"id"`
	EmailAddress   string    `db:"email_address" json:"email_address"`
	Username       string    `db:"username" json:"username"`
	PasswordDigest string    `db:"password_digest" json:"-"`
	Provider       *string   `db:"provider" json:"provider,omitempty"`
	ProviderUID    *string   `db:"provider_uid" json:"provider_uid,omitempty"`
	AvatarKey      *string   `db:"avatar_key" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Session is an authenticated browser session resolved from a cookie.
// Sessions live in redis, keyed by an opaque id.
type Session struct {
	ID        string    `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}
