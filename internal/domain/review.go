package domain

import (
	"time"

	"github.com/google/uuid"
)

// Review is free-text feedback left by a user on a location.
// Reviews are destroyed together with their location.
type Review struct {
	ID         uuid.UUID `db:"id" json:"id"`
	LocationID uuid.UUID `db:"location_id" json:"location_id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	Body       string    `db:"body" json:"body"`
	Username   string    `db:"username" json:"username,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
