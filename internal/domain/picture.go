package domain

import (
	"time"

	"github.com/google/uuid"
)

// Picture is an image blob attached to a location. The bytes live in the
// blob store under ObjectKey; the row carries the metadata.
type Picture struct {
	ID          uuid.UUID `db:"id" json:"id"`
	LocationID  uuid.UUID `db:"location_id" json:"location_id"`
	ObjectKey   string    `db:"object_key" json:"-"`
	ContentType string    `db:"content_type" json:"content_type"`
	AltText     string    `db:"alt_text" json:"alt_text"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`

	// URL is a presigned download URL, filled at render time.
	URL string `db:"-" json:"url,omitempty"`
}
