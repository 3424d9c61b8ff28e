package repository

import (
	"context"

	"github.com/place-directory/internal/domain"
)

// GeocoderRepository resolves a free-form address string to coordinates
// via the external geocoding provider. A nil result with a nil error means
// the provider found no match.
type GeocoderRepository interface {
	Geocode(ctx context.Context, fullAddress string) (*domain.GeocodeResult, error)
}
