package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/place-directory/internal/domain"
)

// LocationRepository persists locations and answers filtered queries.
type LocationRepository interface {
	Create(ctx context.Context, loc *domain.Location, featureIDs []uuid.UUID) error
	Update(ctx context.Context, loc *domain.Location, featureIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error)

	// Filter returns geocoded locations matching every predicate of the
	// filter. Feature matches are deduplicated; ordering is unspecified,
	// distance ranking happens in the use case.
	Filter(ctx context.Context, filter domain.LocationFilter) ([]domain.Location, error)

	// ExistsAddress reports whether another location already carries the
	// same (address, city, state, zip, country), case-insensitively.
	ExistsAddress(ctx context.Context, loc *domain.Location) (bool, error)

	FeaturesFor(ctx context.Context, locationID uuid.UUID) ([]domain.Feature, error)
}

// FavoriteRepository manages the user/location favorites join.
type FavoriteRepository interface {
	Add(ctx context.Context, userID, locationID uuid.UUID) error
	Remove(ctx context.Context, userID, locationID uuid.UUID) error
	Exists(ctx context.Context, userID, locationID uuid.UUID) (bool, error)

	// IDsForUser returns the user's favorite location ids, precomputed once
	// per request for O(1) favorited lookups during rendering.
	IDsForUser(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]struct{}, error)
}
