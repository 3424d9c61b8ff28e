package dto

import (
	"github.com/google/uuid"

	"github.com/place-directory/internal/domain"
)

// SaveLocationRequest carries the user-supplied fields of a location
// create or update.
type SaveLocationRequest struct {
	Name       string   `json:"name" validate:"required,max=200"`
	Address    string   `json:"address" validate:"required,max=200"`
	City       string   `json:"city" validate:"required,max=100"`
	State      string   `json:"state" validate:"required,max=100"`
	Zip        string   `json:"zip" validate:"max=20"`
	Country    string   `json:"country" validate:"required,max=100"`
	FeatureIDs []string `json:"feature_ids"`
}

// QueryMode selects the consumption path of a location query.
type QueryMode int

const (
	// ModeList is the human-browsable paginated list: candidates are
	// capped at 50 before pagination.
	ModeList QueryMode = iota
	// ModeMap drives the map widget: every matching pin is returned,
	// uncapped and unpaginated.
	ModeMap
)

// LocationQuery is the parameter set of the search/filter/rank pipeline.
// Latitude/Longitude are nil when the caller supplied no reference point.
type LocationQuery struct {
	Latitude      *float64
	Longitude     *float64
	Query         string
	FavoritesOnly bool
	FeatureIDs    []string
	Page          int
	PerPage       int
	Mode          QueryMode
}

// LocationResult is one ranked row of a query response.
type LocationResult struct {
	domain.Location
	DistanceKm  float64 `json:"distance_km"`
	IsFavorited bool    `json:"is_favorited"`
}

// LocationQueryResponse is the ordered page plus the requester's
// favorite id set for O(1) favorited lookups while rendering.
type LocationQueryResponse struct {
	Locations   []LocationResult `json:"locations"`
	FavoriteIDs []uuid.UUID      `json:"favorite_ids"`
	Total       int              `json:"total"`
	Page        int              `json:"page"`
	PerPage     int              `json:"per_page"`
	Latitude    float64          `json:"latitude"`
	Longitude   float64          `json:"longitude"`
}

// LocationDetailResponse is the full show-page payload.
type LocationDetailResponse struct {
	Location    domain.Location `json:"location"`
	Reviews     []domain.Review `json:"reviews"`
	IsFavorited bool            `json:"is_favorited"`
}
