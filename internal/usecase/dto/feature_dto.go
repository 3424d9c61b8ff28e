package dto

import "github.com/place-directory/internal/domain"

// FeatureGroup is the feature reference data grouped by category for
// filter rendering.
type FeatureGroup struct {
	Category string           `json:"category"`
	Features []domain.Feature `json:"features"`
}

// FeatureListResponse is the full grouped feature catalog.
type FeatureListResponse struct {
	Groups []FeatureGroup `json:"groups"`
}
