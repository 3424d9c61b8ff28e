package repository

import (
	"context"

	"github.com/place-directory/internal/domain"
)

// FeatureRepository reads the seeded feature reference data.
type FeatureRepository interface {
	List(ctx context.Context) ([]domain.Feature, error)
}
