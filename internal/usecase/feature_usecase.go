package usecase

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/place-directory/internal/domain"
	"github.com/place-directory/internal/domain/repository"
	"github.com/place-directory/internal/usecase/dto"
)

const featureCacheKey = "features:all"

// FeatureUseCase serves the seeded feature catalog, cached in redis
// since the data only changes by migration.
type FeatureUseCase struct {
	featureRepo repository.FeatureRepository
	cache       repository.CacheRepository
	logger      *zap.Logger
	cacheTTL    time.Duration
}

func NewFeatureUseCase(
	featureRepo repository.FeatureRepository,
	cache repository.CacheRepository,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *FeatureUseCase {
	return &FeatureUseCase{
		featureRepo: featureRepo,
		cache:       cache,
		logger:      logger,
		cacheTTL:    cacheTTL,
	}
}

// List returns the catalog grouped by category, preserving the storage
// order (category, then label). Cache failures fall through to postgres.
func (uc *FeatureUseCase) List(ctx context.Context) (*dto.FeatureListResponse, error) {
	if cached, err := uc.cache.Get(ctx, featureCacheKey); err == nil && cached != nil {
		var resp dto.FeatureListResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			return &resp, nil
		}
		uc.logger.Warn("Discarding malformed feature cache entry")
	}

	features, err := uc.featureRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := groupFeatures(features)

	if payload, err := json.Marshal(resp); err == nil {
		if err := uc.cache.Set(ctx, featureCacheKey, payload, uc.cacheTTL); err != nil {
			uc.logger.Warn("Failed to cache feature catalog", zap.Error(err))
		}
	}
	return resp, nil
}

func groupFeatures(features []domain.Feature) *dto.FeatureListResponse {
	resp := &dto.FeatureListResponse{Groups: []dto.FeatureGroup{}}
	for _, f := range features {
		n := len(resp.Groups)
		if n == 0 || resp.Groups[n-1].Category != f.Category {
			resp.Groups = append(resp.Groups, dto.FeatureGroup{Category: f.Category})
			n++
		}
		resp.Groups[n-1].Features = append(resp.Groups[n-1].Features, f)
	}
	return resp
}
