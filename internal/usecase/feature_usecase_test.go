package usecase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/place-directory/internal/domain"
	"github.com/place-directory/internal/usecase"
	"github.com/place-directory/internal/usecase/dto"
)

func TestFeatureUseCase_List(t *testing.T) {
	ctx := context.Background()
	ttl := time.Hour

	catalog := []domain.Feature{
		{ID: uuid.New(), Label: "Gluten Free Options", Category: "Food & Diet"},
		{ID: uuid.New(), Label: "Vegan Options", Category: "Food & Diet"},
		{ID: uuid.New(), Label: "Wheelchair Accessible", Category: "Physical Accessibility"},
	}

	t.Run("groups by category on cache miss and caches the result", func(t *testing.T) {
		featureRepo := &MockFeatureRepository{}
		cache := &MockCacheRepository{}
		uc := usecase.NewFeatureUseCase(featureRepo, cache, zap.NewNop(), ttl)

		cache.On("Get", ctx, "features:all").Return(nil, nil).Once()
		featureRepo.On("List", ctx).Return(catalog, nil).Once()
		cache.On("Set", ctx, "features:all", mock.Anything, ttl).Return(nil).Once()

		resp, err := uc.List(ctx)

		require.NoError(t, err)
		require.Len(t, resp.Groups, 2)
		assert.Equal(t, "Food & Diet", resp.Groups[0].Category)
		assert.Len(t, resp.Groups[0].Features, 2)
		assert.Equal(t, "Physical Accessibility", resp.Groups[1].Category)
		cache.AssertExpectations(t)
	})

	t.Run("serves from cache without touching postgres", func(t *testing.T) {
		featureRepo := &MockFeatureRepository{}
		cache := &MockCacheRepository{}
		uc := usecase.NewFeatureUseCase(featureRepo, cache, zap.NewNop(), ttl)

		cached, err := json.Marshal(dto.FeatureListResponse{
			Groups: []dto.FeatureGroup{{Category: "Sensory", Features: catalog[:1]}},
		})
		require.NoError(t, err)
		cache.On("Get", ctx, "features:all").Return(cached, nil).Once()

		resp, err := uc.List(ctx)

		require.NoError(t, err)
		require.Len(t, resp.Groups, 1)
		assert.Equal(t, "Sensory", resp.Groups[0].Category)
		featureRepo.AssertNotCalled(t, "List")
	})

	t.Run("malformed cache entry falls through to postgres", func(t *testing.T) {
		featureRepo := &MockFeatureRepository{}
		cache := &MockCacheRepository{}
		uc := usecase.NewFeatureUseCase(featureRepo, cache, zap.NewNop(), ttl)

		cache.On("Get", ctx, "features:all").Return([]byte("{broken"), nil).Once()
		featureRepo.On("List", ctx).Return(catalog, nil).Once()
		cache.On("Set", ctx, "features:all", mock.Anything, ttl).Return(nil).Once()

		resp, err := uc.List(ctx)

		require.NoError(t, err)
		assert.Len(t, resp.Groups, 2)
	})

	t.Run("cache write failure does not fail the request", func(t *testing.T) {
		featureRepo := &MockFeatureRepository{}
		cache := &MockCacheRepository{}
		uc := usecase.NewFeatureUseCase(featureRepo, cache, zap.NewNop(), ttl)

		cache.On("Get", ctx, "features:all").Return(nil, assert.AnError).Once()
		featureRepo.On("List", ctx).Return(catalog, nil).Once()
		cache.On("Set", ctx, "features:all", mock.Anything, ttl).Return(assert.AnError).Once()

		resp, err := uc.List(ctx)

		require.NoError(t, err)
		assert.Len(t, resp.Groups, 2)
	})
}
