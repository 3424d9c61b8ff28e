package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/place-directory/internal/domain"
	"github.com/place-directory/internal/usecase"
	"github.com/place-directory/internal/usecase/dto"
)

const (
	testDefaultLat = 42.057853
	testDefaultLng = -87.676143
)

func newQueryUseCase(locationRepo *MockLocationRepository, favoriteRepo *MockFavoriteRepository) *usecase.QueryUseCase {
	return usecase.NewQueryUseCase(locationRepo, favoriteRepo, zap.NewNop(), testDefaultLat, testDefaultLng)
}

func locationAt(lat, lng float64) domain.Location {
	return domain.Location{
		ID:        uuid.New(),
		Latitude:  ptrFloat64(lat),
		Longitude: ptrFloat64(lng),
	}
}

func TestQueryUseCase_Query(t *testing.T) {
	ctx := context.Background()

	t.Run("ranks results by distance ascending", func(t *testing.T) {
		locationRepo := &MockLocationRepository{}
		uc := newQueryUseCase(locationRepo, &MockFavoriteRepository{})

		// Roughly 5 km, 0.1 km and 2 km north of the reference point,
		// deliberately out of order.
		far := locationAt(0.045, 0)
		near := locationAt(0.0009, 0)
		mid := locationAt(0.018, 0)
		locationRepo.On("Filter", ctx, mock.Anything).
			Return([]domain.Location{far, near, mid}, nil).Once()

		resp, err := uc.Query(ctx, nil, dto.LocationQuery{
			Latitude:  ptrFloat64(0),
			Longitude: ptrFloat64(0),
		})

		require.NoError(t, err)
		require.Len(t, resp.Locations, 3)
		assert.Equal(t, near.ID, resp.Locations[0].ID)
		assert.Equal(t, mid.ID, resp.Locations[1].ID)
		assert.Equal(t, far.ID, resp.Locations[2].ID)
		assert.Less(t, resp.Locations[0].DistanceKm, resp.Locations[1].DistanceKm)
		assert.Less(t, resp.Locations[1].DistanceKm, resp.Locations[2].DistanceKm)
	})

	t.Run("falls back to the default reference point", func(t *testing.T) {
		locationRepo := &MockLocationRepository{}
		uc := newQueryUseCase(locationRepo, &MockFavoriteRepository{})

		locationRepo.On("Filter", ctx, mock.Anything).
			Return([]domain.Location{}, nil).Once()

		resp, err := uc.Query(ctx, nil, dto.LocationQuery{})

		require.NoError(t, err)
		assert.Equal(t, testDefaultLat, resp.Latitude)
		assert.Equal(t, testDefaultLng, resp.Longitude)
	})

	t.Run("ignores an out-of-range reference point", func(t *testing.T) {
		locationRepo := &MockLocationRepository{}
		uc := newQueryUseCase(locationRepo, &MockFavoriteRepository{})

		locationRepo.On("Filter", ctx, mock.Anything).
			Return([]domain.Location{}, nil).Once()

		resp, err := uc.Query(ctx, nil, dto.LocationQuery{
			Latitude:  ptrFloat64(123.0),
			Longitude: ptrFloat64(-87.0),
		})

		require.NoError(t, err)
		assert.Equal(t, testDefaultLat, resp.Latitude)
	})

	t.Run("list mode caps candidates at 50 before pagination", func(t *testing.T) {
		locationRepo := &MockLocationRepository{}
		uc := newQueryUseCase(locationRepo, &MockFavoriteRepository{})

		locations := make([]domain.Location, 60)
		for i := range locations {
			locations[i] = locationAt(float64(i)*0.001, 0)
		}
		locationRepo.On("Filter", ctx, mock.Anything).Return(locations, nil).Once()

		resp, err := uc.Query(ctx, nil, dto.LocationQuery{
			Latitude:  ptrFloat64(0),
			Longitude: ptrFloat64(0),
			Mode:      dto.ModeList,
			Page:      5,
			PerPage:   10,
		})

		require.NoError(t, err)
		assert.Equal(t, 50, resp.Total)
		assert.Len(t, resp.Locations, 10)

		// Page 6 is beyond the capped set even though 60 rows matched.
		locationRepo.On("Filter", ctx, mock.Anything).Return(locations, nil).Once()
		resp, err = uc.Query(ctx, nil, dto.LocationQuery{
			Latitude:  ptrFloat64(0),
			Longitude: ptrFloat64(0),
			Mode:      dto.ModeList,
			Page:      6,
			PerPage:   10,
		})
		require.NoError(t, err)
		assert.Empty(t, resp.Locations)
	})

	t.Run("map mode returns every pin uncapped", func(t *testing.T) {
		locationRepo := &MockLocationRepository{}
		uc := newQueryUseCase(locationRepo, &MockFavoriteRepository{})

		locations := make([]domain.Location, 60)
		for i := range locations {
			locations[i] = locationAt(float64(i)*0.001, 0)
		}
		locationRepo.On("Filter", ctx, mock.Anything).Return(locations, nil).Once()

		resp, err := uc.Query(ctx, nil, dto.LocationQuery{
			Latitude:  ptrFloat64(0),
			Longitude: ptrFloat64(0),
			Mode:      dto.ModeMap,
		})

		require.NoError(t, err)
		assert.Len(t, resp.Locations, 60)
		assert.Equal(t, 60, resp.Total)
	})

	t.Run("passes parsed feature ids and trimmed query to the filter", func(t *testing.T) {
		locationRepo := &MockLocationRepository{}
		uc := newQueryUseCase(locationRepo, &MockFavoriteRepository{})

		featureA := uuid.New()
		featureB := uuid.New()
		locationRepo.On("Filter", ctx, mock.MatchedBy(func(f domain.LocationFilter) bool {
			return f.Query == "library" &&
				len(f.FeatureIDs) == 2 &&
				f.FeatureIDs[0] == featureA &&
				f.FeatureIDs[1] == featureB &&
				!f.Favorites
		})).Return([]domain.Location{}, nil).Once()

		_, err := uc.Query(ctx, nil, dto.LocationQuery{
			Query:      "  library ",
			FeatureIDs: []string{featureA.String(), "", "not-a-uuid", featureB.String()},
		})

		require.NoError(t, err)
		locationRepo.AssertExpectations(t)
	})

	t.Run("favorites filter applies only with a user", func(t *testing.T) {
		locationRepo := &MockLocationRepository{}
		favoriteRepo := &MockFavoriteRepository{}
		uc := newQueryUseCase(locationRepo, favoriteRepo)

		user := &domain.User{ID: uuid.New()}
		locationRepo.On("Filter", ctx, mock.MatchedBy(func(f domain.LocationFilter) bool {
			return f.Favorites && f.UserID != nil && *f.UserID == user.ID
		})).Return([]domain.Location{}, nil).Once()
		favoriteRepo.On("IDsForUser", ctx, user.ID).
			Return(map[uuid.UUID]struct{}{}, nil).Once()

		_, err := uc.Query(ctx, user, dto.LocationQuery{FavoritesOnly: true})
		require.NoError(t, err)

		// Anonymous callers get the predicate dropped instead of an error.
		locationRepo.On("Filter", ctx, mock.MatchedBy(func(f domain.LocationFilter) bool {
			return !f.Favorites && f.UserID == nil
		})).Return([]domain.Location{}, nil).Once()

		_, err = uc.Query(ctx, nil, dto.LocationQuery{FavoritesOnly: true})
		require.NoError(t, err)
		locationRepo.AssertExpectations(t)
	})

	t.Run("marks favorited rows from the precomputed id set", func(t *testing.T) {
		locationRepo := &MockLocationRepository{}
		favoriteRepo := &MockFavoriteRepository{}
		uc := newQueryUseCase(locationRepo, favoriteRepo)

		user := &domain.User{ID: uuid.New()}
		favorited := locationAt(0.001, 0)
		other := locationAt(0.002, 0)
		locationRepo.On("Filter", ctx, mock.Anything).
			Return([]domain.Location{favorited, other}, nil).Once()
		favoriteRepo.On("IDsForUser", ctx, user.ID).
			Return(map[uuid.UUID]struct{}{favorited.ID: {}}, nil).Once()

		resp, err := uc.Query(ctx, user, dto.LocationQuery{
			Latitude:  ptrFloat64(0),
			Longitude: ptrFloat64(0),
		})

		require.NoError(t, err)
		require.Len(t, resp.Locations, 2)
		assert.True(t, resp.Locations[0].IsFavorited)
		assert.False(t, resp.Locations[1].IsFavorited)
		assert.Equal(t, []uuid.UUID{favorited.ID}, resp.FavoriteIDs)
	})

	t.Run("defaults page size", func(t *testing.T) {
		locationRepo := &MockLocationRepository{}
		uc := newQueryUseCase(locationRepo, &MockFavoriteRepository{})

		locations := make([]domain.Location, 15)
		for i := range locations {
			locations[i] = locationAt(float64(i)*0.001, 0)
		}
		locationRepo.On("Filter", ctx, mock.Anything).Return(locations, nil).Once()

		resp, err := uc.Query(ctx, nil, dto.LocationQuery{
			Latitude:  ptrFloat64(0),
			Longitude: ptrFloat64(0),
			Mode:      dto.ModeList,
		})

		require.NoError(t, err)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 10, resp.PerPage)
		assert.Len(t, resp.Locations, 10)
		assert.Equal(t, 15, resp.Total)
	})
}

func TestQueryUseCase_QueryStability(t *testing.T) {
	ctx := context.Background()
	locationRepo := &MockLocationRepository{}
	uc := newQueryUseCase(locationRepo, &MockFavoriteRepository{})

	// Equal-distance rows keep their repository order.
	a := locationAt(0.001, 0)
	b := locationAt(0.001, 0)
	locationRepo.On("Filter", ctx, mock.Anything).
		Return([]domain.Location{a, b}, nil).Once()

	resp, err := uc.Query(ctx, nil, dto.LocationQuery{
		Latitude:  ptrFloat64(0),
		Longitude: ptrFloat64(0),
	})

	require.NoError(t, err)
	require.Len(t, resp.Locations, 2)
	assert.Equal(t, a.ID, resp.Locations[0].ID)
	assert.Equal(t, b.ID, resp.Locations[1].ID)
}
