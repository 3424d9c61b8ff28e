package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/place-directory/internal/domain"
	"github.com/place-directory/internal/domain/repository"
	"github.com/place-directory/internal/pkg/utils"
	"github.com/place-directory/internal/usecase/dto"
)

const (
	// listResultCap bounds the browsable list to the nearest candidates
	// before pagination. Map queries are never capped.
	listResultCap  = 50
	defaultPerPage = 10
	maxPerPage     = 50
)

// QueryUseCase ranks filtered locations by distance from a reference
// point. Filtering happens in SQL; distance computation, ordering,
// capping and pagination happen here.
type QueryUseCase struct {
	locationRepo repository.LocationRepository
	favoriteRepo repository.FavoriteRepository
	logger       *zap.Logger

	// Fallback reference point used when the caller supplies none.
	defaultLatitude  float64
	defaultLongitude float64
}

func NewQueryUseCase(
	locationRepo repository.LocationRepository,
	favoriteRepo repository.FavoriteRepository,
	logger *zap.Logger,
	defaultLatitude, defaultLongitude float64,
) *QueryUseCase {
	return &QueryUseCase{
		locationRepo:     locationRepo,
		favoriteRepo:     favoriteRepo,
		logger:           logger,
		defaultLatitude:  defaultLatitude,
		defaultLongitude: defaultLongitude,
	}
}

// Query runs the search/filter/rank pipeline. The user is optional;
// without one the favorites predicate is dropped and no favorite ids
// are resolved.
func (uc *QueryUseCase) Query(ctx context.Context, user *domain.User, q dto.LocationQuery) (*dto.LocationQueryResponse, error) {
	refLat, refLng := uc.referencePoint(q)

	filter := domain.LocationFilter{
		Query: strings.TrimSpace(q.Query),
	}
	if q.FavoritesOnly && user != nil {
		filter.Favorites = true
		filter.UserID = &user.ID
	}
	for _, raw := range q.FeatureIDs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		filter.FeatureIDs = append(filter.FeatureIDs, id)
	}

	locations, err := uc.locationRepo.Filter(ctx, filter)
	if err != nil {
		return nil, err
	}

	favoriteIDs := map[uuid.UUID]struct{}{}
	if user != nil {
		favoriteIDs, err = uc.favoriteRepo.IDsForUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
	}

	ranked := make([]dto.LocationResult, 0, len(locations))
	for _, loc := range locations {
		_, favorited := favoriteIDs[loc.ID]
		ranked = append(ranked, dto.LocationResult{
			Location:    loc,
			DistanceKm:  utils.HaversineDistance(refLat, refLng, *loc.Latitude, *loc.Longitude),
			IsFavorited: favorited,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})

	if q.Mode == dto.ModeList && len(ranked) > listResultCap {
		ranked = ranked[:listResultCap]
	}

	resp := &dto.LocationQueryResponse{
		FavoriteIDs: setToSlice(favoriteIDs),
		Total:       len(ranked),
		Latitude:    refLat,
		Longitude:   refLng,
	}

	if q.Mode == dto.ModeMap {
		resp.Locations = ranked
		resp.Page = 1
		resp.PerPage = len(ranked)
		return resp, nil
	}

	page, perPage := normalizePaging(q.Page, q.PerPage)
	resp.Page = page
	resp.PerPage = perPage
	resp.Locations = paginate(ranked, page, perPage)
	return resp, nil
}

// DefaultReferencePoint exposes the configured fallback origin so the
// list endpoint can redirect coordinate-less requests to a canonical URL.
func (uc *QueryUseCase) DefaultReferencePoint() (float64, float64) {
	return uc.defaultLatitude, uc.defaultLongitude
}

// referencePoint resolves the distance origin: the caller's coordinates
// when both are present, the configured default otherwise.
func (uc *QueryUseCase) referencePoint(q dto.LocationQuery) (float64, float64) {
	if q.Latitude != nil && q.Longitude != nil {
		if utils.ValidateCoordinates(*q.Latitude, *q.Longitude) {
			return *q.Latitude, *q.Longitude
		}
		uc.logger.Debug("Ignoring out-of-range reference point",
			zap.Float64("latitude", *q.Latitude),
			zap.Float64("longitude", *q.Longitude))
	}
	return uc.defaultLatitude, uc.defaultLongitude
}

func normalizePaging(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func paginate(results []dto.LocationResult, page, perPage int) []dto.LocationResult {
	start := (page - 1) * perPage
	if start >= len(results) {
		return []dto.LocationResult{}
	}
	end := start + perPage
	if end > len(results) {
		end = len(results)
	}
	return results[start:end]
}

func setToSlice(set map[uuid.UUID]struct{}) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
