package usecase

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/place-directory/internal/domain"
	"github.com/place-directory/internal/domain/repository"
	"github.com/place-directory/internal/pkg/errors"
	"github.com/place-directory/internal/pkg/utils"
	"github.com/place-directory/internal/usecase/dto"
)

// zipPattern is the strict postal code format for the primary country:
// five digits, optionally followed by a four digit extension.
var zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

const pictureURLExpiry = 15 * time.Minute

// LocationUseCase owns the location lifecycle: the explicit save pipeline
// (normalize -> maybe geocode -> validate -> persist), deletion, detail
// loading and the favorites join.
type LocationUseCase struct {
	locationRepo   repository.LocationRepository
	favoriteRepo   repository.FavoriteRepository
	reviewRepo     repository.ReviewRepository
	pictureRepo    repository.PictureRepository
	storage        repository.StorageRepository
	geocoder       repository.GeocoderRepository
	logger         *zap.Logger
	primaryCountry string
}

func NewLocationUseCase(
	locationRepo repository.LocationRepository,
	favoriteRepo repository.FavoriteRepository,
	reviewRepo repository.ReviewRepository,
	pictureRepo repository.PictureRepository,
	storage repository.StorageRepository,
	geocoder repository.GeocoderRepository,
	logger *zap.Logger,
	primaryCountry string,
) *LocationUseCase {
	return &LocationUseCase{
		locationRepo:   locationRepo,
		favoriteRepo:   favoriteRepo,
		reviewRepo:     reviewRepo,
		pictureRepo:    pictureRepo,
		storage:        storage,
		geocoder:       geocoder,
		logger:         logger,
		primaryCountry: primaryCountry,
	}
}

// savedState is the persisted snapshot a save attempt diffs against to
// decide whether geocoding must re-run. Nil means the record is new.
type savedState struct {
	snapshot       domain.AddressSnapshot
	hadCoordinates bool
}

// Create runs the save pipeline on a fresh location and persists it.
func (uc *LocationUseCase) Create(ctx context.Context, user *domain.User, req dto.SaveLocationRequest) (*domain.Location, error) {
	loc := &domain.Location{
		ID:      uuid.New(),
		UserID:  user.ID,
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Zip:     req.Zip,
		Country: req.Country,
	}

	featureIDs, verr := parseFeatureIDs(req.FeatureIDs)
	uc.runSavePipeline(ctx, loc, nil, verr)
	uc.checkAddressUnique(ctx, loc, verr)
	if verr.HasErrors() {
		return nil, verr
	}

	if err := uc.locationRepo.Create(ctx, loc, featureIDs); err != nil {
		return nil, err
	}

	uc.logger.Info("Location created",
		zap.String("id", loc.ID.String()),
		zap.String("name", loc.Name))
	return loc, nil
}

// Update applies the request to an existing location and re-runs the
// save pipeline. Geocoding only re-triggers when an address component
// actually changed or coordinates are missing.
func (uc *LocationUseCase) Update(ctx context.Context, user *domain.User, id uuid.UUID, req dto.SaveLocationRequest) (*domain.Location, error) {
	loc, err := uc.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc.UserID != user.ID {
		return nil, errors.ErrNotOwner
	}

	prev := &savedState{
		snapshot:       loc.Snapshot(),
		hadCoordinates: loc.HasCoordinates(),
	}

	loc.Name = req.Name
	loc.Address = req.Address
	loc.City = req.City
	loc.State = req.State
	loc.Zip = req.Zip
	loc.Country = req.Country

	featureIDs, verr := parseFeatureIDs(req.FeatureIDs)
	uc.runSavePipeline(ctx, loc, prev, verr)
	uc.checkAddressUnique(ctx, loc, verr)
	if verr.HasErrors() {
		return nil, verr
	}

	if err := uc.locationRepo.Update(ctx, loc, featureIDs); err != nil {
		return nil, err
	}
	return loc, nil
}

// runSavePipeline executes the ordered save stages. Each stage mutates
// the in-memory record or accumulates field errors; nothing is persisted
// here.
func (uc *LocationUseCase) runSavePipeline(ctx context.Context, loc *domain.Location, prev *savedState, verr *errors.ValidationError) {
	uc.normalize(loc)
	uc.maybeGeocode(ctx, loc, prev, verr)
	uc.validate(loc, verr)
}

// normalize trims and collapses whitespace on the address components,
// upper-cases the state, and strips the primary-country zip down to
// digits and hyphens.
func (uc *LocationUseCase) normalize(loc *domain.Location) {
	loc.Name = utils.NormalizeSpace(loc.Name)
	loc.Address = utils.NormalizeSpace(loc.Address)
	loc.City = utils.NormalizeSpace(loc.City)
	loc.State = strings.ToUpper(utils.NormalizeSpace(loc.State))
	loc.Zip = utils.NormalizeSpace(loc.Zip)
	loc.Country = utils.NormalizeSpace(loc.Country)

	if uc.isPrimaryCountry(loc.Country) {
		loc.Zip = utils.DigitsAndHyphens(loc.Zip)
	}
}

// maybeGeocode resolves coordinates when the record is new, an address
// component changed, or coordinates are absent. Provider failures are
// swallowed: missing coordinates are caught by the validate stage.
func (uc *LocationUseCase) maybeGeocode(ctx context.Context, loc *domain.Location, prev *savedState, verr *errors.ValidationError) {
	triggered := prev == nil ||
		!prev.snapshot.Equal(loc.Snapshot()) ||
		!prev.hadCoordinates
	if !triggered {
		return
	}

	// Stale coordinates from a previous address must not survive a change.
	loc.Latitude = nil
	loc.Longitude = nil

	fullAddress := loc.FullAddress()
	if fullAddress == "" {
		return
	}

	result, err := uc.geocoder.Geocode(ctx, fullAddress)
	if err != nil {
		uc.logger.Warn("Geocoding failed",
			zap.String("address", fullAddress),
			zap.Error(err))
		return
	}
	if result == nil {
		return
	}

	if uc.isPrimaryCountry(loc.Country) && result.PostalCode != "" {
		userZip := utils.ZipPrefix(loc.Zip)
		providerZip := utils.ZipPrefix(result.PostalCode)
		if userZip != "" && providerZip != "" && userZip != providerZip {
			verr.Add("zip", "does not match the located address (detected "+result.PostalCode+")")
			return
		}
	}

	lat := result.Latitude
	lng := result.Longitude
	loc.Latitude = &lat
	loc.Longitude = &lng
}

// validate checks required fields, the primary-country zip format, and
// the coordinate invariant: a locatable address must have resolved.
func (uc *LocationUseCase) validate(loc *domain.Location, verr *errors.ValidationError) {
	required := map[string]string{
		"name":    loc.Name,
		"address": loc.Address,
		"city":    loc.City,
		"state":   loc.State,
		"country": loc.Country,
	}
	for field, value := range required {
		if value == "" {
			verr.Add(field, "can't be blank")
		}
	}

	if uc.isPrimaryCountry(loc.Country) {
		if loc.Zip == "" {
			verr.Add("zip", "can't be blank")
		} else if !zipPattern.MatchString(loc.Zip) {
			verr.Add("zip", "must be a 5 digit code, optionally with a 4 digit extension")
		}
	}

	if loc.FullAddress() != "" && !loc.HasCoordinates() {
		if _, zipFailed := verr.Fields["zip"]; !zipFailed {
			verr.AddBase("Address could not be located. Please enter a valid address.")
		}
	}
}

func (uc *LocationUseCase) checkAddressUnique(ctx context.Context, loc *domain.Location, verr *errors.ValidationError) {
	if verr.HasErrors() {
		return
	}
	exists, err := uc.locationRepo.ExistsAddress(ctx, loc)
	if err != nil {
		uc.logger.Error("Address uniqueness check failed", zap.Error(err))
		return
	}
	if exists {
		verr.Add("address", "has already been submitted for this city")
	}
}

func (uc *LocationUseCase) isPrimaryCountry(country string) bool {
	if strings.EqualFold(country, uc.primaryCountry) {
		return true
	}
	// The US appears as several spellings in user input.
	if strings.EqualFold(uc.primaryCountry, "US") {
		switch strings.ToUpper(country) {
		case "USA", "UNITED STATES", "UNITED STATES OF AMERICA":
			return true
		}
	}
	return false
}

func parseFeatureIDs(raw []string) ([]uuid.UUID, *errors.ValidationError) {
	verr := errors.NewValidationError()
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			verr.Add("feature_ids", "contains an invalid feature id")
			continue
		}
		ids = append(ids, id)
	}
	return ids, verr
}

// Get loads the full detail view: location, features, pictures with
// presigned URLs, reviews newest first, and the favorited flag for the
// optional requesting user.
func (uc *LocationUseCase) Get(ctx context.Context, id uuid.UUID, user *domain.User) (*dto.LocationDetailResponse, error) {
	loc, err := uc.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	features, err := uc.locationRepo.FeaturesFor(ctx, id)
	if err != nil {
		return nil, err
	}
	loc.Features = features

	pictures, err := uc.pictureRepo.ListByLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range pictures {
		url, err := uc.storage.PresignedURL(ctx, pictures[i].ObjectKey, pictureURLExpiry)
		if err != nil {
			uc.logger.Warn("Failed to presign picture URL",
				zap.String("picture_id", pictures[i].ID.String()),
				zap.Error(err))
			continue
		}
		pictures[i].URL = url
	}
	loc.Pictures = pictures

	reviews, err := uc.reviewRepo.ListByLocation(ctx, id)
	if err != nil {
		return nil, err
	}

	favorited := false
	if user != nil {
		favorited, err = uc.favoriteRepo.Exists(ctx, user.ID, id)
		if err != nil {
			return nil, err
		}
	}

	return &dto.LocationDetailResponse{
		Location:    *loc,
		Reviews:     reviews,
		IsFavorited: favorited,
	}, nil
}

// Delete destroys an owned location. Reviews, feature links, favorites
// and picture rows cascade; picture blobs are purged best-effort.
func (uc *LocationUseCase) Delete(ctx context.Context, user *domain.User, id uuid.UUID) error {
	loc, err := uc.locationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if loc.UserID != user.ID {
		return errors.ErrNotOwner
	}

	pictures, err := uc.pictureRepo.ListByLocation(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.locationRepo.Delete(ctx, id); err != nil {
		return err
	}

	for _, picture := range pictures {
		if err := uc.storage.Delete(ctx, picture.ObjectKey); err != nil {
			uc.logger.Warn("Failed to purge picture blob",
				zap.String("object_key", picture.ObjectKey),
				zap.Error(err))
		}
	}

	uc.logger.Info("Location deleted", zap.String("id", id.String()))
	return nil
}

// Favorite bookmarks the location for the user. Repeated attempts are
// idempotent no-ops.
func (uc *LocationUseCase) Favorite(ctx context.Context, user *domain.User, locationID uuid.UUID) error {
	if _, err := uc.locationRepo.GetByID(ctx, locationID); err != nil {
		return err
	}

	exists, err := uc.favoriteRepo.Exists(ctx, user.ID, locationID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return uc.favoriteRepo.Add(ctx, user.ID, locationID)
}

// Unfavorite removes the bookmark; removing an absent bookmark is a
// no-op.
func (uc *LocationUseCase) Unfavorite(ctx context.Context, user *domain.User, locationID uuid.UUID) error {
	if _, err := uc.locationRepo.GetByID(ctx, locationID); err != nil {
		return err
	}
	return uc.favoriteRepo.Remove(ctx, user.ID, locationID)
}
