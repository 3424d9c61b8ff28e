package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/place-directory/internal/domain"
	"github.com/place-directory/internal/domain/repository"
	"github.com/place-directory/internal/pkg/errors"
)

const pictureMaxBytes = 10 << 20

var allowedPictureTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// PictureUseCase attaches pictures to locations. Blobs live in object
// storage, metadata in postgres. Only the location owner may attach or
// remove pictures.
type PictureUseCase struct {
	pictureRepo  repository.PictureRepository
	locationRepo repository.LocationRepository
	storage      repository.StorageRepository
	logger       *zap.Logger
}

func NewPictureUseCase(
	pictureRepo repository.PictureRepository,
	locationRepo repository.LocationRepository,
	storage repository.StorageRepository,
	logger *zap.Logger,
) *PictureUseCase {
	return &PictureUseCase{
		pictureRepo:  pictureRepo,
		locationRepo: locationRepo,
		storage:      storage,
		logger:       logger,
	}
}

// Add uploads the blob and records the picture row.
func (uc *PictureUseCase) Add(ctx context.Context, user *domain.User, locationID uuid.UUID, reader io.Reader, size int64, contentType, altText string) (*domain.Picture, error) {
	loc, err := uc.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if loc.UserID != user.ID {
		return nil, errors.ErrNotOwner
	}

	verr := errors.NewValidationError()
	if _, ok := allowedPictureTypes[contentType]; !ok {
		verr.Add("picture", "must be a JPEG, PNG or WebP image")
	}
	if size <= 0 || size > pictureMaxBytes {
		verr.Add("picture", "must be at most 10 MB")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	picture := &domain.Picture{
		ID:          uuid.New(),
		LocationID:  locationID,
		ObjectKey:   fmt.Sprintf("locations/%s/%s", locationID, uuid.NewString()),
		ContentType: contentType,
		AltText:     strings.TrimSpace(altText),
	}

	if err := uc.storage.Upload(ctx, picture.ObjectKey, reader, size, contentType); err != nil {
		return nil, err
	}
	if err := uc.pictureRepo.Create(ctx, picture); err != nil {
		// Orphaned blob, best-effort cleanup.
		if derr := uc.storage.Delete(ctx, picture.ObjectKey); derr != nil {
			uc.logger.Warn("Failed to clean up orphaned picture blob",
				zap.String("object_key", picture.ObjectKey),
				zap.Error(derr))
		}
		return nil, err
	}

	uc.logger.Info("Picture added",
		zap.String("id", picture.ID.String()),
		zap.String("location_id", locationID.String()))
	return picture, nil
}

// UpdateAltText changes the accessibility caption of a picture.
func (uc *PictureUseCase) UpdateAltText(ctx context.Context, user *domain.User, id uuid.UUID, altText string) error {
	if _, err := uc.ownedPicture(ctx, user, id); err != nil {
		return err
	}
	return uc.pictureRepo.UpdateAltText(ctx, id, strings.TrimSpace(altText))
}

// Delete removes the row and purges the blob best-effort.
func (uc *PictureUseCase) Delete(ctx context.Context, user *domain.User, id uuid.UUID) error {
	picture, err := uc.ownedPicture(ctx, user, id)
	if err != nil {
		return err
	}

	if err := uc.pictureRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := uc.storage.Delete(ctx, picture.ObjectKey); err != nil {
		uc.logger.Warn("Failed to purge picture blob",
			zap.String("object_key", picture.ObjectKey),
			zap.Error(err))
	}
	return nil
}

func (uc *PictureUseCase) ownedPicture(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.Picture, error) {
	picture, err := uc.pictureRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	loc, err := uc.locationRepo.GetByID(ctx, picture.LocationID)
	if err != nil {
		return nil, err
	}
	if loc.UserID != user.ID {
		return nil, errors.ErrNotOwner
	}
	return picture, nil
}
