package usecase_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/place-directory/internal/domain"
	apperrors "github.com/place-directory/internal/pkg/errors"
	"github.com/place-directory/internal/usecase"
)

func newPictureUseCase(
	pictureRepo *MockPictureRepository,
	locationRepo *MockLocationRepository,
	storage *MockStorageRepository,
) *usecase.PictureUseCase {
	return usecase.NewPictureUseCase(pictureRepo, locationRepo, storage, zap.NewNop())
}

func TestPictureUseCase_Add(t *testing.T) {
	ctx := context.Background()
	owner := &domain.User{ID: uuid.New()}
	locationID := uuid.New()
	loc := &domain.Location{ID: locationID, UserID: owner.ID}

	t.Run("uploads and records a picture", func(t *testing.T) {
		pictureRepo := &MockPictureRepository{}
		locationRepo := &MockLocationRepository{}
		storage := &MockStorageRepository{}
		uc := newPictureUseCase(pictureRepo, locationRepo, storage)

		locationRepo.On("GetByID", ctx, locationID).Return(loc, nil).Once()
		storage.On("Upload", ctx, mock.Anything, mock.Anything, int64(42), "image/jpeg").Return(nil).Once()
		pictureRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		picture, err := uc.Add(ctx, owner, locationID, bytes.NewReader(nil), 42, "image/jpeg", "  ramp entrance  ")

		require.NoError(t, err)
		assert.Equal(t, locationID, picture.LocationID)
		assert.Equal(t, "ramp entrance", picture.AltText)
		assert.Contains(t, picture.ObjectKey, "locations/"+locationID.String())
	})

	t.Run("rejects unsupported content types", func(t *testing.T) {
		pictureRepo := &MockPictureRepository{}
		locationRepo := &MockLocationRepository{}
		storage := &MockStorageRepository{}
		uc := newPictureUseCase(pictureRepo, locationRepo, storage)

		locationRepo.On("GetByID", ctx, locationID).Return(loc, nil).Once()

		_, err := uc.Add(ctx, owner, locationID, bytes.NewReader(nil), 42, "application/pdf", "")

		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		storage.AssertNotCalled(t, "Upload")
	})

	t.Run("rejects attachments by non-owners", func(t *testing.T) {
		pictureRepo := &MockPictureRepository{}
		locationRepo := &MockLocationRepository{}
		uc := newPictureUseCase(pictureRepo, locationRepo, &MockStorageRepository{})

		locationRepo.On("GetByID", ctx, locationID).
			Return(&domain.Location{ID: locationID, UserID: uuid.New()}, nil).Once()

		_, err := uc.Add(ctx, owner, locationID, bytes.NewReader(nil), 42, "image/jpeg", "")

		assert.Equal(t, apperrors.ErrNotOwner, err)
	})

	t.Run("cleans up the blob when the row insert fails", func(t *testing.T) {
		pictureRepo := &MockPictureRepository{}
		locationRepo := &MockLocationRepository{}
		storage := &MockStorageRepository{}
		uc := newPictureUseCase(pictureRepo, locationRepo, storage)

		locationRepo.On("GetByID", ctx, locationID).Return(loc, nil).Once()
		storage.On("Upload", ctx, mock.Anything, mock.Anything, int64(42), "image/jpeg").Return(nil).Once()
		pictureRepo.On("Create", ctx, mock.Anything).Return(assert.AnError).Once()
		storage.On("Delete", ctx, mock.Anything).Return(nil).Once()

		_, err := uc.Add(ctx, owner, locationID, bytes.NewReader(nil), 42, "image/jpeg", "")

		assert.Error(t, err)
		storage.AssertExpectations(t)
	})
}

func TestPictureUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	owner := &domain.User{ID: uuid.New()}
	locationID := uuid.New()
	pictureID := uuid.New()

	t.Run("owner deletes row and blob", func(t *testing.T) {
		pictureRepo := &MockPictureRepository{}
		locationRepo := &MockLocationRepository{}
		storage := &MockStorageRepository{}
		uc := newPictureUseCase(pictureRepo, locationRepo, storage)

		pictureRepo.On("GetByID", ctx, pictureID).
			Return(&domain.Picture{ID: pictureID, LocationID: locationID, ObjectKey: "locations/x/1"}, nil).Once()
		locationRepo.On("GetByID", ctx, locationID).
			Return(&domain.Location{ID: locationID, UserID: owner.ID}, nil).Once()
		pictureRepo.On("Delete", ctx, pictureID).Return(nil).Once()
		storage.On("Delete", ctx, "locations/x/1").Return(nil).Once()

		assert.NoError(t, uc.Delete(ctx, owner, pictureID))
		storage.AssertExpectations(t)
	})

	t.Run("non-owner cannot delete", func(t *testing.T) {
		pictureRepo := &MockPictureRepository{}
		locationRepo := &MockLocationRepository{}
		uc := newPictureUseCase(pictureRepo, locationRepo, &MockStorageRepository{})

		pictureRepo.On("GetByID", ctx, pictureID).
			Return(&domain.Picture{ID: pictureID, LocationID: locationID}, nil).Once()
		locationRepo.On("GetByID", ctx, locationID).
			Return(&domain.Location{ID: locationID, UserID: uuid.New()}, nil).Once()

		err := uc.Delete(ctx, owner, pictureID)

		assert.Equal(t, apperrors.ErrNotOwner, err)
		pictureRepo.AssertNotCalled(t, "Delete")
	})
}
