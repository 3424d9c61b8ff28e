package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/place-directory/internal/domain"
)

// PictureRepository persists picture metadata; the bytes live in the
// blob store.
type PictureRepository interface {
	Create(ctx context.Context, picture *domain.Picture) error
	UpdateAltText(ctx context.Context, id uuid.UUID, altText string) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Picture, error)
	ListByLocation(ctx context.Context, locationID uuid.UUID) ([]domain.Picture, error)
}
