package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/place-directory/internal/domain"
)

// ReviewRepository persists reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error)

	// ListByLocation returns the location's reviews, newest first.
	ListByLocation(ctx context.Context, locationID uuid.UUID) ([]domain.Review, error)
}
