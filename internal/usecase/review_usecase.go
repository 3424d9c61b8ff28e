package usecase

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/place-directory/internal/domain"
	"github.com/place-directory/internal/domain/repository"
	"github.com/place-directory/internal/pkg/errors"
	"github.com/place-directory/internal/usecase/dto"
)

const reviewMinLength = 10

// ProfanityChecker screens review bodies for offensive language.
type ProfanityChecker interface {
	IsProfane(text string) bool
}

// ReviewUseCase manages reviews attached to a location. Only the author
// may change or remove a review.
type ReviewUseCase struct {
	reviewRepo   repository.ReviewRepository
	locationRepo repository.LocationRepository
	profanity    ProfanityChecker
	logger       *zap.Logger
}

func NewReviewUseCase(
	reviewRepo repository.ReviewRepository,
	locationRepo repository.LocationRepository,
	profanity ProfanityChecker,
	logger *zap.Logger,
) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo:   reviewRepo,
		locationRepo: locationRepo,
		profanity:    profanity,
		logger:       logger,
	}
}

// Create validates and persists a review on the given location.
func (uc *ReviewUseCase) Create(ctx context.Context, user *domain.User, locationID uuid.UUID, req dto.SaveReviewRequest) (*domain.Review, error) {
	if _, err := uc.locationRepo.GetByID(ctx, locationID); err != nil {
		return nil, err
	}

	body := strings.TrimSpace(req.Body)
	if verr := uc.validateBody(body); verr.HasErrors() {
		return nil, verr
	}

	review := &domain.Review{
		ID:         uuid.New(),
		LocationID: locationID,
		UserID:     user.ID,
		Body:       body,
		Username:   user.Username,
	}
	if err := uc.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	uc.logger.Info("Review created",
		zap.String("id", review.ID.String()),
		zap.String("location_id", locationID.String()))
	return review, nil
}

// Update replaces the body of an owned review.
func (uc *ReviewUseCase) Update(ctx context.Context, user *domain.User, id uuid.UUID, req dto.SaveReviewRequest) (*domain.Review, error) {
	review, err := uc.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.UserID != user.ID {
		return nil, errors.ErrNotOwner
	}

	body := strings.TrimSpace(req.Body)
	if verr := uc.validateBody(body); verr.HasErrors() {
		return nil, verr
	}

	review.Body = body
	if err := uc.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes an owned review.
func (uc *ReviewUseCase) Delete(ctx context.Context, user *domain.User, id uuid.UUID) error {
	review, err := uc.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if review.UserID != user.ID {
		return errors.ErrNotOwner
	}
	return uc.reviewRepo.Delete(ctx, id)
}

// ListByLocation returns the location's reviews, newest first.
func (uc *ReviewUseCase) ListByLocation(ctx context.Context, locationID uuid.UUID) ([]domain.Review, error) {
	if _, err := uc.locationRepo.GetByID(ctx, locationID); err != nil {
		return nil, err
	}
	return uc.reviewRepo.ListByLocation(ctx, locationID)
}

func (uc *ReviewUseCase) validateBody(body string) *errors.ValidationError {
	verr := errors.NewValidationError()
	if body == "" {
		verr.Add("body", "can't be blank")
		return verr
	}
	if utf8.RuneCountInString(body) < reviewMinLength {
		verr.Add("body", "is too short (minimum is 10 characters)")
	}
	if uc.profanity.IsProfane(body) {
		verr.Add("body", "contains offensive language")
	}
	return verr
}
