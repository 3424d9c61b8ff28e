package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/place-directory/internal/domain"
	"github.com/place-directory/internal/domain/repository"
	"github.com/place-directory/internal/pkg/errors"
)

type reviewRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewReviewRepository(db *DB) repository.ReviewRepository {
	return &reviewRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, location_id, user_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		review.ID, review.LocationID, review.UserID, review.Body,
	).Scan(&review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert review", zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

func (r *reviewRepository) Update(ctx context.Context, review *domain.Review) error {
	query := `
		UPDATE reviews SET body = $2, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query, review.ID, review.Body).Scan(&review.UpdatedAt)
	if err == sql.ErrNoRows {
		return errors.ErrReviewNotFound
	}
	if err != nil {
		r.logger.Error("Failed to update review", zap.String("id", review.ID.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete review", zap.String("id", id.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return errors.ErrReviewNotFound
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	query := `
		SELECT rv.id, rv.location_id, rv.user_id, rv.body, u.username,
		       rv.created_at, rv.updated_at
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.id = $1
	`

	var review domain.Review
	err := r.db.GetContext(ctx, &review, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.ErrReviewNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get review by ID", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return &review, nil
}

func (r *reviewRepository) ListByLocation(ctx context.Context, locationID uuid.UUID) ([]domain.Review, error) {
	query := `
		SELECT rv.id, rv.location_id, rv.user_id, rv.body, u.username,
		       rv.created_at, rv.updated_at
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.location_id = $1
		ORDER BY rv.created_at DESC
	`

	var reviews []domain.Review
	if err := r.db.SelectContext(ctx, &reviews, query, locationID); err != nil {
		r.logger.Error("Failed to list reviews", zap.String("location_id", locationID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return reviews, nil
}
