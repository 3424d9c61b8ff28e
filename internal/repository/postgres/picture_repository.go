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

type pictureRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPictureRepository(db *DB) repository.PictureRepository {
	return &pictureRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *pictureRepository) Create(ctx context.Context, picture *domain.Picture) error {
	query := `
		INSERT INTO pictures (id, location_id, object_key, content_type, alt_text)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		picture.ID, picture.LocationID, picture.ObjectKey,
		picture.ContentType, picture.AltText,
	).Scan(&picture.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert picture", zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

func (r *pictureRepository) UpdateAltText(ctx context.Context, id uuid.UUID, altText string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE pictures SET alt_text = $2 WHERE id = $1`, id, altText)
	if err != nil {
		r.logger.Error("Failed to update picture alt text", zap.String("id", id.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return errors.ErrPictureNotFound
	}
	return nil
}

func (r *pictureRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pictures WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete picture", zap.String("id", id.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return errors.ErrPictureNotFound
	}
	return nil
}

func (r *pictureRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Picture, error) {
	query := `
		SELECT id, location_id, object_key, content_type, alt_text, created_at
		FROM pictures
		WHERE id = $1
	`

	var picture domain.Picture
	err := r.db.GetContext(ctx, &picture, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.ErrPictureNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get picture by ID", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return &picture, nil
}

func (r *pictureRepository) ListByLocation(ctx context.Context, locationID uuid.UUID) ([]domain.Picture, error) {
	query := `
		SELECT id, location_id, object_key, content_type, alt_text, created_at
		FROM pictures
		WHERE location_id = $1
		ORDER BY created_at
	`

	var pictures []domain.Picture
	if err := r.db.SelectContext(ctx, &pictures, query, locationID); err != nil {
		r.logger.Error("Failed to list pictures", zap.String("location_id", locationID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return pictures, nil
}
