package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/place-directory/internal/domain/repository"
	"github.com/place-directory/internal/pkg/errors"
)

type favoriteRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewFavoriteRepository(db *DB) repository.FavoriteRepository {
	return &favoriteRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// Add inserts the favorite row. The unique index backstops concurrent
// duplicate attempts, so a conflicting insert is a no-op rather than an
// error surfaced to the caller.
func (r *favoriteRepository) Add(ctx context.Context, userID, locationID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, location_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, location_id) DO NOTHING
	`, userID, locationID)
	if err != nil {
		r.logger.Error("Failed to add favorite",
			zap.String("user_id", userID.String()),
			zap.String("location_id", locationID.String()),
			zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, locationID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND location_id = $2
	`, userID, locationID)
	if err != nil {
		r.logger.Error("Failed to remove favorite",
			zap.String("user_id", userID.String()),
			zap.String("location_id", locationID.String()),
			zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, locationID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND location_id = $2)
	`, userID, locationID)
	if err != nil {
		r.logger.Error("Failed to check favorite", zap.Error(err))
		return false, errors.ErrDatabaseError
	}
	return exists, nil
}

func (r *favoriteRepository) IDsForUser(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, `
		SELECT location_id FROM favorites WHERE user_id = $1
	`, userID)
	if err != nil {
		r.logger.Error("Failed to load favorite ids", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
