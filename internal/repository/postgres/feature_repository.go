package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/place-directory/internal/domain"
	"github.com/place-directory/internal/domain/repository"
	"github.com/place-directory/internal/pkg/errors"
)

type featureRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewFeatureRepository(db *DB) repository.FeatureRepository {
	return &featureRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *featureRepository) List(ctx context.Context) ([]domain.Feature, error) {
	query := `
		SELECT id, label, category
		FROM features
		ORDER BY category, label
	`

	var features []domain.Feature
	if err := r.db.SelectContext(ctx, &features, query); err != nil {
		r.logger.Error("Failed to list features", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return features, nil
}
