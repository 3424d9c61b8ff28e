package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/place-directory/internal/domain"
	"github.com/place-directory/internal/domain/repository"
	"github.com/place-directory/internal/pkg/errors"
)

type locationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewLocationRepository(db *DB) repository.LocationRepository {
	return &locationRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

const locationColumns = `
	l.id, l.user_id, l.name, l.address, l.city, l.state, l.zip, l.country,
	l.latitude, l.longitude, l.created_at, l.updated_at`

func (r *locationRepository) Create(ctx context.Context, loc *domain.Location, featureIDs []uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer tx.Rollback()

	query := `
		INSERT INTO locations (id, user_id, name, address, city, state, zip, country, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err = tx.QueryRowContext(ctx, query,
		loc.ID, loc.UserID, loc.Name, loc.Address, loc.City, loc.State,
		loc.Zip, loc.Country, loc.Latitude, loc.Longitude,
	).Scan(&loc.CreatedAt, &loc.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert location", zap.Error(err))
		return errors.ErrDatabaseError
	}

	if err := replaceFeatures(ctx, tx, loc.ID, featureIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit location insert", zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

func (r *locationRepository) Update(ctx context.Context, loc *domain.Location, featureIDs []uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer tx.Rollback()

	query := `
		UPDATE locations
		SET name = $2, address = $3, city = $4, state = $5, zip = $6,
		    country = $7, latitude = $8, longitude = $9, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err = tx.QueryRowContext(ctx, query,
		loc.ID, loc.Name, loc.Address, loc.City, loc.State,
		loc.Zip, loc.Country, loc.Latitude, loc.Longitude,
	).Scan(&loc.UpdatedAt)
	if err == sql.ErrNoRows {
		return errors.ErrLocationNotFound
	}
	if err != nil {
		r.logger.Error("Failed to update location", zap.String("id", loc.ID.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	if featureIDs != nil {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM location_features WHERE location_id = $1`, loc.ID); err != nil {
			r.logger.Error("Failed to clear location features", zap.Error(err))
			return errors.ErrDatabaseError
		}
		if err := replaceFeatures(ctx, tx, loc.ID, featureIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit location update", zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

func replaceFeatures(ctx context.Context, tx *sqlx.Tx, locationID uuid.UUID, featureIDs []uuid.UUID) error {
	for _, fid := range featureIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO location_features (location_id, feature_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, locationID, fid)
		if err != nil {
			return errors.ErrDatabaseError
		}
	}
	return nil
}

func (r *locationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Reviews, feature links, favorites and picture rows cascade in the schema.
	res, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete location", zap.String("id", id.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return errors.ErrLocationNotFound
	}
	return nil
}

func (r *locationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	query := fmt.Sprintf(`SELECT %s FROM locations l WHERE l.id = $1`, locationColumns)

	var loc domain.Location
	err := r.db.GetContext(ctx, &loc, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.ErrLocationNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get location by ID", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return &loc, nil
}

// Filter applies the combinable predicates in one query: full-text search
// AND favorites AND (feature_1 OR feature_2 OR ...). The feature join can
// produce duplicate rows per matching feature, hence the DISTINCT. Rows
// without coordinates are excluded since they cannot be distance-ranked.
func (r *locationRepository) Filter(ctx context.Context, filter domain.LocationFilter) ([]domain.Location, error) {
	query, args := buildFilterQuery(filter)

	var locations []domain.Location
	if err := r.db.SelectContext(ctx, &locations, query, args...); err != nil {
		r.logger.Error("Failed to filter locations", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return locations, nil
}

func (r *locationRepository) ExistsAddress(ctx context.Context, loc *domain.Location) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM locations
			WHERE lower(address) = lower($1)
			  AND lower(city) = lower($2)
			  AND lower(state) = lower($3)
			  AND lower(zip) = lower($4)
			  AND lower(country) = lower($5)
			  AND id <> $6
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query,
		loc.Address, loc.City, loc.State, loc.Zip, loc.Country, loc.ID)
	if err != nil {
		r.logger.Error("Failed to check address uniqueness", zap.Error(err))
		return false, errors.ErrDatabaseError
	}
	return exists, nil
}

func (r *locationRepository) FeaturesFor(ctx context.Context, locationID uuid.UUID) ([]domain.Feature, error) {
	query := `
		SELECT f.id, f.label, f.category
		FROM features f
		JOIN location_features lf ON lf.feature_id = f.id
		WHERE lf.location_id = $1
		ORDER BY f.category, f.label
	`

	var features []domain.Feature
	if err := r.db.SelectContext(ctx, &features, query, locationID); err != nil {
		r.logger.Error("Failed to load location features", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return features, nil
}

func buildFilterQuery(filter domain.LocationFilter) (string, []interface{}) {
	var (
		joins      []string
		conditions = []string{"l.latitude IS NOT NULL", "l.longitude IS NOT NULL"}
		args       []interface{}
		distinct   string
	)

	// Input made only of tsquery syntax characters strips down to an empty
	// expression, which to_tsquery rejects. Treat it like a blank query.
	if ts := prefixTSQuery(filter.Query); ts != "" {
		args = append(args, ts)
		conditions = append(conditions,
			fmt.Sprintf("l.search_vector @@ to_tsquery('simple', $%d)", len(args)))
	}

	if filter.Favorites && filter.UserID != nil {
		args = append(args, *filter.UserID)
		joins = append(joins,
			fmt.Sprintf("JOIN favorites fav ON fav.location_id = l.id AND fav.user_id = $%d", len(args)))
	}

	if len(filter.FeatureIDs) > 0 {
		ids := make([]string, len(filter.FeatureIDs))
		for i, fid := range filter.FeatureIDs {
			ids[i] = fid.String()
		}
		args = append(args, pq.Array(ids))
		joins = append(joins, "JOIN location_features lf ON lf.location_id = l.id")
		conditions = append(conditions, fmt.Sprintf("lf.feature_id = ANY($%d::uuid[])", len(args)))
		distinct = "DISTINCT "
	}

	query := fmt.Sprintf(
		"SELECT %s%s FROM locations l %s WHERE %s",
		distinct,
		locationColumns,
		strings.Join(joins, " "),
		strings.Join(conditions, " AND "),
	)
	return query, args
}

// prefixTSQuery turns free text into a prefix-aware tsquery string:
// every term gets a :* suffix and terms combine with AND. Characters
// with tsquery syntax meaning are stripped.
func prefixTSQuery(q string) string {
	fields := strings.FieldsFunc(q, func(r rune) bool {
		switch r {
		case '&', '|', '!', '(', ')', ':', '*', '\'', '"', '\\', '<', '>':
			return true
		}
		return r == ' ' || r == '\t' || r == '\n' || r == ','
	})

	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		terms = append(terms, f+":*")
	}
	return strings.Join(terms, " & ")
}
