package repository

import (
	"context"
	"fmt"

	"lore-server/internal/database"
	"lore-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"go.uber.org/zap"
)

const (
	locationColumns = `id, name, description, location_type, parent_id, tags, extra_data, created_by, created_at, updated_at`

	listLocationsQuery  = `SELECT ` + locationColumns + ` FROM locations ORDER BY name, id`
	getLocationQuery    = `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	createLocationQuery = `
        INSERT INTO locations (name, description, location_type, parent_id, tags, extra_data, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`
	updateLocationQuery = `
        UPDATE locations
        SET name = $2, description = $3, location_type = $4, parent_id = $5, tags = $6, extra_data = $7
        WHERE id = $1
        RETURNING updated_at`
)

var _ LocationRepository = (*pgLocationRepository)(nil)

type pgLocationRepository struct {
	db     database.DBTX
	logger *zap.Logger
}

func NewPgLocationRepository(db database.DBTX, logger *zap.Logger) LocationRepository {
	return &pgLocationRepository{db: db, logger: logger.Named("PgLocationRepo")}
}

func (r *pgLocationRepository) List(ctx context.Context) ([]*models.Location, error) {
	var locations []*models.Location
	if err := pgxscan.Select(ctx, r.db, &locations, listLocationsQuery); err != nil {
		r.logger.Error("Failed to list locations", zap.Error(err))
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	for _, l := range locations {
		l.Normalize()
	}
	return locations, nil
}

func (r *pgLocationRepository) GetByID(ctx context.Context, id int64) (*models.Location, error) {
	var location models.Location
	if err := pgxscan.Get(ctx, r.db, &location, getLocationQuery, id); err != nil {
		if err = translateError(err); isKnown(err) {
			return nil, err
		}
		r.logger.Error("Failed to get location", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get location %d: %w", id, err)
	}
	location.Normalize()
	return &location, nil
}

func (r *pgLocationRepository) Create(ctx context.Context, l *models.Location) error {
	audit, err := encodeAudit(&l.Audit)
	if err != nil {
		return err
	}
	err = r.db.QueryRow(ctx, createLocationQuery,
		l.Name, l.Description, l.LocationType, l.ParentID, audit.tags, audit.extraData, l.CreatedBy,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if err = translateError(err); isKnown(err) {
			return err
		}
		r.logger.Error("Failed to create location", zap.String("name", l.Name), zap.Error(err))
		return fmt.Errorf("failed to create location: %w", err)
	}
	l.Normalize()
	r.logger.Info("Location created", zap.Int64("id", l.ID))
	return nil
}

func (r *pgLocationRepository) Update(ctx context.Context, l *models.Location) error {
	audit, err := encodeAudit(&l.Audit)
	if err != nil {
		return err
	}
	err = r.db.QueryRow(ctx, updateLocationQuery,
		l.ID, l.Name, l.Description, l.LocationType, l.ParentID, audit.tags, audit.extraData,
	).Scan(&l.UpdatedAt)
	if err != nil {
		if err = translateError(err); isKnown(err) {
			return err
		}
		r.logger.Error("Failed to update location", zap.Int64("id", l.ID), zap.Error(err))
		return fmt.Errorf("failed to update location %d: %w", l.ID, err)
	}
	l.Normalize()
	return nil
}

func (r *pgLocationRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "locations", id)
}
