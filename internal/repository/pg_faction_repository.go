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
	factionColumns = `id, name, description, faction_type, location_id, tags, extra_data, created_by, created_at, updated_at`

	listFactionsQuery  = `SELECT ` + factionColumns + ` FROM factions ORDER BY name, id`
	getFactionQuery    = `SELECT ` + factionColumns + ` FROM factions WHERE id = $1`
	createFactionQuery = `
        INSERT INTO factions (name, description, faction_type, location_id, tags, extra_data, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`
	updateFactionQuery = `
        UPDATE factions
        SET name = $2, description = $3, faction_type = $4, location_id = $5, tags = $6, extra_data = $7
        WHERE id = $1
        RETURNING updated_at`
)

var _ FactionRepository = (*pgFactionRepository)(nil)

type pgFactionRepository struct {
	db     database.DBTX
	logger *zap.Logger
}

func NewPgFactionRepository(db database.DBTX, logger *zap.Logger) FactionRepository {
	return &pgFactionRepository{db: db, logger: logger.Named("PgFactionRepo")}
}

func (r *pgFactionRepository) List(ctx context.Context) ([]*models.Faction, error) {
	var factions []*models.Faction
	if err := pgxscan.Select(ctx, r.db, &factions, listFactionsQuery); err != nil {
		r.logger.Error("Failed to list factions", zap.Error(err))
		return nil, fmt.Errorf("failed to list factions: %w", err)
	}
	for _, f := range factions {
		f.Normalize()
	}
	return factions, nil
}

func (r *pgFactionRepository) GetByID(ctx context.Context, id int64) (*models.Faction, error) {
	var faction models.Faction
	if err := pgxscan.Get(ctx, r.db, &faction, getFactionQuery, id); err != nil {
		if err = translateError(err); isKnown(err) {
			return nil, err
		}
		r.logger.Error("Failed to get faction", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get faction %d: %w", id, err)
	}
	faction.Normalize()
	return &faction, nil
}

func (r *pgFactionRepository) Create(ctx context.Context, f *models.Faction) error {
	audit, err := encodeAudit(&f.Audit)
	if err != nil {
		return err
	}
	err = r.db.QueryRow(ctx, createFactionQuery,
		f.Name, f.Description, f.FactionType, f.LocationID, audit.tags, audit.extraData, f.CreatedBy,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if err = translateError(err); isKnown(err) {
			return err
		}
		r.logger.Error("Failed to create faction", zap.String("name", f.Name), zap.Error(err))
		return fmt.Errorf("failed to create faction: %w", err)
	}
	f.Normalize()
	r.logger.Info("Faction created", zap.Int64("id", f.ID))
	return nil
}

func (r *pgFactionRepository) Update(ctx context.Context, f *models.Faction) error {
	audit, err := encodeAudit(&f.Audit)
	if err != nil {
		return err
	}
	err = r.db.QueryRow(ctx, updateFactionQuery,
		f.ID, f.Name, f.Description, f.FactionType, f.LocationID, audit.tags, audit.extraData,
	).Scan(&f.UpdatedAt)
	if err != nil {
		if err = translateError(err); isKnown(err) {
			return err
		}
		r.logger.Error("Failed to update faction", zap.Int64("id", f.ID), zap.Error(err))
		return fmt.Errorf("failed to update faction %d: %w", f.ID, err)
	}
	f.Normalize()
	return nil
}

func (r *pgFactionRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "factions", id)
}
