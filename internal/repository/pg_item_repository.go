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
	itemColumns = `id, name, description, item_type, rarity, tags, extra_data, created_by, created_at, updated_at`

	listItemsQuery  = `SELECT ` + itemColumns + ` FROM items ORDER BY name, id`
	getItemQuery    = `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	createItemQuery = `
        INSERT INTO items (name, description, item_type, rarity, tags, extra_data, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`
	updateItemQuery = `
        UPDATE items
        SET name = $2, description = $3, item_type = $4, rarity = $5, tags = $6, extra_data = $7
        WHERE id = $1
        RETURNING updated_at`
)

var _ ItemRepository = (*pgItemRepository)(nil)

type pgItemRepository struct {
	db     database.DBTX
	logger *zap.Logger
}

func NewPgItemRepository(db database.DBTX, logger *zap.Logger) ItemRepository {
	return &pgItemRepository{db: db, logger: logger.Named("PgItemRepo")}
}

func (r *pgItemRepository) List(ctx context.Context) ([]*models.Item, error) {
	var items []*models.Item
	if err := pgxscan.Select(ctx, r.db, &items, listItemsQuery); err != nil {
		r.logger.Error("Failed to list items", zap.Error(err))
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	for _, it := range items {
		it.Normalize()
	}
	return items, nil
}

func (r *pgItemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	if err := pgxscan.Get(ctx, r.db, &item, getItemQuery, id); err != nil {
		if err = translateError(err); isKnown(err) {
			return nil, err
		}
		r.logger.Error("Failed to get item", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get item %d: %w", id, err)
	}
	item.Normalize()
	return &item, nil
}

func (r *pgItemRepository) Create(ctx context.Context, it *models.Item) error {
	audit, err := encodeAudit(&it.Audit)
	if err != nil {
		return err
	}
	err = r.db.QueryRow(ctx, createItemQuery,
		it.Name, it.Description, it.ItemType, it.Rarity, audit.tags, audit.extraData, it.CreatedBy,
	).Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if err = translateError(err); isKnown(err) {
			return err
		}
		r.logger.Error("Failed to create item", zap.String("name", it.Name), zap.Error(err))
		return fmt.Errorf("failed to create item: %w", err)
	}
	it.Normalize()
	r.logger.Info("Item created", zap.Int64("id", it.ID))
	return nil
}

func (r *pgItemRepository) Update(ctx context.Context, it *models.Item) error {
	audit, err := encodeAudit(&it.Audit)
	if err != nil {
		return err
	}
	err = r.db.QueryRow(ctx, updateItemQuery,
		it.ID, it.Name, it.Description, it.ItemType, it.Rarity, audit.tags, audit.extraData,
	).Scan(&it.UpdatedAt)
	if err != nil {
		if err = translateError(err); isKnown(err) {
			return err
		}
		r.logger.Error("Failed to update item", zap.Int64("id", it.ID), zap.Error(err))
		return fmt.Errorf("failed to update item %d: %w", it.ID, err)
	}
	it.Normalize()
	return nil
}

func (r *pgItemRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "items", id)
}
