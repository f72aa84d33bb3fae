package repository

import (
	"context"
	"fmt"

	"lore-server/internal/database"
	"lore-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var characterSelect = `
    SELECT c.id, c.name, c.description, c.age, c.age_description, c.species, c.gender,
           c.location_id, c.relationships, c.tags, c.extra_data, c.created_by, c.created_at, c.updated_at,
           ` + linkedIDs("character_affiliations", "character_id", "faction_id", "c") + ` AS affiliations,
           ` + linkedIDs("character_equipment", "character_id", "item_id", "c") + ` AS equipment
    FROM characters c`

const (
	createCharacterQuery = `
        INSERT INTO characters (name, description, age, age_description, species, gender,
                                location_id, relationships, tags, extra_data, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, created_at, updated_at`
	updateCharacterQuery = `
        UPDATE characters
        SET name = $2, description = $3, age = $4, age_description = $5, species = $6, gender = $7,
            location_id = $8, relationships = $9, tags = $10, extra_data = $11
        WHERE id = $1
        RETURNING updated_at`
)

var _ CharacterRepository = (*pgCharacterRepository)(nil)

type pgCharacterRepository struct {
	db     database.DBTX
	logger *zap.Logger
}

func NewPgCharacterRepository(db database.DBTX, logger *zap.Logger) CharacterRepository {
	return &pgCharacterRepository{db: db, logger: logger.Named("PgCharacterRepo")}
}

func (r *pgCharacterRepository) List(ctx context.Context) ([]*models.Character, error) {
	var characters []*models.Character
	if err := pgxscan.Select(ctx, r.db, &characters, characterSelect+` ORDER BY c.name, c.id`); err != nil {
		r.logger.Error("Failed to list characters", zap.Error(err))
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	for _, ch := range characters {
		ch.Normalize()
	}
	return characters, nil
}

func (r *pgCharacterRepository) GetByID(ctx context.Context, id int64) (*models.Character, error) {
	var character models.Character
	if err := pgxscan.Get(ctx, r.db, &character, characterSelect+` WHERE c.id = $1`, id); err != nil {
		if err = translateError(err); isKnown(err) {
			return nil, err
		}
		r.logger.Error("Failed to get character", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get character %d: %w", id, err)
	}
	character.Normalize()
	return &character, nil
}

type characterParams struct {
	auditParams
	relationships []byte
}

func encodeCharacter(ch *models.Character) (characterParams, error) {
	audit, err := encodeAudit(&ch.Audit)
	if err != nil {
		return characterParams{}, err
	}
	rel, err := jsonb(ch.Relationships, "{}")
	if err != nil {
		return characterParams{}, err
	}
	return characterParams{auditParams: audit, relationships: rel}, nil
}

func (r *pgCharacterRepository) Create(ctx context.Context, ch *models.Character) error {
	p, err := encodeCharacter(ch)
	if err != nil {
		return err
	}
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, createCharacterQuery,
			ch.Name, ch.Description, ch.Age, ch.AgeDescription, ch.Species, ch.Gender,
			ch.LocationID, p.relationships, p.tags, p.extraData, ch.CreatedBy,
		).Scan(&ch.ID, &ch.CreatedAt, &ch.UpdatedAt)
		if err != nil {
			return translateError(err)
		}
		return r.writeLinks(ctx, tx, ch)
	})
	if err != nil {
		if err = translateError(err); isKnown(err) {
			return err
		}
		r.logger.Error("Failed to create character", zap.String("name", ch.Name), zap.Error(err))
		return fmt.Errorf("failed to create character: %w", err)
	}
	ch.Normalize()
	r.logger.Info("Character created", zap.Int64("id", ch.ID))
	return nil
}

func (r *pgCharacterRepository) Update(ctx context.Context, ch *models.Character) error {
	p, err := encodeCharacter(ch)
	if err != nil {
		return err
	}
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, updateCharacterQuery,
			ch.ID, ch.Name, ch.Description, ch.Age, ch.AgeDescription, ch.Species, ch.Gender,
			ch.LocationID, p.relationships, p.tags, p.extraData,
		).Scan(&ch.UpdatedAt)
		if err != nil {
			return translateError(err)
		}
		return r.writeLinks(ctx, tx, ch)
	})
	if err != nil {
		if err = translateError(err); isKnown(err) {
			return err
		}
		r.logger.Error("Failed to update character", zap.Int64("id", ch.ID), zap.Error(err))
		return fmt.Errorf("failed to update character %d: %w", ch.ID, err)
	}
	ch.Normalize()
	return nil
}

func (r *pgCharacterRepository) writeLinks(ctx context.Context, tx pgx.Tx, ch *models.Character) error {
	if err := replaceLinks(ctx, tx, "character_affiliations", "character_id", "faction_id", ch.ID, ch.Affiliations); err != nil {
		return err
	}
	return replaceLinks(ctx, tx, "character_equipment", "character_id", "item_id", ch.ID, ch.Equipment)
}

func (r *pgCharacterRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "characters", id)
}
