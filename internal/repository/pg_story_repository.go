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

var storySelect = `
    SELECT s.id, s.title, s.slug, s.summary, s.body, s.kind, s.story_type, s.visibility,
           s.in_world_date, s.parent_id, s.sort_order, s.tags, s.extra_data, s.created_by,
           s.created_at, s.updated_at,
           ` + linkedIDs("story_characters", "story_id", "character_id", "s") + ` AS characters,
           ` + linkedIDs("story_locations", "story_id", "location_id", "s") + ` AS locations,
           ` + linkedIDs("story_factions", "story_id", "faction_id", "s") + ` AS factions,
           ` + linkedIDs("story_items", "story_id", "item_id", "s") + ` AS items
    FROM stories s`

const (
	// kind sorts alphabetically: arc, part, standalone.
	storyOrdering = ` ORDER BY s.kind, s.parent_id NULLS FIRST, s.sort_order, s.title, s.id`

	createStoryQuery = `
        INSERT INTO stories (title, slug, summary, body, kind, story_type, visibility,
                             in_world_date, parent_id, sort_order, tags, extra_data, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING id, created_at, updated_at`
	updateStoryQuery = `
        UPDATE stories
        SET title = $2, summary = $3, body = $4, kind = $5, story_type = $6, visibility = $7,
            in_world_date = $8, parent_id = $9, sort_order = $10, tags = $11, extra_data = $12
        WHERE id = $1
        RETURNING slug, updated_at`
)

var _ StoryRepository = (*pgStoryRepository)(nil)

type pgStoryRepository struct {
	db     database.DBTX
	logger *zap.Logger
}

func NewPgStoryRepository(db database.DBTX, logger *zap.Logger) StoryRepository {
	return &pgStoryRepository{db: db, logger: logger.Named("PgStoryRepo")}
}

func (r *pgStoryRepository) List(ctx context.Context) ([]*models.Story, error) {
	var stories []*models.Story
	if err := pgxscan.Select(ctx, r.db, &stories, storySelect+storyOrdering); err != nil {
		r.logger.Error("Failed to list stories", zap.Error(err))
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	for _, s := range stories {
		s.Normalize()
	}
	return stories, nil
}

func (r *pgStoryRepository) GetByID(ctx context.Context, id int64) (*models.Story, error) {
	var story models.Story
	if err := pgxscan.Get(ctx, r.db, &story, storySelect+` WHERE s.id = $1`, id); err != nil {
		if err = translateError(err); isKnown(err) {
			return nil, err
		}
		r.logger.Error("Failed to get story", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get story %d: %w", id, err)
	}
	story.Normalize()
	return &story, nil
}

func (r *pgStoryRepository) Create(ctx context.Context, s *models.Story) error {
	audit, err := encodeAudit(&s.Audit)
	if err != nil {
		return err
	}
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, createStoryQuery,
			s.Title, s.Slug, s.Summary, s.Body, string(s.Kind), string(s.StoryType), string(s.Visibility),
			s.InWorldDate, s.ParentID, s.Order, audit.tags, audit.extraData, s.CreatedBy,
		).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return translateError(err)
		}
		return r.writeLinks(ctx, tx, s)
	})
	if err != nil {
		if err = translateError(err); isKnown(err) {
			r.logger.Warn("Story rejected by database", zap.String("slug", s.Slug), zap.Error(err))
			return err
		}
		r.logger.Error("Failed to create story", zap.String("slug", s.Slug), zap.Error(err))
		return fmt.Errorf("failed to create story: %w", err)
	}
	s.Normalize()
	r.logger.Info("Story created", zap.Int64("id", s.ID), zap.String("slug", s.Slug))
	return nil
}

func (r *pgStoryRepository) Update(ctx context.Context, s *models.Story) error {
	audit, err := encodeAudit(&s.Audit)
	if err != nil {
		return err
	}
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, updateStoryQuery,
			s.ID, s.Title, s.Summary, s.Body, string(s.Kind), string(s.StoryType), string(s.Visibility),
			s.InWorldDate, s.ParentID, s.Order, audit.tags, audit.extraData,
		).Scan(&s.Slug, &s.UpdatedAt)
		if err != nil {
			return translateError(err)
		}
		return r.writeLinks(ctx, tx, s)
	})
	if err != nil {
		if err = translateError(err); isKnown(err) {
			return err
		}
		r.logger.Error("Failed to update story", zap.Int64("id", s.ID), zap.Error(err))
		return fmt.Errorf("failed to update story %d: %w", s.ID, err)
	}
	s.Normalize()
	return nil
}

func (r *pgStoryRepository) writeLinks(ctx context.Context, tx pgx.Tx, s *models.Story) error {
	links := []struct {
		table, column string
		ids           []int64
	}{
		{"story_characters", "character_id", s.Characters},
		{"story_locations", "location_id", s.Locations},
		{"story_factions", "faction_id", s.Factions},
		{"story_items", "item_id", s.Items},
	}
	for _, l := range links {
		if err := replaceLinks(ctx, tx, l.table, "story_id", l.column, s.ID, l.ids); err != nil {
			return err
		}
	}
	return nil
}

func (r *pgStoryRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "stories", id)
}
