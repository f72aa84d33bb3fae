package repository

import (
	"context"

	"lore-server/internal/models"
)

// Repositories return models.ErrNotFound for unknown ids, models.ErrConflict
// for unique violations and models.ErrInvalidInput for references to rows
// that do not exist.

type LocationRepository interface {
	List(ctx context.Context) ([]*models.Location, error)
	GetByID(ctx context.Context, id int64) (*models.Location, error)
	Create(ctx context.Context, location *models.Location) error
	Update(ctx context.Context, location *models.Location) error
	Delete(ctx context.Context, id int64) error
}

type FactionRepository interface {
	List(ctx context.Context) ([]*models.Faction, error)
	GetByID(ctx context.Context, id int64) (*models.Faction, error)
	Create(ctx context.Context, faction *models.Faction) error
	Update(ctx context.Context, faction *models.Faction) error
	Delete(ctx context.Context, id int64) error
}

type ItemRepository interface {
	List(ctx context.Context) ([]*models.Item, error)
	GetByID(ctx context.Context, id int64) (*models.Item, error)
	Create(ctx context.Context, item *models.Item) error
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id int64) error
}

// CharacterRepository stores affiliations and equipment alongside the row.
type CharacterRepository interface {
	List(ctx context.Context) ([]*models.Character, error)
	GetByID(ctx context.Context, id int64) (*models.Character, error)
	Create(ctx context.Context, character *models.Character) error
	Update(ctx context.Context, character *models.Character) error
	Delete(ctx context.Context, id int64) error
}

// StoryRepository never rewrites the slug on Update.
type StoryRepository interface {
	List(ctx context.Context) ([]*models.Story, error)
	GetByID(ctx context.Context, id int64) (*models.Story, error)
	Create(ctx context.Context, story *models.Story) error
	Update(ctx context.Context, story *models.Story) error
	Delete(ctx context.Context, id int64) error
}
