package service

import (
	"context"

	"lore-server/internal/models"
)

func (s *LoreService) ListItems(ctx context.Context) ([]*models.Item, error) {
	return s.items.List(ctx)
}

func (s *LoreService) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	return s.items.GetByID(ctx, id)
}

func applyItem(it *models.Item, in models.ItemInput) {
	setString(&it.Name, in.Name)
	setString(&it.Description, in.Description)
	setString(&it.ItemType, in.ItemType)
	setString(&it.Rarity, in.Rarity)
	applyAudit(&it.Audit, in.AuditInput)
}

func (s *LoreService) CreateItem(ctx context.Context, userID uint64, in models.ItemInput) (*models.Item, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := checkRequired("name", in.Name, modeCreate); err != nil {
		return nil, err
	}
	it := &models.Item{Audit: newAudit(userID, in.AuditInput)}
	applyItem(it, in)
	if err := s.items.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *LoreService) UpdateItem(ctx context.Context, userID uint64, id int64, in models.ItemInput, partial bool) (*models.Item, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(&it.Audit, userID); err != nil {
		return nil, err
	}
	if err := checkRequired("name", in.Name, modeFor(partial)); err != nil {
		return nil, err
	}
	applyItem(it, in)
	if err := s.items.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *LoreService) DeleteItem(ctx context.Context, userID uint64, id int64) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(&it.Audit, userID); err != nil {
		return err
	}
	return s.items.Delete(ctx, id)
}
