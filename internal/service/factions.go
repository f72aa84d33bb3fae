package service

import (
	"context"

	"lore-server/internal/models"
)

func (s *LoreService) ListFactions(ctx context.Context) ([]*models.Faction, error) {
	return s.factions.List(ctx)
}

func (s *LoreService) GetFaction(ctx context.Context, id int64) (*models.Faction, error) {
	return s.factions.GetByID(ctx, id)
}

func applyFaction(f *models.Faction, in models.FactionInput) {
	setString(&f.Name, in.Name)
	setString(&f.Description, in.Description)
	setString(&f.FactionType, in.FactionType)
	setOptional(&f.LocationID, in.LocationID)
	applyAudit(&f.Audit, in.AuditInput)
}

func (s *LoreService) CreateFaction(ctx context.Context, userID uint64, in models.FactionInput) (*models.Faction, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := checkRequired("name", in.Name, modeCreate); err != nil {
		return nil, err
	}
	f := &models.Faction{Audit: newAudit(userID, in.AuditInput)}
	applyFaction(f, in)
	if err := s.factions.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *LoreService) UpdateFaction(ctx context.Context, userID uint64, id int64, in models.FactionInput, partial bool) (*models.Faction, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	f, err := s.factions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(&f.Audit, userID); err != nil {
		return nil, err
	}
	if err := checkRequired("name", in.Name, modeFor(partial)); err != nil {
		return nil, err
	}
	applyFaction(f, in)
	if err := s.factions.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *LoreService) DeleteFaction(ctx context.Context, userID uint64, id int64) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	f, err := s.factions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(&f.Audit, userID); err != nil {
		return err
	}
	return s.factions.Delete(ctx, id)
}
