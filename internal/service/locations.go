package service

import (
	"context"

	"lore-server/internal/models"
)

func (s *LoreService) ListLocations(ctx context.Context) ([]*models.Location, error) {
	return s.locations.List(ctx)
}

func (s *LoreService) GetLocation(ctx context.Context, id int64) (*models.Location, error) {
	return s.locations.GetByID(ctx, id)
}

func applyLocation(l *models.Location, in models.LocationInput) {
	setString(&l.Name, in.Name)
	setString(&l.Description, in.Description)
	setString(&l.LocationType, in.LocationType)
	setOptional(&l.ParentID, in.ParentID)
	applyAudit(&l.Audit, in.AuditInput)
}

func (s *LoreService) CreateLocation(ctx context.Context, userID uint64, in models.LocationInput) (*models.Location, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := checkRequired("name", in.Name, modeCreate); err != nil {
		return nil, err
	}
	l := &models.Location{Audit: newAudit(userID, in.AuditInput)}
	applyLocation(l, in)
	if err := s.locations.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LoreService) UpdateLocation(ctx context.Context, userID uint64, id int64, in models.LocationInput, partial bool) (*models.Location, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	l, err := s.locations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(&l.Audit, userID); err != nil {
		return nil, err
	}
	if err := checkRequired("name", in.Name, modeFor(partial)); err != nil {
		return nil, err
	}
	applyLocation(l, in)
	if err := checkNotSelf("parent", l.ID, l.ParentID); err != nil {
		return nil, err
	}
	if err := s.locations.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LoreService) DeleteLocation(ctx context.Context, userID uint64, id int64) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	l, err := s.locations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(&l.Audit, userID); err != nil {
		return err
	}
	return s.locations.Delete(ctx, id)
}
