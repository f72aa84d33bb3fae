package service

import (
	"context"
	"fmt"

	"lore-server/internal/models"
)

func (s *LoreService) ListCharacters(ctx context.Context) ([]*models.Character, error) {
	return s.characters.List(ctx)
}

func (s *LoreService) GetCharacter(ctx context.Context, id int64) (*models.Character, error) {
	return s.characters.GetByID(ctx, id)
}

func applyCharacter(ch *models.Character, in models.CharacterInput) {
	setString(&ch.Name, in.Name)
	setString(&ch.Description, in.Description)
	setOptional(&ch.Age, in.Age)
	setString(&ch.AgeDescription, in.AgeDescription)
	setString(&ch.Species, in.Species)
	setString(&ch.Gender, in.Gender)
	setOptional(&ch.LocationID, in.LocationID)
	if in.Relationships != nil {
		ch.Relationships = *in.Relationships
	}
	setIDs(&ch.Affiliations, in.Affiliations)
	setIDs(&ch.Equipment, in.Equipment)
	applyAudit(&ch.Audit, in.AuditInput)
}

func validateCharacter(ch *models.Character) error {
	if ch.Age != nil && *ch.Age < 0 {
		return fmt.Errorf("%w: age may not be negative", models.ErrInvalidInput)
	}
	return nil
}

func (s *LoreService) CreateCharacter(ctx context.Context, userID uint64, in models.CharacterInput) (*models.Character, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := checkRequired("name", in.Name, modeCreate); err != nil {
		return nil, err
	}
	ch := &models.Character{Audit: newAudit(userID, in.AuditInput)}
	applyCharacter(ch, in)
	ch.Normalize()
	if err := validateCharacter(ch); err != nil {
		return nil, err
	}
	if err := s.characters.Create(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *LoreService) UpdateCharacter(ctx context.Context, userID uint64, id int64, in models.CharacterInput, partial bool) (*models.Character, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	ch, err := s.characters.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(&ch.Audit, userID); err != nil {
		return nil, err
	}
	if err := checkRequired("name", in.Name, modeFor(partial)); err != nil {
		return nil, err
	}
	applyCharacter(ch, in)
	ch.Normalize()
	if err := validateCharacter(ch); err != nil {
		return nil, err
	}
	if err := s.characters.Update(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *LoreService) DeleteCharacter(ctx context.Context, userID uint64, id int64) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	ch, err := s.characters.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(&ch.Audit, userID); err != nil {
		return err
	}
	return s.characters.Delete(ctx, id)
}
