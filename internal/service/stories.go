package service

import (
	"context"
	"fmt"

	"lore-server/internal/models"

	"go.uber.org/zap"
)

func (s *LoreService) ListStories(ctx context.Context) ([]*models.Story, error) {
	return s.stories.List(ctx)
}

func (s *LoreService) GetStory(ctx context.Context, id int64) (*models.Story, error) {
	return s.stories.GetByID(ctx, id)
}

func applyStory(st *models.Story, in models.StoryInput) {
	setString(&st.Title, in.Title)
	setString(&st.Summary, in.Summary)
	setString(&st.Body, in.Body)
	if in.Kind != nil {
		st.Kind = *in.Kind
	}
	if in.StoryType != nil {
		st.StoryType = *in.StoryType
	}
	if in.Visibility != nil {
		st.Visibility = *in.Visibility
	}
	setString(&st.InWorldDate, in.InWorldDate)
	setOptional(&st.ParentID, in.ParentID)
	if in.Order != nil {
		st.Order = *in.Order
	}
	setIDs(&st.Characters, in.Characters)
	setIDs(&st.Locations, in.Locations)
	setIDs(&st.Factions, in.Factions)
	setIDs(&st.Items, in.Items)
	applyAudit(&st.Audit, in.AuditInput)
}

func validateStory(st *models.Story) error {
	switch {
	case !st.Kind.Valid():
		return fmt.Errorf("%w: unknown kind %q", models.ErrInvalidInput, st.Kind)
	case !st.StoryType.Valid():
		return fmt.Errorf("%w: unknown story_type %q", models.ErrInvalidInput, st.StoryType)
	case !st.Visibility.Valid():
		return fmt.Errorf("%w: unknown visibility %q", models.ErrInvalidInput, st.Visibility)
	}
	return nil
}

// CreateStory derives the slug from the title. The slug is fixed from then on.
func (s *LoreService) CreateStory(ctx context.Context, userID uint64, in models.StoryInput) (*models.Story, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := checkRequired("title", in.Title, modeCreate); err != nil {
		return nil, err
	}
	st := &models.Story{
		Kind:       models.StoryKindStandalone,
		StoryType:  models.StoryTypeLore,
		Visibility: models.VisibilityPrivate,
		Audit:      newAudit(userID, in.AuditInput),
	}
	applyStory(st, in)
	st.Normalize()
	if err := validateStory(st); err != nil {
		return nil, err
	}
	st.Slug = Slugify(st.Title)
	if st.Slug == "" {
		return nil, fmt.Errorf("%w: title %q does not produce a usable slug", models.ErrInvalidInput, st.Title)
	}
	if err := s.stories.Create(ctx, st); err != nil {
		return nil, err
	}
	s.logger.Info("Story created", zap.Int64("story_id", st.ID), zap.Uint64("user_id", userID))
	return st, nil
}

func (s *LoreService) UpdateStory(ctx context.Context, userID uint64, id int64, in models.StoryInput, partial bool) (*models.Story, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	st, err := s.stories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(&st.Audit, userID); err != nil {
		return nil, err
	}
	if err := checkRequired("title", in.Title, modeFor(partial)); err != nil {
		return nil, err
	}
	applyStory(st, in)
	st.Normalize()
	if err := validateStory(st); err != nil {
		return nil, err
	}
	if err := checkNotSelf("parent", st.ID, st.ParentID); err != nil {
		return nil, err
	}
	if err := s.stories.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *LoreService) DeleteStory(ctx context.Context, userID uint64, id int64) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	st, err := s.stories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(&st.Audit, userID); err != nil {
		return err
	}
	return s.stories.Delete(ctx, id)
}
