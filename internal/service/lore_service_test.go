package service

import (
	"context"
	"errors"
	"testing"

	"lore-server/internal/analysis"
	"lore-server/internal/mocks"
	"lore-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) Analyze(ctx context.Context, text string) (*analysis.Result, error) {
	ret := m.Called(ctx, text)
	var r0 *analysis.Result
	if v := ret.Get(0); v != nil {
		r0 = v.(*analysis.Result)
	}
	return r0, ret.Error(1)
}

type fixture struct {
	locations  *mocks.MockLocationRepository
	factions   *mocks.MockFactionRepository
	items      *mocks.MockItemRepository
	characters *mocks.MockCharacterRepository
	stories    *mocks.MockStoryRepository
	analyzer   *mockAnalyzer
	svc        *LoreService
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		locations:  new(mocks.MockLocationRepository),
		factions:   new(mocks.MockFactionRepository),
		items:      new(mocks.MockItemRepository),
		characters: new(mocks.MockCharacterRepository),
		stories:    new(mocks.MockStoryRepository),
		analyzer:   new(mockAnalyzer),
	}
	f.svc = NewLoreService(Repositories{
		Locations:  f.locations,
		Factions:   f.factions,
		Items:      f.items,
		Characters: f.characters,
		Stories:    f.stories,
	}, f.analyzer, zap.NewNop())
	t.Cleanup(func() {
		f.locations.AssertExpectations(t)
		f.factions.AssertExpectations(t)
		f.items.AssertExpectations(t)
		f.characters.AssertExpectations(t)
		f.stories.AssertExpectations(t)
		f.analyzer.AssertExpectations(t)
	})
	return f
}

func ptr[T any](v T) *T { return &v }

func ownedBy(userID uint64) models.Audit {
	return models.Audit{CreatedBy: ptr(userID), Tags: []string{}, ExtraData: map[string]any{}}
}

func TestCreateRequiresUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateLocation(ctx, 0, models.LocationInput{Name: ptr("Nowhere")})
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	_, err = f.svc.CreateStory(ctx, 0, models.StoryInput{Title: ptr("Tale")})
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestCreateLocation(t *testing.T) {
	f := newFixture(t)
	f.locations.On("Create", mock.Anything, mock.MatchedBy(func(l *models.Location) bool {
		return l.Name == "Harbor" && l.CreatedBy != nil && *l.CreatedBy == 5 &&
			l.ParentID != nil && *l.ParentID == 3 && len(l.Tags) == 0
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Location).ID = 11
	}).Return(nil).Once()

	l, err := f.svc.CreateLocation(context.Background(), 5, models.LocationInput{
		Name:     ptr("Harbor"),
		ParentID: models.Some(ptr(int64(3))),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), l.ID)
}

func TestCreateRejectsMissingName(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateItem(context.Background(), 1, models.ItemInput{Rarity: ptr("common")})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = f.svc.CreateFaction(context.Background(), 1, models.FactionInput{Name: ptr("   ")})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestUpdateOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	existing := func() *models.Item {
		return &models.Item{ID: 4, Name: "Lamp", Rarity: "common", Audit: ownedBy(1)}
	}
	f.items.On("GetByID", mock.Anything, int64(4)).Return(existing(), nil).Times(2)
	f.items.On("Update", mock.Anything, mock.AnythingOfType("*models.Item")).Return(nil).Once()

	_, err := f.svc.UpdateItem(ctx, 2, 4, models.ItemInput{Rarity: ptr("rare")}, true)
	assert.ErrorIs(t, err, models.ErrForbidden)

	it, err := f.svc.UpdateItem(ctx, 1, 4, models.ItemInput{Rarity: ptr("rare")}, true)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", it.Name)
	assert.Equal(t, "rare", it.Rarity)

	_, err = f.svc.UpdateItem(ctx, 0, 4, models.ItemInput{}, true)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestUpdateOwnerlessIsForbidden(t *testing.T) {
	f := newFixture(t)
	f.factions.On("GetByID", mock.Anything, int64(9)).
		Return(&models.Faction{ID: 9, Name: "Orphans"}, nil).Once()

	_, err := f.svc.UpdateFaction(context.Background(), 1, 9, models.FactionInput{Name: ptr("Adopted")}, false)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestPutRequiresName(t *testing.T) {
	f := newFixture(t)
	f.locations.On("GetByID", mock.Anything, int64(2)).
		Return(&models.Location{ID: 2, Name: "Old", Audit: ownedBy(1)}, nil).Once()

	_, err := f.svc.UpdateLocation(context.Background(), 1, 2, models.LocationInput{Description: ptr("x")}, false)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestPatchClearsParentWithExplicitNull(t *testing.T) {
	f := newFixture(t)
	f.locations.On("GetByID", mock.Anything, int64(2)).
		Return(&models.Location{ID: 2, Name: "Old", ParentID: ptr(int64(1)), Audit: ownedBy(1)}, nil).Once()
	f.locations.On("Update", mock.Anything, mock.MatchedBy(func(l *models.Location) bool {
		return l.ParentID == nil && l.Name == "Old"
	})).Return(nil).Once()

	_, err := f.svc.UpdateLocation(context.Background(), 1, 2, models.LocationInput{ParentID: models.Some[*int64](nil)}, true)
	require.NoError(t, err)
}

func TestSelfParentRejected(t *testing.T) {
	f := newFixture(t)
	f.locations.On("GetByID", mock.Anything, int64(2)).
		Return(&models.Location{ID: 2, Name: "Old", Audit: ownedBy(1)}, nil).Once()
	f.stories.On("GetByID", mock.Anything, int64(8)).
		Return(&models.Story{ID: 8, Title: "T", Slug: "t", Kind: models.StoryKindArc, StoryType: models.StoryTypeLore,
			Visibility: models.VisibilityPrivate, Audit: ownedBy(1)}, nil).Once()

	_, err := f.svc.UpdateLocation(context.Background(), 1, 2, models.LocationInput{ParentID: models.Some(ptr(int64(2)))}, true)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = f.svc.UpdateStory(context.Background(), 1, 8, models.StoryInput{ParentID: models.Some(ptr(int64(8)))}, true)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestDeleteNotFound(t *testing.T) {
	f := newFixture(t)
	f.characters.On("GetByID", mock.Anything, int64(77)).Return(nil, models.ErrNotFound).Once()

	err := f.svc.DeleteCharacter(context.Background(), 1, 77)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteByOwner(t *testing.T) {
	f := newFixture(t)
	f.characters.On("GetByID", mock.Anything, int64(7)).
		Return(&models.Character{ID: 7, Name: "Tarn", Audit: ownedBy(3)}, nil).Once()
	f.characters.On("Delete", mock.Anything, int64(7)).Return(nil).Once()

	require.NoError(t, f.svc.DeleteCharacter(context.Background(), 3, 7))
}

func TestCharacterNegativeAge(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateCharacter(context.Background(), 1, models.CharacterInput{
		Name: ptr("Mira"),
		Age:  models.Some(ptr(-4)),
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestCreateStoryDefaultsAndSlug(t *testing.T) {
	f := newFixture(t)
	f.stories.On("Create", mock.Anything, mock.MatchedBy(func(s *models.Story) bool {
		return s.Slug == "the-fall-of-amber" &&
			s.Kind == models.StoryKindStandalone &&
			s.StoryType == models.StoryTypeLore &&
			s.Visibility == models.VisibilityPrivate &&
			s.Characters != nil
	})).Return(nil).Once()

	st, err := f.svc.CreateStory(context.Background(), 1, models.StoryInput{Title: ptr("The Fall of Ámber")})
	require.NoError(t, err)
	assert.Equal(t, "the-fall-of-amber", st.Slug)
}

func TestCreateStoryRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateStory(ctx, 1, models.StoryInput{Title: ptr("!!!")})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	bad := models.StoryKind("saga")
	_, err = f.svc.CreateStory(ctx, 1, models.StoryInput{Title: ptr("Saga"), Kind: &bad})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	f.stories.On("Create", mock.Anything, mock.Anything).Return(models.ErrConflict).Once()
	_, err = f.svc.CreateStory(ctx, 1, models.StoryInput{Title: ptr("Taken")})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestUpdateStoryKeepsSlug(t *testing.T) {
	f := newFixture(t)
	f.stories.On("GetByID", mock.Anything, int64(3)).
		Return(&models.Story{ID: 3, Title: "First Title", Slug: "first-title", Kind: models.StoryKindStandalone,
			StoryType: models.StoryTypeLore, Visibility: models.VisibilityPrivate, Audit: ownedBy(1)}, nil).Once()
	f.stories.On("Update", mock.Anything, mock.MatchedBy(func(s *models.Story) bool {
		return s.Slug == "first-title" && s.Title == "Second Title"
	})).Return(nil).Once()

	st, err := f.svc.UpdateStory(context.Background(), 1, 3, models.StoryInput{Title: ptr("Second Title")}, false)
	require.NoError(t, err)
	assert.Equal(t, "first-title", st.Slug)
}

func TestAnalyzeStory(t *testing.T) {
	story := func() *models.Story {
		return &models.Story{ID: 5, Title: "Dawn", Summary: "A beginning.", Body: "Light rose.", Audit: ownedBy(1)}
	}

	t.Run("owner gets result", func(t *testing.T) {
		f := newFixture(t)
		res := &analysis.Result{Summary: "ok", Meta: analysis.Meta{Mode: analysis.ModeMock}}
		f.stories.On("GetByID", mock.Anything, int64(5)).Return(story(), nil).Once()
		f.analyzer.On("Analyze", mock.Anything, "Dawn\n\nA beginning.\n\nLight rose.").Return(res, nil).Once()

		out, err := f.svc.AnalyzeStory(context.Background(), 1, 5)
		require.NoError(t, err)
		assert.Same(t, res, out.Result)
		assert.Equal(t, "Dawn", out.Story.Title)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		f := newFixture(t)
		f.stories.On("GetByID", mock.Anything, int64(5)).Return(story(), nil).Once()

		_, err := f.svc.AnalyzeStory(context.Background(), 2, 5)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.AnalyzeStory(context.Background(), 0, 5)
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})

	t.Run("pipeline error passes through", func(t *testing.T) {
		f := newFixture(t)
		f.stories.On("GetByID", mock.Anything, int64(5)).Return(story(), nil).Once()
		f.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(nil, analysis.ErrDailyBudgetExceeded).Once()

		_, err := f.svc.AnalyzeStory(context.Background(), 1, 5)
		assert.True(t, errors.Is(err, analysis.ErrDailyBudgetExceeded))
	})
}
