package mocks

import (
	"context"

	"lore-server/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockLocationRepository is a mock type for the repository.LocationRepository type
type MockLocationRepository struct {
	mock.Mock
}

func (_m *MockLocationRepository) List(ctx context.Context) ([]*models.Location, error) {
	ret := _m.Called(ctx)
	var r0 []*models.Location
	if v := ret.Get(0); v != nil {
		r0 = v.([]*models.Location)
	}
	return r0, ret.Error(1)
}

func (_m *MockLocationRepository) GetByID(ctx context.Context, id int64) (*models.Location, error) {
	ret := _m.Called(ctx, id)
	var r0 *models.Location
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Location)
	}
	return r0, ret.Error(1)
}

func (_m *MockLocationRepository) Create(ctx context.Context, location *models.Location) error {
	ret := _m.Called(ctx, location)
	return ret.Error(0)
}

func (_m *MockLocationRepository) Update(ctx context.Context, location *models.Location) error {
	ret := _m.Called(ctx, location)
	return ret.Error(0)
}

func (_m *MockLocationRepository) Delete(ctx context.Context, id int64) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

// MockFactionRepository is a mock type for the repository.FactionRepository type
type MockFactionRepository struct {
	mock.Mock
}

func (_m *MockFactionRepository) List(ctx context.Context) ([]*models.Faction, error) {
	ret := _m.Called(ctx)
	var r0 []*models.Faction
	if v := ret.Get(0); v != nil {
		r0 = v.([]*models.Faction)
	}
	return r0, ret.Error(1)
}

func (_m *MockFactionRepository) GetByID(ctx context.Context, id int64) (*models.Faction, error) {
	ret := _m.Called(ctx, id)
	var r0 *models.Faction
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Faction)
	}
	return r0, ret.Error(1)
}

func (_m *MockFactionRepository) Create(ctx context.Context, faction *models.Faction) error {
	ret := _m.Called(ctx, faction)
	return ret.Error(0)
}

func (_m *MockFactionRepository) Update(ctx context.Context, faction *models.Faction) error {
	ret := _m.Called(ctx, faction)
	return ret.Error(0)
}

func (_m *MockFactionRepository) Delete(ctx context.Context, id int64) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

// MockItemRepository is a mock type for the repository.ItemRepository type
type MockItemRepository struct {
	mock.Mock
}

func (_m *MockItemRepository) List(ctx context.Context) ([]*models.Item, error) {
	ret := _m.Called(ctx)
	var r0 []*models.Item
	if v := ret.Get(0); v != nil {
		r0 = v.([]*models.Item)
	}
	return r0, ret.Error(1)
}

func (_m *MockItemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	ret := _m.Called(ctx, id)
	var r0 *models.Item
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Item)
	}
	return r0, ret.Error(1)
}

func (_m *MockItemRepository) Create(ctx context.Context, item *models.Item) error {
	ret := _m.Called(ctx, item)
	return ret.Error(0)
}

func (_m *MockItemRepository) Update(ctx context.Context, item *models.Item) error {
	ret := _m.Called(ctx, item)
	return ret.Error(0)
}

func (_m *MockItemRepository) Delete(ctx context.Context, id int64) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

// MockCharacterRepository is a mock type for the repository.CharacterRepository type
type MockCharacterRepository struct {
	mock.Mock
}

func (_m *MockCharacterRepository) List(ctx context.Context) ([]*models.Character, error) {
	ret := _m.Called(ctx)
	var r0 []*models.Character
	if v := ret.Get(0); v != nil {
		r0 = v.([]*models.Character)
	}
	return r0, ret.Error(1)
}

func (_m *MockCharacterRepository) GetByID(ctx context.Context, id int64) (*models.Character, error) {
	ret := _m.Called(ctx, id)
	var r0 *models.Character
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Character)
	}
	return r0, ret.Error(1)
}

func (_m *MockCharacterRepository) Create(ctx context.Context, character *models.Character) error {
	ret := _m.Called(ctx, character)
	return ret.Error(0)
}

func (_m *MockCharacterRepository) Update(ctx context.Context, character *models.Character) error {
	ret := _m.Called(ctx, character)
	return ret.Error(0)
}

func (_m *MockCharacterRepository) Delete(ctx context.Context, id int64) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

// MockStoryRepository is a mock type for the repository.StoryRepository type
type MockStoryRepository struct {
	mock.Mock
}

func (_m *MockStoryRepository) List(ctx context.Context) ([]*models.Story, error) {
	ret := _m.Called(ctx)
	var r0 []*models.Story
	if v := ret.Get(0); v != nil {
		r0 = v.([]*models.Story)
	}
	return r0, ret.Error(1)
}

func (_m *MockStoryRepository) GetByID(ctx context.Context, id int64) (*models.Story, error) {
	ret := _m.Called(ctx, id)
	var r0 *models.Story
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Story)
	}
	return r0, ret.Error(1)
}

func (_m *MockStoryRepository) Create(ctx context.Context, story *models.Story) error {
	ret := _m.Called(ctx, story)
	return ret.Error(0)
}

func (_m *MockStoryRepository) Update(ctx context.Context, story *models.Story) error {
	ret := _m.Called(ctx, story)
	return ret.Error(0)
}

func (_m *MockStoryRepository) Delete(ctx context.Context, id int64) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}
