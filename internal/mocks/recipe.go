package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/types"
)

// MockRecipeService is a mock implementation of service.IRecipeService
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) CreateRecipe(ctx context.Context, viewer types.Viewer, req *types.RecipeWriteRequest) (*types.RecipeResponse, error) {
	args := m.Called(ctx, viewer, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) GetRecipe(ctx context.Context, viewer types.Viewer, id uint) (*types.RecipeResponse, error) {
	args := m.Called(ctx, viewer, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) UpdateRecipe(ctx context.Context, viewer types.Viewer, id uint, req *types.RecipeWriteRequest) (*types.RecipeResponse, error) {
	args := m.Called(ctx, viewer, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) DeleteRecipe(ctx context.Context, viewer types.Viewer, id uint) error {
	return m.Called(ctx, viewer, id).Error(0)
}

func (m *MockRecipeService) ListRecipes(ctx context.Context, viewer types.Viewer, filter types.RecipeFilter, page types.PageRequest) ([]types.RecipeResponse, int64, error) {
	args := m.Called(ctx, viewer, filter, page)
	recipes, _ := args.Get(0).([]types.RecipeResponse)
	return recipes, args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeService) AddFavorite(ctx context.Context, viewer types.Viewer, id uint) (*types.RecipeShortResponse, error) {
	return m.short(m.Called(ctx, viewer, id))
}

func (m *MockRecipeService) RemoveFavorite(ctx context.Context, viewer types.Viewer, id uint) error {
	return m.Called(ctx, viewer, id).Error(0)
}

func (m *MockRecipeService) AddToShoppingCart(ctx context.Context, viewer types.Viewer, id uint) (*types.RecipeShortResponse, error) {
	return m.short(m.Called(ctx, viewer, id))
}

func (m *MockRecipeService) RemoveFromShoppingCart(ctx context.Context, viewer types.Viewer, id uint) error {
	return m.Called(ctx, viewer, id).Error(0)
}

func (m *MockRecipeService) ShoppingList(ctx context.Context, viewer types.Viewer) ([]types.ShoppingListItem, error) {
	args := m.Called(ctx, viewer)
	items, _ := args.Get(0).([]types.ShoppingListItem)
	return items, args.Error(1)
}

func (m *MockRecipeService) ShortLink(ctx context.Context, id uint, baseURL string) (*types.ShortLinkResponse, error) {
	args := m.Called(ctx, id, baseURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ShortLinkResponse), args.Error(1)
}

func (m *MockRecipeService) short(args mock.Arguments) (*types.RecipeShortResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeShortResponse), args.Error(1)
}
