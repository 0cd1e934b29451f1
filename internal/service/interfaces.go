package service

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for token operations
type IAuthService interface {
	Login(ctx context.Context, req *types.LoginRequest) (*types.TokenResponse, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
}

// IUserService defines the interface for user operations
type IUserService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*types.RegisterResponse, error)
	List(ctx context.Context, viewer types.Viewer, page types.PageRequest) ([]types.UserResponse, int64, error)
	Get(ctx context.Context, viewer types.Viewer, id uint) (*types.UserResponse, error)
	Me(ctx context.Context, viewer types.Viewer) (*types.UserResponse, error)
	Avatar(ctx context.Context, id uint) (*types.AvatarResponse, error)
	SetAvatar(ctx context.Context, viewer types.Viewer, dataURI string) (*types.AvatarResponse, error)
	DeleteAvatar(ctx context.Context, viewer types.Viewer) error
	SetPassword(ctx context.Context, viewer types.Viewer, req *types.SetPasswordRequest) error
	Subscribe(ctx context.Context, viewer types.Viewer, authorID uint, recipesLimit int) (*types.SubscriptionResponse, error)
	Unsubscribe(ctx context.Context, viewer types.Viewer, authorID uint) error
	Subscriptions(ctx context.Context, viewer types.Viewer, page types.PageRequest, recipesLimit int) ([]types.SubscriptionResponse, int64, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, viewer types.Viewer, req *types.RecipeWriteRequest) (*types.RecipeResponse, error)
	GetRecipe(ctx context.Context, viewer types.Viewer, id uint) (*types.RecipeResponse, error)
	UpdateRecipe(ctx context.Context, viewer types.Viewer, id uint, req *types.RecipeWriteRequest) (*types.RecipeResponse, error)
	DeleteRecipe(ctx context.Context, viewer types.Viewer, id uint) error
	ListRecipes(ctx context.Context, viewer types.Viewer, filter types.RecipeFilter, page types.PageRequest) ([]types.RecipeResponse, int64, error)
	AddFavorite(ctx context.Context, viewer types.Viewer, id uint) (*types.RecipeShortResponse, error)
	RemoveFavorite(ctx context.Context, viewer types.Viewer, id uint) error
	AddToShoppingCart(ctx context.Context, viewer types.Viewer, id uint) (*types.RecipeShortResponse, error)
	RemoveFromShoppingCart(ctx context.Context, viewer types.Viewer, id uint) error
	ShoppingList(ctx context.Context, viewer types.Viewer) ([]types.ShoppingListItem, error)
	ShortLink(ctx context.Context, id uint, baseURL string) (*types.ShortLinkResponse, error)
}

// ICatalogService defines the interface for ingredient and tag lookups
type ICatalogService interface {
	ListIngredients(ctx context.Context, name string, page types.PageRequest) ([]types.IngredientResponse, error)
	GetIngredient(ctx context.Context, id uint) (*types.IngredientResponse, error)
	ListTags(ctx context.Context, page types.PageRequest) ([]types.TagResponse, error)
	GetTag(ctx context.Context, id uint) (*types.TagResponse, error)
}

var (
	_ IAuthService    = (*AuthService)(nil)
	_ IUserService    = (*UserService)(nil)
	_ IRecipeService  = (*RecipeService)(nil)
	_ ICatalogService = (*CatalogService)(nil)
)
