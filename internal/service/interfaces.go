package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, page, limit int) ([]models.User, int64, error)
	SetPassword(ctx context.Context, id uuid.UUID, current, next string) error
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, author uuid.UUID, req *types.CreateRecipeRequest) (*types.RecipeView, error)
	GetRecipe(ctx context.Context, id uint, viewer uuid.UUID) (*types.RecipeView, error)
	UpdateRecipe(ctx context.Context, id uint, actor uuid.UUID, req *types.UpdateRecipeRequest) (*types.RecipeView, error)
	DeleteRecipe(ctx context.Context, id uint, actor uuid.UUID) error
	ListRecipes(ctx context.Context, viewer uuid.UUID, filter types.RecipeListFilter) ([]types.RecipeView, int64, error)
}

// IMembershipService defines the interface for favorite and cart toggles
type IMembershipService interface {
	Add(ctx context.Context, user uuid.UUID, recipeID uint, kind MembershipKind) (*types.RecipeSummary, error)
	Remove(ctx context.Context, user uuid.UUID, recipeID uint, kind MembershipKind) error
}

// IShoppingListService defines the interface for shopping list consolidation
type IShoppingListService interface {
	Build(ctx context.Context, user uuid.UUID) ([]types.ShoppingListItem, error)
}

// ICatalogService defines the interface for ingredient and tag lookups
type ICatalogService interface {
	ListIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
}

var (
	_ IAuthService         = (*AuthService)(nil)
	_ IRecipeService       = (*RecipeService)(nil)
	_ IMembershipService   = (*MembershipService)(nil)
	_ IShoppingListService = (*ShoppingListService)(nil)
	_ ICatalogService      = (*CatalogService)(nil)
)
