package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
)

// Aggregate consolidates the ingredient lines of recipes into one item per
// ingredient, summing amounts. Items appear in the order their ingredient
// was first encountered. Lines must have their Ingredient loaded.
func Aggregate(recipes []models.Recipe) []types.ShoppingListItem {
	items := make([]types.ShoppingListItem, 0)
	index := make(map[uint]int)
	for _, recipe := range recipes {
		for _, line := range recipe.IngredientLines {
			if i, ok := index[line.IngredientID]; ok {
				items[i].Amount += line.Amount
				continue
			}
			index[line.IngredientID] = len(items)
			items = append(items, types.ShoppingListItem{
				IngredientID:    line.IngredientID,
				Name:            line.Ingredient.Name,
				MeasurementUnit: line.Ingredient.MeasurementUnit,
				Amount:          line.Amount,
			})
		}
	}
	return items
}

// ShoppingListService builds a user's consolidated shopping list
type ShoppingListService struct {
	db *gorm.DB
}

// NewShoppingListService creates a new ShoppingListService instance
func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// CartRecipes returns the recipes in the user's shopping cart, in the order
// they were added, with their ingredient lines resolved
func (s *ShoppingListService) CartRecipes(ctx context.Context, user uuid.UUID) ([]models.Recipe, error) {
	if user == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	db := s.db.WithContext(ctx)

	var ids []uint
	if err := db.Model(&models.ShoppingCartItem{}).
		Where("user_id = ?", user).
		Order("id ASC").
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load shopping cart: %w", err)
	}
	if len(ids) == 0 {
		return []models.Recipe{}, nil
	}

	var recipes []models.Recipe
	if err := withRecipeDetails(db).Where("id IN ?", ids).Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart recipes: %w", err)
	}

	byID := make(map[uint]models.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}
	ordered := make([]models.Recipe, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			ordered = append(ordered, r)
		}
	}
	return ordered, nil
}

// Build returns the consolidated shopping list of the user's cart
func (s *ShoppingListService) Build(ctx context.Context, user uuid.UUID) ([]types.ShoppingListItem, error) {
	recipes, err := s.CartRecipes(ctx, user)
	if err != nil {
		return nil, err
	}
	return Aggregate(recipes), nil
}
