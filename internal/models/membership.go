package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite marks a recipe as favorited by a user; the row's existence is the flag
type Favorite struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_favorites_user_recipe"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_recipe_favorites_user_recipe;index"`
	CreatedAt time.Time
}

func (Favorite) TableName() string {
	return "recipe_favorites"
}

// ShoppingCartItem places a recipe in a user's shopping cart
type ShoppingCartItem struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_shopping_cart_items_user_recipe"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_shopping_cart_items_user_recipe;index"`
	CreatedAt time.Time
}

func (ShoppingCartItem) TableName() string {
	return "shopping_cart_items"
}

// All lists every persisted model in dependency order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Ingredient{},
		&Tag{},
		&Recipe{},
		&RecipeIngredient{},
		&Favorite{},
		&ShoppingCartItem{},
	}
}
