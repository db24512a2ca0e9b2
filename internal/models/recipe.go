package models

import (
	"time"

	"github.com/google/uuid"
)

// Recipe is owned by its author. Tags and ingredient lines are replaced
// wholesale, never edited line by line.
type Recipe struct {
	ID              uint               `gorm:"primaryKey" json:"id"`
	AuthorID        uuid.UUID          `gorm:"type:varchar(36);not null;index" json:"author"`
	Name            string             `gorm:"size:200;not null" json:"name"`
	Image           string             `gorm:"size:512;not null" json:"image"`
	Text            string             `gorm:"type:text;not null" json:"text"`
	CookingTime     int                `gorm:"not null" json:"cooking_time"`
	Tags            []Tag              `gorm:"many2many:recipe_tags;" json:"tags"`
	IngredientLines []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"-"`
	CreatedAt       time.Time          `json:"-"`
	UpdatedAt       time.Time          `json:"-"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeIngredient is one quantified ingredient line of a recipe. A recipe
// holds at most one line per ingredient.
type RecipeIngredient struct {
	ID           uint       `gorm:"primaryKey" json:"-"`
	RecipeID     uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredients_recipe_ingredient" json:"-"`
	IngredientID uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredients_recipe_ingredient;index" json:"id"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID" json:"-"`
	Amount       float64    `gorm:"not null" json:"amount"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
