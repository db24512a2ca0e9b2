package types

import "github.com/google/uuid"

// IngredientAmount is one ingredient entry of a recipe payload. The same
// ingredient may appear more than once; amounts are summed.
type IngredientAmount struct {
	ID     uint    `json:"id" validate:"required"`
	Amount float64 `json:"amount" validate:"gte=0"`
}

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Name        string             `json:"name" validate:"required,max=200"`
	Text        string             `json:"text" validate:"required"`
	Image       string             `json:"image" validate:"required"`
	CookingTime int                `json:"cooking_time" validate:"gte=1"`
	Tags        []uint             `json:"tags" validate:"required,min=1"`
	Ingredients []IngredientAmount `json:"ingredients" validate:"required,min=1,dive"`
}

// UpdateRecipeRequest represents the request body for updating a recipe.
// Nil fields are left untouched; a non-nil empty list replaces the set.
type UpdateRecipeRequest struct {
	Name        *string             `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Text        *string             `json:"text,omitempty" validate:"omitempty,min=1"`
	Image       *string             `json:"image,omitempty"`
	CookingTime *int                `json:"cooking_time,omitempty"`
	Tags        *[]uint             `json:"tags,omitempty"`
	Ingredients *[]IngredientAmount `json:"ingredients,omitempty" validate:"omitempty,dive"`
}

// RecipeListFilter holds the optional predicates of a recipe listing.
// Nil predicates are not applied.
type RecipeListFilter struct {
	Author           *uuid.UUID
	TagSlugs         []string
	IsFavorited      *bool
	IsInShoppingCart *bool
	Page             int
	Limit            int
}

// RegisterRequest represents the request body for creating a user
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=150"`
}

// LoginRequest represents the request body for obtaining a token
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SetPasswordRequest represents the request body for changing a password
type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=150"`
}
