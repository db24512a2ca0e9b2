package types

import (
	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
)

// UserView is the public representation of a user
type UserView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// NewUserView builds the public representation of a user
func NewUserView(u *models.User) UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// IngredientLine is a recipe ingredient line resolved against the catalog
type IngredientLine struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	MeasurementUnit string  `json:"measurement_unit"`
	Amount          float64 `json:"amount"`
}

// RecipeView is a recipe as seen by a particular viewer
type RecipeView struct {
	ID               uint             `json:"id"`
	Author           UserView         `json:"author"`
	Name             string           `json:"name"`
	Image            string           `json:"image"`
	Text             string           `json:"text"`
	CookingTime      int              `json:"cooking_time"`
	Tags             []models.Tag     `json:"tags"`
	Ingredients      []IngredientLine `json:"ingredients"`
	IsFavorited      bool             `json:"is_favorited"`
	IsInShoppingCart bool             `json:"is_in_shopping_cart"`
}

// RecipeSummary is the short form returned by membership changes
type RecipeSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// NewRecipeSummary builds the short form of a recipe
func NewRecipeSummary(r *models.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

// ShoppingListItem is one consolidated entry of a shopping list
type ShoppingListItem struct {
	IngredientID    uint    `json:"id"`
	Name            string  `json:"name"`
	MeasurementUnit string  `json:"measurement_unit"`
	Amount          float64 `json:"amount"`
}

// MembershipFlags reports a viewer's relation to one recipe
type MembershipFlags struct {
	Favorited bool
	InCart    bool
}

// Page is one page of a paginated listing
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
