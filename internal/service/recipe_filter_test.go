package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recipeIDs(views []types.RecipeView) []uint {
	ids := make([]uint, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}
	return ids
}

func boolPtr(b bool) *bool { return &b }

func TestListRecipesFilters(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	lunch := testhelpers.CreateTestTag(t, f.db, "lunch")

	both := testhelpers.CreateTestRecipe(t, f.db, f.author, "Both", []models.Tag{*f.breakfast, *f.dinner})
	breakfastOnly := testhelpers.CreateTestRecipe(t, f.db, f.author, "Breakfast", []models.Tag{*f.breakfast})
	lunchOnly := testhelpers.CreateTestRecipe(t, f.db, f.author, "Lunch", []models.Tag{*lunch})
	othersDinner := testhelpers.CreateTestRecipe(t, f.db, f.other, "Other dinner", []models.Tag{*f.dinner})
	untagged := testhelpers.CreateTestRecipe(t, f.db, f.other, "Untagged", nil)

	_, err := f.memberships.Add(ctx, f.other.ID, both.ID, service.KindFavorite)
	require.NoError(t, err)
	_, err = f.memberships.Add(ctx, f.other.ID, lunchOnly.ID, service.KindFavorite)
	require.NoError(t, err)
	_, err = f.memberships.Add(ctx, f.other.ID, lunchOnly.ID, service.KindShoppingCart)
	require.NoError(t, err)

	author := f.author.ID
	tests := []struct {
		name   string
		viewer uuid.UUID
		filter types.RecipeListFilter
		want   []uint
	}{
		{
			name: "no predicates",
			want: []uint{both.ID, breakfastOnly.ID, lunchOnly.ID, othersDinner.ID, untagged.ID},
		},
		{
			name:   "tags match any requested slug once",
			filter: types.RecipeListFilter{TagSlugs: []string{"breakfast", "dinner"}},
			want:   []uint{both.ID, breakfastOnly.ID, othersDinner.ID},
		},
		{
			name:   "tags and author",
			filter: types.RecipeListFilter{TagSlugs: []string{"dinner", "lunch"}, Author: &author},
			want:   []uint{both.ID, lunchOnly.ID},
		},
		{
			name:   "unknown tag matches nothing",
			filter: types.RecipeListFilter{TagSlugs: []string{"brunch"}},
			want:   []uint{},
		},
		{
			name:   "favorited",
			viewer: f.other.ID,
			filter: types.RecipeListFilter{IsFavorited: boolPtr(true)},
			want:   []uint{both.ID, lunchOnly.ID},
		},
		{
			name:   "not favorited",
			viewer: f.other.ID,
			filter: types.RecipeListFilter{IsFavorited: boolPtr(false)},
			want:   []uint{breakfastOnly.ID, othersDinner.ID, untagged.ID},
		},
		{
			name:   "favorited and in cart",
			viewer: f.other.ID,
			filter: types.RecipeListFilter{IsFavorited: boolPtr(true), IsInShoppingCart: boolPtr(true)},
			want:   []uint{lunchOnly.ID},
		},
		{
			name:   "favorited with tags",
			viewer: f.other.ID,
			filter: types.RecipeListFilter{IsFavorited: boolPtr(true), TagSlugs: []string{"breakfast"}},
			want:   []uint{both.ID},
		},
		{
			name:   "membership flags ignored for anonymous viewers",
			filter: types.RecipeListFilter{IsFavorited: boolPtr(true), IsInShoppingCart: boolPtr(true)},
			want:   []uint{both.ID, breakfastOnly.ID, lunchOnly.ID, othersDinner.ID, untagged.ID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, total, err := f.recipes.ListRecipes(ctx, tt.viewer, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, recipeIDs(views))
			assert.Equal(t, int64(len(tt.want)), total)
		})
	}
}

func TestListRecipesPagination(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	var ids []uint
	for _, name := range []string{"one", "two", "three", "four", "five"} {
		ids = append(ids, testhelpers.CreateTestRecipe(t, f.db, f.author, name, []models.Tag{*f.breakfast}).ID)
	}

	views, total, err := f.recipes.ListRecipes(ctx, uuid.Nil, types.RecipeListFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Equal(t, ids[2:4], recipeIDs(views))

	views, _, err = f.recipes.ListRecipes(ctx, uuid.Nil, types.RecipeListFilter{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, ids[4:], recipeIDs(views))

	views, _, err = f.recipes.ListRecipes(ctx, uuid.Nil, types.RecipeListFilter{Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestListRecipesIncludesDetails(t *testing.T) {
	f := setupFixture(t)
	recipe := testhelpers.CreateTestRecipe(t, f.db, f.author, "Detailed", []models.Tag{*f.dinner},
		models.RecipeIngredient{IngredientID: f.eggs.ID, Amount: 4},
	)
	_, err := f.memberships.Add(context.Background(), f.other.ID, recipe.ID, service.KindShoppingCart)
	require.NoError(t, err)

	views, _, err := f.recipes.ListRecipes(context.Background(), f.other.ID, types.RecipeListFilter{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "author", views[0].Author.Username)
	assert.Equal(t, []types.IngredientLine{{ID: f.eggs.ID, Name: "eggs", MeasurementUnit: "pcs", Amount: 4}}, views[0].Ingredients)
	require.Len(t, views[0].Tags, 1)
	assert.True(t, views[0].IsInShoppingCart)
	assert.False(t, views[0].IsFavorited)
}

func TestNormalizePage(t *testing.T) {
	page, limit := service.NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, service.DefaultPageSize, limit)

	page, limit = service.NormalizePage(3, 500)
	assert.Equal(t, 3, page)
	assert.Equal(t, service.MaxPageSize, limit)
}
