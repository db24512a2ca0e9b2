package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// NormalizePage clamps page and limit to their allowed ranges
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// ListRecipes returns one page of recipes matching every predicate set in
// filter, ordered by id, together with the total number of matches.
func (s *RecipeService) ListRecipes(ctx context.Context, viewer uuid.UUID, filter types.RecipeListFilter) ([]types.RecipeView, int64, error) {
	page, limit := NormalizePage(filter.Page, filter.Limit)
	db := s.db.WithContext(ctx)

	filtered := func() *gorm.DB {
		return applyRecipeFilter(db.Model(&models.Recipe{}), db, viewer, filter)
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []models.Recipe
	err := withRecipeDetails(filtered()).
		Order("recipes.id ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}

	views, err := s.buildViews(ctx, recipes, viewer)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// applyRecipeFilter adds one condition per predicate. Tag matching goes
// through a subquery so a recipe carrying several requested tags appears
// once.
func applyRecipeFilter(query, db *gorm.DB, viewer uuid.UUID, filter types.RecipeListFilter) *gorm.DB {
	if filter.Author != nil {
		query = query.Where("recipes.author_id = ?", *filter.Author)
	}

	if len(filter.TagSlugs) > 0 {
		tagged := db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}

	if viewer != uuid.Nil {
		query = membershipPredicate(query, db, viewer, KindFavorite, filter.IsFavorited)
		query = membershipPredicate(query, db, viewer, KindShoppingCart, filter.IsInShoppingCart)
	}

	return query
}

func membershipPredicate(query, db *gorm.DB, viewer uuid.UUID, kind MembershipKind, want *bool) *gorm.DB {
	if want == nil {
		return query
	}
	members := memberRecipeIDs(db, viewer, kind)
	if *want {
		return query.Where("recipes.id IN (?)", members)
	}
	return query.Where("recipes.id NOT IN (?)", members)
}
