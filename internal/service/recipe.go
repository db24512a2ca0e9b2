package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/pageza/foodgram/backend/pkg/validator"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeService handles recipe operations
type RecipeService struct {
	db          *gorm.DB
	images      *ImageService
	memberships *MembershipService
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, images *ImageService, memberships *MembershipService) *RecipeService {
	return &RecipeService{
		db:          db,
		images:      images,
		memberships: memberships,
	}
}

// MergeIngredientAmounts collapses repeated ingredient ids into one entry
// each, summing their amounts. Entries keep the order in which each id was
// first seen.
func MergeIngredientAmounts(inputs []types.IngredientAmount) []types.IngredientAmount {
	merged := make([]types.IngredientAmount, 0, len(inputs))
	index := make(map[uint]int, len(inputs))
	for _, in := range inputs {
		if i, ok := index[in.ID]; ok {
			merged[i].Amount += in.Amount
			continue
		}
		index[in.ID] = len(merged)
		merged = append(merged, in)
	}
	return merged
}

// CreateRecipe creates a new recipe owned by author
func (s *RecipeService) CreateRecipe(ctx context.Context, author uuid.UUID, req *types.CreateRecipeRequest) (*types.RecipeView, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, fromValidator(err)
	}
	if err := validateCookingTime(req.CookingTime); err != nil {
		return nil, err
	}
	lines := MergeIngredientAmounts(req.Ingredients)

	recipe := models.Recipe{
		AuthorID:    author,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, req.Tags)
		if err != nil {
			return err
		}
		if err := checkIngredients(tx, lines); err != nil {
			return err
		}

		ref, err := s.images.Store(ctx, req.Image)
		if err != nil {
			return err
		}
		recipe.Image = ref

		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		if err := tx.Model(&recipe).Association("Tags").Append(tags); err != nil {
			return fmt.Errorf("failed to attach tags: %w", err)
		}
		return insertLines(tx, recipe.ID, lines)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"recipe_id": recipe.ID,
		"author_id": author,
	}).Info("recipe created")

	return s.GetRecipe(ctx, recipe.ID, author)
}

// UpdateRecipe applies a partial update. Only the author may update.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id uint, actor uuid.UUID, req *types.UpdateRecipeRequest) (*types.RecipeView, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, fromValidator(err)
	}
	var lines []types.IngredientAmount
	if req.Ingredients != nil {
		lines = MergeIngredientAmounts(*req.Ingredients)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := loadOwnedRecipe(tx, id, actor)
		if err != nil {
			return err
		}

		if req.Name != nil {
			recipe.Name = *req.Name
		}
		if req.Text != nil {
			recipe.Text = *req.Text
		}
		if req.CookingTime != nil {
			recipe.CookingTime = *req.CookingTime
		}
		if err := validateCookingTime(recipe.CookingTime); err != nil {
			return err
		}
		if req.Image != nil {
			ref, err := s.images.Store(ctx, *req.Image)
			if err != nil {
				return err
			}
			recipe.Image = ref
		}

		if req.Tags != nil {
			tags, err := resolveTags(tx, *req.Tags)
			if err != nil {
				return err
			}
			assoc := tx.Model(recipe).Association("Tags")
			if len(tags) == 0 {
				err = assoc.Clear()
			} else {
				err = assoc.Replace(tags)
			}
			if err != nil {
				return fmt.Errorf("failed to replace tags: %w", err)
			}
		}

		if req.Ingredients != nil {
			if err := checkIngredients(tx, lines); err != nil {
				return err
			}
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return fmt.Errorf("failed to clear ingredient lines: %w", err)
			}
			if err := insertLines(tx, recipe.ID, lines); err != nil {
				return err
			}
		}

		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, id, actor)
}

// DeleteRecipe removes a recipe together with its ingredient lines, tag
// associations and memberships. Only the author may delete.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uint, actor uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := loadOwnedRecipe(tx, id, actor)
		if err != nil {
			return err
		}

		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("failed to detach tags: %w", err)
		}
		for _, row := range []interface{}{
			&models.RecipeIngredient{},
			&models.Favorite{},
			&models.ShoppingCartItem{},
		} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(row).Error; err != nil {
				return fmt.Errorf("failed to delete recipe dependents: %w", err)
			}
		}
		if err := tx.Delete(recipe).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.WithField("recipe_id", id).Info("recipe deleted")
	return nil
}

// GetRecipe retrieves a recipe as seen by viewer. viewer may be uuid.Nil.
func (s *RecipeService) GetRecipe(ctx context.Context, id uint, viewer uuid.UUID) (*types.RecipeView, error) {
	var recipe models.Recipe
	err := withRecipeDetails(s.db.WithContext(ctx)).First(&recipe, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	views, err := s.buildViews(ctx, []models.Recipe{recipe}, viewer)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *RecipeService) buildViews(ctx context.Context, recipes []models.Recipe, viewer uuid.UUID) ([]types.RecipeView, error) {
	ids := make([]uint, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
		authorIDs = append(authorIDs, r.AuthorID)
	}

	var authors []models.User
	if len(authorIDs) > 0 {
		if err := s.db.WithContext(ctx).Where("id IN ?", authorIDs).Find(&authors).Error; err != nil {
			return nil, fmt.Errorf("failed to load authors: %w", err)
		}
	}
	byID := make(map[uuid.UUID]*models.User, len(authors))
	for i := range authors {
		byID[authors[i].ID] = &authors[i]
	}

	flags, err := s.memberships.Flags(ctx, viewer, ids)
	if err != nil {
		return nil, err
	}

	views := make([]types.RecipeView, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		view := types.RecipeView{
			ID:               r.ID,
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			Tags:             r.Tags,
			Ingredients:      make([]types.IngredientLine, len(r.IngredientLines)),
			IsFavorited:      flags[r.ID].Favorited,
			IsInShoppingCart: flags[r.ID].InCart,
		}
		if view.Tags == nil {
			view.Tags = []models.Tag{}
		}
		if author, ok := byID[r.AuthorID]; ok {
			view.Author = types.NewUserView(author)
		} else {
			view.Author = types.UserView{ID: r.AuthorID}
		}
		for j, line := range r.IngredientLines {
			view.Ingredients[j] = types.IngredientLine{
				ID:              line.IngredientID,
				Name:            line.Ingredient.Name,
				MeasurementUnit: line.Ingredient.MeasurementUnit,
				Amount:          line.Amount,
			}
		}
		views[i] = view
	}
	return views, nil
}

// withRecipeDetails preloads tags and resolved ingredient lines
func withRecipeDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id ASC") }).
		Preload("IngredientLines", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id ASC") }).
		Preload("IngredientLines.Ingredient")
}

func loadOwnedRecipe(tx *gorm.DB, id uint, actor uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := tx.First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	if actor == uuid.Nil || recipe.AuthorID != actor {
		return nil, ErrNotAuthor
	}
	return &recipe, nil
}

// resolveTags loads the tags behind ids. Unknown ids are a validation error.
func resolveTags(tx *gorm.DB, ids []uint) ([]models.Tag, error) {
	unique := uniqueIDs(ids)
	if len(unique) == 0 {
		return []models.Tag{}, nil
	}

	var tags []models.Tag
	if err := tx.Where("id IN ?", unique).Order("id ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	if len(tags) != len(unique) {
		found := make(map[uint]bool, len(tags))
		for _, t := range tags {
			found[t.ID] = true
		}
		for _, id := range unique {
			if !found[id] {
				return nil, newValidationError("tags", fmt.Sprintf("tag %d does not exist", id))
			}
		}
	}
	return tags, nil
}

// checkIngredients verifies every line references a catalog ingredient
func checkIngredients(tx *gorm.DB, lines []types.IngredientAmount) error {
	if len(lines) == 0 {
		return nil
	}
	ids := make([]uint, len(lines))
	for i, l := range lines {
		ids[i] = l.ID
	}

	var existing []uint
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Pluck("id", &existing).Error; err != nil {
		return fmt.Errorf("failed to load ingredients: %w", err)
	}
	found := make(map[uint]bool, len(existing))
	for _, id := range existing {
		found[id] = true
	}
	for _, id := range ids {
		if !found[id] {
			return fmt.Errorf("ingredient %d: %w", id, ErrIngredientNotFound)
		}
	}
	return nil
}

func insertLines(tx *gorm.DB, recipeID uint, lines []types.IngredientAmount) error {
	if len(lines) == 0 {
		return nil
	}
	rows := make([]models.RecipeIngredient, len(lines))
	for i, l := range lines {
		rows[i] = models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: l.ID,
			Amount:       l.Amount,
		}
	}
	if err := tx.Create(&rows).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("duplicate ingredient line: %w", ErrConflict)
		}
		return fmt.Errorf("failed to create ingredient lines: %w", err)
	}
	return nil
}

func validateCookingTime(minutes int) error {
	if minutes < 1 {
		return newValidationError("cooking_time", "must be at least 1 minute")
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
