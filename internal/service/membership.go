package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MembershipKind selects one of the per-user recipe lists
type MembershipKind string

const (
	KindFavorite     MembershipKind = "favorite"
	KindShoppingCart MembershipKind = "shopping_cart"
)

// ErrUnknownKind is returned for a membership kind that does not exist
var ErrUnknownKind = errors.New("unknown membership kind")

func (k MembershipKind) row(user uuid.UUID, recipeID uint) (interface{}, error) {
	switch k {
	case KindFavorite:
		return &models.Favorite{UserID: user, RecipeID: recipeID}, nil
	case KindShoppingCart:
		return &models.ShoppingCartItem{UserID: user, RecipeID: recipeID}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
	}
}

func (k MembershipKind) table() string {
	if k == KindShoppingCart {
		return models.ShoppingCartItem{}.TableName()
	}
	return models.Favorite{}.TableName()
}

// MembershipService toggles favorites and shopping cart entries
type MembershipService struct {
	db *gorm.DB
}

// NewMembershipService creates a new MembershipService instance
func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

// Add puts recipeID on the user's list of the given kind
func (s *MembershipService) Add(ctx context.Context, user uuid.UUID, recipeID uint, kind MembershipKind) (*types.RecipeSummary, error) {
	if user == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	row, err := kind.row(user, recipeID)
	if err != nil {
		return nil, err
	}

	var recipe models.Recipe
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findRecipe(tx, recipeID, &recipe); err != nil {
			return err
		}

		exists, err := isMember(tx, user, recipeID, kind)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyMember
		}

		if err := tx.Create(row).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyMember
			}
			return fmt.Errorf("failed to add %s: %w", kind, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MembershipChanges.WithLabelValues(string(kind), "add").Inc()
	logrus.WithFields(logrus.Fields{
		"user_id":   user,
		"recipe_id": recipeID,
		"kind":      kind,
	}).Debug("membership added")

	summary := types.NewRecipeSummary(&recipe)
	return &summary, nil
}

// Remove takes recipeID off the user's list of the given kind
func (s *MembershipService) Remove(ctx context.Context, user uuid.UUID, recipeID uint, kind MembershipKind) error {
	if user == uuid.Nil {
		return ErrUnauthenticated
	}
	row, err := kind.row(user, recipeID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := findRecipe(tx, recipeID, &recipe); err != nil {
			return err
		}

		res := tx.Where("user_id = ? AND recipe_id = ?", user, recipeID).Delete(row)
		if res.Error != nil {
			return fmt.Errorf("failed to remove %s: %w", kind, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotMember
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.MembershipChanges.WithLabelValues(string(kind), "remove").Inc()
	return nil
}

// Flags reports, for each recipe id, whether viewer favorited it or has it
// in the shopping cart. Anonymous viewers get all-false flags.
func (s *MembershipService) Flags(ctx context.Context, viewer uuid.UUID, recipeIDs []uint) (map[uint]types.MembershipFlags, error) {
	flags := make(map[uint]types.MembershipFlags, len(recipeIDs))
	if viewer == uuid.Nil || len(recipeIDs) == 0 {
		return flags, nil
	}

	db := s.db.WithContext(ctx)
	var favorited, inCart []uint
	if err := db.Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", viewer, recipeIDs).
		Pluck("recipe_id", &favorited).Error; err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	if err := db.Model(&models.ShoppingCartItem{}).
		Where("user_id = ? AND recipe_id IN ?", viewer, recipeIDs).
		Pluck("recipe_id", &inCart).Error; err != nil {
		return nil, fmt.Errorf("failed to load shopping cart: %w", err)
	}

	for _, id := range favorited {
		f := flags[id]
		f.Favorited = true
		flags[id] = f
	}
	for _, id := range inCart {
		f := flags[id]
		f.InCart = true
		flags[id] = f
	}
	return flags, nil
}

// memberRecipeIDs returns the subquery selecting recipe ids on the user's
// list of the given kind
func memberRecipeIDs(db *gorm.DB, user uuid.UUID, kind MembershipKind) *gorm.DB {
	return db.Table(kind.table()).Select("recipe_id").Where("user_id = ?", user)
}

func isMember(tx *gorm.DB, user uuid.UUID, recipeID uint, kind MembershipKind) (bool, error) {
	var count int64
	err := tx.Table(kind.table()).
		Where("user_id = ? AND recipe_id = ?", user, recipeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", kind, err)
	}
	return count > 0, nil
}

func findRecipe(tx *gorm.DB, id uint, recipe *models.Recipe) error {
	if err := tx.First(recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return fmt.Errorf("failed to get recipe: %w", err)
	}
	return nil
}
