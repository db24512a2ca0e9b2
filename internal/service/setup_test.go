package service_test

import (
	"testing"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// onePixelPNG is a base64 encoded 1x1 PNG
const onePixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type fixture struct {
	db          *gorm.DB
	store       *testhelpers.MockMediaStore
	recipes     *service.RecipeService
	memberships *service.MembershipService
	shopping    *service.ShoppingListService

	author    *models.User
	other     *models.User
	sugar     *models.Ingredient
	flour     *models.Ingredient
	eggs      *models.Ingredient
	breakfast *models.Tag
	dinner    *models.Tag
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	db := testhelpers.SetupTestDatabase(t)

	store := &testhelpers.MockMediaStore{}
	store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("/media/recipes/stored.png", nil).Maybe()

	memberships := service.NewMembershipService(db)
	return &fixture{
		db:          db,
		store:       store,
		recipes:     service.NewRecipeService(db, service.NewImageService(store), memberships),
		memberships: memberships,
		shopping:    service.NewShoppingListService(db),
		author:      testhelpers.CreateTestUser(t, db, "author"),
		other:       testhelpers.CreateTestUser(t, db, "other"),
		sugar:       testhelpers.CreateTestIngredient(t, db, "sugar", "g"),
		flour:       testhelpers.CreateTestIngredient(t, db, "flour", "g"),
		eggs:        testhelpers.CreateTestIngredient(t, db, "eggs", "pcs"),
		breakfast:   testhelpers.CreateTestTag(t, db, "breakfast"),
		dinner:      testhelpers.CreateTestTag(t, db, "dinner"),
	}
}
