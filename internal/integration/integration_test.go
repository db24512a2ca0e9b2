package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

const onePixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func setupRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := service.NewAuthService(db, "integration-secret", time.Hour)
	images := service.NewImageService(service.NewLocalMediaStore(t.TempDir(), "/media"))
	memberships := service.NewMembershipService(db)

	return router.SetupRouter(router.Dependencies{
		DB:          db,
		Auth:        auth,
		Recipes:     service.NewRecipeService(db, images, memberships),
		Memberships: memberships,
		Shopping:    service.NewShoppingListService(db),
		Catalog:     service.NewCatalogService(db, nil),
		Images:      images,
		Limiter:     middleware.NewRecipeCreationRateLimiter(nil, 0),
	})
}

func call(t *testing.T, r http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signUp(t *testing.T, r http.Handler, username string) string {
	t.Helper()
	email := username + "@example.com"
	w := call(t, r, http.MethodPost, "/api/users", map[string]string{
		"email":      email,
		"username":   username,
		"first_name": "Test",
		"last_name":  username,
		"password":   "password123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(t, r, http.MethodPost, "/api/auth/token/login", map[string]string{
		"email":    email,
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["auth_token"]
}

func TestRecipeLifecycleOnPostgres(t *testing.T) {
	db := testhelpers.SetupPostgresDatabase(t)
	r := setupRouter(t, db)

	sugar := testhelpers.CreateTestIngredient(t, db, "сахар", "г")
	flour := testhelpers.CreateTestIngredient(t, db, "flour", "g")
	breakfast := testhelpers.CreateTestTag(t, db, "breakfast")

	cook := signUp(t, r, "cook")
	guest := signUp(t, r, "guest")

	w := call(t, r, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = call(t, r, http.MethodPost, "/api/recipes", map[string]interface{}{
		"name":         "Pancakes",
		"text":         "Mix and fry.",
		"image":        onePixelPNG,
		"cooking_time": 20,
		"tags":         []uint{breakfast.ID},
		"ingredients": []map[string]interface{}{
			{"id": sugar.ID, "amount": 10.5},
			{"id": flour.ID, "amount": 200},
			{"id": sugar.ID, "amount": 4.5},
		},
	}, cook)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var recipe types.RecipeView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipe))
	require.Len(t, recipe.Ingredients, 2)
	assert.Equal(t, 15.0, recipe.Ingredients[0].Amount)

	recipePath := fmt.Sprintf("/api/recipes/%d", recipe.ID)
	require.Equal(t, http.StatusCreated, call(t, r, http.MethodPost, recipePath+"/favorite", nil, guest).Code)
	require.Equal(t, http.StatusCreated, call(t, r, http.MethodPost, recipePath+"/shopping_cart", nil, guest).Code)

	w = call(t, r, http.MethodGet, "/api/recipes?is_favorited=1&is_in_shopping_cart=1&tags=breakfast", nil, guest)
	require.Equal(t, http.StatusOK, w.Code)
	var page types.Page[types.RecipeView]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Results, 1)
	assert.True(t, page.Results[0].IsFavorited)
	assert.True(t, page.Results[0].IsInShoppingCart)

	w = call(t, r, http.MethodGet, "/api/recipes/download_shopping_cart", nil, guest)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Shopping list\nСахар (г) — 15\nFlour (g) — 200\n", w.Body.String())

	require.Equal(t, http.StatusForbidden, call(t, r, http.MethodDelete, recipePath, nil, guest).Code)
	require.Equal(t, http.StatusNoContent, call(t, r, http.MethodDelete, recipePath, nil, cook).Code)

	var remaining int64
	require.NoError(t, db.Model(&models.ShoppingCartItem{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestConcurrentFavoriteConflicts(t *testing.T) {
	db := testhelpers.SetupPostgresDatabase(t)
	author := testhelpers.CreateTestUser(t, db, "author")
	fan := testhelpers.CreateTestUser(t, db, "fan")
	tag := testhelpers.CreateTestTag(t, db, "dinner")
	recipe := testhelpers.CreateTestRecipe(t, db, author, "Stew", []models.Tag{*tag})

	memberships := service.NewMembershipService(db)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = memberships.Add(context.Background(), fan.ID, recipe.ID, service.KindFavorite)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, service.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)
}

func TestMigrationRollbackOnPostgres(t *testing.T) {
	db := testhelpers.SetupPostgresDatabase(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	raw := &database.DB{DB: sqlDB}
	ctx := context.Background()

	name, err := raw.Rollback(ctx, testhelpers.MigrationsDir())
	require.NoError(t, err)
	assert.Equal(t, "0001_init.sql", name)
	assert.False(t, db.Migrator().HasTable("recipes"))

	_, err = raw.Rollback(ctx, testhelpers.MigrationsDir())
	assert.ErrorIs(t, err, database.ErrNoMigrations)

	applied, err := raw.Migrate(ctx, testhelpers.MigrationsDir())
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql"}, applied)
	assert.True(t, db.Migrator().HasTable("recipes"))
}
