package api_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// onePixelPNG is a base64 encoded 1x1 PNG
const onePixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService

	author      *models.User
	other       *models.User
	authorToken string
	otherToken  string
	sugar       *models.Ingredient
	flour       *models.Ingredient
	breakfast   *models.Tag
	dinner      *models.Tag
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupTestDatabase(t)

	auth := service.NewAuthService(db, "test-secret", time.Hour)
	images := service.NewImageService(service.NewLocalMediaStore(t.TempDir(), "/media"))
	memberships := service.NewMembershipService(db)

	router := gin.New()
	api.NewMediaHandler(images, "/media").RegisterRoutes(router)
	group := router.Group("/api")
	api.NewUserHandler(auth).RegisterRoutes(group)
	api.NewCatalogHandler(service.NewCatalogService(db, nil)).RegisterRoutes(group)
	api.NewRecipeHandler(
		service.NewRecipeService(db, images, memberships),
		memberships,
		service.NewShoppingListService(db),
		auth,
		nil,
	).RegisterRoutes(group)

	ta := &testAPI{
		router:    router,
		db:        db,
		auth:      auth,
		author:    testhelpers.CreateTestUser(t, db, "author"),
		other:     testhelpers.CreateTestUser(t, db, "other"),
		sugar:     testhelpers.CreateTestIngredient(t, db, "sugar", "g"),
		flour:     testhelpers.CreateTestIngredient(t, db, "flour", "g"),
		breakfast: testhelpers.CreateTestTag(t, db, "breakfast"),
		dinner:    testhelpers.CreateTestTag(t, db, "dinner"),
	}

	var err error
	ta.authorToken, err = auth.GenerateToken(ta.author)
	require.NoError(t, err)
	ta.otherToken, err = auth.GenerateToken(ta.other)
	require.NoError(t, err)
	return ta
}

// do sends a request with an optional JSON body and bearer token
func (ta *testAPI) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ta.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}

func (ta *testAPI) recipePayload() map[string]interface{} {
	return map[string]interface{}{
		"name":         "Pancakes",
		"text":         "Mix and fry.",
		"image":        "data:image/png;base64," + onePixelPNG,
		"cooking_time": 15,
		"tags":         []uint{ta.breakfast.ID},
		"ingredients": []map[string]interface{}{
			{"id": ta.sugar.ID, "amount": 10},
			{"id": ta.flour.ID, "amount": 200},
			{"id": ta.sugar.ID, "amount": 5},
		},
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}

