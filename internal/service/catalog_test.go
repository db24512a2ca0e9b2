package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListIngredientsPrefixSearch(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	catalog := service.NewCatalogService(db, nil)
	ctx := context.Background()

	testhelpers.CreateTestIngredient(t, db, "Sugar", "g")
	testhelpers.CreateTestIngredient(t, db, "salt", "g")
	testhelpers.CreateTestIngredient(t, db, "brown sugar", "g")
	testhelpers.CreateTestIngredient(t, db, "sugar", "tbsp")
	testhelpers.CreateTestIngredient(t, db, "100%_juice", "ml")

	names := func(items []models.Ingredient) []string {
		out := make([]string, len(items))
		for i, item := range items {
			out[i] = item.Name + "/" + item.MeasurementUnit
		}
		return out
	}

	got, err := catalog.ListIngredients(ctx, "SU")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Sugar/g", "sugar/tbsp"}, names(got))

	got, err = catalog.ListIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, got, 5)

	got, err = catalog.ListIngredients(ctx, "100%")
	require.NoError(t, err)
	assert.Equal(t, []string{"100%_juice/ml"}, names(got))

	got, err = catalog.ListIngredients(ctx, "1_0")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetIngredientAndTag(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	catalog := service.NewCatalogService(db, nil)
	ctx := context.Background()

	sugar := testhelpers.CreateTestIngredient(t, db, "sugar", "g")
	tag := testhelpers.CreateTestTag(t, db, "vegan")

	got, err := catalog.GetIngredient(ctx, sugar.ID)
	require.NoError(t, err)
	assert.Equal(t, "sugar", got.Name)

	_, err = catalog.GetIngredient(ctx, 999)
	assert.ErrorIs(t, err, service.ErrIngredientNotFound)

	gotTag, err := catalog.GetTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "vegan", gotTag.Slug)

	_, err = catalog.GetTag(ctx, 999)
	assert.ErrorIs(t, err, service.ErrTagNotFound)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestValidateTagColor(t *testing.T) {
	for _, color := range []string{"#E26C2D", "#49b64e", "#000000"} {
		assert.NoError(t, service.ValidateTagColor(color), color)
	}
	for _, color := range []string{"", "E26C2D", "#E26C2", "#E26C2DD", "#GGGGGG", "red", "#E26 2D"} {
		err := service.ValidateTagColor(color)
		assertValidationField(t, err, "color")
	}
}

func TestImportCatalog(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	catalog := service.NewCatalogService(db, nil)
	ctx := context.Background()

	ingredients := []models.Ingredient{
		{Name: "sugar", MeasurementUnit: "g"},
		{Name: "milk", MeasurementUnit: "ml"},
	}
	_, err := catalog.ImportIngredients(ctx, ingredients)
	require.NoError(t, err)
	_, err = catalog.ImportIngredients(ctx, []models.Ingredient{{Name: "sugar", MeasurementUnit: "g"}})
	require.NoError(t, err)

	all, err := catalog.ListIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = catalog.ImportTags(ctx, []models.Tag{{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"}})
	require.NoError(t, err)
	_, err = catalog.ImportTags(ctx, []models.Tag{{Name: "Morning", Color: "#49B64E", Slug: "breakfast"}})
	require.NoError(t, err)

	tags, err := catalog.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Morning", tags[0].Name)
	assert.Equal(t, "#49B64E", tags[0].Color)

	_, err = catalog.ImportTags(ctx, []models.Tag{{Name: "Lunch", Color: "49B64E", Slug: "lunch"}})
	assertValidationField(t, err, "color")

	_, err = catalog.ImportIngredients(ctx, []models.Ingredient{{Name: "", MeasurementUnit: "g"}})
	assertValidationField(t, err, "name")
}

func TestCatalogFixtureImport(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	catalog := service.NewCatalogService(db, nil)
	ctx := context.Background()

	doc := `
ingredients:
  - name: sugar
    measurement_unit: g
  - name: milk
    measurement_unit: ml
tags:
  - name: Breakfast
    color: "#E26C2D"
    slug: breakfast
`
	fixture, err := service.ParseCatalogFixture(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, fixture.Ingredients, 2)
	require.Len(t, fixture.Tags, 1)

	tags, ingredients, err := catalog.Import(ctx, fixture)
	require.NoError(t, err)
	assert.Equal(t, int64(1), tags)
	assert.Equal(t, int64(2), ingredients)

	// a second run inserts nothing new
	again, err := service.ParseCatalogFixture(strings.NewReader(doc))
	require.NoError(t, err)
	_, ingredients, err = catalog.Import(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ingredients)

	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestParseCatalogFixtureRejectsUnknownKeys(t *testing.T) {
	_, err := service.ParseCatalogFixture(strings.NewReader("recipes:\n  - name: soup\n"))
	assert.Error(t, err)
}
