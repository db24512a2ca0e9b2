package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pageza/foodgram/backend/internal/models"
	"gopkg.in/yaml.v3"
)

// CatalogFixture is the YAML document the catalog is seeded from
type CatalogFixture struct {
	Ingredients []models.Ingredient `yaml:"ingredients"`
	Tags        []models.Tag        `yaml:"tags"`
}

// ParseCatalogFixture decodes a catalog fixture, rejecting unknown keys
func ParseCatalogFixture(r io.Reader) (*CatalogFixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fixture CatalogFixture
	if err := dec.Decode(&fixture); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse catalog fixture: %w", err)
	}
	return &fixture, nil
}

// Import loads the fixture's tags, then its ingredients, and returns how
// many rows of each were written
func (s *CatalogService) Import(ctx context.Context, fixture *CatalogFixture) (tags, ingredients int64, err error) {
	if tags, err = s.ImportTags(ctx, fixture.Tags); err != nil {
		return 0, 0, err
	}
	if ingredients, err = s.ImportIngredients(ctx, fixture.Ingredients); err != nil {
		return tags, 0, err
	}
	return tags, ingredients, nil
}
