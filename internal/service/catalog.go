package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/pkg/validator"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const catalogCachePrefix = "catalog"

// CatalogService serves the read-only ingredient and tag catalogs
type CatalogService struct {
	db    *gorm.DB
	cache *redis.Client
	ttl   time.Duration
}

// NewCatalogService creates a new CatalogService. cache may be nil.
func NewCatalogService(db *gorm.DB, cache *redis.Client) *CatalogService {
	return &CatalogService{
		db:    db,
		cache: cache,
		ttl:   10 * time.Minute,
	}
}

// ListIngredients returns ingredients whose name starts with prefix,
// ignoring case, ordered by name
func (s *CatalogService) ListIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))

	var ingredients []models.Ingredient
	key := fmt.Sprintf("%s:ingredients:%s", catalogCachePrefix, prefix)
	if s.cacheGet(ctx, key, &ingredients) {
		return ingredients, nil
	}

	query := s.db.WithContext(ctx).Order("name ASC").Order("id ASC")
	if prefix != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%")
	}
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}

	s.cacheSet(ctx, key, ingredients)
	return ingredients, nil
}

// GetIngredient returns a single ingredient
func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return &ingredient, nil
}

// ListTags returns every tag ordered by id
func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	key := catalogCachePrefix + ":tags"
	if s.cacheGet(ctx, key, &tags) {
		return tags, nil
	}

	if err := s.db.WithContext(ctx).Order("id ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	s.cacheSet(ctx, key, tags)
	return tags, nil
}

// GetTag returns a single tag
func (s *CatalogService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	return &tag, nil
}

// ValidateTagColor rejects anything that is not a #RRGGBB color
func ValidateTagColor(color string) error {
	if !validator.IsHexColor(color) {
		return newValidationError("color", fmt.Sprintf("%q is not a color in #RRGGBB format", color))
	}
	return nil
}

// ImportIngredients inserts catalog ingredients, skipping ones that already
// exist with the same name and unit. It returns the number inserted.
func (s *CatalogService) ImportIngredients(ctx context.Context, ingredients []models.Ingredient) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	for i := range ingredients {
		if err := validator.ValidateStruct(&ingredients[i]); err != nil {
			return 0, fromValidator(err)
		}
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(ingredients, 500)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to import ingredients: %w", res.Error)
	}
	s.invalidate(ctx)
	return res.RowsAffected, nil
}

// ImportTags inserts or updates tags keyed by slug. Colors are validated
// before anything is written.
func (s *CatalogService) ImportTags(ctx context.Context, tags []models.Tag) (int64, error) {
	if len(tags) == 0 {
		return 0, nil
	}
	for i := range tags {
		if err := ValidateTagColor(tags[i].Color); err != nil {
			return 0, err
		}
		if err := validator.ValidateStruct(&tags[i]); err != nil {
			return 0, fromValidator(err)
		}
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "color"}),
		}).
		Create(&tags)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to import tags: %w", res.Error)
	}
	s.invalidate(ctx)
	return res.RowsAffected, nil
}

func (s *CatalogService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.WithError(err).WithField("key", key).Warn("catalog cache read failed")
		}
		metrics.CatalogCacheMisses.Inc()
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("discarding malformed catalog cache entry")
		metrics.CatalogCacheMisses.Inc()
		return false
	}
	metrics.CatalogCacheHits.Inc()
	return true
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("catalog cache write failed")
	}
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	iter := s.cache.Scan(ctx, 0, catalogCachePrefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		s.cache.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logrus.WithError(err).Warn("catalog cache invalidation failed")
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}
