package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

const shoppingListFilename = "shopping_list.txt"

// RecipeHandler serves recipes and the per-user favorite and cart lists
type RecipeHandler struct {
	recipes     service.IRecipeService
	memberships service.IMembershipService
	shopping    service.IShoppingListService
	validator   middleware.TokenValidator
	limiter     *middleware.RateLimiter
}

func NewRecipeHandler(
	recipes service.IRecipeService,
	memberships service.IMembershipService,
	shopping service.IShoppingListService,
	validator middleware.TokenValidator,
	limiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:     recipes,
		memberships: memberships,
		shopping:    shopping,
		validator:   validator,
		limiter:     limiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.validator)
	optional := middleware.OptionalAuth(h.validator)

	create := []gin.HandlerFunc{auth}
	if h.limiter != nil {
		create = append(create, h.limiter.RateLimitMiddleware())
	}
	create = append(create, h.CreateRecipe)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optional, h.ListRecipes)
		recipes.POST("", create...)
		recipes.GET("/download_shopping_cart", auth, h.DownloadShoppingCart)
		recipes.GET("/:id", optional, h.GetRecipe)
		recipes.PATCH("/:id", auth, h.UpdateRecipe)
		recipes.PUT("/:id", auth, h.UpdateRecipe)
		recipes.DELETE("/:id", auth, h.DeleteRecipe)
		recipes.POST("/:id/favorite", auth, h.addMember(service.KindFavorite))
		recipes.DELETE("/:id/favorite", auth, h.removeMember(service.KindFavorite))
		recipes.POST("/:id/shopping_cart", auth, h.addMember(service.KindShoppingCart))
		recipes.DELETE("/:id/shopping_cart", auth, h.removeMember(service.KindShoppingCart))
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter, field, ok := parseRecipeFilter(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameter", "field": field})
		return
	}

	views, total, err := h.recipes.ListRecipes(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, views, total, filter.Page, filter.Limit))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		respondError(c, service.ErrRecipeNotFound)
		return
	}
	view, err := h.recipes.GetRecipe(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	view, err := h.recipes.CreateRecipe(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err, service.ErrIngredientNotFound)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		respondError(c, service.ErrRecipeNotFound)
		return
	}
	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	view, err := h.recipes.UpdateRecipe(c.Request.Context(), id, middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err, service.ErrIngredientNotFound)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		respondError(c, service.ErrRecipeNotFound)
		return
	}
	if err := h.recipes.DeleteRecipe(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) addMember(kind service.MembershipKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			respondError(c, service.ErrRecipeNotFound)
			return
		}
		summary, err := h.memberships.Add(c.Request.Context(), middleware.UserID(c), id, kind)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, summary)
	}
}

func (h *RecipeHandler) removeMember(kind service.MembershipKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			respondError(c, service.ErrRecipeNotFound)
			return
		}
		err := h.memberships.Remove(c.Request.Context(), middleware.UserID(c), id, kind)
		if err != nil {
			respondError(c, err, service.ErrNotMember)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	items, err := h.shopping.Build(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	metrics.ShoppingListItems.Observe(float64(len(items)))

	c.Header("Content-Disposition", `attachment; filename="`+shoppingListFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.RenderShoppingList(items)))
}

// parseRecipeFilter reads the listing predicates. Tags may be repeated or
// comma separated. On failure it returns the offending parameter.
func parseRecipeFilter(c *gin.Context) (types.RecipeListFilter, string, bool) {
	var filter types.RecipeListFilter

	page, limit, field, ok := pageParams(c)
	if !ok {
		return filter, field, false
	}
	filter.Page, filter.Limit = page, limit

	if v := c.Query("author"); v != "" {
		author, err := uuid.Parse(v)
		if err != nil {
			return filter, "author", false
		}
		filter.Author = &author
	}

	for _, v := range c.QueryArray("tags") {
		for _, slug := range strings.Split(v, ",") {
			if slug = strings.TrimSpace(slug); slug != "" {
				filter.TagSlugs = append(filter.TagSlugs, slug)
			}
		}
	}

	var err error
	if filter.IsFavorited, err = boolParam(c, "is_favorited"); err != nil {
		return filter, "is_favorited", false
	}
	if filter.IsInShoppingCart, err = boolParam(c, "is_in_shopping_cart"); err != nil {
		return filter, "is_in_shopping_cart", false
	}
	return filter, "", true
}

func boolParam(c *gin.Context, name string) (*bool, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
