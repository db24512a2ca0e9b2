package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Dependencies are the services the HTTP routes are served from
type Dependencies struct {
	DB             *gorm.DB
	Auth           service.IAuthService
	Recipes        service.IRecipeService
	Memberships    service.IMembershipService
	Shopping       service.IShoppingListService
	Catalog        service.ICatalogService
	Images         *service.ImageService
	Limiter        *middleware.RateLimiter
	AllowedOrigins []string
	MediaBaseURL   string
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(deps.AllowedOrigins))
	router.NoRoute(middleware.NoRoute)

	router.GET("/health", healthHandler(deps.DB))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if deps.Images != nil {
		api.NewMediaHandler(deps.Images, deps.MediaBaseURL).RegisterRoutes(router)
	}

	v1 := router.Group("/api")
	api.NewUserHandler(deps.Auth).RegisterRoutes(v1)
	api.NewCatalogHandler(deps.Catalog).RegisterRoutes(v1)
	api.NewRecipeHandler(deps.Recipes, deps.Memberships, deps.Shopping, deps.Auth, deps.Limiter).RegisterRoutes(v1)

	return router
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.Ping(ctx, db); err != nil {
			logrus.WithError(err).Warn("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
