package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Services bundles everything the handlers depend on.
type Services struct {
	Auth    service.IAuthService
	Users   service.IUserService
	Recipes service.IRecipeService
	Catalog service.ICatalogService
	// Health reports whether the backing stores are reachable.
	Health func(ctx context.Context) error
	// RecipeCreationLimiter may be nil.
	RecipeCreationLimiter *middleware.RateLimiter
}

// RegisterRoutes mounts the health check and the /api tree on router.
func RegisterRoutes(router *gin.Engine, svc Services) {
	registerValidators()

	router.GET("/health", healthCheck(svc.Health))

	api := router.Group("/api", middleware.AuthMiddleware(svc.Auth))
	NewAuthHandler(svc.Auth).RegisterRoutes(api)
	NewUserHandler(svc.Users).RegisterRoutes(api)
	NewCatalogHandler(svc.Catalog).RegisterRoutes(api)
	NewRecipeHandler(svc.Recipes, svc.RecipeCreationLimiter).RegisterRoutes(api)
}

func healthCheck(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}
