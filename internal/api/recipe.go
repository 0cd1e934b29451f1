package api

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/export"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipeService         service.IRecipeService
	recipeCreationLimiter *middleware.RateLimiter
}

// NewRecipeHandler creates the recipe handler. limiter may be nil.
func NewRecipeHandler(recipeService service.IRecipeService, limiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipeService:         recipeService,
		recipeCreationLimiter: limiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("/", h.ListRecipes)
		recipes.GET("/:id/", h.GetRecipe)
		recipes.GET("/:id/get-link/", h.GetLink)

		authed := recipes.Group("", middleware.RequireAuth())
		authed.POST("/", h.recipeCreationLimiter.RateLimitMiddleware(), h.CreateRecipe)
		authed.PUT("/:id/", h.UpdateRecipe)
		authed.PATCH("/:id/", h.UpdateRecipe)
		authed.DELETE("/:id/", h.DeleteRecipe)
		authed.POST("/:id/favorite/", h.AddFavorite)
		authed.DELETE("/:id/favorite/", h.RemoveFavorite)
		authed.POST("/:id/shopping_cart/", h.AddToShoppingCart)
		authed.DELETE("/:id/shopping_cart/", h.RemoveFromShoppingCart)
		authed.GET("/download_shopping_cart/", h.DownloadShoppingCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, err := paginatedParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	verr := &service.ValidationError{}
	filter := types.RecipeFilter{
		Tags:             c.QueryArray("tags"),
		IsFavorited:      queryBool(c, "is_favorited", verr),
		IsInShoppingCart: queryBool(c, "is_in_shopping_cart", verr),
		Search:           c.Query("search"),
	}
	if raw := c.Query("author"); raw != "" {
		author, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			verr.Add("author", "A valid user id is required.")
		}
		filter.AuthorID = uint(author)
	}
	if err := verr.Err(); err != nil {
		respondError(c, err)
		return
	}

	recipes, total, err := h.recipeService.ListRecipes(c.Request.Context(), middleware.Viewer(c), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, page, total, recipes))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), middleware.Viewer(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.RecipeWriteRequest
	if !bind(c, &req) {
		return
	}
	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), middleware.Viewer(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// UpdateRecipe serves both PUT and PATCH; fields left out keep their value.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.RecipeWriteRequest
	if !bind(c, &req) {
		return
	}
	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), middleware.Viewer(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.recipeService.DeleteRecipe(c.Request.Context(), middleware.Viewer(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addPair(c, h.recipeService.AddFavorite)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removePair(c, h.recipeService.RemoveFavorite)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	h.addPair(c, h.recipeService.AddToShoppingCart)
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	h.removePair(c, h.recipeService.RemoveFromShoppingCart)
}

func (h *RecipeHandler) addPair(c *gin.Context, add func(context.Context, types.Viewer, uint) (*types.RecipeShortResponse, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	recipe, err := add(c.Request.Context(), middleware.Viewer(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) removePair(c *gin.Context, remove func(context.Context, types.Viewer, uint) error) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := remove(c.Request.Context(), middleware.Viewer(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart sends the aggregated cart as text (default) or PDF.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		respondError(c, service.NewValidationError("format", "Supported formats are text, txt and pdf."))
		return
	}

	items, err := h.recipeService.ShoppingList(c.Request.Context(), middleware.Viewer(c))
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, items); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+format.Filename()+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (h *RecipeHandler) GetLink(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	link, err := h.recipeService.ShortLink(c.Request.Context(), id, baseURL(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}
