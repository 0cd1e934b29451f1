package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type UserHandler struct {
	userService service.IUserService
}

func NewUserHandler(userService service.IUserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("/", h.ListUsers)
		users.POST("/", h.Register)
		users.GET("/:id/", h.GetUser)
		users.GET("/:id/avatar/", h.GetAvatar)

		authed := users.Group("", middleware.RequireAuth())
		authed.GET("/me/", h.Me)
		authed.GET("/me/avatar/", h.GetMyAvatar)
		authed.PUT("/me/avatar/", h.SetAvatar)
		authed.DELETE("/me/avatar/", h.DeleteAvatar)
		authed.POST("/set_password/", h.SetPassword)
		authed.GET("/subscriptions/", h.Subscriptions)
		authed.POST("/:id/subscribe/", h.Subscribe)
		authed.DELETE("/:id/subscribe/", h.Unsubscribe)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, err := paginatedParams(c)
	if err != nil {
		respondError(c, err)
		return
	}
	users, total, err := h.userService.List(c.Request.Context(), middleware.Viewer(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, page, total, users))
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bind(c, &req) {
		return
	}
	user, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), middleware.Viewer(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.Me(c.Request.Context(), middleware.Viewer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetAvatar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.writeAvatar(c, id)
}

func (h *UserHandler) GetMyAvatar(c *gin.Context) {
	h.writeAvatar(c, middleware.Viewer(c).UserID)
}

func (h *UserHandler) writeAvatar(c *gin.Context, id uint) {
	avatar, err := h.userService.Avatar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, avatar)
}

func (h *UserHandler) SetAvatar(c *gin.Context) {
	var req types.AvatarRequest
	if !bind(c, &req) {
		return
	}
	avatar, err := h.userService.SetAvatar(c.Request.Context(), middleware.Viewer(c), req.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, avatar)
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	if err := h.userService.DeleteAvatar(c.Request.Context(), middleware.Viewer(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req types.SetPasswordRequest
	if !bind(c, &req) {
		return
	}
	if err := h.userService.SetPassword(c.Request.Context(), middleware.Viewer(c), &req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	page, err := paginatedParams(c)
	if err != nil {
		respondError(c, err)
		return
	}
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}
	subs, total, err := h.userService.Subscriptions(c.Request.Context(), middleware.Viewer(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, page, total, subs))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}
	sub, err := h.userService.Subscribe(c.Request.Context(), middleware.Viewer(c), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.userService.Unsubscribe(c.Request.Context(), middleware.Viewer(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
