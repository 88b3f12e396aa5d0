package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hktplatform.app/api/internal/http/dto"
	"hktplatform.app/api/internal/http/middleware"
	"hktplatform.app/api/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToUserResponse(middleware.GetUser(c.Request.Context())))
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(ctx, middleware.GetUser(ctx).ID, req.Name, req.AvatarURL)
	if err != nil {
		respondError(c, err, "update profile")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *UserHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	dashboard, err := h.userService.Dashboard(ctx, middleware.GetUser(ctx).ID)
	if err != nil {
		respondError(c, err, "load dashboard")
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardResponse(dashboard))
}

type pageQuery struct {
	Limit  int32 `form:"limit" binding:"min=0,max=100"`
	Offset int32 `form:"offset" binding:"min=0"`
}

// List is admin only.
func (h *UserHandler) List(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	users, total, err := h.userService.List(c.Request.Context(), q.Limit, q.Offset)
	if err != nil {
		respondError(c, err, "list users")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserListResponse(users, total))
}

// UpdateAccess is admin only. Requests admitted by the API key have no actor.
func (h *UserHandler) UpdateAccess(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	var actorID int64
	if actor := middleware.GetUser(ctx); actor != nil {
		actorID = actor.ID
	}

	user, err := h.userService.UpdateAccess(ctx, actorID, userID, req.Role, req.IsActive)
	if err != nil {
		respondError(c, err, "update user")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
