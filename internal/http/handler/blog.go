package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hktplatform.app/api/internal/http/dto"
	"hktplatform.app/api/internal/http/middleware"
	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/service"
)

type BlogHandler struct {
	blogService service.BlogService
}

func NewBlogHandler(blogService service.BlogService) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

func (h *BlogHandler) ListPublished(c *gin.Context) {
	var q dto.PostQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	var tag *string
	if v := strings.TrimSpace(q.Tag); v != "" {
		tag = &v
	}

	posts, err := h.blogService.ListPublished(c.Request.Context(), tag, q.Limit, q.Offset)
	if err != nil {
		respondError(c, err, "list posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": dto.ToPostSummaries(posts)})
}

func (h *BlogHandler) GetPublished(c *gin.Context) {
	post, err := h.blogService.GetPublished(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "get post")
		return
	}

	c.JSON(http.StatusOK, dto.ToPostResponse(post))
}

// ListAll is admin only and includes drafts.
func (h *BlogHandler) ListAll(c *gin.Context) {
	var q dto.PostQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	filter := model.BlogFilter{Limit: q.Limit, Offset: q.Offset}
	if q.Status != "" {
		status := model.PostStatus(q.Status)
		filter.Status = &status
	}
	if v := strings.TrimSpace(q.Tag); v != "" {
		filter.Tag = &v
	}

	posts, err := h.blogService.ListAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "list posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": dto.ToPostSummaries(posts)})
}

// Create needs an admin session; the API key has no author to attribute.
func (h *BlogHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	author := middleware.GetUser(ctx)
	if author == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "posts must be written by a signed-in admin", "code": "forbidden"})
		return
	}

	var req dto.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	post, err := h.blogService.Create(ctx, author.ID, req.ToInput())
	if err != nil {
		respondError(c, err, "create post")
		return
	}

	c.JSON(http.StatusCreated, dto.ToPostResponse(post))
}

func (h *BlogHandler) Update(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	post, err := h.blogService.Update(c.Request.Context(), postID, req.ToInput())
	if err != nil {
		respondError(c, err, "update post")
		return
	}

	c.JSON(http.StatusOK, dto.ToPostResponse(post))
}

func (h *BlogHandler) Publish(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	post, err := h.blogService.Publish(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err, "publish post")
		return
	}

	c.JSON(http.StatusOK, dto.ToPostResponse(post))
}

func (h *BlogHandler) Delete(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.blogService.Delete(c.Request.Context(), postID); err != nil {
		respondError(c, err, "delete post")
		return
	}

	c.Status(http.StatusNoContent)
}
