package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hktplatform.app/api/internal/http/dto"
	"hktplatform.app/api/internal/http/middleware"
	"hktplatform.app/api/internal/service"
)

type AssistantHandler struct {
	assistantService service.AssistantService
}

func NewAssistantHandler(assistantService service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

func (h *AssistantHandler) Chat(c *gin.Context) {
	ctx := c.Request.Context()

	if !h.assistantService.Enabled() {
		respondError(c, service.ErrAssistantUnavailable, "chat")
		return
	}

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.assistantService.Chat(ctx, middleware.GetUser(ctx).ID, req.ToMessages())
	if err != nil {
		respondError(c, err, "chat")
		return
	}

	c.JSON(http.StatusOK, result)
}
