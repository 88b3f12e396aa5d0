package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hktplatform.app/api/internal/http/dto"
	"hktplatform.app/api/internal/service"
)

type ContactHandler struct {
	contactService service.ContactService
}

func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.contactService.Submit(c.Request.Context(), req.Name, req.Email, req.Message); err != nil {
		respondError(c, err, "send message")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "message received"})
}
