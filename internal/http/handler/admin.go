package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hktplatform.app/api/internal/service"
)

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "load stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
