package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hktplatform.app/api/common/logger"
	"hktplatform.app/api/internal/http/dto"
	"hktplatform.app/api/internal/http/middleware"
	"hktplatform.app/api/internal/service"
)

type InvestmentHandler struct {
	investmentService service.InvestmentService
}

func NewInvestmentHandler(investmentService service.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService}
}

func (h *InvestmentHandler) Invest(c *gin.Context) {
	var req dto.InvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{PropertyID: &req.PropertyID})
	inv, err := h.investmentService.Invest(ctx, middleware.GetUser(ctx).ID, req.PropertyID, req.Tokens)
	if err != nil {
		respondError(c, err, "create investment")
		return
	}

	c.JSON(http.StatusCreated, dto.ToInvestmentResponse(inv))
}

func (h *InvestmentHandler) ListMine(c *gin.Context) {
	ctx := c.Request.Context()

	investments, err := h.investmentService.ListMine(ctx, middleware.GetUser(ctx).ID)
	if err != nil {
		respondError(c, err, "list investments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"investments": dto.ToInvestmentResponses(investments)})
}

func (h *InvestmentHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()

	investmentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	inv, err := h.investmentService.Cancel(ctx, middleware.GetUser(ctx).ID, investmentID)
	if err != nil {
		respondError(c, err, "cancel investment")
		return
	}

	c.JSON(http.StatusOK, dto.ToInvestmentResponse(inv))
}
