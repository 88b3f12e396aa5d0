package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/service"
)

type PriceHandler struct {
	priceService service.PriceService
}

func NewPriceHandler(priceService service.PriceService) *PriceHandler {
	return &PriceHandler{priceService: priceService}
}

func (h *PriceHandler) List(c *gin.Context) {
	prices, err := h.priceService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "list prices")
		return
	}

	c.JSON(http.StatusOK, gin.H{"prices": prices})
}

func (h *PriceHandler) Get(c *gin.Context) {
	price, err := h.priceService.Get(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		respondError(c, err, "get price")
		return
	}

	c.JSON(http.StatusOK, price)
}

type historyQuery struct {
	Limit int32  `form:"limit" binding:"min=0,max=1000"`
	Since string `form:"since"`
}

func (h *PriceHandler) History(c *gin.Context) {
	var q historyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	var since *time.Time
	if q.Since != "" {
		t, err := time.Parse(time.RFC3339, q.Since)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "since must be an RFC 3339 timestamp", "code": "invalid_request"})
			return
		}
		since = &t
	}

	snapshots, err := h.priceService.History(c.Request.Context(), c.Param("symbol"), since, q.Limit)
	if err != nil {
		respondError(c, err, "get price history")
		return
	}

	history := make([]model.Price, len(snapshots))
	for i, s := range snapshots {
		history[i] = s.Price
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}
