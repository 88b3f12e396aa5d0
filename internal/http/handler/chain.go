package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hktplatform.app/api/internal/http/dto"
	"hktplatform.app/api/internal/service"
)

type ChainHandler struct {
	chainService service.ChainService
}

func NewChainHandler(chainService service.ChainService) *ChainHandler {
	return &ChainHandler{chainService: chainService}
}

func (h *ChainHandler) List(c *gin.Context) {
	chains, err := h.chainService.List(c.Request.Context(), false)
	if err != nil {
		respondError(c, err, "list chains")
		return
	}

	c.JSON(http.StatusOK, gin.H{"chains": chains})
}

func (h *ChainHandler) Create(c *gin.Context) {
	var req dto.CreateChainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	chain, err := h.chainService.Upsert(c.Request.Context(), req.ToModel(req.ChainID))
	if err != nil {
		respondError(c, err, "save chain")
		return
	}

	c.JSON(http.StatusCreated, chain)
}

func (h *ChainHandler) Update(c *gin.Context) {
	chainID, ok := pathID(c, "chain_id")
	if !ok {
		return
	}

	if _, err := h.chainService.Get(c.Request.Context(), chainID); err != nil {
		respondError(c, err, "get chain")
		return
	}

	var req dto.ChainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	chain, err := h.chainService.Upsert(c.Request.Context(), req.ToModel(chainID))
	if err != nil {
		respondError(c, err, "save chain")
		return
	}

	c.JSON(http.StatusOK, chain)
}
