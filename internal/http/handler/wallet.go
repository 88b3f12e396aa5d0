package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hktplatform.app/api/internal/http/dto"
	"hktplatform.app/api/internal/http/middleware"
	"hktplatform.app/api/internal/service"
)

type WalletHandler struct {
	walletService service.WalletService
}

func NewWalletHandler(walletService service.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

func (h *WalletHandler) Challenge(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	challenge, err := h.walletService.CreateChallenge(ctx, middleware.GetUser(ctx).ID, req.Address, req.ChainID)
	if err != nil {
		respondError(c, err, "create challenge")
		return
	}

	c.JSON(http.StatusCreated, dto.ToChallengeResponse(challenge))
}

func (h *WalletHandler) Verify(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.VerifyWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	wallet, err := h.walletService.Verify(ctx, middleware.GetUser(ctx).ID, req.ChallengeID, req.Signature, req.Label)
	if err != nil {
		respondError(c, err, "verify wallet")
		return
	}

	c.JSON(http.StatusOK, dto.ToWalletResponse(wallet))
}

func (h *WalletHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	wallets, err := h.walletService.List(ctx, middleware.GetUser(ctx).ID)
	if err != nil {
		respondError(c, err, "list wallets")
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallets": dto.ToWalletResponses(wallets)})
}

func (h *WalletHandler) SetPrimary(c *gin.Context) {
	ctx := c.Request.Context()

	walletID, ok := pathID(c, "id")
	if !ok {
		return
	}

	wallet, err := h.walletService.SetPrimary(ctx, middleware.GetUser(ctx).ID, walletID)
	if err != nil {
		respondError(c, err, "set primary wallet")
		return
	}

	c.JSON(http.StatusOK, dto.ToWalletResponse(wallet))
}

func (h *WalletHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	walletID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.walletService.Delete(ctx, middleware.GetUser(ctx).ID, walletID); err != nil {
		respondError(c, err, "delete wallet")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *WalletHandler) Balance(c *gin.Context) {
	ctx := c.Request.Context()

	walletID, ok := pathID(c, "id")
	if !ok {
		return
	}

	balance, err := h.walletService.Balance(ctx, middleware.GetUser(ctx).ID, walletID)
	if err != nil {
		respondError(c, err, "get balance")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wallet_id": strconv.FormatInt(balance.WalletID, 10),
		"address":   balance.Address,
		"chain_id":  balance.ChainID,
		"symbol":    balance.Symbol,
		"wei":       balance.Wei,
		"balance":   balance.Balance,
	})
}
