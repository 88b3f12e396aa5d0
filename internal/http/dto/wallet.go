package dto

import (
	"time"

	"hktplatform.app/api/internal/model"
)

type ChallengeRequest struct {
	Address string `json:"address" binding:"required"`
	ChainID int64  `json:"chain_id" binding:"required"`
}

type ChallengeResponse struct {
	ChallengeID int64     `json:"challenge_id,string"`
	Address     string    `json:"address"`
	ChainID     int64     `json:"chain_id"`
	Message     string    `json:"message"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func ToChallengeResponse(c *model.VerificationChallenge) *ChallengeResponse {
	return &ChallengeResponse{
		ChallengeID: c.ID,
		Address:     c.Address,
		ChainID:     c.ChainID,
		Message:     c.Message,
		ExpiresAt:   c.ExpiresAt,
	}
}

type VerifyWalletRequest struct {
	ChallengeID int64   `json:"challenge_id,string" binding:"required"`
	Signature   string  `json:"signature" binding:"required"`
	Label       *string `json:"label,omitempty" binding:"omitempty,max=100"`
}

type WalletResponse struct {
	ID         int64      `json:"id,string"`
	Address    string     `json:"address"`
	ChainID    int64      `json:"chain_id"`
	Label      *string    `json:"label,omitempty"`
	IsPrimary  bool       `json:"is_primary"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func ToWalletResponse(w *model.Wallet) *WalletResponse {
	return &WalletResponse{
		ID:         w.ID,
		Address:    w.Address,
		ChainID:    w.ChainID,
		Label:      w.Label,
		IsPrimary:  w.IsPrimary,
		VerifiedAt: w.VerifiedAt,
		CreatedAt:  w.CreatedAt,
	}
}

func ToWalletResponses(wallets []model.Wallet) []*WalletResponse {
	resp := make([]*WalletResponse, len(wallets))
	for i := range wallets {
		resp[i] = ToWalletResponse(&wallets[i])
	}
	return resp
}

type ChainRequest struct {
	Name         string  `json:"name" binding:"required,max=100"`
	NativeSymbol string  `json:"native_symbol" binding:"required,max=20"`
	RPCURL       string  `json:"rpc_url" binding:"required,max=2048"`
	ExplorerURL  *string `json:"explorer_url,omitempty" binding:"omitempty,max=2048"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

func (r ChainRequest) ToModel(chainID int64) model.SupportedChain {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return model.SupportedChain{
		ChainID:      chainID,
		Name:         r.Name,
		NativeSymbol: r.NativeSymbol,
		RPCURL:       r.RPCURL,
		ExplorerURL:  r.ExplorerURL,
		IsActive:     active,
	}
}

// CreateChainRequest carries the chain id in the body; updates take it from the path.
type CreateChainRequest struct {
	ChainID int64 `json:"chain_id" binding:"required"`
	ChainRequest
}
