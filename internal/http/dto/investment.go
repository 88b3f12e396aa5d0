package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"hktplatform.app/api/internal/model"
)

type InvestRequest struct {
	PropertyID int64 `json:"property_id,string" binding:"required"`
	Tokens     int64 `json:"tokens" binding:"required"`
}

type InvestmentResponse struct {
	ID         int64                  `json:"id,string"`
	PropertyID int64                  `json:"property_id,string"`
	Tokens     int64                  `json:"tokens"`
	Amount     decimal.Decimal        `json:"amount"`
	Status     model.InvestmentStatus `json:"status"`
	TxHash     *string                `json:"tx_hash,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

func ToInvestmentResponse(inv *model.Investment) *InvestmentResponse {
	return &InvestmentResponse{
		ID:         inv.ID,
		PropertyID: inv.PropertyID,
		Tokens:     inv.Tokens,
		Amount:     inv.Amount,
		Status:     inv.Status,
		TxHash:     inv.TxHash,
		CreatedAt:  inv.CreatedAt,
		UpdatedAt:  inv.UpdatedAt,
	}
}

func ToInvestmentResponses(investments []model.Investment) []*InvestmentResponse {
	resp := make([]*InvestmentResponse, len(investments))
	for i := range investments {
		resp[i] = ToInvestmentResponse(&investments[i])
	}
	return resp
}
