package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvestmentStatus string

const (
	InvestmentStatusPending   InvestmentStatus = "pending"
	InvestmentStatusConfirmed InvestmentStatus = "confirmed"
	InvestmentStatusCancelled InvestmentStatus = "cancelled"
)

type Investment struct {
	ID         int64            `json:"id"`
	UserID     int64            `json:"user_id"`
	PropertyID int64            `json:"property_id"`
	Tokens     int64            `json:"tokens"`
	Amount     decimal.Decimal  `json:"amount"`
	Status     InvestmentStatus `json:"status"`
	TxHash     *string          `json:"tx_hash,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

type InvestmentTotals struct {
	Amount decimal.Decimal `json:"amount"`
	Tokens int64           `json:"tokens"`
}
