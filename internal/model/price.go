package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Price struct {
	Symbol     string          `json:"symbol"`
	PriceUSD   decimal.Decimal `json:"price_usd"`
	Source     string          `json:"source"`
	ObservedAt time.Time       `json:"observed_at"`
}

type PriceSnapshot struct {
	ID int64 `json:"id"`
	Price
}
