package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Property struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Slug            string          `json:"slug"`
	Description     string          `json:"description"`
	Location        string          `json:"location"`
	PropertyType    string          `json:"property_type"`
	PricePerNight   decimal.Decimal `json:"price_per_night"`
	ServiceFee      decimal.Decimal `json:"service_fee"`
	MinNights       int32           `json:"min_nights"`
	MaxGuests       int32           `json:"max_guests"`
	Bedrooms        int32           `json:"bedrooms"`
	Bathrooms       int32           `json:"bathrooms"`
	TotalValue      decimal.Decimal `json:"total_value"`
	TokenSupply     int64           `json:"token_supply"`
	TokensAvailable int64           `json:"tokens_available"`
	ExpectedYield   decimal.Decimal `json:"expected_yield"`
	Images          []string        `json:"images"`
	Amenities       []string        `json:"amenities"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TokenPrice is the value of one token, or zero when the property has no
// token supply.
func (p *Property) TokenPrice() decimal.Decimal {
	if p.TokenSupply <= 0 {
		return decimal.Zero
	}
	return p.TotalValue.Div(decimal.NewFromInt(p.TokenSupply))
}

type PropertyFilter struct {
	Location        *string
	PropertyType    *string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	Guests          *int32
	IncludeInactive bool
	Limit           int32
	Offset          int32
}
