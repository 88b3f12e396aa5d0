package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/service"
)

type PropertyRequest struct {
	Title         string          `json:"title" binding:"required,max=200"`
	Description   string          `json:"description"`
	Location      string          `json:"location" binding:"required,max=200"`
	PropertyType  string          `json:"property_type" binding:"required,max=50"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
	ServiceFee    decimal.Decimal `json:"service_fee"`
	MinNights     int32           `json:"min_nights"`
	MaxGuests     int32           `json:"max_guests" binding:"required"`
	Bedrooms      int32           `json:"bedrooms"`
	Bathrooms     int32           `json:"bathrooms"`
	TotalValue    decimal.Decimal `json:"total_value"`
	TokenSupply   int64           `json:"token_supply"`
	ExpectedYield decimal.Decimal `json:"expected_yield"`
	Images        []string        `json:"images" binding:"max=30,dive,max=2048"`
	Amenities     []string        `json:"amenities" binding:"max=50,dive,max=100"`
}

func (r PropertyRequest) ToInput() service.PropertyInput {
	return service.PropertyInput{
		Title:         r.Title,
		Description:   r.Description,
		Location:      r.Location,
		PropertyType:  r.PropertyType,
		PricePerNight: r.PricePerNight,
		ServiceFee:    r.ServiceFee,
		MinNights:     r.MinNights,
		MaxGuests:     r.MaxGuests,
		Bedrooms:      r.Bedrooms,
		Bathrooms:     r.Bathrooms,
		TotalValue:    r.TotalValue,
		TokenSupply:   r.TokenSupply,
		ExpectedYield: r.ExpectedYield,
		Images:        r.Images,
		Amenities:     r.Amenities,
	}
}

// PropertyQuery is the public listing filter. Prices stay strings so they
// can be parsed as decimals.
type PropertyQuery struct {
	Location     string `form:"location" binding:"max=200"`
	PropertyType string `form:"type" binding:"max=50"`
	MinPrice     string `form:"min_price"`
	MaxPrice     string `form:"max_price"`
	Guests       int32  `form:"guests" binding:"min=0,max=20"`
	Limit        int32  `form:"limit" binding:"min=0,max=100"`
	Offset       int32  `form:"offset" binding:"min=0"`
}

type PropertyResponse struct {
	ID              int64           `json:"id,string"`
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
	TokenPrice      decimal.Decimal `json:"token_price"`
	ExpectedYield   decimal.Decimal `json:"expected_yield"`
	Images          []string        `json:"images"`
	Amenities       []string        `json:"amenities"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func ToPropertyResponse(p *model.Property) *PropertyResponse {
	return &PropertyResponse{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		Description:     p.Description,
		Location:        p.Location,
		PropertyType:    p.PropertyType,
		PricePerNight:   p.PricePerNight,
		ServiceFee:      p.ServiceFee,
		MinNights:       p.MinNights,
		MaxGuests:       p.MaxGuests,
		Bedrooms:        p.Bedrooms,
		Bathrooms:       p.Bathrooms,
		TotalValue:      p.TotalValue,
		TokenSupply:     p.TokenSupply,
		TokensAvailable: p.TokensAvailable,
		TokenPrice:      p.TokenPrice().Round(8),
		ExpectedYield:   p.ExpectedYield,
		Images:          nonNil(p.Images),
		Amenities:       nonNil(p.Amenities),
		IsActive:        p.IsActive,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func ToPropertyResponses(properties []model.Property) []*PropertyResponse {
	resp := make([]*PropertyResponse, len(properties))
	for i := range properties {
		resp[i] = ToPropertyResponse(&properties[i])
	}
	return resp
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
