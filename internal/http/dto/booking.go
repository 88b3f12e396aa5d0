package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"hktplatform.app/api/internal/model"
)

const DateLayout = "2006-01-02"

type BookingRequest struct {
	PropertyID int64  `json:"property_id,string" binding:"required"`
	CheckIn    string `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut   string `json:"check_out" binding:"required,datetime=2006-01-02"`
	Guests     int32  `json:"guests" binding:"required"`
	FreeWeek   bool   `json:"free_week"`
}

type BookingQuery struct {
	Status     string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
	PropertyID int64  `form:"property_id"`
	Limit      int32  `form:"limit" binding:"min=0,max=100"`
	Offset     int32  `form:"offset" binding:"min=0"`
}

type BookingResponse struct {
	ID               int64               `json:"id,string"`
	UserID           int64               `json:"user_id,string"`
	PropertyID       int64               `json:"property_id,string"`
	CheckIn          string              `json:"check_in"`
	CheckOut         string              `json:"check_out"`
	Guests           int32               `json:"guests"`
	Nights           int32               `json:"nights"`
	NightlyRate      decimal.Decimal     `json:"nightly_rate"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	Discount         decimal.Decimal     `json:"discount"`
	ServiceFee       decimal.Decimal     `json:"service_fee"`
	Total            decimal.Decimal     `json:"total"`
	FreeWeek         bool                `json:"free_week"`
	Status           model.BookingStatus `json:"status"`
	PaymentStatus    model.PaymentStatus `json:"payment_status"`
	PaymentReference *string             `json:"payment_reference,omitempty"`
	RefundAmount     decimal.Decimal     `json:"refund_amount"`
	CancelledAt      *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

func ToBookingResponse(b *model.Booking) *BookingResponse {
	return &BookingResponse{
		ID:               b.ID,
		UserID:           b.UserID,
		PropertyID:       b.PropertyID,
		CheckIn:          b.CheckIn.Format(DateLayout),
		CheckOut:         b.CheckOut.Format(DateLayout),
		Guests:           b.Guests,
		Nights:           b.Nights,
		NightlyRate:      b.NightlyRate,
		Subtotal:         b.Subtotal,
		Discount:         b.Discount,
		ServiceFee:       b.ServiceFee,
		Total:            b.Total,
		FreeWeek:         b.FreeWeek,
		Status:           b.Status,
		PaymentStatus:    b.PaymentStatus,
		PaymentReference: b.PaymentReference,
		RefundAmount:     b.RefundAmount,
		CancelledAt:      b.CancelledAt,
		CreatedAt:        b.CreatedAt,
	}
}

func ToBookingResponses(bookings []model.Booking) []*BookingResponse {
	resp := make([]*BookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = ToBookingResponse(&bookings[i])
	}
	return resp
}
