package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type Booking struct {
	ID               int64           `json:"id"`
	UserID           int64           `json:"user_id"`
	PropertyID       int64           `json:"property_id"`
	CheckIn          time.Time       `json:"check_in"`
	CheckOut         time.Time       `json:"check_out"`
	Guests           int32           `json:"guests"`
	Nights           int32           `json:"nights"`
	NightlyRate      decimal.Decimal `json:"nightly_rate"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Discount         decimal.Decimal `json:"discount"`
	ServiceFee       decimal.Decimal `json:"service_fee"`
	Total            decimal.Decimal `json:"total"`
	FreeWeek         bool            `json:"free_week"`
	Status           BookingStatus   `json:"status"`
	PaymentStatus    PaymentStatus   `json:"payment_status"`
	PaymentReference *string         `json:"payment_reference,omitempty"`
	RefundAmount     decimal.Decimal `json:"refund_amount"`
	CancelledAt      *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Active bookings hold their dates against other bookings.
func (b *Booking) Active() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

type BookingFilter struct {
	Status     *BookingStatus
	PropertyID *int64
	Limit      int32
	Offset     int32
}
