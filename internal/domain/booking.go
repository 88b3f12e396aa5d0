package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	MinGuests = 1
	MaxGuests = 20

	// FreeWeekNights is the number of nights waived by the free-week offer.
	FreeWeekNights = 7
)

var (
	ErrInvalidDates       = errors.New("check-out must be after check-in")
	ErrMinimumStay        = errors.New("stay is shorter than the property's minimum")
	ErrInvalidGuests      = errors.New("guest count is outside the allowed range")
	ErrCancellationWindow = errors.New("booking can no longer be cancelled")
	ErrNotCancellable     = errors.New("booking is not in a cancellable state")
)

var refundRate = decimal.NewFromFloat(0.5)

// Rates are the property terms a quote is priced against.
type Rates struct {
	PricePerNight decimal.Decimal
	ServiceFee    decimal.Decimal
	MinNights     int32
	MaxGuests     int32
}

type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int32
	FreeWeek bool
}

type Quote struct {
	Nights      int32           `json:"nights"`
	NightlyRate decimal.Decimal `json:"nightly_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	ServiceFee  decimal.Decimal `json:"service_fee"`
	Total       decimal.Decimal `json:"total"`
	FreeWeek    bool            `json:"free_week"`
}

// Date truncates t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Nights counts whole calendar days between check-in and check-out.
func Nights(checkIn, checkOut time.Time) int32 {
	return int32(Date(checkOut).Sub(Date(checkIn)).Hours() / 24)
}

// PriceStay computes nights × rate, the free-week discount and the service
// fee. The free week applies only to stays of at least seven nights.
func PriceStay(r Rates, s Stay) (Quote, error) {
	nights := Nights(s.CheckIn, s.CheckOut)
	if nights <= 0 {
		return Quote{}, ErrInvalidDates
	}

	minNights := r.MinNights
	if minNights < 1 {
		minNights = 1
	}
	if nights < minNights {
		return Quote{}, ErrMinimumStay
	}

	maxGuests := r.MaxGuests
	if maxGuests <= 0 || maxGuests > MaxGuests {
		maxGuests = MaxGuests
	}
	if s.Guests < MinGuests || s.Guests > maxGuests {
		return Quote{}, ErrInvalidGuests
	}

	subtotal := r.PricePerNight.Mul(decimal.NewFromInt32(nights))
	discount := decimal.Zero
	freeWeek := s.FreeWeek && nights >= FreeWeekNights
	if freeWeek {
		discount = r.PricePerNight.Mul(decimal.NewFromInt(FreeWeekNights))
	}

	return Quote{
		Nights:      nights,
		NightlyRate: r.PricePerNight,
		Subtotal:    subtotal,
		Discount:    discount,
		ServiceFee:  r.ServiceFee,
		Total:       subtotal.Sub(discount).Add(r.ServiceFee),
		FreeWeek:    freeWeek,
	}, nil
}

// Cancellation describes a booking being cancelled at a point in time.
type Cancellation struct {
	Status  string
	Paid    bool
	Total   decimal.Decimal
	CheckIn time.Time
	At      time.Time
}

// CancellationRefund returns the amount refunded when a pending or confirmed
// booking is cancelled strictly before its check-in day: half the total when
// it was paid, nothing otherwise.
func CancellationRefund(c Cancellation) (decimal.Decimal, error) {
	if c.Status != "pending" && c.Status != "confirmed" {
		return decimal.Zero, ErrNotCancellable
	}
	if !c.At.Before(Date(c.CheckIn)) {
		return decimal.Zero, ErrCancellationWindow
	}
	if !c.Paid {
		return decimal.Zero, nil
	}
	return c.Total.Mul(refundRate).Round(8), nil
}

// InvestmentAmount prices tokens at total_value / token_supply.
func InvestmentAmount(totalValue decimal.Decimal, tokenSupply, tokens int64) decimal.Decimal {
	if tokenSupply <= 0 {
		return decimal.Zero
	}
	return totalValue.Mul(decimal.NewFromInt(tokens)).Div(decimal.NewFromInt(tokenSupply)).Round(8)
}
