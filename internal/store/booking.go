package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"hktplatform.app/api/core/db/sqlc"
	"hktplatform.app/api/internal/model"
)

type bookingStore struct {
	queries *sqlc.Queries
}

func newBookingStore(queries *sqlc.Queries) BookingStore {
	return &bookingStore{queries: queries}
}

func (s *bookingStore) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	row, err := s.queries.GetBooking(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return toBookingModel(row), nil
}

func (s *bookingStore) GetForUpdate(ctx context.Context, id int64) (*model.Booking, error) {
	row, err := s.queries.GetBookingForUpdate(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return toBookingModel(row), nil
}

func (s *bookingStore) Create(ctx context.Context, b *model.Booking) error {
	row, err := s.queries.CreateBooking(ctx, sqlc.CreateBookingParams{
		ID:            b.ID,
		UserID:        b.UserID,
		PropertyID:    b.PropertyID,
		CheckIn:       toDate(b.CheckIn),
		CheckOut:      toDate(b.CheckOut),
		Guests:        b.Guests,
		Nights:        b.Nights,
		NightlyRate:   toNumeric(b.NightlyRate),
		Subtotal:      toNumeric(b.Subtotal),
		Discount:      toNumeric(b.Discount),
		ServiceFee:    toNumeric(b.ServiceFee),
		Total:         toNumeric(b.Total),
		FreeWeek:      b.FreeWeek,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
	})
	if err != nil {
		return mapErr(err)
	}
	*b = *toBookingModel(row)
	return nil
}

func (s *bookingStore) ListByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	rows, err := s.queries.ListBookingsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toBookingModels(rows), nil
}

func (s *bookingStore) List(ctx context.Context, filter model.BookingFilter) ([]model.Booking, error) {
	var status *string
	if filter.Status != nil {
		v := string(*filter.Status)
		status = &v
	}
	rows, err := s.queries.ListBookings(ctx, sqlc.ListBookingsParams{
		Status:     status,
		PropertyID: filter.PropertyID,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
	if err != nil {
		return nil, err
	}
	return toBookingModels(rows), nil
}

func (s *bookingStore) CountOverlapping(ctx context.Context, propertyID int64, checkIn, checkOut time.Time) (int64, error) {
	return s.queries.CountOverlappingBookings(ctx, sqlc.CountOverlappingBookingsParams{
		PropertyID: propertyID,
		CheckIn:    toDate(checkIn),
		CheckOut:   toDate(checkOut),
	})
}

func (s *bookingStore) MarkPaid(ctx context.Context, id int64, reference string) (*model.Booking, error) {
	row, err := s.queries.MarkBookingPaid(ctx, id, reference)
	if err != nil {
		return nil, mapErr(err)
	}
	return toBookingModel(row), nil
}

func (s *bookingStore) Cancel(ctx context.Context, id int64, paymentStatus model.PaymentStatus, refund decimal.Decimal) (*model.Booking, error) {
	row, err := s.queries.CancelBooking(ctx, sqlc.CancelBookingParams{
		ID:            id,
		PaymentStatus: string(paymentStatus),
		RefundAmount:  toNumeric(refund),
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return toBookingModel(row), nil
}

func (s *bookingStore) CountByStatus(ctx context.Context) (map[model.BookingStatus]int64, error) {
	rows, err := s.queries.CountBookingsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[model.BookingStatus]int64, len(rows))
	for _, row := range rows {
		counts[model.BookingStatus(row.Status)] = row.Count
	}
	return counts, nil
}

func (s *bookingStore) PaidRevenue(ctx context.Context) (decimal.Decimal, error) {
	n, err := s.queries.SumPaidBookingRevenue(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return fromNumeric(n), nil
}

func (s *bookingStore) UserSpend(ctx context.Context, userID int64) (decimal.Decimal, error) {
	n, err := s.queries.SumUserBookingSpend(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return fromNumeric(n), nil
}

func toBookingModels(rows []sqlc.Booking) []model.Booking {
	out := make([]model.Booking, len(rows))
	for i, row := range rows {
		out[i] = *toBookingModel(row)
	}
	return out
}

func toBookingModel(row sqlc.Booking) *model.Booking {
	return &model.Booking{
		ID:               row.ID,
		UserID:           row.UserID,
		PropertyID:       row.PropertyID,
		CheckIn:          row.CheckIn.Time,
		CheckOut:         row.CheckOut.Time,
		Guests:           row.Guests,
		Nights:           row.Nights,
		NightlyRate:      fromNumeric(row.NightlyRate),
		Subtotal:         fromNumeric(row.Subtotal),
		Discount:         fromNumeric(row.Discount),
		ServiceFee:       fromNumeric(row.ServiceFee),
		Total:            fromNumeric(row.Total),
		FreeWeek:         row.FreeWeek,
		Status:           model.BookingStatus(row.Status),
		PaymentStatus:    model.PaymentStatus(row.PaymentStatus),
		PaymentReference: row.PaymentReference,
		RefundAmount:     fromNumeric(row.RefundAmount),
		CancelledAt:      timePtr(row.CancelledAt),
		CreatedAt:        row.CreatedAt.Time,
		UpdatedAt:        row.UpdatedAt.Time,
	}
}
