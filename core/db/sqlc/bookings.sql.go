package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const bookingColumns = `id, user_id, property_id, check_in, check_out, guests, nights, nightly_rate, subtotal, discount, service_fee, total, free_week, status, payment_status, payment_reference, refund_amount, cancelled_at, created_at, updated_at`

func scanBooking(row scanner) (Booking, error) {
	var i Booking
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.PropertyID,
		&i.CheckIn,
		&i.CheckOut,
		&i.Guests,
		&i.Nights,
		&i.NightlyRate,
		&i.Subtotal,
		&i.Discount,
		&i.ServiceFee,
		&i.Total,
		&i.FreeWeek,
		&i.Status,
		&i.PaymentStatus,
		&i.PaymentReference,
		&i.RefundAmount,
		&i.CancelledAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createBooking = `-- name: CreateBooking :one
INSERT INTO bookings (
    id, user_id, property_id, check_in, check_out, guests, nights, nightly_rate,
    subtotal, discount, service_fee, total, free_week, status, payment_status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING ` + bookingColumns

type CreateBookingParams struct {
	ID            int64
	UserID        int64
	PropertyID    int64
	CheckIn       pgtype.Date
	CheckOut      pgtype.Date
	Guests        int32
	Nights        int32
	NightlyRate   pgtype.Numeric
	Subtotal      pgtype.Numeric
	Discount      pgtype.Numeric
	ServiceFee    pgtype.Numeric
	Total         pgtype.Numeric
	FreeWeek      bool
	Status        string
	PaymentStatus string
}

func (q *Queries) CreateBooking(ctx context.Context, arg CreateBookingParams) (Booking, error) {
	row := q.db.QueryRow(ctx, createBooking,
		arg.ID,
		arg.UserID,
		arg.PropertyID,
		arg.CheckIn,
		arg.CheckOut,
		arg.Guests,
		arg.Nights,
		arg.NightlyRate,
		arg.Subtotal,
		arg.Discount,
		arg.ServiceFee,
		arg.Total,
		arg.FreeWeek,
		arg.Status,
		arg.PaymentStatus,
	)
	return scanBooking(row)
}

const getBooking = `-- name: GetBooking :one
SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

func (q *Queries) GetBooking(ctx context.Context, id int64) (Booking, error) {
	return scanBooking(q.db.QueryRow(ctx, getBooking, id))
}

const getBookingForUpdate = `-- name: GetBookingForUpdate :one
SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`

func (q *Queries) GetBookingForUpdate(ctx context.Context, id int64) (Booking, error) {
	return scanBooking(q.db.QueryRow(ctx, getBookingForUpdate, id))
}

const listBookingsByUser = `-- name: ListBookingsByUser :many
SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY check_in DESC`

func (q *Queries) ListBookingsByUser(ctx context.Context, userID int64) ([]Booking, error) {
	rows, err := q.db.Query(ctx, listBookingsByUser, userID)
	return collect(rows, err, scanBooking)
}

const listBookings = `-- name: ListBookings :many
SELECT ` + bookingColumns + ` FROM bookings
WHERE ($1::text IS NULL OR status = $1::text)
  AND ($2::bigint IS NULL OR property_id = $2::bigint)
ORDER BY created_at DESC
LIMIT $3 OFFSET $4`

type ListBookingsParams struct {
	Status     *string
	PropertyID *int64
	Limit      int32
	Offset     int32
}

func (q *Queries) ListBookings(ctx context.Context, arg ListBookingsParams) ([]Booking, error) {
	rows, err := q.db.Query(ctx, listBookings, arg.Status, arg.PropertyID, arg.Limit, arg.Offset)
	return collect(rows, err, scanBooking)
}

const countOverlappingBookings = `-- name: CountOverlappingBookings :one
SELECT count(*) FROM bookings
WHERE property_id = $1
  AND status IN ('pending', 'confirmed')
  AND check_in < $3
  AND check_out > $2`

type CountOverlappingBookingsParams struct {
	PropertyID int64
	CheckIn    pgtype.Date
	CheckOut   pgtype.Date
}

func (q *Queries) CountOverlappingBookings(ctx context.Context, arg CountOverlappingBookingsParams) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countOverlappingBookings, arg.PropertyID, arg.CheckIn, arg.CheckOut).Scan(&count)
	return count, err
}

const markBookingPaid = `-- name: MarkBookingPaid :one
UPDATE bookings
SET status = 'confirmed', payment_status = 'paid', payment_reference = $2, updated_at = now()
WHERE id = $1
RETURNING ` + bookingColumns

func (q *Queries) MarkBookingPaid(ctx context.Context, id int64, paymentReference string) (Booking, error) {
	return scanBooking(q.db.QueryRow(ctx, markBookingPaid, id, paymentReference))
}

const cancelBooking = `-- name: CancelBooking :one
UPDATE bookings
SET status = 'cancelled', payment_status = $2, refund_amount = $3, cancelled_at = now(), updated_at = now()
WHERE id = $1
RETURNING ` + bookingColumns

type CancelBookingParams struct {
	ID            int64
	PaymentStatus string
	RefundAmount  pgtype.Numeric
}

func (q *Queries) CancelBooking(ctx context.Context, arg CancelBookingParams) (Booking, error) {
	return scanBooking(q.db.QueryRow(ctx, cancelBooking, arg.ID, arg.PaymentStatus, arg.RefundAmount))
}

const countBookingsByStatus = `-- name: CountBookingsByStatus :many
SELECT status, count(*) FROM bookings GROUP BY status`

type CountBookingsByStatusRow struct {
	Status string
	Count  int64
}

func (q *Queries) CountBookingsByStatus(ctx context.Context) ([]CountBookingsByStatusRow, error) {
	rows, err := q.db.Query(ctx, countBookingsByStatus)
	return collect(rows, err, func(row scanner) (CountBookingsByStatusRow, error) {
		var i CountBookingsByStatusRow
		err := row.Scan(&i.Status, &i.Count)
		return i, err
	})
}

const sumPaidBookingRevenue = `-- name: SumPaidBookingRevenue :one
SELECT COALESCE(sum(total), 0)::numeric FROM bookings WHERE payment_status = 'paid'`

func (q *Queries) SumPaidBookingRevenue(ctx context.Context) (pgtype.Numeric, error) {
	var total pgtype.Numeric
	err := q.db.QueryRow(ctx, sumPaidBookingRevenue).Scan(&total)
	return total, err
}

const sumUserBookingSpend = `-- name: SumUserBookingSpend :one
SELECT COALESCE(sum(total - refund_amount), 0)::numeric FROM bookings
WHERE user_id = $1 AND payment_status IN ('paid', 'refunded')`

func (q *Queries) SumUserBookingSpend(ctx context.Context, userID int64) (pgtype.Numeric, error) {
	var total pgtype.Numeric
	err := q.db.QueryRow(ctx, sumUserBookingSpend, userID).Scan(&total)
	return total, err
}
