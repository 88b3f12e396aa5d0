package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"hktplatform.app/api/common/id"
	"hktplatform.app/api/common/logger"
	"hktplatform.app/api/internal/domain"
	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/store"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrBookingConflict = errors.New("property is already booked for these dates")
	ErrCheckInPast     = errors.New("check-in date is in the past")
	ErrAlreadyPaid     = errors.New("booking is already paid")
	ErrNotPayable      = errors.New("booking cannot be paid in its current state")
)

const dateLayout = "2006-01-02"

// BookingRequest is a stay a user asks to quote or book.
type BookingRequest struct {
	PropertyID int64
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int32
	FreeWeek   bool
}

func (r BookingRequest) stay() domain.Stay {
	return domain.Stay{
		CheckIn:  domain.Date(r.CheckIn),
		CheckOut: domain.Date(r.CheckOut),
		Guests:   r.Guests,
		FreeWeek: r.FreeWeek,
	}
}

type BookingService interface {
	Quote(ctx context.Context, req BookingRequest) (*domain.Quote, error)
	Create(ctx context.Context, userID int64, req BookingRequest) (*model.Booking, error)
	Pay(ctx context.Context, userID, bookingID int64) (*model.Booking, error)
	Cancel(ctx context.Context, actor *model.User, bookingID int64) (*model.Booking, error)
	Get(ctx context.Context, actor *model.User, bookingID int64) (*model.Booking, error)
	ListMine(ctx context.Context, userID int64) ([]model.Booking, error)
	List(ctx context.Context, filter model.BookingFilter) ([]model.Booking, error)
}

type bookingService struct {
	txRunner      TxRunner
	bookingStore  store.BookingStore
	propertyStore store.PropertyStore
	userStore     store.UserStore
	notifier      *Notifier
	now           func() time.Time
}

func NewBookingService(
	txRunner TxRunner,
	bookingStore store.BookingStore,
	propertyStore store.PropertyStore,
	userStore store.UserStore,
	notifier *Notifier,
) BookingService {
	return &bookingService{
		txRunner:      txRunner,
		bookingStore:  bookingStore,
		propertyStore: propertyStore,
		userStore:     userStore,
		notifier:      notifier,
		now:           time.Now,
	}
}

func (s *bookingService) Quote(ctx context.Context, req BookingRequest) (*domain.Quote, error) {
	p, err := s.activeProperty(ctx, s.propertyStore.GetByID, req.PropertyID)
	if err != nil {
		return nil, err
	}

	quote, err := domain.PriceStay(rates(p), req.stay())
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (s *bookingService) Create(ctx context.Context, userID int64, req BookingRequest) (*model.Booking, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: &userID, PropertyID: &req.PropertyID})

	stay := req.stay()
	if stay.CheckIn.Before(domain.Date(s.now())) {
		return nil, ErrCheckInPast
	}

	var booking *model.Booking
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		// The row lock serializes concurrent bookings of the same property.
		p, err := s.activeProperty(ctx, stores.Properties().GetForUpdate, req.PropertyID)
		if err != nil {
			return err
		}

		quote, err := domain.PriceStay(rates(p), stay)
		if err != nil {
			return err
		}

		overlapping, err := stores.Bookings().CountOverlapping(ctx, p.ID, stay.CheckIn, stay.CheckOut)
		if err != nil {
			return fmt.Errorf("checking availability: %w", err)
		}
		if overlapping > 0 {
			return ErrBookingConflict
		}

		booking = &model.Booking{
			ID:            id.New(),
			UserID:        userID,
			PropertyID:    p.ID,
			CheckIn:       stay.CheckIn,
			CheckOut:      stay.CheckOut,
			Guests:        stay.Guests,
			Nights:        quote.Nights,
			NightlyRate:   quote.NightlyRate,
			Subtotal:      quote.Subtotal,
			Discount:      quote.Discount,
			ServiceFee:    quote.ServiceFee,
			Total:         quote.Total,
			FreeWeek:      quote.FreeWeek,
			Status:        model.BookingStatusPending,
			PaymentStatus: model.PaymentStatusUnpaid,
		}
		if err := stores.Bookings().Create(ctx, booking); err != nil {
			return fmt.Errorf("creating booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "booking created", "booking_id", booking.ID, "nights", booking.Nights, "total", booking.Total.String())
	return booking, nil
}

func (s *bookingService) Pay(ctx context.Context, userID, bookingID int64) (*model.Booking, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: &userID, BookingID: &bookingID})

	var booking *model.Booking
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		b, err := stores.Bookings().GetForUpdate(ctx, bookingID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("getting booking: %w", err)
		}
		if b.UserID != userID {
			return ErrBookingNotFound
		}
		if b.PaymentStatus != model.PaymentStatusUnpaid {
			return ErrAlreadyPaid
		}
		if b.Status != model.BookingStatusPending {
			return ErrNotPayable
		}

		booking, err = stores.Bookings().MarkPaid(ctx, b.ID, paymentReference(b.ID))
		if err != nil {
			return fmt.Errorf("marking booking paid: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "booking paid", "payment_reference", deref(booking.PaymentReference))
	s.notifyBooking(ctx, domain.EmailBookingConfirmed, booking)
	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, actor *model.User, bookingID int64) (*model.Booking, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: &actor.ID, BookingID: &bookingID})

	var booking *model.Booking
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		b, err := stores.Bookings().GetForUpdate(ctx, bookingID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("getting booking: %w", err)
		}
		if b.UserID != actor.ID && !actor.IsAdmin() {
			return ErrBookingNotFound
		}

		refund, err := domain.CancellationRefund(domain.Cancellation{
			Status:  string(b.Status),
			Paid:    b.PaymentStatus == model.PaymentStatusPaid,
			Total:   b.Total,
			CheckIn: b.CheckIn,
			At:      s.now(),
		})
		if err != nil {
			return err
		}

		paymentStatus := b.PaymentStatus
		if refund.IsPositive() {
			paymentStatus = model.PaymentStatusRefunded
		}

		booking, err = stores.Bookings().Cancel(ctx, b.ID, paymentStatus, refund)
		if err != nil {
			return fmt.Errorf("cancelling booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "booking cancelled", "refund", booking.RefundAmount.String())
	s.notifyBooking(ctx, domain.EmailBookingCancelled, booking)
	return booking, nil
}

func (s *bookingService) Get(ctx context.Context, actor *model.User, bookingID int64) (*model.Booking, error) {
	b, err := s.bookingStore.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("getting booking: %w", err)
	}
	if b.UserID != actor.ID && !actor.IsAdmin() {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

func (s *bookingService) ListMine(ctx context.Context, userID int64) ([]model.Booking, error) {
	bookings, err := s.bookingStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) List(ctx context.Context, filter model.BookingFilter) ([]model.Booking, error) {
	filter.Limit, filter.Offset = page(filter.Limit, filter.Offset)
	bookings, err := s.bookingStore.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) activeProperty(
	ctx context.Context,
	get func(context.Context, int64) (*model.Property, error),
	propertyID int64,
) (*model.Property, error) {
	p, err := get(ctx, propertyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("getting property: %w", err)
	}
	if !p.IsActive {
		return nil, ErrPropertyNotFound
	}
	return p, nil
}

// notifyBooking looks up the guest and property for the email; lookup
// failures only skip the email.
func (s *bookingService) notifyBooking(ctx context.Context, kind domain.EmailKind, b *model.Booking) {
	user, err := s.userStore.GetByID(ctx, b.UserID)
	if err != nil {
		slog.WarnContext(ctx, "skipping booking email: user lookup failed", "error", err)
		return
	}
	p, err := s.propertyStore.GetByID(ctx, b.PropertyID)
	if err != nil {
		slog.WarnContext(ctx, "skipping booking email: property lookup failed", "error", err)
		return
	}

	data := map[string]string{
		"name":       user.Name,
		"property":   p.Title,
		"booking_id": strconv.FormatInt(b.ID, 10),
		"check_in":   b.CheckIn.Format(dateLayout),
	}
	switch kind {
	case domain.EmailBookingConfirmed:
		data["check_out"] = b.CheckOut.Format(dateLayout)
		data["guests"] = strconv.Itoa(int(b.Guests))
		data["total"] = b.Total.StringFixed(2)
		data["payment_reference"] = deref(b.PaymentReference)
	case domain.EmailBookingCancelled:
		data["refund"] = b.RefundAmount.StringFixed(2)
	}

	s.notifier.Send(ctx, kind, user.Email, data)
}

func rates(p *model.Property) domain.Rates {
	return domain.Rates{
		PricePerNight: p.PricePerNight,
		ServiceFee:    p.ServiceFee,
		MinNights:     p.MinNights,
		MaxGuests:     p.MaxGuests,
	}
}

func paymentReference(bookingID int64) string {
	return "PAY-" + strconv.FormatInt(bookingID, 10)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
