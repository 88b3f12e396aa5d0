package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"hktplatform.app/api/internal/domain"
	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/service"
	"hktplatform.app/api/internal/store"
)

var _ = Describe("BookingService", func() {
	var (
		ctx        context.Context
		properties *mockPropertyStore
		bookings   *mockBookingStore
		users      *mockUserStore
		producer   *mockProducer
		tx         *mockTxRunner
		svc        service.BookingService
		property   *model.Property
		today      time.Time
	)

	day := func(offset int) time.Time {
		return today.AddDate(0, 0, offset)
	}

	BeforeEach(func() {
		ctx = context.Background()
		today = domain.Date(time.Now())
		property = &model.Property{
			ID:            10,
			Title:         "Harbour Villa",
			PricePerNight: decimal.NewFromInt(100),
			ServiceFee:    decimal.NewFromInt(25),
			MinNights:     2,
			MaxGuests:     4,
			IsActive:      true,
		}
		properties = &mockPropertyStore{
			getByIDFn: func(_ context.Context, id int64) (*model.Property, error) {
				if id == property.ID {
					return property, nil
				}
				return nil, store.ErrNotFound
			},
		}
		bookings = &mockBookingStore{}
		users = &mockUserStore{
			getByIDFn: func(_ context.Context, id int64) (*model.User, error) {
				return &model.User{ID: id, Email: "guest@example.com", Name: "Guest"}, nil
			},
		}
		producer = &mockProducer{}
		tx = &mockTxRunner{stores: &mockStoreProvider{properties: properties, bookings: bookings}}
		svc = service.NewBookingService(tx, bookings, properties, users, service.NewNotifier(producer))
	})

	Describe("Quote", func() {
		It("prices nights plus the service fee", func() {
			q, err := svc.Quote(ctx, service.BookingRequest{PropertyID: 10, CheckIn: day(3), CheckOut: day(6), Guests: 2})

			Expect(err).NotTo(HaveOccurred())
			Expect(q.Nights).To(Equal(int32(3)))
			Expect(q.Subtotal.Equal(decimal.NewFromInt(300))).To(BeTrue())
			Expect(q.Total.Equal(decimal.NewFromInt(325))).To(BeTrue())
		})

		It("applies the free week on stays of seven nights or more", func() {
			q, err := svc.Quote(ctx, service.BookingRequest{PropertyID: 10, CheckIn: day(1), CheckOut: day(11), Guests: 2, FreeWeek: true})

			Expect(err).NotTo(HaveOccurred())
			Expect(q.Discount.Equal(decimal.NewFromInt(700))).To(BeTrue())
			Expect(q.Total.Equal(decimal.NewFromInt(325))).To(BeTrue())
		})

		It("enforces the property's minimum stay", func() {
			_, err := svc.Quote(ctx, service.BookingRequest{PropertyID: 10, CheckIn: day(1), CheckOut: day(2), Guests: 2})
			Expect(err).To(MatchError(domain.ErrMinimumStay))
		})

		It("rejects more guests than the property holds", func() {
			_, err := svc.Quote(ctx, service.BookingRequest{PropertyID: 10, CheckIn: day(1), CheckOut: day(4), Guests: 5})
			Expect(err).To(MatchError(domain.ErrInvalidGuests))
		})

		It("hides inactive properties", func() {
			property.IsActive = false
			_, err := svc.Quote(ctx, service.BookingRequest{PropertyID: 10, CheckIn: day(1), CheckOut: day(4), Guests: 2})
			Expect(err).To(MatchError(service.ErrPropertyNotFound))
		})
	})

	Describe("Create", func() {
		It("persists a pending unpaid booking inside a transaction", func() {
			var created *model.Booking
			bookings.createFn = func(_ context.Context, b *model.Booking) error {
				created = b
				return nil
			}

			b, err := svc.Create(ctx, 7, service.BookingRequest{PropertyID: 10, CheckIn: day(3), CheckOut: day(6), Guests: 2})

			Expect(err).NotTo(HaveOccurred())
			Expect(tx.calls).To(Equal(1))
			Expect(created).To(Equal(b))
			Expect(b.UserID).To(Equal(int64(7)))
			Expect(b.Status).To(Equal(model.BookingStatusPending))
			Expect(b.PaymentStatus).To(Equal(model.PaymentStatusUnpaid))
			Expect(b.Total.Equal(decimal.NewFromInt(325))).To(BeTrue())
			Expect(b.CheckIn).To(Equal(day(3)))
		})

		It("rejects overlapping bookings", func() {
			bookings.countOverlappingFn = func(_ context.Context, propertyID int64, checkIn, checkOut time.Time) (int64, error) {
				Expect(propertyID).To(Equal(int64(10)))
				Expect(checkIn).To(Equal(day(3)))
				Expect(checkOut).To(Equal(day(6)))
				return 1, nil
			}

			_, err := svc.Create(ctx, 7, service.BookingRequest{PropertyID: 10, CheckIn: day(3), CheckOut: day(6), Guests: 2})
			Expect(err).To(MatchError(service.ErrBookingConflict))
		})

		It("rejects a check-in in the past", func() {
			_, err := svc.Create(ctx, 7, service.BookingRequest{PropertyID: 10, CheckIn: day(-1), CheckOut: day(3), Guests: 2})
			Expect(err).To(MatchError(service.ErrCheckInPast))
			Expect(tx.calls).To(BeZero())
		})
	})

	Describe("Pay", func() {
		var booking *model.Booking

		BeforeEach(func() {
			booking = &model.Booking{
				ID: 55, UserID: 7, PropertyID: 10,
				CheckIn: day(3), CheckOut: day(6), Guests: 2,
				Total:         decimal.NewFromInt(325),
				Status:        model.BookingStatusPending,
				PaymentStatus: model.PaymentStatusUnpaid,
			}
			bookings.getByIDFn = func(context.Context, int64) (*model.Booking, error) { return booking, nil }
			bookings.markPaidFn = func(_ context.Context, _ int64, ref string) (*model.Booking, error) {
				paid := *booking
				paid.Status = model.BookingStatusConfirmed
				paid.PaymentStatus = model.PaymentStatusPaid
				paid.PaymentReference = &ref
				return &paid, nil
			}
		})

		It("confirms the booking and queues a confirmation email", func() {
			b, err := svc.Pay(ctx, 7, 55)

			Expect(err).NotTo(HaveOccurred())
			Expect(b.Status).To(Equal(model.BookingStatusConfirmed))
			Expect(*b.PaymentReference).To(Equal("PAY-55"))
			Expect(producer.kinds()).To(Equal([]domain.EmailKind{domain.EmailBookingConfirmed}))
			Expect(producer.jobs[0].Data).To(HaveKeyWithValue("payment_reference", "PAY-55"))
			Expect(producer.jobs[0].Data).To(HaveKeyWithValue("total", "325.00"))
			Expect(producer.jobs[0].Data).To(HaveKeyWithValue("property", "Harbour Villa"))
		})

		It("refuses to pay someone else's booking", func() {
			_, err := svc.Pay(ctx, 8, 55)
			Expect(err).To(MatchError(service.ErrBookingNotFound))
		})

		It("refuses to pay twice", func() {
			booking.PaymentStatus = model.PaymentStatusPaid
			_, err := svc.Pay(ctx, 7, 55)
			Expect(err).To(MatchError(service.ErrAlreadyPaid))
		})
	})

	Describe("Cancel", func() {
		var (
			booking   *model.Booking
			gotStatus model.PaymentStatus
			gotRefund decimal.Decimal
			owner     = &model.User{ID: 7, Role: model.RoleUser}
			admin     = &model.User{ID: 1, Role: model.RoleAdmin}
			stranger  = &model.User{ID: 8, Role: model.RoleUser}
		)

		BeforeEach(func() {
			ref := "PAY-55"
			booking = &model.Booking{
				ID: 55, UserID: 7, PropertyID: 10,
				CheckIn: day(3), CheckOut: day(6),
				Total:            decimal.NewFromInt(325),
				Status:           model.BookingStatusConfirmed,
				PaymentStatus:    model.PaymentStatusPaid,
				PaymentReference: &ref,
			}
			bookings.getByIDFn = func(context.Context, int64) (*model.Booking, error) { return booking, nil }
			bookings.cancelFn = func(_ context.Context, _ int64, status model.PaymentStatus, refund decimal.Decimal) (*model.Booking, error) {
				gotStatus, gotRefund = status, refund
				cancelled := *booking
				cancelled.Status = model.BookingStatusCancelled
				cancelled.PaymentStatus = status
				cancelled.RefundAmount = refund
				return &cancelled, nil
			}
		})

		It("refunds half of a paid booking cancelled before check-in", func() {
			b, err := svc.Cancel(ctx, owner, 55)

			Expect(err).NotTo(HaveOccurred())
			Expect(b.Status).To(Equal(model.BookingStatusCancelled))
			Expect(gotRefund.Equal(decimal.RequireFromString("162.5"))).To(BeTrue())
			Expect(gotStatus).To(Equal(model.PaymentStatusRefunded))
			Expect(producer.kinds()).To(Equal([]domain.EmailKind{domain.EmailBookingCancelled}))
			Expect(producer.jobs[0].Data).To(HaveKeyWithValue("refund", "162.50"))
		})

		It("refunds nothing for an unpaid booking", func() {
			booking.Status = model.BookingStatusPending
			booking.PaymentStatus = model.PaymentStatusUnpaid

			_, err := svc.Cancel(ctx, owner, 55)

			Expect(err).NotTo(HaveOccurred())
			Expect(gotRefund.IsZero()).To(BeTrue())
			Expect(gotStatus).To(Equal(model.PaymentStatusUnpaid))
		})

		It("rejects cancellation on the check-in day", func() {
			booking.CheckIn = today

			_, err := svc.Cancel(ctx, owner, 55)

			Expect(err).To(MatchError(domain.ErrCancellationWindow))
			Expect(producer.jobs).To(BeEmpty())
		})

		It("rejects bookings that are already cancelled", func() {
			booking.Status = model.BookingStatusCancelled
			_, err := svc.Cancel(ctx, owner, 55)
			Expect(err).To(MatchError(domain.ErrNotCancellable))
		})

		It("lets admins cancel any booking", func() {
			_, err := svc.Cancel(ctx, admin, 55)
			Expect(err).NotTo(HaveOccurred())
		})

		It("hides other users' bookings", func() {
			_, err := svc.Cancel(ctx, stranger, 55)
			Expect(err).To(MatchError(service.ErrBookingNotFound))
		})
	})
})
