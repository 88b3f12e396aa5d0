package domain_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"hktplatform.app/api/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var _ = Describe("PriceStay", func() {
	var rates domain.Rates

	BeforeEach(func() {
		rates = domain.Rates{
			PricePerNight: dec("120.50"),
			ServiceFee:    dec("35"),
			MinNights:     2,
			MaxGuests:     6,
		}
	})

	It("charges nights times rate plus the service fee", func() {
		q, err := domain.PriceStay(rates, domain.Stay{CheckIn: day("2026-03-01"), CheckOut: day("2026-03-04"), Guests: 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(q.Nights).To(Equal(int32(3)))
		Expect(q.Subtotal.Equal(dec("361.50"))).To(BeTrue())
		Expect(q.Discount.IsZero()).To(BeTrue())
		Expect(q.Total.Equal(dec("396.50"))).To(BeTrue())
	})

	It("waives seven nights when the free-week offer applies", func() {
		q, err := domain.PriceStay(rates, domain.Stay{CheckIn: day("2026-03-01"), CheckOut: day("2026-03-11"), Guests: 2, FreeWeek: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(q.Nights).To(Equal(int32(10)))
		Expect(q.FreeWeek).To(BeTrue())
		Expect(q.Discount.Equal(dec("843.50"))).To(BeTrue())
		Expect(q.Total.Equal(dec("1205").Sub(dec("843.50")).Add(dec("35")))).To(BeTrue())
	})

	It("ignores the free-week flag for stays shorter than a week", func() {
		q, err := domain.PriceStay(rates, domain.Stay{CheckIn: day("2026-03-01"), CheckOut: day("2026-03-07"), Guests: 1, FreeWeek: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(q.FreeWeek).To(BeFalse())
		Expect(q.Discount.IsZero()).To(BeTrue())
	})

	It("counts calendar days regardless of time of day", func() {
		in := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)
		out := time.Date(2026, 3, 3, 1, 0, 0, 0, time.UTC)
		Expect(domain.Nights(in, out)).To(Equal(int32(2)))
	})

	DescribeTable("rejects invalid stays",
		func(checkIn, checkOut string, guests int32, expected error) {
			_, err := domain.PriceStay(rates, domain.Stay{CheckIn: day(checkIn), CheckOut: day(checkOut), Guests: guests})
			Expect(err).To(MatchError(expected))
		},
		Entry("check-out before check-in", "2026-03-05", "2026-03-01", int32(2), domain.ErrInvalidDates),
		Entry("same-day checkout", "2026-03-05", "2026-03-05", int32(2), domain.ErrInvalidDates),
		Entry("below minimum stay", "2026-03-05", "2026-03-06", int32(2), domain.ErrMinimumStay),
		Entry("zero guests", "2026-03-01", "2026-03-04", int32(0), domain.ErrInvalidGuests),
		Entry("more guests than the property allows", "2026-03-01", "2026-03-04", int32(7), domain.ErrInvalidGuests),
	)

	It("caps guests at twenty even when the property allows more", func() {
		rates.MaxGuests = 50
		_, err := domain.PriceStay(rates, domain.Stay{CheckIn: day("2026-03-01"), CheckOut: day("2026-03-04"), Guests: 21})
		Expect(err).To(MatchError(domain.ErrInvalidGuests))
	})
})

var _ = Describe("CancellationRefund", func() {
	checkIn := day("2026-06-10")

	It("refunds half of a paid confirmed booking before check-in", func() {
		refund, err := domain.CancellationRefund(domain.Cancellation{
			Status: "confirmed", Paid: true, Total: dec("801"), CheckIn: checkIn, At: day("2026-06-01"),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(refund.Equal(dec("400.5"))).To(BeTrue())
	})

	It("refunds nothing for an unpaid booking", func() {
		refund, err := domain.CancellationRefund(domain.Cancellation{
			Status: "pending", Total: dec("801"), CheckIn: checkIn, At: day("2026-06-01"),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(refund.IsZero()).To(BeTrue())
	})

	It("rejects cancellation on the check-in day", func() {
		_, err := domain.CancellationRefund(domain.Cancellation{
			Status: "confirmed", Paid: true, Total: dec("801"), CheckIn: checkIn, At: checkIn.Add(2 * time.Hour),
		})
		Expect(err).To(MatchError(domain.ErrCancellationWindow))
	})

	It("rejects bookings that are already cancelled", func() {
		_, err := domain.CancellationRefund(domain.Cancellation{
			Status: "cancelled", Total: dec("801"), CheckIn: checkIn, At: day("2026-06-01"),
		})
		Expect(err).To(MatchError(domain.ErrNotCancellable))
	})
})

var _ = Describe("InvestmentAmount", func() {
	It("prices tokens proportionally to the property value", func() {
		Expect(domain.InvestmentAmount(dec("1000000"), 10000, 25).Equal(dec("2500"))).To(BeTrue())
	})

	It("returns zero when the property has no supply", func() {
		Expect(domain.InvestmentAmount(dec("1000000"), 0, 25).IsZero()).To(BeTrue())
	})
})
