package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"hktplatform.app/api/internal/service"
)

var _ = Describe("Housekeeper", func() {
	var (
		ctx        context.Context
		sessions   *mockSessionStore
		challenges *mockChallengeStore
		prices     *mockPriceStore
	)

	BeforeEach(func() {
		ctx = context.Background()
		sessions = &mockSessionStore{
			deleteExpiredFn: func(context.Context) (int64, error) { return 3, nil },
		}
		challenges = newMockChallengeStore()
		challenges.deleteExpiredFn = func(context.Context) (int64, error) { return 2, nil }
		prices = &mockPriceStore{}
	})

	It("sweeps every table and prunes snapshots past the retention window", func() {
		var cutoff time.Time
		prices.deleteBeforeFn = func(_ context.Context, before time.Time) (int64, error) {
			cutoff = before
			return 40, nil
		}
		hk := service.NewHousekeeper(sessions, challenges, prices, 48*time.Hour)

		res, err := hk.Sweep(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal(service.SweepResult{Sessions: 3, Challenges: 2, Snapshots: 40}))
		Expect(cutoff).To(BeTemporally("~", time.Now().Add(-48*time.Hour), 5*time.Second))
	})

	It("keeps price history when retention is disabled", func() {
		prices.deleteBeforeFn = func(context.Context, time.Time) (int64, error) {
			Fail("snapshots must not be pruned")
			return 0, nil
		}
		hk := service.NewHousekeeper(sessions, challenges, prices, 0)

		res, err := hk.Sweep(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Snapshots).To(BeZero())
	})

	It("continues past a failing step and reports it", func() {
		sessions.deleteExpiredFn = func(context.Context) (int64, error) {
			return 0, errors.New("connection reset")
		}
		hk := service.NewHousekeeper(sessions, challenges, prices, time.Hour)

		res, err := hk.Sweep(ctx)

		Expect(err).To(MatchError(ContainSubstring("deleting expired sessions")))
		Expect(res.Challenges).To(Equal(int64(2)))
	})

	It("rejects an invalid schedule", func() {
		hk := service.NewHousekeeper(sessions, challenges, prices, time.Hour)
		Expect(hk.Start(ctx, "whenever")).NotTo(Succeed())
	})
})
