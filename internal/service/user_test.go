package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/service"
)

var _ = Describe("UserService", func() {
	var (
		ctx         context.Context
		users       *mockUserStore
		sessions    *mockSessionStore
		investments *mockInvestmentStore
		svc         service.UserService
		current     *model.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		avatar := "https://example.com/a.png"
		current = &model.User{ID: 7, Name: "Jane", AvatarURL: &avatar, Role: model.RoleAdmin, IsActive: true}
		users = &mockUserStore{
			getByIDFn: func(_ context.Context, id int64) (*model.User, error) {
				u := *current
				u.ID = id
				return &u, nil
			},
		}
		sessions = &mockSessionStore{}
		investments = &mockInvestmentStore{}
		svc = service.NewUserService(users, sessions, &mockBookingStore{}, investments, newMockWalletStore())
	})

	Describe("UpdateProfile", func() {
		It("keeps fields that are not provided", func() {
			name := "  Jane Doe "
			u, err := svc.UpdateProfile(ctx, 7, &name, nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(u.Name).To(Equal("Jane Doe"))
			Expect(*u.AvatarURL).To(Equal("https://example.com/a.png"))
		})

		It("clears the avatar on an empty string", func() {
			empty := ""
			u, err := svc.UpdateProfile(ctx, 7, nil, &empty)

			Expect(err).NotTo(HaveOccurred())
			Expect(u.AvatarURL).To(BeNil())
		})

		It("rejects a blank name", func() {
			blank := "   "
			_, err := svc.UpdateProfile(ctx, 7, &blank, nil)
			Expect(err).To(MatchError(service.ErrInvalidName))
		})
	})

	Describe("Dashboard", func() {
		It("reports the portfolio from confirmed investment totals", func() {
			investments.totalsFn = func(_ context.Context, userID *int64) (model.InvestmentTotals, error) {
				Expect(userID).NotTo(BeNil())
				Expect(*userID).To(Equal(int64(7)))
				return model.InvestmentTotals{Amount: decimal.NewFromInt(1500), Tokens: 15}, nil
			}

			d, err := svc.Dashboard(ctx, 7)

			Expect(err).NotTo(HaveOccurred())
			Expect(d.User.ID).To(Equal(int64(7)))
			Expect(d.PortfolioValue.Equal(decimal.NewFromInt(1500))).To(BeTrue())
			Expect(d.TokensHeld).To(Equal(int64(15)))
		})
	})

	Describe("UpdateAccess", func() {
		It("changes role and status", func() {
			role := model.RoleUser
			active := false

			u, err := svc.UpdateAccess(ctx, 1, 9, &role, &active)

			Expect(err).NotTo(HaveOccurred())
			Expect(u.Role).To(Equal(model.RoleUser))
			Expect(u.IsActive).To(BeFalse())
			Expect(sessions.revokedUsers).To(ConsistOf(int64(9)))
		})

		It("leaves sessions alone for a role change", func() {
			role := model.RoleUser

			_, err := svc.UpdateAccess(ctx, 1, 9, &role, nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(sessions.revokedUsers).To(BeEmpty())
		})

		It("rejects unknown roles", func() {
			role := model.Role("owner")
			_, err := svc.UpdateAccess(ctx, 1, 9, &role, nil)
			Expect(err).To(MatchError(service.ErrInvalidRole))
		})

		It("stops admins from demoting themselves", func() {
			role := model.RoleUser
			_, err := svc.UpdateAccess(ctx, 7, 7, &role, nil)
			Expect(err).To(MatchError(service.ErrSelfDemote))
		})
	})
})
