package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/service"
	"hktplatform.app/api/internal/store"
)

var _ = Describe("PropertyService", func() {
	var (
		ctx        context.Context
		properties *mockPropertyStore
		txRunner   *mockTxRunner
		svc        service.PropertyService
		input      service.PropertyInput
	)

	BeforeEach(func() {
		ctx = context.Background()
		properties = &mockPropertyStore{}
		txRunner = &mockTxRunner{stores: &mockStoreProvider{properties: properties}}
		svc = service.NewPropertyService(txRunner, properties, service.NewListingCache())
		input = service.PropertyInput{
			Title:         "Harbour Villa",
			Location:      "Hong Kong",
			PropertyType:  "Villa",
			PricePerNight: decimal.NewFromInt(250),
			ServiceFee:    decimal.NewFromInt(30),
			MaxGuests:     6,
			TotalValue:    decimal.NewFromInt(2_000_000),
			TokenSupply:   20_000,
		}
	})

	Describe("Create", func() {
		It("stores a normalized property with a unique slug", func() {
			properties.slugExistsFn = func(_ context.Context, slug string) (bool, error) {
				return slug == "harbour-villa", nil
			}

			p, err := svc.Create(ctx, input)

			Expect(err).NotTo(HaveOccurred())
			Expect(p.ID).NotTo(BeZero())
			Expect(p.Slug).To(Equal("harbour-villa-2"))
			Expect(p.PropertyType).To(Equal("villa"))
			Expect(p.MinNights).To(Equal(int32(1)))
			Expect(p.TokensAvailable).To(Equal(int64(20_000)))
			Expect(p.Images).NotTo(BeNil())
			Expect(p.IsActive).To(BeTrue())
		})

		It("rejects a negative nightly price", func() {
			input.PricePerNight = decimal.NewFromInt(-1)

			_, err := svc.Create(ctx, input)

			Expect(err).To(MatchError(service.ErrInvalidProperty))
		})

		DescribeTable("rejects invalid input",
			func(mutate func(*service.PropertyInput)) {
				mutate(&input)
				_, err := svc.Create(ctx, input)
				Expect(err).To(MatchError(service.ErrInvalidProperty))
			},
			Entry("missing title", func(in *service.PropertyInput) { in.Title = " " }),
			Entry("negative fee", func(in *service.PropertyInput) { in.ServiceFee = decimal.NewFromInt(-5) }),
			Entry("too many guests", func(in *service.PropertyInput) { in.MaxGuests = 21 }),
			Entry("no guests", func(in *service.PropertyInput) { in.MaxGuests = 0 }),
			Entry("negative minimum stay", func(in *service.PropertyInput) { in.MinNights = -1 }),
			Entry("negative value", func(in *service.PropertyInput) { in.TotalValue = decimal.NewFromInt(-1) }),
		)
	})

	Describe("List", func() {
		It("serves repeated queries from the listing cache until a write", func() {
			properties.listFn = func(context.Context, model.PropertyFilter) ([]model.Property, error) {
				return []model.Property{{ID: 1}}, nil
			}

			_, err := svc.List(ctx, model.PropertyFilter{})
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.List(ctx, model.PropertyFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(properties.listCalls).To(Equal(1))

			Expect(svc.Delete(ctx, 1)).To(Succeed())

			_, err = svc.List(ctx, model.PropertyFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(properties.listCalls).To(Equal(2))
		})

		It("keys the cache by filter", func() {
			loc := "Kowloon"
			_, _ = svc.List(ctx, model.PropertyFilter{})
			_, _ = svc.List(ctx, model.PropertyFilter{Location: &loc})
			Expect(properties.listCalls).To(Equal(2))
		})

		It("clamps the page size", func() {
			var got model.PropertyFilter
			properties.listFn = func(_ context.Context, f model.PropertyFilter) ([]model.Property, error) {
				got = f
				return nil, nil
			}

			_, _ = svc.List(ctx, model.PropertyFilter{Limit: 5000, Offset: -3})

			Expect(got.Limit).To(Equal(int32(100)))
			Expect(got.Offset).To(BeZero())
		})
	})

	Describe("Get", func() {
		It("falls back to the slug when the id is unknown", func() {
			properties.getBySlugFn = func(_ context.Context, slug string) (*model.Property, error) {
				return &model.Property{ID: 5, Slug: slug, IsActive: true}, nil
			}

			p, err := svc.Get(ctx, "Harbour-Villa")

			Expect(err).NotTo(HaveOccurred())
			Expect(p.Slug).To(Equal("harbour-villa"))
		})

		It("hides inactive properties", func() {
			properties.getByIDFn = func(_ context.Context, id int64) (*model.Property, error) {
				return &model.Property{ID: id, IsActive: false}, nil
			}

			_, err := svc.Get(ctx, "42")
			Expect(err).To(MatchError(service.ErrPropertyNotFound))
		})
	})

	Describe("Update", func() {
		It("keeps sold tokens sold when the supply changes", func() {
			properties.getByIDFn = func(_ context.Context, id int64) (*model.Property, error) {
				return &model.Property{ID: id, TokenSupply: 20_000, TokensAvailable: 15_000, IsActive: true}, nil
			}
			input.TokenSupply = 30_000

			p, err := svc.Update(ctx, 1, input)

			Expect(err).NotTo(HaveOccurred())
			Expect(p.TokensAvailable).To(Equal(int64(25_000)))
		})

		It("refuses to shrink the supply below tokens sold", func() {
			properties.getByIDFn = func(_ context.Context, id int64) (*model.Property, error) {
				return &model.Property{ID: id, TokenSupply: 20_000, TokensAvailable: 15_000, IsActive: true}, nil
			}
			input.TokenSupply = 4_000

			_, err := svc.Update(ctx, 1, input)
			Expect(err).To(MatchError(service.ErrInvalidProperty))
		})

		It("recomputes availability from the locked row, not an earlier read", func() {
			// A 5000 token investment committed after the listing was read.
			properties.getByIDFn = func(_ context.Context, id int64) (*model.Property, error) {
				return &model.Property{ID: id, TokenSupply: 20_000, TokensAvailable: 15_000, IsActive: true}, nil
			}
			properties.getForUpdateFn = func(_ context.Context, id int64) (*model.Property, error) {
				return &model.Property{ID: id, TokenSupply: 20_000, TokensAvailable: 10_000, IsActive: true}, nil
			}
			var written int64
			properties.updateFn = func(_ context.Context, p *model.Property) error {
				written = p.TokensAvailable
				return nil
			}

			p, err := svc.Update(ctx, 1, input)

			Expect(err).NotTo(HaveOccurred())
			Expect(txRunner.calls).To(Equal(1))
			Expect(written).To(Equal(int64(10_000)))
			Expect(p.TokensAvailable).To(Equal(int64(10_000)))
		})

		It("reports unknown properties", func() {
			_, err := svc.Update(ctx, 1, input)
			Expect(err).To(MatchError(service.ErrPropertyNotFound))
		})
	})

	Describe("Delete", func() {
		It("reports unknown properties", func() {
			properties.deactivateFn = func(context.Context, int64) error { return store.ErrNotFound }
			Expect(svc.Delete(ctx, 1)).To(MatchError(service.ErrPropertyNotFound))
		})
	})
})
