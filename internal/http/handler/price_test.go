package handler_test

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"hktplatform.app/api/internal/http/handler"
	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/service"
)

var _ = Describe("PriceHandler", func() {
	var (
		router *gin.Engine
		svc    *mockPriceService
	)

	BeforeEach(func() {
		svc = &mockPriceService{}
		h := handler.NewPriceHandler(svc)
		router = gin.New()
		router.GET("/prices/:symbol", h.Get)
		router.GET("/prices/:symbol/history", h.History)
	})

	It("returns 404 for untracked symbols", func() {
		w := doJSON(router, http.MethodGet, "/prices/DOGE", nil)

		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(decode(w)["code"]).To(Equal("unknown_symbol"))
	})

	It("returns 503 when no source has a price", func() {
		svc.getFn = func(context.Context, string) (*model.Price, error) {
			return nil, service.ErrPriceUnavailable
		}

		Expect(doJSON(router, http.MethodGet, "/prices/ETH", nil).Code).To(Equal(http.StatusServiceUnavailable))
	})

	It("passes the history window through", func() {
		svc.historyFn = func(_ context.Context, symbol string, since *time.Time, limit int32) ([]model.PriceSnapshot, error) {
			Expect(symbol).To(Equal("HKT"))
			Expect(since.Equal(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))).To(BeTrue())
			Expect(limit).To(Equal(int32(5)))
			return []model.PriceSnapshot{{ID: 1, Price: model.Price{Symbol: "HKT", PriceUSD: decimal.RequireFromString("0.25")}}}, nil
		}

		w := doJSON(router, http.MethodGet, "/prices/HKT/history?limit=5&since=2030-01-01T00:00:00Z", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["history"]).To(HaveLen(1))
	})

	It("rejects a malformed since", func() {
		Expect(doJSON(router, http.MethodGet, "/prices/HKT/history?since=yesterday", nil).Code).
			To(Equal(http.StatusBadRequest))
	})
})
