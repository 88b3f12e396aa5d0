package handler_test

import (
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"hktplatform.app/api/internal/http/handler"
)

var _ = Describe("ContactHandler", func() {
	var (
		router *gin.Engine
		svc    *mockContactService
	)

	BeforeEach(func() {
		svc = &mockContactService{}
		router = gin.New()
		router.POST("/contact", handler.NewContactHandler(svc).Submit)
	})

	It("accepts a valid message", func() {
		w := doJSON(router, http.MethodPost, "/contact", map[string]string{
			"name": "Ada", "email": "ada@example.com", "message": "Do you allow pets?",
		})

		Expect(w.Code).To(Equal(http.StatusAccepted))
		Expect(svc.submitted).To(Equal(1))
	})

	It("rejects a missing message", func() {
		w := doJSON(router, http.MethodPost, "/contact", map[string]string{
			"name": "Ada", "email": "ada@example.com",
		})

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(svc.submitted).To(BeZero())
	})
})
