package router

import (
	"github.com/gin-gonic/gin"

	"hktplatform.app/api/internal/http/handler"
)

func UserRouter(rg *gin.RouterGroup, h *handler.UserHandler) {
	rg.GET("/me", h.Me)
	rg.PATCH("/me", h.UpdateMe)
	rg.GET("/me/dashboard", h.Dashboard)
}

func PropertyRouter(rg *gin.RouterGroup, h *handler.PropertyHandler) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
}

func BookingRouter(rg *gin.RouterGroup, h *handler.BookingHandler, requireSession gin.HandlerFunc) {
	rg.POST("/quote", h.Quote)

	authed := rg.Group("", requireSession)
	authed.POST("", h.Create)
	authed.GET("", h.ListMine)
	authed.GET("/:id", h.Get)
	authed.POST("/:id/pay", h.Pay)
	authed.POST("/:id/cancel", h.Cancel)
}

func InvestmentRouter(rg *gin.RouterGroup, h *handler.InvestmentHandler) {
	rg.POST("", h.Invest)
	rg.GET("", h.ListMine)
	rg.POST("/:id/cancel", h.Cancel)
}

func BlogRouter(rg *gin.RouterGroup, h *handler.BlogHandler) {
	rg.GET("", h.ListPublished)
	rg.GET("/:slug", h.GetPublished)
}

func WalletRouter(rg *gin.RouterGroup, h *handler.WalletHandler) {
	rg.POST("/challenge", h.Challenge)
	rg.POST("/verify", h.Verify)
	rg.GET("", h.List)
	rg.POST("/:id/primary", h.SetPrimary)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/balance", h.Balance)
}

func PriceRouter(rg *gin.RouterGroup, h *handler.PriceHandler) {
	rg.GET("", h.List)
	rg.GET("/:symbol", h.Get)
	rg.GET("/:symbol/history", h.History)
}
