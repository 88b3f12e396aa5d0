package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hktplatform.app/api/core/config"
	"hktplatform.app/api/internal/http/handler"
	"hktplatform.app/api/internal/http/middleware"
	"hktplatform.app/api/internal/metrics"
	"hktplatform.app/api/internal/service"
)

type RouterConfig struct {
	FrontendURL   string
	SessionSecure bool
	AdminAPIKey   string
	RateLimit     config.RateLimitConfig
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	auth := services.Auth()
	requireSession := middleware.RequireSession(auth, cfg.SessionSecure)
	authLimit := middleware.NewRateLimiter("auth", cfg.RateLimit.AuthPerMinute)

	authHandler := handler.NewAuthHandler(auth, cfg.FrontendURL, cfg.SessionSecure)
	AuthRouter(router.Group("/auth"), authHandler, requireSession, authLimit.Handler())

	v1 := router.Group("/api/v1")
	{
		userHandler := handler.NewUserHandler(services.Users())
		UserRouter(v1.Group("/users", requireSession), userHandler)

		propertyHandler := handler.NewPropertyHandler(services.Properties())
		PropertyRouter(v1.Group("/properties"), propertyHandler)

		bookingHandler := handler.NewBookingHandler(services.Bookings())
		BookingRouter(v1.Group("/bookings"), bookingHandler, requireSession)

		investmentHandler := handler.NewInvestmentHandler(services.Investments())
		InvestmentRouter(v1.Group("/investments", requireSession), investmentHandler)

		blogHandler := handler.NewBlogHandler(services.Blog())
		BlogRouter(v1.Group("/blog"), blogHandler)

		walletHandler := handler.NewWalletHandler(services.Wallets())
		WalletRouter(v1.Group("/wallets", requireSession), walletHandler)

		chainHandler := handler.NewChainHandler(services.Chains())
		v1.GET("/chains", chainHandler.List)

		priceHandler := handler.NewPriceHandler(services.Prices())
		PriceRouter(v1.Group("/prices"), priceHandler)

		assistantLimit := middleware.NewRateLimiter("assistant", cfg.RateLimit.AssistantPerMinute)
		assistantHandler := handler.NewAssistantHandler(services.Assistant())
		v1.POST("/assistant/chat", requireSession, assistantLimit.Handler(), assistantHandler.Chat)

		contactLimit := middleware.NewRateLimiter("contact", cfg.RateLimit.ContactPerMinute)
		contactHandler := handler.NewContactHandler(services.Contact())
		v1.POST("/contact", contactLimit.Handler(), contactHandler.Submit)

		admin := v1.Group("/admin", middleware.OptionalSession(auth), middleware.RequireAdmin(cfg.AdminAPIKey))
		AdminRouter(admin, AdminHandlers{
			Admin:      handler.NewAdminHandler(services.Admin()),
			Users:      userHandler,
			Properties: propertyHandler,
			Bookings:   bookingHandler,
			Blog:       blogHandler,
			Chains:     chainHandler,
		})
	}
}
