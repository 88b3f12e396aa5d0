package router

import (
	"github.com/gin-gonic/gin"

	"hktplatform.app/api/internal/http/handler"
)

type AdminHandlers struct {
	Admin      *handler.AdminHandler
	Users      *handler.UserHandler
	Properties *handler.PropertyHandler
	Bookings   *handler.BookingHandler
	Blog       *handler.BlogHandler
	Chains     *handler.ChainHandler
}

// AdminRouter expects rg to already enforce RequireAdmin.
func AdminRouter(rg *gin.RouterGroup, h AdminHandlers) {
	rg.GET("/stats", h.Admin.Stats)

	rg.GET("/users", h.Users.List)
	rg.PATCH("/users/:id", h.Users.UpdateAccess)

	rg.POST("/properties", h.Properties.Create)
	rg.PUT("/properties/:id", h.Properties.Update)
	rg.DELETE("/properties/:id", h.Properties.Delete)

	rg.GET("/bookings", h.Bookings.List)

	rg.GET("/blog", h.Blog.ListAll)
	rg.POST("/blog", h.Blog.Create)
	rg.PUT("/blog/:id", h.Blog.Update)
	rg.POST("/blog/:id/publish", h.Blog.Publish)
	rg.DELETE("/blog/:id", h.Blog.Delete)

	rg.POST("/chains", h.Chains.Create)
	rg.PUT("/chains/:chain_id", h.Chains.Update)
}
