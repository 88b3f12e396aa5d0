package router

import (
	"github.com/gin-gonic/gin"

	"hktplatform.app/api/internal/http/handler"
)

func AuthRouter(rg *gin.RouterGroup, h *handler.AuthHandler, requireSession, limit gin.HandlerFunc) {
	rg.POST("/register", limit, h.Register)
	rg.POST("/login", limit, h.Login)
	rg.POST("/logout", h.Logout)
	rg.GET("/me", requireSession, h.Me)
	rg.POST("/password", requireSession, limit, h.ChangePassword)

	rg.GET("/sso/url", limit, h.SSOURL)
	rg.GET("/sso/callback", limit, h.SSOCallback)
}
