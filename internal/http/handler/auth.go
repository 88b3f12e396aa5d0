package handler

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hktplatform.app/api/internal/http/dto"
	"hktplatform.app/api/internal/http/middleware"
	"hktplatform.app/api/internal/service"
)

const (
	stateCookieName = "hkt_oauth_state"
	sessionMaxAge   = int(service.SessionTTL / time.Second)
	stateMaxAge     = 600
)

type AuthHandler struct {
	authService  service.AuthService
	frontendURL  string
	secureCookie bool
}

func NewAuthHandler(authService service.AuthService, frontendURL string, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		frontendURL:  frontendURL,
		secureCookie: secureCookie,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.Name, clientMeta(c))
	if err != nil {
		respondError(c, err, "register")
		return
	}

	h.setSessionCookie(c, result.Session.ID)
	c.JSON(http.StatusCreated, dto.ToAuthResponse(result))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password, clientMeta(c))
	if err != nil {
		respondError(c, err, "log in")
		return
	}

	h.setSessionCookie(c, result.Session.ID)
	c.JSON(http.StatusOK, dto.ToAuthResponse(result))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	if sessionID, ok := middleware.SessionIDFromRequest(c); ok {
		if err := h.authService.Logout(ctx, sessionID); err != nil {
			slog.WarnContext(ctx, "failed to delete session", "error", err, "session_id", sessionID)
		}
	}

	middleware.ClearSessionCookie(c, h.secureCookie)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me runs behind RequireSession.
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToUserResponse(middleware.GetUser(c.Request.Context())))
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user := middleware.GetUser(c.Request.Context())
	if err := h.authService.ChangePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err, "change password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

type ssoURLResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	State            string `json:"state"`
}

func (h *AuthHandler) SSOURL(c *gin.Context) {
	if !h.authService.SSOEnabled() {
		respondError(c, service.ErrSSODisabled, "start sso")
		return
	}

	state, err := generateState()
	if err != nil {
		respondError(c, err, "generate state")
		return
	}

	authURL, err := h.authService.GetAuthorizationURL(state)
	if err != nil {
		respondError(c, err, "get authorization url")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookieName, state, stateMaxAge, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, ssoURLResponse{AuthorizationURL: authURL, State: state})
}

func (h *AuthHandler) SSOCallback(c *gin.Context) {
	ctx := c.Request.Context()

	if errorParam := c.Query("error"); errorParam != "" {
		slog.WarnContext(ctx, "sso error", "error", errorParam, "description", c.Query("error_description"))
		h.redirectWithError(c, errorParam)
		return
	}

	storedState, err := c.Cookie(stateCookieName)
	if err != nil || storedState == "" || c.Query("state") != storedState {
		slog.WarnContext(ctx, "sso state mismatch")
		h.redirectWithError(c, "invalid_state")
		return
	}
	c.SetCookie(stateCookieName, "", -1, "/", "", h.secureCookie, true)

	code := c.Query("code")
	if code == "" {
		h.redirectWithError(c, "no_code")
		return
	}

	result, err := h.authService.HandleCallback(ctx, code, clientMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCode):
			h.redirectWithError(c, "invalid_code")
		case errors.Is(err, service.ErrUserInactive):
			h.redirectWithError(c, "user_inactive")
		default:
			slog.ErrorContext(ctx, "failed to handle sso callback", "error", err)
			h.redirectWithError(c, "callback_failed")
		}
		return
	}

	h.setSessionCookie(c, result.Session.ID)
	c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/dashboard")
}

func (h *AuthHandler) redirectWithError(c *gin.Context, code string) {
	c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/login?auth_error="+code)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, sessionID int64) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		middleware.SessionCookieName,
		strconv.FormatInt(sessionID, 10),
		sessionMaxAge,
		"/",
		"",
		h.secureCookie,
		true,
	)
}

func clientMeta(c *gin.Context) service.ClientMeta {
	return service.ClientMeta{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	}
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
