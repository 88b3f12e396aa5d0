package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"hktplatform.app/api/common/logger"
	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/service"
)

type contextKey string

const (
	SessionCookieName = "hkt_session"
	SessionIDHeader   = "X-Session-ID"
	AdminAPIKeyHeader = "X-Admin-API-Key"

	userContextKey      contextKey = "user"
	sessionIDContextKey contextKey = "session_id"
	adminKeyContextKey  contextKey = "admin_api_key"
)

// SessionValidator is the part of AuthService the middleware needs.
type SessionValidator interface {
	ValidateSession(ctx context.Context, sessionID int64) (*model.User, *model.Session, error)
}

// RequireSession rejects requests without a valid session cookie or
// X-Session-ID header.
func RequireSession(auth SessionValidator, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := SessionIDFromRequest(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated", "code": "unauthenticated"})
			return
		}

		user, _, err := auth.ValidateSession(c.Request.Context(), sessionID)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrSessionExpired), errors.Is(err, service.ErrUserNotFound):
				ClearSessionCookie(c, secureCookie)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired", "code": "session_expired"})
			case errors.Is(err, service.ErrUserInactive):
				ClearSessionCookie(c, secureCookie)
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account disabled", "code": "user_inactive"})
			default:
				slog.ErrorContext(c.Request.Context(), "failed to validate session", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to validate session", "code": "internal_error"})
			}
			return
		}

		attach(c, user, sessionID)
		c.Next()
	}
}

// OptionalSession attaches the user when a valid session exists but never aborts.
func OptionalSession(auth SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessionID, ok := SessionIDFromRequest(c); ok {
			if user, _, err := auth.ValidateSession(c.Request.Context(), sessionID); err == nil {
				attach(c, user, sessionID)
			}
		}
		c.Next()
	}
}

// RequireAdmin allows session users with the admin role, or any request
// carrying the configured admin API key. It runs after OptionalSession.
func RequireAdmin(adminAPIKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUser(c.Request.Context()).IsAdmin() {
			c.Next()
			return
		}

		key := c.GetHeader(AdminAPIKeyHeader)
		if key == "" {
			if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				key = strings.TrimPrefix(auth, "Bearer ")
			}
		}
		if adminAPIKey != "" && key != "" && subtle.ConstantTimeCompare([]byte(key), []byte(adminAPIKey)) == 1 {
			ctx := context.WithValue(c.Request.Context(), adminKeyContextKey, true)
			c.Request = c.Request.WithContext(logger.WithLogFields(ctx, logger.LogFields{Component: "hkt.admin.apikey"}))
			c.Next()
			return
		}

		if GetUser(c.Request.Context()) == nil && key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated", "code": "unauthenticated"})
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required", "code": "forbidden"})
	}
}

func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

func GetSessionID(ctx context.Context) int64 {
	sessionID, _ := ctx.Value(sessionIDContextKey).(int64)
	return sessionID
}

// ViaAdminKey reports whether the request was admitted by the admin API key.
func ViaAdminKey(ctx context.Context) bool {
	v, _ := ctx.Value(adminKeyContextKey).(bool)
	return v
}

// SessionIDFromRequest reads the session cookie, falling back to the
// X-Session-ID header for non-browser clients.
func SessionIDFromRequest(c *gin.Context) (int64, bool) {
	raw, err := c.Cookie(SessionCookieName)
	if err != nil || raw == "" {
		raw = c.GetHeader(SessionIDHeader)
	}
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		SessionCookieName,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}

func attach(c *gin.Context, user *model.User, sessionID int64) {
	ctx := context.WithValue(c.Request.Context(), userContextKey, user)
	ctx = context.WithValue(ctx, sessionIDContextKey, sessionID)
	ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: &user.ID})
	c.Request = c.Request.WithContext(ctx)
}
