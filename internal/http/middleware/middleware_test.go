package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"hktplatform.app/api/internal/http/middleware"
	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/service"
)

type stubValidator struct {
	users map[int64]*model.User
	err   error
}

func (s *stubValidator) ValidateSession(_ context.Context, id int64) (*model.User, *model.Session, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, nil, service.ErrSessionExpired
	}
	return u, &model.Session{ID: id, UserID: u.ID}, nil
}

func whoAmI(c *gin.Context) {
	user := middleware.GetUser(c.Request.Context())
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.ID, "session": middleware.GetSessionID(c.Request.Context())})
}

var _ = Describe("RequireSession", func() {
	var (
		router    *gin.Engine
		validator *stubValidator
	)

	BeforeEach(func() {
		validator = &stubValidator{users: map[int64]*model.User{
			11: {ID: 7, Role: model.RoleUser, IsActive: true},
		}}
		router = gin.New()
		router.GET("/me", middleware.RequireSession(validator, false), whoAmI)
	})

	It("accepts the session cookie", func() {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "11"})
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"user": 7, "session": 11}`))
	})

	It("falls back to the X-Session-ID header", func() {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(middleware.SessionIDHeader, "11")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("rejects requests without a session", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(w.Body.String()).To(MatchJSON(`{"error": "not authenticated", "code": "unauthenticated"}`))
	})

	It("clears the cookie of an expired session", func() {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "99"})
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(w.Header().Get("Set-Cookie")).To(ContainSubstring(middleware.SessionCookieName + "=;"))
	})

	It("returns 403 for disabled accounts", func() {
		validator.err = service.ErrUserInactive
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(middleware.SessionIDHeader, "11")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("returns 500 on lookup failures", func() {
		validator.err = errors.New("db down")
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(middleware.SessionIDHeader, "11")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})
})

var _ = Describe("RequireAdmin", func() {
	var router *gin.Engine

	BeforeEach(func() {
		validator := &stubValidator{users: map[int64]*model.User{
			1: {ID: 1, Role: model.RoleAdmin, IsActive: true},
			2: {ID: 2, Role: model.RoleUser, IsActive: true},
		}}
		router = gin.New()
		admin := router.Group("/admin", middleware.OptionalSession(validator), middleware.RequireAdmin("s3cret"))
		admin.GET("/stats", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"via_key": middleware.ViaAdminKey(c.Request.Context())})
		})
	})

	serve := func(header, value string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		if header != "" {
			req.Header.Set(header, value)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("admits admin sessions", func() {
		w := serve(middleware.SessionIDHeader, "1")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"via_key": false}`))
	})

	It("admits the admin API key", func() {
		w := serve(middleware.AdminAPIKeyHeader, "s3cret")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"via_key": true}`))
	})

	It("accepts the key as a bearer token", func() {
		Expect(serve("Authorization", "Bearer s3cret").Code).To(Equal(http.StatusOK))
	})

	It("forbids regular users", func() {
		Expect(serve(middleware.SessionIDHeader, "2").Code).To(Equal(http.StatusForbidden))
	})

	It("forbids a wrong key", func() {
		Expect(serve(middleware.AdminAPIKeyHeader, "nope").Code).To(Equal(http.StatusForbidden))
	})

	It("asks anonymous callers to authenticate", func() {
		Expect(serve("", "").Code).To(Equal(http.StatusUnauthorized))
	})
})

var _ = Describe("CORS", func() {
	var router *gin.Engine

	BeforeEach(func() {
		router = gin.New()
		router.Use(middleware.CORS([]string{"https://app.hkt.example/"}))
		router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	})

	It("reflects allowed origins with credentials", func() {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "https://app.hkt.example")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://app.hkt.example"))
		Expect(w.Header().Get("Access-Control-Allow-Credentials")).To(Equal("true"))
	})

	It("ignores other origins", func() {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})

	It("answers preflight requests", func() {
		req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
		req.Header.Set("Origin", "https://app.hkt.example")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNoContent))
	})
})

var _ = Describe("RateLimiter", func() {
	It("limits each client independently", func() {
		rl := middleware.NewRateLimiter("auth", 2)
		router := gin.New()
		router.POST("/login", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

		hit := func(ip string) int {
			req := httptest.NewRequest(http.MethodPost, "/login", nil)
			req.RemoteAddr = ip + ":1234"
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			return w.Code
		}

		Expect(hit("10.0.0.1")).To(Equal(http.StatusNoContent))
		Expect(hit("10.0.0.1")).To(Equal(http.StatusNoContent))
		Expect(hit("10.0.0.1")).To(Equal(http.StatusTooManyRequests))
		Expect(hit("10.0.0.2")).To(Equal(http.StatusNoContent))
	})

	It("is disabled with a zero rate", func() {
		rl := middleware.NewRateLimiter("auth", 0)
		for range 100 {
			Expect(rl.Allow("k")).To(BeTrue())
		}
	})
})

var _ = Describe("Recovery", func() {
	It("turns panics into 500s", func() {
		router := gin.New()
		router.Use(middleware.Recovery())
		router.GET("/boom", func(*gin.Context) { panic("boom") })
		w := httptest.NewRecorder()

		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).To(MatchJSON(`{"error": "internal server error", "code": "internal_error"}`))
	})
})
