package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"hktplatform.app/api/core/config"
	"hktplatform.app/api/internal/domain"
	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/service"
	"hktplatform.app/api/internal/store"
)

var _ = Describe("AuthService", func() {
	var (
		ctx      context.Context
		users    *mockUserStore
		sessions *mockSessionStore
		producer *mockProducer
		svc      service.AuthService
		meta     service.ClientMeta
	)

	hashed := func(password string) *string {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())
		s := string(h)
		return &s
	}

	BeforeEach(func() {
		ctx = context.Background()
		users = &mockUserStore{}
		sessions = &mockSessionStore{}
		producer = &mockProducer{}
		meta = service.ClientMeta{UserAgent: "ginkgo", IPAddress: "127.0.0.1"}
		svc = service.NewAuthService(users, sessions, service.NewNotifier(producer), config.WorkOSConfig{})
	})

	Describe("Register", func() {
		It("creates the user, a session and a welcome email", func() {
			var created *model.User
			users.createFn = func(_ context.Context, u *model.User) error {
				created = u
				return nil
			}

			res, err := svc.Register(ctx, "  Jane@Example.COM ", "correct-horse", "Jane", meta)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.User.Email).To(Equal("jane@example.com"))
			Expect(res.User.Role).To(Equal(model.RoleUser))
			Expect(created).To(Equal(res.User))
			Expect(*created.PasswordHash).NotTo(Equal("correct-horse"))
			Expect(bcrypt.CompareHashAndPassword([]byte(*created.PasswordHash), []byte("correct-horse"))).To(Succeed())

			Expect(sessions.created).To(HaveLen(1))
			Expect(res.Session.UserID).To(Equal(res.User.ID))
			Expect(res.Session.ExpiresAt).To(BeTemporally("~", time.Now().Add(service.SessionTTL), time.Minute))
			Expect(*res.Session.UserAgent).To(Equal("ginkgo"))

			Expect(producer.kinds()).To(Equal([]domain.EmailKind{domain.EmailWelcome}))
			Expect(producer.jobs[0].To).To(Equal("jane@example.com"))
			Expect(producer.jobs[0].Data).To(HaveKeyWithValue("name", "Jane"))
		})

		It("rejects an email that is already registered", func() {
			users.getByEmailFn = func(_ context.Context, email string) (*model.User, error) {
				return &model.User{ID: 1, Email: email}, nil
			}

			_, err := svc.Register(ctx, "jane@example.com", "correct-horse", "Jane", meta)

			Expect(err).To(MatchError(service.ErrEmailTaken))
			Expect(sessions.created).To(BeEmpty())
			Expect(producer.jobs).To(BeEmpty())
		})

		It("maps a unique violation on insert to ErrEmailTaken", func() {
			users.createFn = func(context.Context, *model.User) error { return store.ErrConflict }

			_, err := svc.Register(ctx, "jane@example.com", "correct-horse", "Jane", meta)

			Expect(err).To(MatchError(service.ErrEmailTaken))
		})

		It("rejects short passwords", func() {
			_, err := svc.Register(ctx, "jane@example.com", "short", "Jane", meta)
			Expect(err).To(MatchError(service.ErrWeakPassword))
		})

		It("rejects malformed emails", func() {
			_, err := svc.Register(ctx, "not-an-email", "correct-horse", "Jane", meta)
			Expect(err).To(MatchError(service.ErrInvalidEmail))
		})

		It("defaults the name to the email local part", func() {
			res, err := svc.Register(ctx, "jane@example.com", "correct-horse", " ", meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.User.Name).To(Equal("jane"))
		})

		It("still succeeds when the email cannot be queued", func() {
			producer.enqueueErr = errors.New("redis down")

			_, err := svc.Register(ctx, "jane@example.com", "correct-horse", "Jane", meta)

			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Login", func() {
		var user *model.User

		BeforeEach(func() {
			user = &model.User{ID: 7, Email: "jane@example.com", PasswordHash: hashed("correct-horse"), IsActive: true}
			users.getByEmailFn = func(_ context.Context, email string) (*model.User, error) {
				if email == user.Email {
					return user, nil
				}
				return nil, store.ErrNotFound
			}
		})

		It("issues a session for valid credentials", func() {
			res, err := svc.Login(ctx, "JANE@example.com", "correct-horse", meta)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.User.ID).To(Equal(int64(7)))
			Expect(res.Session.UserID).To(Equal(int64(7)))
			Expect(users.touchCalls).To(Equal(1))
		})

		It("rejects a wrong password", func() {
			_, err := svc.Login(ctx, "jane@example.com", "wrong-password", meta)
			Expect(err).To(MatchError(service.ErrInvalidCredentials))
			Expect(sessions.created).To(BeEmpty())
		})

		It("rejects an unknown email with the same error", func() {
			_, err := svc.Login(ctx, "nobody@example.com", "correct-horse", meta)
			Expect(err).To(MatchError(service.ErrInvalidCredentials))
		})

		It("rejects SSO-only accounts", func() {
			user.PasswordHash = nil
			_, err := svc.Login(ctx, "jane@example.com", "correct-horse", meta)
			Expect(err).To(MatchError(service.ErrInvalidCredentials))
		})

		It("rejects disabled accounts", func() {
			user.IsActive = false
			_, err := svc.Login(ctx, "jane@example.com", "correct-horse", meta)
			Expect(err).To(MatchError(service.ErrUserInactive))
		})
	})

	Describe("ValidateSession", func() {
		It("returns the session user", func() {
			sessions.getValidFn = func(_ context.Context, id int64) (*model.Session, error) {
				return &model.Session{ID: id, UserID: 7}, nil
			}
			users.getByIDFn = func(_ context.Context, id int64) (*model.User, error) {
				return &model.User{ID: id, IsActive: true}, nil
			}

			user, session, err := svc.ValidateSession(ctx, 99)

			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(Equal(int64(7)))
			Expect(session.ID).To(Equal(int64(99)))
		})

		It("reports missing or expired sessions", func() {
			_, _, err := svc.ValidateSession(ctx, 99)
			Expect(err).To(MatchError(service.ErrSessionExpired))
		})

		It("rejects sessions of disabled users", func() {
			sessions.getValidFn = func(_ context.Context, id int64) (*model.Session, error) {
				return &model.Session{ID: id, UserID: 7}, nil
			}
			users.getByIDFn = func(_ context.Context, id int64) (*model.User, error) {
				return &model.User{ID: id, IsActive: false}, nil
			}

			_, _, err := svc.ValidateSession(ctx, 99)
			Expect(err).To(MatchError(service.ErrUserInactive))
		})
	})

	Describe("Logout", func() {
		It("deletes the session", func() {
			Expect(svc.Logout(ctx, 42)).To(Succeed())
			Expect(sessions.deleted).To(Equal([]int64{42}))
		})
	})

	Describe("ChangePassword", func() {
		var newHash string

		BeforeEach(func() {
			users.getByIDFn = func(_ context.Context, id int64) (*model.User, error) {
				return &model.User{ID: id, Email: "jane@example.com", Name: "Jane", PasswordHash: hashed("correct-horse")}, nil
			}
			users.updatePasswordFn = func(_ context.Context, _ int64, hash string) error {
				newHash = hash
				return nil
			}
		})

		It("stores the new hash and notifies the user", func() {
			Expect(svc.ChangePassword(ctx, 7, "correct-horse", "battery-staple")).To(Succeed())

			Expect(bcrypt.CompareHashAndPassword([]byte(newHash), []byte("battery-staple"))).To(Succeed())
			Expect(producer.kinds()).To(Equal([]domain.EmailKind{domain.EmailPasswordChanged}))
		})

		It("requires the current password", func() {
			err := svc.ChangePassword(ctx, 7, "wrong-password", "battery-staple")
			Expect(err).To(MatchError(service.ErrInvalidCredentials))
			Expect(newHash).To(BeEmpty())
		})

		It("enforces the password policy on the new password", func() {
			err := svc.ChangePassword(ctx, 7, "correct-horse", "short")
			Expect(err).To(MatchError(service.ErrWeakPassword))
		})
	})

	Describe("SSO", func() {
		It("is disabled without a WorkOS key", func() {
			Expect(svc.SSOEnabled()).To(BeFalse())

			_, err := svc.GetAuthorizationURL("state")
			Expect(err).To(MatchError(service.ErrSSODisabled))

			_, err = svc.HandleCallback(ctx, "code", meta)
			Expect(err).To(MatchError(service.ErrSSODisabled))
		})
	})
})
