package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/workos/workos-go/v6/pkg/usermanagement"
	"golang.org/x/crypto/bcrypt"

	"hktplatform.app/api/common/id"
	"hktplatform.app/api/core/config"
	"hktplatform.app/api/internal/domain"
	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/store"
)

const (
	SessionTTL        = 7 * 24 * time.Hour
	MinPasswordLength = 8
	maxPasswordLength = 72 // bcrypt input limit
)

var (
	ErrInvalidCode        = errors.New("invalid authorization code")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is disabled")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = fmt.Errorf("password must be %d to %d characters", MinPasswordLength, maxPasswordLength)
	ErrSSODisabled        = errors.New("single sign-on is not configured")
)

// ClientMeta describes the client a session is issued to.
type ClientMeta struct {
	UserAgent string
	IPAddress string
}

type AuthResult struct {
	User    *model.User
	Session *model.Session
}

type AuthService interface {
	Register(ctx context.Context, email, password, name string, meta ClientMeta) (*AuthResult, error)
	Login(ctx context.Context, email, password string, meta ClientMeta) (*AuthResult, error)
	Logout(ctx context.Context, sessionID int64) error
	ValidateSession(ctx context.Context, sessionID int64) (*model.User, *model.Session, error)
	ChangePassword(ctx context.Context, userID int64, current, next string) error

	SSOEnabled() bool
	GetAuthorizationURL(state string) (string, error)
	HandleCallback(ctx context.Context, code string, meta ClientMeta) (*AuthResult, error)
}

type authService struct {
	userStore    store.UserStore
	sessionStore store.SessionStore
	notifier     *Notifier
	cfg          config.WorkOSConfig
	bcryptCost   int
}

func NewAuthService(
	userStore store.UserStore,
	sessionStore store.SessionStore,
	notifier *Notifier,
	cfg config.WorkOSConfig,
) AuthService {
	if cfg.Enabled() {
		usermanagement.SetAPIKey(cfg.APIKey)
	}
	return &authService{
		userStore:    userStore,
		sessionStore: sessionStore,
		notifier:     notifier,
		cfg:          cfg,
		bcryptCost:   bcrypt.DefaultCost,
	}
}

func (s *authService) Register(ctx context.Context, email, password, name string, meta ClientMeta) (*AuthResult, error) {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	if err := checkPassword(password); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	if _, err := s.userStore.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	hashStr := string(hash)

	user := &model.User{
		ID:           id.New(),
		Email:        email,
		Name:         name,
		PasswordHash: &hashStr,
		Role:         model.RoleUser,
		IsActive:     true,
	}
	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	session, err := s.createSession(ctx, user.ID, meta)
	if err != nil {
		return nil, err
	}

	s.notifier.Send(ctx, domain.EmailWelcome, user.Email, map[string]string{"name": user.Name})

	slog.InfoContext(ctx, "user registered", "user_id", user.ID)
	return &AuthResult{User: user, Session: session}, nil
}

func (s *authService) Login(ctx context.Context, email, password string, meta ClientMeta) (*AuthResult, error) {
	email = normalizeEmail(email)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}

	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		slog.InfoContext(ctx, "failed login attempt", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	session, err := s.createSession(ctx, user.ID, meta)
	if err != nil {
		return nil, err
	}

	if err := s.userStore.TouchLastLogin(ctx, user.ID); err != nil {
		slog.WarnContext(ctx, "failed to record last login", "error", err, "user_id", user.ID)
	}

	slog.InfoContext(ctx, "user logged in", "user_id", user.ID, "session_id", session.ID)
	return &AuthResult{User: user, Session: session}, nil
}

func (s *authService) ValidateSession(ctx context.Context, sessionID int64) (*model.User, *model.Session, error) {
	session, err := s.sessionStore.GetValid(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrSessionExpired
		}
		return nil, nil, fmt.Errorf("getting session: %w", err)
	}

	user, err := s.userStore.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("getting user: %w", err)
	}
	if !user.IsActive {
		return nil, nil, ErrUserInactive
	}

	return user, session, nil
}

func (s *authService) Logout(ctx context.Context, sessionID int64) error {
	if err := s.sessionStore.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("getting user: %w", err)
	}

	// SSO-only accounts have no password to confirm.
	if user.PasswordHash == nil {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	if err := checkPassword(next); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.userStore.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	s.notifier.Send(ctx, domain.EmailPasswordChanged, user.Email, map[string]string{"name": user.Name})

	slog.InfoContext(ctx, "password changed", "user_id", userID)
	return nil
}

func (s *authService) SSOEnabled() bool {
	return s.cfg.Enabled()
}

func (s *authService) GetAuthorizationURL(state string) (string, error) {
	if !s.cfg.Enabled() {
		return "", ErrSSODisabled
	}
	url, err := usermanagement.GetAuthorizationURL(usermanagement.GetAuthorizationURLOpts{
		ClientID:    s.cfg.ClientID,
		RedirectURI: s.cfg.RedirectURI,
		State:       state,
		Provider:    "authkit",
	})
	if err != nil {
		return "", fmt.Errorf("generating authorization URL: %w", err)
	}
	return url.String(), nil
}

func (s *authService) HandleCallback(ctx context.Context, code string, meta ClientMeta) (*AuthResult, error) {
	if !s.cfg.Enabled() {
		return nil, ErrSSODisabled
	}

	authResponse, err := usermanagement.AuthenticateWithCode(ctx, usermanagement.AuthenticateWithCodeOpts{
		ClientID: s.cfg.ClientID,
		Code:     code,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to authenticate with code", "error", err)
		return nil, ErrInvalidCode
	}

	workosUser := authResponse.User

	var avatarURL *string
	if workosUser.ProfilePictureURL != "" {
		avatarURL = &workosUser.ProfilePictureURL
	}

	user := &model.User{
		ID:        id.New(),
		Name:      buildUserName(workosUser),
		Email:     normalizeEmail(workosUser.Email),
		AvatarURL: avatarURL,
		WorkOSID:  &workosUser.ID,
		Role:      model.RoleUser,
		IsActive:  true,
	}

	if err := s.userStore.UpsertByWorkOS(ctx, user); err != nil {
		slog.ErrorContext(ctx, "failed to upsert user",
			"error", err,
			"workos_id", workosUser.ID,
		)
		return nil, fmt.Errorf("upserting user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	session, err := s.createSession(ctx, user.ID, meta)
	if err != nil {
		return nil, err
	}

	if err := s.userStore.TouchLastLogin(ctx, user.ID); err != nil {
		slog.WarnContext(ctx, "failed to record last login", "error", err, "user_id", user.ID)
	}

	slog.InfoContext(ctx, "user authenticated via sso",
		"user_id", user.ID,
		"session_id", session.ID,
	)
	return &AuthResult{User: user, Session: session}, nil
}

func (s *authService) createSession(ctx context.Context, userID int64, meta ClientMeta) (*model.Session, error) {
	session := &model.Session{
		ID:        id.New(),
		UserID:    userID,
		UserAgent: trimmedPtr(&meta.UserAgent),
		IPAddress: trimmedPtr(&meta.IPAddress),
		ExpiresAt: time.Now().Add(SessionTTL),
	}

	if err := s.sessionStore.Create(ctx, session); err != nil {
		slog.ErrorContext(ctx, "failed to create session",
			"error", err,
			"user_id", userID,
		)
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return session, nil
}

func checkPassword(password string) error {
	if len(password) < MinPasswordLength || len(password) > maxPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

func buildUserName(user usermanagement.User) string {
	if user.FirstName != "" && user.LastName != "" {
		return user.FirstName + " " + user.LastName
	}
	if user.FirstName != "" {
		return user.FirstName
	}
	if user.LastName != "" {
		return user.LastName
	}
	return user.Email
}
