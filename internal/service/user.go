package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/store"
)

var (
	ErrInvalidName = errors.New("name cannot be empty")
	ErrInvalidRole = errors.New("role must be user or admin")
	ErrSelfDemote  = errors.New("admins cannot remove their own access")
)

const maxNameLength = 120

// Dashboard is the signed-in user's overview.
type Dashboard struct {
	User           *model.User        `json:"user"`
	Bookings       []model.Booking    `json:"bookings"`
	Investments    []model.Investment `json:"investments"`
	Wallets        []model.Wallet     `json:"wallets"`
	PortfolioValue decimal.Decimal    `json:"portfolio_value"`
	TokensHeld     int64              `json:"tokens_held"`
	BookingSpend   decimal.Decimal    `json:"booking_spend"`
}

type UserService interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	UpdateProfile(ctx context.Context, id int64, name *string, avatarURL *string) (*model.User, error)
	Dashboard(ctx context.Context, userID int64) (*Dashboard, error)
	List(ctx context.Context, limit, offset int32) ([]model.User, int64, error)
	UpdateAccess(ctx context.Context, actorID, userID int64, role *model.Role, isActive *bool) (*model.User, error)
}

type userService struct {
	userStore       store.UserStore
	sessionStore    store.SessionStore
	bookingStore    store.BookingStore
	investmentStore store.InvestmentStore
	walletStore     store.WalletStore
}

func NewUserService(
	userStore store.UserStore,
	sessionStore store.SessionStore,
	bookingStore store.BookingStore,
	investmentStore store.InvestmentStore,
	walletStore store.WalletStore,
) UserService {
	return &userService{
		userStore:       userStore,
		sessionStore:    sessionStore,
		bookingStore:    bookingStore,
		investmentStore: investmentStore,
		walletStore:     walletStore,
	}
}

func (s *userService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id int64, name *string, avatarURL *string) (*model.User, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newName := current.Name
	if name != nil {
		newName = strings.TrimSpace(*name)
		if newName == "" || len(newName) > maxNameLength {
			return nil, ErrInvalidName
		}
	}

	newAvatar := current.AvatarURL
	if avatarURL != nil {
		// An explicit empty string clears the avatar.
		newAvatar = trimmedPtr(avatarURL)
	}

	user, err := s.userStore.UpdateProfile(ctx, id, newName, newAvatar)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return user, nil
}

func (s *userService) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookingStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	investments, err := s.investmentStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing investments: %w", err)
	}
	wallets, err := s.walletStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing wallets: %w", err)
	}
	totals, err := s.investmentStore.Totals(ctx, &userID)
	if err != nil {
		return nil, fmt.Errorf("summing investments: %w", err)
	}
	spend, err := s.bookingStore.UserSpend(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("summing bookings: %w", err)
	}

	return &Dashboard{
		User:           user,
		Bookings:       bookings,
		Investments:    investments,
		Wallets:        wallets,
		PortfolioValue: totals.Amount,
		TokensHeld:     totals.Tokens,
		BookingSpend:   spend,
	}, nil
}

func (s *userService) List(ctx context.Context, limit, offset int32) ([]model.User, int64, error) {
	limit, offset = page(limit, offset)
	users, err := s.userStore.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing users: %w", err)
	}
	total, err := s.userStore.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("counting users: %w", err)
	}
	return users, total, nil
}

func (s *userService) UpdateAccess(ctx context.Context, actorID, userID int64, role *model.Role, isActive *bool) (*model.User, error) {
	current, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	newRole := current.Role
	if role != nil {
		if *role != model.RoleUser && *role != model.RoleAdmin {
			return nil, ErrInvalidRole
		}
		newRole = *role
	}
	newActive := current.IsActive
	if isActive != nil {
		newActive = *isActive
	}

	if actorID == userID && (newRole != model.RoleAdmin || !newActive) && current.IsAdmin() {
		return nil, ErrSelfDemote
	}

	user, err := s.userStore.UpdateAccess(ctx, userID, newRole, newActive)
	if err != nil {
		return nil, fmt.Errorf("updating access: %w", err)
	}

	// Deactivated users are signed out everywhere.
	if current.IsActive && !newActive {
		if err := s.sessionStore.DeleteByUser(ctx, userID); err != nil {
			return nil, fmt.Errorf("revoking sessions: %w", err)
		}
		slog.InfoContext(ctx, "user deactivated", "user_id", userID, "actor_id", actorID)
	}
	return user, nil
}
