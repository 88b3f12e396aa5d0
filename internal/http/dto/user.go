package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/service"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"max=120"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name      *string `json:"name,omitempty" binding:"omitempty,max=120"`
	AvatarURL *string `json:"avatar_url,omitempty" binding:"omitempty,max=2048"`
}

type UpdateAccessRequest struct {
	Role     *model.Role `json:"role,omitempty" binding:"omitempty,oneof=user admin"`
	IsActive *bool       `json:"is_active,omitempty"`
}

type UserResponse struct {
	ID          int64      `json:"id,string"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	Role        model.Role `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func ToUserResponse(u *model.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		AvatarURL:   u.AvatarURL,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

type AuthResponse struct {
	User      *UserResponse `json:"user"`
	SessionID int64         `json:"session_id,string"`
	ExpiresAt time.Time     `json:"expires_at"`
}

func ToAuthResponse(result *service.AuthResult) *AuthResponse {
	return &AuthResponse{
		User:      ToUserResponse(result.User),
		SessionID: result.Session.ID,
		ExpiresAt: result.Session.ExpiresAt,
	}
}

type UserListResponse struct {
	Users []*UserResponse `json:"users"`
	Total int64           `json:"total"`
}

func ToUserListResponse(users []model.User, total int64) *UserListResponse {
	resp := &UserListResponse{Users: make([]*UserResponse, len(users)), Total: total}
	for i := range users {
		resp.Users[i] = ToUserResponse(&users[i])
	}
	return resp
}

type DashboardResponse struct {
	User           *UserResponse         `json:"user"`
	Bookings       []*BookingResponse    `json:"bookings"`
	Investments    []*InvestmentResponse `json:"investments"`
	Wallets        []*WalletResponse     `json:"wallets"`
	PortfolioValue decimal.Decimal       `json:"portfolio_value"`
	TokensHeld     int64                 `json:"tokens_held"`
	BookingSpend   decimal.Decimal       `json:"booking_spend"`
}

func ToDashboardResponse(d *service.Dashboard) *DashboardResponse {
	return &DashboardResponse{
		User:           ToUserResponse(d.User),
		Bookings:       ToBookingResponses(d.Bookings),
		Investments:    ToInvestmentResponses(d.Investments),
		Wallets:        ToWalletResponses(d.Wallets),
		PortfolioValue: d.PortfolioValue,
		TokensHeld:     d.TokensHeld,
		BookingSpend:   d.BookingSpend,
	}
}
