package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"hktplatform.app/api/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a unique constraint
var ErrConflict = errors.New("conflict")

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	UpsertByWorkOS(ctx context.Context, user *model.User) error
	UpdateProfile(ctx context.Context, id int64, name string, avatarURL *string) (*model.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	TouchLastLogin(ctx context.Context, id int64) error
	UpdateAccess(ctx context.Context, id int64, role model.Role, isActive bool) (*model.User, error)
	List(ctx context.Context, limit, offset int32) ([]model.User, error)
	Count(ctx context.Context) (int64, error)
}

type SessionStore interface {
	GetValid(ctx context.Context, id int64) (*model.Session, error) // checks expiry
	Create(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type PropertyStore interface {
	GetByID(ctx context.Context, id int64) (*model.Property, error)
	GetForUpdate(ctx context.Context, id int64) (*model.Property, error) // row lock, tx only
	GetBySlug(ctx context.Context, slug string) (*model.Property, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, filter model.PropertyFilter) ([]model.Property, error)
	Create(ctx context.Context, p *model.Property) error
	Update(ctx context.Context, p *model.Property) error
	Deactivate(ctx context.Context, id int64) error
	AdjustTokens(ctx context.Context, id int64, delta int64) (*model.Property, error)
	CountActive(ctx context.Context) (int64, error)
}

type BookingStore interface {
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	GetForUpdate(ctx context.Context, id int64) (*model.Booking, error)
	Create(ctx context.Context, b *model.Booking) error
	ListByUser(ctx context.Context, userID int64) ([]model.Booking, error)
	List(ctx context.Context, filter model.BookingFilter) ([]model.Booking, error)
	CountOverlapping(ctx context.Context, propertyID int64, checkIn, checkOut time.Time) (int64, error)
	MarkPaid(ctx context.Context, id int64, reference string) (*model.Booking, error)
	Cancel(ctx context.Context, id int64, paymentStatus model.PaymentStatus, refund decimal.Decimal) (*model.Booking, error)
	CountByStatus(ctx context.Context) (map[model.BookingStatus]int64, error)
	PaidRevenue(ctx context.Context) (decimal.Decimal, error)
	UserSpend(ctx context.Context, userID int64) (decimal.Decimal, error)
}

type InvestmentStore interface {
	GetByID(ctx context.Context, id int64) (*model.Investment, error)
	GetForUpdate(ctx context.Context, id int64) (*model.Investment, error)
	Create(ctx context.Context, inv *model.Investment) error
	ListByUser(ctx context.Context, userID int64) ([]model.Investment, error)
	UpdateStatus(ctx context.Context, id int64, status model.InvestmentStatus) (*model.Investment, error)
	Totals(ctx context.Context, userID *int64) (model.InvestmentTotals, error) // nil = platform-wide
}

type BlogStore interface {
	GetByID(ctx context.Context, id int64) (*model.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*model.BlogPost, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, filter model.BlogFilter) ([]model.BlogPost, error)
	Create(ctx context.Context, post *model.BlogPost) error
	Update(ctx context.Context, post *model.BlogPost) error
	Deactivate(ctx context.Context, id int64) error
	CountPublished(ctx context.Context) (int64, error)
}

type ChainStore interface {
	Get(ctx context.Context, chainID int64) (*model.SupportedChain, error)
	List(ctx context.Context, includeInactive bool) ([]model.SupportedChain, error)
	Upsert(ctx context.Context, chain *model.SupportedChain) error
}

type WalletStore interface {
	GetByID(ctx context.Context, id int64) (*model.Wallet, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Wallet, error)
	UpsertVerified(ctx context.Context, w *model.Wallet) error
	CountActive(ctx context.Context, userID int64) (int64, error)
	ClearPrimary(ctx context.Context, userID int64) error
	SetPrimary(ctx context.Context, id, userID int64) (*model.Wallet, error)
	Deactivate(ctx context.Context, id, userID int64) error
	PromoteOldest(ctx context.Context, userID int64) error
}

type ChallengeStore interface {
	GetByID(ctx context.Context, id int64) (*model.VerificationChallenge, error)
	Create(ctx context.Context, c *model.VerificationChallenge) error
	MarkUsed(ctx context.Context, id int64) (bool, error) // false if already used
	DeleteExpired(ctx context.Context) (int64, error)
}

type PriceStore interface {
	Insert(ctx context.Context, snap *model.PriceSnapshot) error
	Latest(ctx context.Context, symbol string) (*model.PriceSnapshot, error)
	History(ctx context.Context, symbol string, since time.Time, limit int32) ([]model.PriceSnapshot, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}
