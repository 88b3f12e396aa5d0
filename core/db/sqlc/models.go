package sqlc

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash *string
	AvatarUrl    *string
	Role         string
	IsActive     bool
	WorkosID     *string
	LastLoginAt  pgtype.Timestamptz
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

type Session struct {
	ID              int64
	UserID          int64
	UserAgent       *string
	IpAddress       *string
	WorkosSessionID *string
	ExpiresAt       pgtype.Timestamptz
	CreatedAt       pgtype.Timestamptz
}

type Property struct {
	ID              int64
	Title           string
	Slug            string
	Description     string
	Location        string
	PropertyType    string
	PricePerNight   pgtype.Numeric
	ServiceFee      pgtype.Numeric
	MinNights       int32
	MaxGuests       int32
	Bedrooms        int32
	Bathrooms       int32
	TotalValue      pgtype.Numeric
	TokenSupply     int64
	TokensAvailable int64
	ExpectedYield   pgtype.Numeric
	Images          []string
	Amenities       []string
	IsActive        bool
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}

type Booking struct {
	ID               int64
	UserID           int64
	PropertyID       int64
	CheckIn          pgtype.Date
	CheckOut         pgtype.Date
	Guests           int32
	Nights           int32
	NightlyRate      pgtype.Numeric
	Subtotal         pgtype.Numeric
	Discount         pgtype.Numeric
	ServiceFee       pgtype.Numeric
	Total            pgtype.Numeric
	FreeWeek         bool
	Status           string
	PaymentStatus    string
	PaymentReference *string
	RefundAmount     pgtype.Numeric
	CancelledAt      pgtype.Timestamptz
	CreatedAt        pgtype.Timestamptz
	UpdatedAt        pgtype.Timestamptz
}

type Investment struct {
	ID         int64
	UserID     int64
	PropertyID int64
	Tokens     int64
	Amount     pgtype.Numeric
	Status     string
	TxHash     *string
	CreatedAt  pgtype.Timestamptz
	UpdatedAt  pgtype.Timestamptz
}

type BlogPost struct {
	ID            int64
	AuthorID      int64
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	Tags          []string
	CoverImageUrl *string
	Status        string
	PublishedAt   pgtype.Timestamptz
	IsActive      bool
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

type SupportedChain struct {
	ChainID      int64
	Name         string
	NativeSymbol string
	RpcUrl       string
	ExplorerUrl  *string
	IsActive     bool
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

type Wallet struct {
	ID         int64
	UserID     int64
	Address    string
	ChainID    int64
	Label      *string
	IsPrimary  bool
	IsActive   bool
	VerifiedAt pgtype.Timestamptz
	CreatedAt  pgtype.Timestamptz
	UpdatedAt  pgtype.Timestamptz
}

type VerificationChallenge struct {
	ID        int64
	UserID    int64
	Address   string
	ChainID   int64
	Nonce     string
	Message   string
	ExpiresAt pgtype.Timestamptz
	UsedAt    pgtype.Timestamptz
	CreatedAt pgtype.Timestamptz
}

type PriceSnapshot struct {
	ID         int64
	Symbol     string
	PriceUsd   pgtype.Numeric
	Source     string
	ObservedAt pgtype.Timestamptz
}
