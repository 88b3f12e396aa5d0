package model

import "time"

type SupportedChain struct {
	ChainID      int64     `json:"chain_id"`
	Name         string    `json:"name"`
	NativeSymbol string    `json:"native_symbol"`
	RPCURL       string    `json:"rpc_url"`
	ExplorerURL  *string   `json:"explorer_url,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Wallet struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	Address    string     `json:"address"`
	ChainID    int64      `json:"chain_id"`
	Label      *string    `json:"label,omitempty"`
	IsPrimary  bool       `json:"is_primary"`
	IsActive   bool       `json:"is_active"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type VerificationChallenge struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Address   string     `json:"address"`
	ChainID   int64      `json:"chain_id"`
	Nonce     string     `json:"nonce"`
	Message   string     `json:"message"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
