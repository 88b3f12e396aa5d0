package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hktplatform.app/api/common/ethsig"
	"hktplatform.app/api/common/id"
	"hktplatform.app/api/common/logger"
	"hktplatform.app/api/internal/ethrpc"
	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/store"
)

const (
	ChallengeTTL = 10 * time.Minute
	nonceBytes   = 16
	maxLabelLen  = 64
)

var (
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrChallengeExpired   = errors.New("challenge expired")
	ErrChallengeUsed      = errors.New("challenge already used")
	ErrSignatureMismatch  = errors.New("signature does not match the challenged address")
	ErrBalanceUnavailable = errors.New("balance lookup failed")
)

// BalanceClient reads native balances over JSON-RPC.
type BalanceClient interface {
	GetBalance(ctx context.Context, rpcURL, address string) (ethrpc.Balance, error)
}

type WalletBalance struct {
	WalletID int64           `json:"wallet_id"`
	Address  string          `json:"address"`
	ChainID  int64           `json:"chain_id"`
	Symbol   string          `json:"symbol"`
	Wei      string          `json:"wei"`
	Balance  decimal.Decimal `json:"balance"`
}

type WalletService interface {
	CreateChallenge(ctx context.Context, userID int64, address string, chainID int64) (*model.VerificationChallenge, error)
	Verify(ctx context.Context, userID, challengeID int64, signature string, label *string) (*model.Wallet, error)
	List(ctx context.Context, userID int64) ([]model.Wallet, error)
	SetPrimary(ctx context.Context, userID, walletID int64) (*model.Wallet, error)
	Delete(ctx context.Context, userID, walletID int64) error
	Balance(ctx context.Context, userID, walletID int64) (*WalletBalance, error)
}

type walletService struct {
	txRunner       TxRunner
	walletStore    store.WalletStore
	challengeStore store.ChallengeStore
	chainStore     store.ChainStore
	balances       BalanceClient
	domain         string
	uri            string
	now            func() time.Time
}

// NewWalletService builds the service; frontendURL supplies the domain and
// URI lines of the sign-in message.
func NewWalletService(
	txRunner TxRunner,
	walletStore store.WalletStore,
	challengeStore store.ChallengeStore,
	chainStore store.ChainStore,
	balances BalanceClient,
	frontendURL string,
) WalletService {
	domain := "localhost"
	if u, err := url.Parse(frontendURL); err == nil && u.Host != "" {
		domain = u.Host
	}
	return &walletService{
		txRunner:       txRunner,
		walletStore:    walletStore,
		challengeStore: challengeStore,
		chainStore:     chainStore,
		balances:       balances,
		domain:         domain,
		uri:            frontendURL,
		now:            time.Now,
	}
}

func (s *walletService) CreateChallenge(ctx context.Context, userID int64, address string, chainID int64) (*model.VerificationChallenge, error) {
	addr, err := ethsig.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	if _, err := s.activeChain(ctx, chainID); err != nil {
		return nil, err
	}

	nonce, err := newNonce()
	if err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	now := s.now().UTC()
	c := &model.VerificationChallenge{
		ID:        id.New(),
		UserID:    userID,
		Address:   addr,
		ChainID:   chainID,
		Nonce:     nonce,
		ExpiresAt: now.Add(ChallengeTTL),
	}
	c.Message = s.challengeMessage(c, now)

	if err := s.challengeStore.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating challenge: %w", err)
	}
	return c, nil
}

func (s *walletService) Verify(ctx context.Context, userID, challengeID int64, signature string, label *string) (*model.Wallet, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: &userID})

	label = trimmedPtr(label)
	if label != nil {
		v := truncateRunes(*label, maxLabelLen)
		label = &v
	}

	var wallet *model.Wallet
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		c, err := stores.Challenges().GetByID(ctx, challengeID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrChallengeNotFound
			}
			return fmt.Errorf("getting challenge: %w", err)
		}
		if c.UserID != userID {
			return ErrChallengeNotFound
		}
		if c.UsedAt != nil {
			return ErrChallengeUsed
		}
		if !s.now().Before(c.ExpiresAt) {
			return ErrChallengeExpired
		}

		ok, err := ethsig.Verify(c.Message, signature, c.Address)
		if err != nil {
			return err
		}
		if !ok {
			return ErrSignatureMismatch
		}

		marked, err := stores.Challenges().MarkUsed(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("marking challenge used: %w", err)
		}
		if !marked {
			return ErrChallengeUsed
		}

		active, err := stores.Wallets().CountActive(ctx, userID)
		if err != nil {
			return fmt.Errorf("counting wallets: %w", err)
		}

		wallet = &model.Wallet{
			ID:        id.New(),
			UserID:    userID,
			Address:   c.Address,
			ChainID:   c.ChainID,
			Label:     label,
			IsPrimary: active == 0,
		}
		if err := stores.Wallets().UpsertVerified(ctx, wallet); err != nil {
			return fmt.Errorf("saving wallet: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "wallet verified", "wallet_id", wallet.ID, "chain_id", wallet.ChainID, "primary", wallet.IsPrimary)
	return wallet, nil
}

func (s *walletService) List(ctx context.Context, userID int64) ([]model.Wallet, error) {
	wallets, err := s.walletStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing wallets: %w", err)
	}
	return wallets, nil
}

func (s *walletService) SetPrimary(ctx context.Context, userID, walletID int64) (*model.Wallet, error) {
	var wallet *model.Wallet
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if _, err := ownedWallet(ctx, stores.Wallets(), userID, walletID); err != nil {
			return err
		}
		if err := stores.Wallets().ClearPrimary(ctx, userID); err != nil {
			return fmt.Errorf("clearing primary wallet: %w", err)
		}
		w, err := stores.Wallets().SetPrimary(ctx, walletID, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrWalletNotFound
			}
			return fmt.Errorf("setting primary wallet: %w", err)
		}
		wallet = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

func (s *walletService) Delete(ctx context.Context, userID, walletID int64) error {
	return s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		w, err := ownedWallet(ctx, stores.Wallets(), userID, walletID)
		if err != nil {
			return err
		}
		if err := stores.Wallets().Deactivate(ctx, walletID, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrWalletNotFound
			}
			return fmt.Errorf("removing wallet: %w", err)
		}
		if w.IsPrimary {
			if err := stores.Wallets().PromoteOldest(ctx, userID); err != nil {
				return fmt.Errorf("promoting wallet: %w", err)
			}
		}
		return nil
	})
}

func (s *walletService) Balance(ctx context.Context, userID, walletID int64) (*WalletBalance, error) {
	w, err := ownedWallet(ctx, s.walletStore, userID, walletID)
	if err != nil {
		return nil, err
	}
	chain, err := s.activeChain(ctx, w.ChainID)
	if err != nil {
		return nil, err
	}

	bal, err := s.balances.GetBalance(ctx, chain.RPCURL, w.Address)
	if err != nil {
		slog.WarnContext(ctx, "balance lookup failed", "error", err, "chain_id", chain.ChainID, "wallet_id", w.ID)
		return nil, fmt.Errorf("%w: %v", ErrBalanceUnavailable, err)
	}

	return &WalletBalance{
		WalletID: w.ID,
		Address:  w.Address,
		ChainID:  chain.ChainID,
		Symbol:   chain.NativeSymbol,
		Wei:      bal.Wei.String(),
		Balance:  bal.Native,
	}, nil
}

func (s *walletService) activeChain(ctx context.Context, chainID int64) (*model.SupportedChain, error) {
	chain, err := s.chainStore.Get(ctx, chainID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrChainNotFound
		}
		return nil, fmt.Errorf("getting chain: %w", err)
	}
	if !chain.IsActive {
		return nil, ErrChainUnavailable
	}
	return chain, nil
}

// challengeMessage renders an EIP-4361 sign-in message.
func (s *walletService) challengeMessage(c *model.VerificationChallenge, issuedAt time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s wants you to sign in with your Ethereum account:\n", s.domain)
	fmt.Fprintf(&b, "%s\n\n", c.Address)
	b.WriteString("Verify ownership of this wallet for your HKT account.\n\n")
	fmt.Fprintf(&b, "URI: %s\n", s.uri)
	b.WriteString("Version: 1\n")
	fmt.Fprintf(&b, "Chain ID: %d\n", c.ChainID)
	fmt.Fprintf(&b, "Nonce: %s\n", c.Nonce)
	fmt.Fprintf(&b, "Issued At: %s\n", issuedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Expiration Time: %s", c.ExpiresAt.Format(time.RFC3339))
	return b.String()
}

func ownedWallet(ctx context.Context, wallets store.WalletStore, userID, walletID int64) (*model.Wallet, error) {
	w, err := wallets.GetByID(ctx, walletID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("getting wallet: %w", err)
	}
	if w.UserID != userID || !w.IsActive {
		return nil, ErrWalletNotFound
	}
	return w, nil
}

func newNonce() (string, error) {
	b := make([]byte, nonceBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
