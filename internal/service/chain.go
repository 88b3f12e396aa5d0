package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/store"
)

var (
	ErrChainNotFound    = errors.New("chain not supported")
	ErrInvalidChain     = errors.New("invalid chain")
	ErrChainUnavailable = errors.New("chain is not active")
)

type ChainService interface {
	List(ctx context.Context, includeInactive bool) ([]model.SupportedChain, error)
	Get(ctx context.Context, chainID int64) (*model.SupportedChain, error)
	Upsert(ctx context.Context, chain model.SupportedChain) (*model.SupportedChain, error)
}

type chainService struct {
	chainStore store.ChainStore
}

func NewChainService(chainStore store.ChainStore) ChainService {
	return &chainService{chainStore: chainStore}
}

func (s *chainService) List(ctx context.Context, includeInactive bool) ([]model.SupportedChain, error) {
	chains, err := s.chainStore.List(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("listing chains: %w", err)
	}
	return chains, nil
}

func (s *chainService) Get(ctx context.Context, chainID int64) (*model.SupportedChain, error) {
	chain, err := s.chainStore.Get(ctx, chainID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrChainNotFound
		}
		return nil, fmt.Errorf("getting chain: %w", err)
	}
	return chain, nil
}

func (s *chainService) Upsert(ctx context.Context, chain model.SupportedChain) (*model.SupportedChain, error) {
	chain.Name = strings.TrimSpace(chain.Name)
	chain.NativeSymbol = strings.ToUpper(strings.TrimSpace(chain.NativeSymbol))
	chain.RPCURL = strings.TrimSpace(chain.RPCURL)
	chain.ExplorerURL = trimmedPtr(chain.ExplorerURL)

	switch {
	case chain.ChainID <= 0:
		return nil, fmt.Errorf("%w: chain_id must be positive", ErrInvalidChain)
	case chain.Name == "":
		return nil, fmt.Errorf("%w: name is required", ErrInvalidChain)
	case chain.NativeSymbol == "":
		return nil, fmt.Errorf("%w: native_symbol is required", ErrInvalidChain)
	case !httpURL(chain.RPCURL):
		return nil, fmt.Errorf("%w: rpc_url must be an http(s) URL", ErrInvalidChain)
	case chain.ExplorerURL != nil && !httpURL(*chain.ExplorerURL):
		return nil, fmt.Errorf("%w: explorer_url must be an http(s) URL", ErrInvalidChain)
	}

	if err := s.chainStore.Upsert(ctx, &chain); err != nil {
		return nil, fmt.Errorf("saving chain: %w", err)
	}

	slog.InfoContext(ctx, "chain saved", "chain_id", chain.ChainID, "active", chain.IsActive)
	return &chain, nil
}

func httpURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
