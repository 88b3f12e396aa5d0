package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hktplatform.app/api/common/id"
	"hktplatform.app/api/common/logger"
	"hktplatform.app/api/internal/domain"
	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/store"
)

var (
	ErrInvestmentNotFound  = errors.New("investment not found")
	ErrInvalidTokens       = errors.New("tokens must be greater than zero")
	ErrInsufficientTokens  = errors.New("not enough tokens available")
	ErrNotInvestable       = errors.New("property is not open for investment")
	ErrInvestmentCancelled = errors.New("investment is already cancelled")
)

type InvestmentService interface {
	Invest(ctx context.Context, userID, propertyID, tokens int64) (*model.Investment, error)
	ListMine(ctx context.Context, userID int64) ([]model.Investment, error)
	Cancel(ctx context.Context, userID, investmentID int64) (*model.Investment, error)
}

type investmentService struct {
	txRunner        TxRunner
	investmentStore store.InvestmentStore
}

func NewInvestmentService(txRunner TxRunner, investmentStore store.InvestmentStore) InvestmentService {
	return &investmentService{txRunner: txRunner, investmentStore: investmentStore}
}

func (s *investmentService) Invest(ctx context.Context, userID, propertyID, tokens int64) (*model.Investment, error) {
	if tokens <= 0 {
		return nil, ErrInvalidTokens
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: &userID, PropertyID: &propertyID})

	var inv *model.Investment
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		p, err := stores.Properties().GetForUpdate(ctx, propertyID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrPropertyNotFound
			}
			return fmt.Errorf("getting property: %w", err)
		}
		if !p.IsActive {
			return ErrPropertyNotFound
		}
		if p.TokenSupply <= 0 {
			return ErrNotInvestable
		}
		if tokens > p.TokensAvailable {
			return ErrInsufficientTokens
		}

		if _, err := stores.Properties().AdjustTokens(ctx, p.ID, -tokens); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInsufficientTokens
			}
			return fmt.Errorf("reserving tokens: %w", err)
		}

		inv = &model.Investment{
			ID:         id.New(),
			UserID:     userID,
			PropertyID: p.ID,
			Tokens:     tokens,
			Amount:     domain.InvestmentAmount(p.TotalValue, p.TokenSupply, tokens),
			Status:     model.InvestmentStatusConfirmed,
		}
		if err := stores.Investments().Create(ctx, inv); err != nil {
			return fmt.Errorf("creating investment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "investment confirmed", "investment_id", inv.ID, "tokens", tokens, "amount", inv.Amount.String())
	return inv, nil
}

func (s *investmentService) ListMine(ctx context.Context, userID int64) ([]model.Investment, error) {
	investments, err := s.investmentStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing investments: %w", err)
	}
	return investments, nil
}

func (s *investmentService) Cancel(ctx context.Context, userID, investmentID int64) (*model.Investment, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: &userID})

	var inv *model.Investment
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		current, err := stores.Investments().GetForUpdate(ctx, investmentID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvestmentNotFound
			}
			return fmt.Errorf("getting investment: %w", err)
		}
		if current.UserID != userID {
			return ErrInvestmentNotFound
		}
		if current.Status == model.InvestmentStatusCancelled {
			return ErrInvestmentCancelled
		}

		if _, err := stores.Properties().AdjustTokens(ctx, current.PropertyID, current.Tokens); err != nil {
			return fmt.Errorf("returning tokens: %w", err)
		}

		inv, err = stores.Investments().UpdateStatus(ctx, current.ID, model.InvestmentStatusCancelled)
		if err != nil {
			return fmt.Errorf("cancelling investment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "investment cancelled", "investment_id", inv.ID, "tokens", inv.Tokens)
	return inv, nil
}
