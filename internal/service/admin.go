package service

import (
	"context"
	"fmt"

	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/store"
)

type AdminService interface {
	Stats(ctx context.Context) (*model.PlatformStats, error)
}

type adminService struct {
	userStore       store.UserStore
	propertyStore   store.PropertyStore
	bookingStore    store.BookingStore
	investmentStore store.InvestmentStore
	blogStore       store.BlogStore
}

func NewAdminService(
	userStore store.UserStore,
	propertyStore store.PropertyStore,
	bookingStore store.BookingStore,
	investmentStore store.InvestmentStore,
	blogStore store.BlogStore,
) AdminService {
	return &adminService{
		userStore:       userStore,
		propertyStore:   propertyStore,
		bookingStore:    bookingStore,
		investmentStore: investmentStore,
		blogStore:       blogStore,
	}
}

func (s *adminService) Stats(ctx context.Context) (*model.PlatformStats, error) {
	users, err := s.userStore.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}
	properties, err := s.propertyStore.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting properties: %w", err)
	}
	byStatus, err := s.bookingStore.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting bookings: %w", err)
	}
	revenue, err := s.bookingStore.PaidRevenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("summing revenue: %w", err)
	}
	invested, err := s.investmentStore.Totals(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("summing investments: %w", err)
	}
	posts, err := s.blogStore.CountPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting posts: %w", err)
	}

	return &model.PlatformStats{
		Users:            users,
		ActiveProperties: properties,
		BookingsByStatus: byStatus,
		BookingRevenue:   revenue,
		TotalInvested:    invested.Amount,
		TokensSold:       invested.Tokens,
		PublishedPosts:   posts,
	}, nil
}
