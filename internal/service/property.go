package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/karlseguin/ccache/v3"
	"github.com/shopspring/decimal"

	"hktplatform.app/api/common"
	"hktplatform.app/api/common/id"
	"hktplatform.app/api/internal/domain"
	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/store"
)

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrInvalidProperty  = errors.New("invalid property")
)

const listingCacheTTL = time.Minute

// PropertyInput carries the editable fields of a property.
type PropertyInput struct {
	Title         string
	Description   string
	Location      string
	PropertyType  string
	PricePerNight decimal.Decimal
	ServiceFee    decimal.Decimal
	MinNights     int32
	MaxGuests     int32
	Bedrooms      int32
	Bathrooms     int32
	TotalValue    decimal.Decimal
	TokenSupply   int64
	ExpectedYield decimal.Decimal
	Images        []string
	Amenities     []string
}

func (in *PropertyInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Location = strings.TrimSpace(in.Location)
	in.PropertyType = strings.ToLower(strings.TrimSpace(in.PropertyType))
	in.Description = strings.TrimSpace(in.Description)
	if in.MinNights == 0 {
		in.MinNights = 1
	}
}

func (in PropertyInput) validate() error {
	invalid := func(msg string) error { return fmt.Errorf("%w: %s", ErrInvalidProperty, msg) }

	switch {
	case in.Title == "":
		return invalid("title is required")
	case in.Location == "":
		return invalid("location is required")
	case in.PropertyType == "":
		return invalid("property_type is required")
	case in.PricePerNight.IsNegative():
		return invalid("price_per_night must not be negative")
	case in.ServiceFee.IsNegative():
		return invalid("service_fee must not be negative")
	case in.TotalValue.IsNegative():
		return invalid("total_value must not be negative")
	case in.MinNights < 1:
		return invalid("min_nights must be at least 1")
	case in.MaxGuests < domain.MinGuests || in.MaxGuests > domain.MaxGuests:
		return invalid(fmt.Sprintf("max_guests must be between %d and %d", domain.MinGuests, domain.MaxGuests))
	case in.Bedrooms < 0 || in.Bathrooms < 0:
		return invalid("bedrooms and bathrooms must not be negative")
	case in.TokenSupply < 0:
		return invalid("token_supply must not be negative")
	}
	return nil
}

type PropertyService interface {
	List(ctx context.Context, filter model.PropertyFilter) ([]model.Property, error)
	Get(ctx context.Context, idOrSlug string) (*model.Property, error)
	GetByID(ctx context.Context, id int64) (*model.Property, error)
	Create(ctx context.Context, in PropertyInput) (*model.Property, error)
	Update(ctx context.Context, id int64, in PropertyInput) (*model.Property, error)
	Delete(ctx context.Context, id int64) error
}

type propertyService struct {
	txRunner      TxRunner
	propertyStore store.PropertyStore
	listings      *ccache.Cache[[]model.Property]
}

// NewListingCache builds the cache shared by every PropertyService instance.
func NewListingCache() *ccache.Cache[[]model.Property] {
	return ccache.New(ccache.Configure[[]model.Property]().MaxSize(500))
}

func NewPropertyService(txRunner TxRunner, propertyStore store.PropertyStore, listings *ccache.Cache[[]model.Property]) PropertyService {
	if listings == nil {
		listings = NewListingCache()
	}
	return &propertyService{txRunner: txRunner, propertyStore: propertyStore, listings: listings}
}

func (s *propertyService) List(ctx context.Context, filter model.PropertyFilter) ([]model.Property, error) {
	filter.Limit, filter.Offset = page(filter.Limit, filter.Offset)

	key := listingKey(filter)
	if item := s.listings.Get(key); item != nil && !item.Expired() {
		return item.Value(), nil
	}

	properties, err := s.propertyStore.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	s.listings.Set(key, properties, listingCacheTTL)
	return properties, nil
}

func (s *propertyService) Get(ctx context.Context, idOrSlug string) (*model.Property, error) {
	if pid, err := id.Parse(idOrSlug); err == nil {
		p, err := s.GetByID(ctx, pid)
		if !errors.Is(err, ErrPropertyNotFound) {
			return p, err
		}
	}

	p, err := s.propertyStore.GetBySlug(ctx, strings.ToLower(idOrSlug))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("getting property: %w", err)
	}
	if !p.IsActive {
		return nil, ErrPropertyNotFound
	}
	return p, nil
}

func (s *propertyService) GetByID(ctx context.Context, pid int64) (*model.Property, error) {
	p, err := s.propertyStore.GetByID(ctx, pid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("getting property: %w", err)
	}
	if !p.IsActive {
		return nil, ErrPropertyNotFound
	}
	return p, nil
}

func (s *propertyService) Create(ctx context.Context, in PropertyInput) (*model.Property, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	slug, err := common.UniqueSlug(ctx, in.Title, "property", s.propertyStore.SlugExists)
	if err != nil {
		return nil, fmt.Errorf("generating slug: %w", err)
	}

	p := &model.Property{
		ID:              id.New(),
		Slug:            slug,
		TokensAvailable: in.TokenSupply,
		IsActive:        true,
	}
	applyPropertyInput(p, in)

	if err := s.propertyStore.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("creating property: %w", err)
	}
	s.listings.Clear()

	slog.InfoContext(ctx, "property created", "property_id", p.ID, "slug", p.Slug)
	return p, nil
}

func (s *propertyService) Update(ctx context.Context, pid int64, in PropertyInput) (*model.Property, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	// The row stays locked until commit so concurrent investments cannot
	// interleave with the tokens_available rewrite.
	var p *model.Property
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		properties := stores.Properties()

		current, err := properties.GetForUpdate(ctx, pid)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrPropertyNotFound
			}
			return fmt.Errorf("locking property: %w", err)
		}

		// Tokens already sold stay sold when the supply changes.
		sold := current.TokenSupply - current.TokensAvailable
		if in.TokenSupply < sold {
			return fmt.Errorf("%w: token_supply cannot drop below the %d tokens already sold", ErrInvalidProperty, sold)
		}
		current.TokensAvailable = in.TokenSupply - sold
		applyPropertyInput(current, in)

		if err := properties.Update(ctx, current); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrPropertyNotFound
			}
			return fmt.Errorf("updating property: %w", err)
		}
		p = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.listings.Clear()

	slog.InfoContext(ctx, "property updated", "property_id", p.ID)
	return p, nil
}

func (s *propertyService) Delete(ctx context.Context, pid int64) error {
	if err := s.propertyStore.Deactivate(ctx, pid); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPropertyNotFound
		}
		return fmt.Errorf("deactivating property: %w", err)
	}
	s.listings.Clear()

	slog.InfoContext(ctx, "property deactivated", "property_id", pid)
	return nil
}

func applyPropertyInput(p *model.Property, in PropertyInput) {
	p.Title = in.Title
	p.Description = in.Description
	p.Location = in.Location
	p.PropertyType = in.PropertyType
	p.PricePerNight = in.PricePerNight
	p.ServiceFee = in.ServiceFee
	p.MinNights = in.MinNights
	p.MaxGuests = in.MaxGuests
	p.Bedrooms = in.Bedrooms
	p.Bathrooms = in.Bathrooms
	p.TotalValue = in.TotalValue
	p.TokenSupply = in.TokenSupply
	p.ExpectedYield = in.ExpectedYield
	p.Images = nonNil(in.Images)
	p.Amenities = nonNil(in.Amenities)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func listingKey(f model.PropertyFilter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "l=%d|o=%d|i=%t", f.Limit, f.Offset, f.IncludeInactive)
	if f.Location != nil {
		fmt.Fprintf(&b, "|loc=%s", strings.ToLower(*f.Location))
	}
	if f.PropertyType != nil {
		fmt.Fprintf(&b, "|type=%s", strings.ToLower(*f.PropertyType))
	}
	if f.MinPrice != nil {
		fmt.Fprintf(&b, "|min=%s", f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		fmt.Fprintf(&b, "|max=%s", f.MaxPrice.String())
	}
	if f.Guests != nil {
		fmt.Fprintf(&b, "|g=%d", *f.Guests)
	}
	return b.String()
}
