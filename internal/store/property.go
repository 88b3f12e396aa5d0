package store

import (
	"context"

	"hktplatform.app/api/core/db/sqlc"
	"hktplatform.app/api/internal/model"
)

type propertyStore struct {
	queries *sqlc.Queries
}

func newPropertyStore(queries *sqlc.Queries) PropertyStore {
	return &propertyStore{queries: queries}
}

func (s *propertyStore) GetByID(ctx context.Context, id int64) (*model.Property, error) {
	row, err := s.queries.GetProperty(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return toPropertyModel(row), nil
}

func (s *propertyStore) GetForUpdate(ctx context.Context, id int64) (*model.Property, error) {
	row, err := s.queries.GetPropertyForUpdate(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return toPropertyModel(row), nil
}

func (s *propertyStore) GetBySlug(ctx context.Context, slug string) (*model.Property, error) {
	row, err := s.queries.GetPropertyBySlug(ctx, slug)
	if err != nil {
		return nil, mapErr(err)
	}
	return toPropertyModel(row), nil
}

func (s *propertyStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	return s.queries.PropertySlugExists(ctx, slug)
}

func (s *propertyStore) List(ctx context.Context, filter model.PropertyFilter) ([]model.Property, error) {
	rows, err := s.queries.ListProperties(ctx, sqlc.ListPropertiesParams{
		IncludeInactive: filter.IncludeInactive,
		Location:        filter.Location,
		PropertyType:    filter.PropertyType,
		MinPrice:        toNumericPtr(filter.MinPrice),
		MaxPrice:        toNumericPtr(filter.MaxPrice),
		Guests:          filter.Guests,
		Limit:           filter.Limit,
		Offset:          filter.Offset,
	})
	if err != nil {
		return nil, err
	}
	props := make([]model.Property, len(rows))
	for i, row := range rows {
		props[i] = *toPropertyModel(row)
	}
	return props, nil
}

func (s *propertyStore) Create(ctx context.Context, p *model.Property) error {
	row, err := s.queries.CreateProperty(ctx, sqlc.CreatePropertyParams{
		ID:             p.ID,
		PropertyFields: toPropertyFields(p),
	})
	if err != nil {
		return mapErr(err)
	}
	*p = *toPropertyModel(row)
	return nil
}

func (s *propertyStore) Update(ctx context.Context, p *model.Property) error {
	row, err := s.queries.UpdateProperty(ctx, sqlc.UpdatePropertyParams{
		ID:             p.ID,
		PropertyFields: toPropertyFields(p),
	})
	if err != nil {
		return mapErr(err)
	}
	*p = *toPropertyModel(row)
	return nil
}

func (s *propertyStore) Deactivate(ctx context.Context, id int64) error {
	n, err := s.queries.DeactivateProperty(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustTokens returns ErrNotFound when the property is missing or the delta
// would take tokens_available out of range.
func (s *propertyStore) AdjustTokens(ctx context.Context, id int64, delta int64) (*model.Property, error) {
	row, err := s.queries.AdjustPropertyTokens(ctx, id, delta)
	if err != nil {
		return nil, mapErr(err)
	}
	return toPropertyModel(row), nil
}

func (s *propertyStore) CountActive(ctx context.Context) (int64, error) {
	return s.queries.CountActiveProperties(ctx)
}

func toPropertyFields(p *model.Property) sqlc.PropertyFields {
	return sqlc.PropertyFields{
		Title:           p.Title,
		Slug:            p.Slug,
		Description:     p.Description,
		Location:        p.Location,
		PropertyType:    p.PropertyType,
		PricePerNight:   toNumeric(p.PricePerNight),
		ServiceFee:      toNumeric(p.ServiceFee),
		MinNights:       p.MinNights,
		MaxGuests:       p.MaxGuests,
		Bedrooms:        p.Bedrooms,
		Bathrooms:       p.Bathrooms,
		TotalValue:      toNumeric(p.TotalValue),
		TokenSupply:     p.TokenSupply,
		TokensAvailable: p.TokensAvailable,
		ExpectedYield:   toNumeric(p.ExpectedYield),
		Images:          emptyIfNil(p.Images),
		Amenities:       emptyIfNil(p.Amenities),
		IsActive:        p.IsActive,
	}
}

func toPropertyModel(row sqlc.Property) *model.Property {
	return &model.Property{
		ID:              row.ID,
		Title:           row.Title,
		Slug:            row.Slug,
		Description:     row.Description,
		Location:        row.Location,
		PropertyType:    row.PropertyType,
		PricePerNight:   fromNumeric(row.PricePerNight),
		ServiceFee:      fromNumeric(row.ServiceFee),
		MinNights:       row.MinNights,
		MaxGuests:       row.MaxGuests,
		Bedrooms:        row.Bedrooms,
		Bathrooms:       row.Bathrooms,
		TotalValue:      fromNumeric(row.TotalValue),
		TokenSupply:     row.TokenSupply,
		TokensAvailable: row.TokensAvailable,
		ExpectedYield:   fromNumeric(row.ExpectedYield),
		Images:          emptyIfNil(row.Images),
		Amenities:       emptyIfNil(row.Amenities),
		IsActive:        row.IsActive,
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}
}
