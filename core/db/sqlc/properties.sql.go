package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const propertyColumns = `id, title, slug, description, location, property_type, price_per_night, service_fee, min_nights, max_guests, bedrooms, bathrooms, total_value, token_supply, tokens_available, expected_yield, images, amenities, is_active, created_at, updated_at`

func scanProperty(row scanner) (Property, error) {
	var i Property
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Description,
		&i.Location,
		&i.PropertyType,
		&i.PricePerNight,
		&i.ServiceFee,
		&i.MinNights,
		&i.MaxGuests,
		&i.Bedrooms,
		&i.Bathrooms,
		&i.TotalValue,
		&i.TokenSupply,
		&i.TokensAvailable,
		&i.ExpectedYield,
		&i.Images,
		&i.Amenities,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

type PropertyFields struct {
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
}

const createProperty = `-- name: CreateProperty :one
INSERT INTO properties (
    id, title, slug, description, location, property_type, price_per_night, service_fee,
    min_nights, max_guests, bedrooms, bathrooms, total_value, token_supply, tokens_available,
    expected_yield, images, amenities, is_active
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
RETURNING ` + propertyColumns

type CreatePropertyParams struct {
	ID int64
	PropertyFields
}

func (q *Queries) CreateProperty(ctx context.Context, arg CreatePropertyParams) (Property, error) {
	row := q.db.QueryRow(ctx, createProperty,
		arg.ID,
		arg.Title,
		arg.Slug,
		arg.Description,
		arg.Location,
		arg.PropertyType,
		arg.PricePerNight,
		arg.ServiceFee,
		arg.MinNights,
		arg.MaxGuests,
		arg.Bedrooms,
		arg.Bathrooms,
		arg.TotalValue,
		arg.TokenSupply,
		arg.TokensAvailable,
		arg.ExpectedYield,
		arg.Images,
		arg.Amenities,
		arg.IsActive,
	)
	return scanProperty(row)
}

const updateProperty = `-- name: UpdateProperty :one
UPDATE properties SET
    title = $2, slug = $3, description = $4, location = $5, property_type = $6,
    price_per_night = $7, service_fee = $8, min_nights = $9, max_guests = $10,
    bedrooms = $11, bathrooms = $12, total_value = $13, token_supply = $14,
    tokens_available = $15, expected_yield = $16, images = $17, amenities = $18,
    is_active = $19, updated_at = now()
WHERE id = $1
RETURNING ` + propertyColumns

type UpdatePropertyParams struct {
	ID int64
	PropertyFields
}

func (q *Queries) UpdateProperty(ctx context.Context, arg UpdatePropertyParams) (Property, error) {
	row := q.db.QueryRow(ctx, updateProperty,
		arg.ID,
		arg.Title,
		arg.Slug,
		arg.Description,
		arg.Location,
		arg.PropertyType,
		arg.PricePerNight,
		arg.ServiceFee,
		arg.MinNights,
		arg.MaxGuests,
		arg.Bedrooms,
		arg.Bathrooms,
		arg.TotalValue,
		arg.TokenSupply,
		arg.TokensAvailable,
		arg.ExpectedYield,
		arg.Images,
		arg.Amenities,
		arg.IsActive,
	)
	return scanProperty(row)
}

const getProperty = `-- name: GetProperty :one
SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`

func (q *Queries) GetProperty(ctx context.Context, id int64) (Property, error) {
	return scanProperty(q.db.QueryRow(ctx, getProperty, id))
}

const getPropertyForUpdate = `-- name: GetPropertyForUpdate :one
SELECT ` + propertyColumns + ` FROM properties WHERE id = $1 FOR UPDATE`

func (q *Queries) GetPropertyForUpdate(ctx context.Context, id int64) (Property, error) {
	return scanProperty(q.db.QueryRow(ctx, getPropertyForUpdate, id))
}

const getPropertyBySlug = `-- name: GetPropertyBySlug :one
SELECT ` + propertyColumns + ` FROM properties WHERE slug = $1`

func (q *Queries) GetPropertyBySlug(ctx context.Context, slug string) (Property, error) {
	return scanProperty(q.db.QueryRow(ctx, getPropertyBySlug, slug))
}

const propertySlugExists = `-- name: PropertySlugExists :one
SELECT EXISTS (SELECT 1 FROM properties WHERE slug = $1)`

func (q *Queries) PropertySlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, propertySlugExists, slug).Scan(&exists)
	return exists, err
}

const listProperties = `-- name: ListProperties :many
SELECT ` + propertyColumns + ` FROM properties
WHERE ($1::boolean OR is_active)
  AND ($2::text IS NULL OR location ILIKE '%' || $2::text || '%')
  AND ($3::text IS NULL OR property_type = $3::text)
  AND ($4::numeric IS NULL OR price_per_night >= $4::numeric)
  AND ($5::numeric IS NULL OR price_per_night <= $5::numeric)
  AND ($6::integer IS NULL OR max_guests >= $6::integer)
ORDER BY created_at DESC
LIMIT $7 OFFSET $8`

type ListPropertiesParams struct {
	IncludeInactive bool
	Location        *string
	PropertyType    *string
	MinPrice        pgtype.Numeric
	MaxPrice        pgtype.Numeric
	Guests          *int32
	Limit           int32
	Offset          int32
}

func (q *Queries) ListProperties(ctx context.Context, arg ListPropertiesParams) ([]Property, error) {
	rows, err := q.db.Query(ctx, listProperties,
		arg.IncludeInactive,
		arg.Location,
		arg.PropertyType,
		arg.MinPrice,
		arg.MaxPrice,
		arg.Guests,
		arg.Limit,
		arg.Offset,
	)
	return collect(rows, err, scanProperty)
}

const deactivateProperty = `-- name: DeactivateProperty :execrows
UPDATE properties SET is_active = FALSE, updated_at = now() WHERE id = $1`

func (q *Queries) DeactivateProperty(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deactivateProperty, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const adjustPropertyTokens = `-- name: AdjustPropertyTokens :one
UPDATE properties SET tokens_available = tokens_available + $2, updated_at = now()
WHERE id = $1 AND tokens_available + $2 >= 0 AND tokens_available + $2 <= token_supply
RETURNING ` + propertyColumns

// AdjustPropertyTokens returns pgx.ErrNoRows when the delta would leave the
// available token count outside [0, token_supply].
func (q *Queries) AdjustPropertyTokens(ctx context.Context, id int64, delta int64) (Property, error) {
	return scanProperty(q.db.QueryRow(ctx, adjustPropertyTokens, id, delta))
}

const countActiveProperties = `-- name: CountActiveProperties :one
SELECT count(*) FROM properties WHERE is_active`

func (q *Queries) CountActiveProperties(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countActiveProperties).Scan(&count)
	return count, err
}
