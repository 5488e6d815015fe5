package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/uslugo/backend/internal/domain/entities"
	"github.com/uslugo/backend/internal/domain/repositories"
	"github.com/uslugo/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/uslugo/backend/pkg/errors"
	"github.com/uslugo/backend/pkg/vectors"
)

var listingColumns = []interface{}{
	"id", "title", "description", "category_id", "category_name",
	"city", "district", "price_min", "price_max", "rating", "review_count",
	"embedding_model", "embedded_at", "is_active", "created_at", "updated_at",
}

// ListingAdapter implements the ListingRepository interface
type ListingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewListingAdapter creates a new listing adapter
func NewListingAdapter(client *postgres.Client) repositories.ListingRepository {
	return &ListingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a listing by ID
func (a *ListingAdapter) GetByID(ctx context.Context, id string) (*entities.Listing, error) {
	query, args, err := a.db.Select(listingColumns...).
		From("listings").
		Where(goqu.Ex{"id": id, "is_active": true}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	listing, err := scanListing(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("listing with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get listing", err)
	}

	return listing, nil
}

// List retrieves active listings matching the filter
func (a *ListingAdapter) List(ctx context.Context, filter repositories.ListingFilter) ([]*entities.Listing, error) {
	ds := a.db.Select(listingColumns...).
		From("listings").
		Where(goqu.Ex{"is_active": true})

	if filter.CategoryID != "" {
		ds = ds.Where(goqu.Ex{"category_id": filter.CategoryID})
	}
	if filter.City != "" {
		ds = ds.Where(goqu.L("LOWER(city)").Eq(goqu.L("LOWER(?)", filter.City)))
	}

	ds = ds.Order(goqu.I("created_at").Desc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list listings", err)
	}
	defer rows.Close()

	return scanListings(rows)
}

// SearchByText performs a case-insensitive containment match on title and
// description, ordered by recency descending
func (a *ListingAdapter) SearchByText(ctx context.Context, query string, limit int) ([]*entities.Listing, error) {
	pattern := "%" + query + "%"

	sqlQuery, args, err := a.db.Select(listingColumns...).
		From("listings").
		Where(
			goqu.Ex{"is_active": true},
			goqu.Or(
				goqu.I("title").ILike(pattern),
				goqu.I("description").ILike(pattern),
			),
		).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to search listings by text", err)
	}
	defer rows.Close()

	return scanListings(rows)
}

// ListNeedingEmbedding retrieves listings whose embedding is missing or
// stale for the given model
func (a *ListingAdapter) ListNeedingEmbedding(ctx context.Context, model string, limit int) ([]*entities.Listing, error) {
	query, args, err := a.db.Select(listingColumns...).
		From("listings").
		Where(
			goqu.Ex{"is_active": true},
			goqu.Or(
				goqu.I("embedded_at").IsNull(),
				goqu.I("embedding_model").Neq(model),
				goqu.I("updated_at").Gt(goqu.I("embedded_at")),
			),
		).
		Order(goqu.I("updated_at").Asc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list listings needing embedding", err)
	}
	defer rows.Close()

	return scanListings(rows)
}

// UpdateEmbedding stores a freshly generated embedding with its model tag
// and timestamp
func (a *ListingAdapter) UpdateEmbedding(ctx context.Context, id string, embedding []float32, model string) error {
	query := `
		UPDATE listings SET
			embedding = $2::vector,
			embedding_model = $3,
			embedded_at = $4
		WHERE id = $1
	`

	result, err := a.client.DB().ExecContext(ctx, query,
		id,
		vectors.Serialize(embedding),
		model,
		time.Now(),
	)
	if err != nil {
		return apperrors.NewInternalError("failed to update listing embedding", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("listing with id %s not found", id))
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanListing(row rowScanner) (*entities.Listing, error) {
	listing := &entities.Listing{}
	var district, embeddingModel sql.NullString
	var embeddedAt sql.NullTime

	err := row.Scan(
		&listing.ID,
		&listing.Title,
		&listing.Description,
		&listing.CategoryID,
		&listing.CategoryName,
		&listing.City,
		&district,
		&listing.PriceMin,
		&listing.PriceMax,
		&listing.Rating,
		&listing.ReviewCount,
		&embeddingModel,
		&embeddedAt,
		&listing.IsActive,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	listing.District = district.String
	listing.EmbeddingModel = embeddingModel.String
	if embeddedAt.Valid {
		t := embeddedAt.Time
		listing.EmbeddedAt = &t
	}

	return listing, nil
}

func scanListings(rows *sql.Rows) ([]*entities.Listing, error) {
	listings := []*entities.Listing{}
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan listing", err)
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating listings", err)
	}

	return listings, nil
}
