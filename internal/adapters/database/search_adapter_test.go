package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uslugo/backend/internal/infrastructure/clients/postgres"
)

var rankedRows = []string{
	"id", "title", "description", "category_id", "category_name",
	"city", "district", "price_min", "price_max", "rating", "review_count",
	"is_active", "created_at", "updated_at", "combined_score",
}

func TestSearchHybridPreservesReturnedOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(rankedRows).
		AddRow("l1", "Hydraulik", "Naprawa rur", "c1", "Hydraulika", "Warszawa", "Mokotów", 100.0, 200.0, 4.8, 31, true, now, now, 0.92).
		AddRow("l2", "Usługi hydrauliczne", "Awarie", "c1", "Hydraulika", "Warszawa", nil, 80.0, 150.0, 4.5, 12, true, now, now, 0.71)

	mock.ExpectQuery("FROM search_listings_hybrid").
		WithArgs("hydraulik warszawa", "[0.1,0.2]", 20).
		WillReturnRows(rows)

	adapter := NewSearchAdapter(postgres.NewClientFromDB(db))
	results, err := adapter.SearchHybrid(context.Background(), "hydraulik warszawa", []float32{0.1, 0.2}, 20)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "l1", results[0].Listing.ID)
	assert.Equal(t, 0.92, results[0].Score)
	assert.Equal(t, "l2", results[1].Listing.ID)
	assert.Equal(t, "Mokotów", results[0].Listing.District)
	assert.Empty(t, results[1].Listing.District)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchHybridDropsDuplicateIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(rankedRows).
		AddRow("l1", "Sprzątanie", "Biura", "c2", "Sprzątanie", "Kraków", nil, 50.0, 90.0, 4.9, 80, true, now, now, 0.95).
		AddRow("l1", "Sprzątanie", "Biura", "c2", "Sprzątanie", "Kraków", nil, 50.0, 90.0, 4.9, 80, true, now, now, 0.60)

	mock.ExpectQuery("FROM search_listings_hybrid").
		WillReturnRows(rows)

	adapter := NewSearchAdapter(postgres.NewClientFromDB(db))
	results, err := adapter.SearchHybrid(context.Background(), "sprzątanie", []float32{0.3}, 10)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, 0.95, results[0].Score)
}

func TestSearchHybridEmptyResultSet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM search_listings_hybrid").
		WillReturnRows(sqlmock.NewRows(rankedRows))

	adapter := NewSearchAdapter(postgres.NewClientFromDB(db))
	results, err := adapter.SearchHybrid(context.Background(), "xyzzy", []float32{0.1}, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotNil(t, results)
}

func TestSearchLexicalScansRank(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(rankedRows).
		AddRow("l3", "Elektryk", "Instalacje", "c3", "Elektryka", "Gdańsk", nil, 120.0, 250.0, 4.2, 7, true, now, now, 0.4)

	mock.ExpectQuery("FROM search_listings_lexical").
		WithArgs("elektryk", 5).
		WillReturnRows(rows)

	adapter := NewSearchAdapter(postgres.NewClientFromDB(db))
	results, err := adapter.SearchLexical(context.Background(), "elektryk", 5)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, 0.4, results[0].Score)
}

func TestSearchVectorPassesThresholdAndScansSimilarity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(rankedRows).
		AddRow("l1", "Hydraulik", "Naprawa rur", "c1", "Hydraulika", "Warszawa", nil, 100.0, 200.0, 4.8, 31, true, now, now, 0.87).
		AddRow("l4", "Pogotowie hydrauliczne", "Awarie 24h", "c1", "Hydraulika", "Warszawa", nil, 150.0, 300.0, 4.6, 19, true, now, now, 0.74)

	mock.ExpectQuery("FROM search_listings_vector").
		WithArgs("[0.5,-1]", 10, 0.7).
		WillReturnRows(rows)

	adapter := NewSearchAdapter(postgres.NewClientFromDB(db))
	results, err := adapter.SearchVector(context.Background(), []float32{0.5, -1}, 10, 0.7)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, 0.87, results[0].Score)
	assert.Equal(t, "l4", results[1].Listing.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}
