package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uslugo/backend/internal/domain/entities"
	"github.com/uslugo/backend/internal/infrastructure/clients/postgres"
)

func TestLogEventAssignsIDAndTimestamp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO search_events").
		WillReturnResult(sqlmock.NewResult(0, 1))

	adapter := NewSearchEventAdapter(postgres.NewClientFromDB(db))
	event := &entities.SearchEvent{Query: "hydraulik warszawa", ResultCount: 12}

	err = adapter.LogEvent(context.Background(), event)
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopQueriesOrdering(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"query", "search_count"}).
		AddRow("hydraulik warszawa", 42).
		AddRow("sprzątanie kraków", 17)

	since := time.Now().AddDate(0, 0, -7)
	mock.ExpectQuery("FROM search_events").
		WithArgs(since, 10).
		WillReturnRows(rows)

	adapter := NewSearchEventAdapter(postgres.NewClientFromDB(db))
	aggregates, err := adapter.TopQueries(context.Background(), since, 10)
	require.NoError(t, err)

	require.Len(t, aggregates, 2)
	assert.Equal(t, "hydraulik warszawa", aggregates[0].Query)
	assert.Equal(t, 42, aggregates[0].SearchCount)
	assert.Greater(t, aggregates[0].SearchCount, aggregates[1].SearchCount)
}

func TestZeroResultQueriesScansNullUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "query", "user_id", "result_count", "created_at"}).
		AddRow("e1", "xyzzy", nil, 0, now)

	mock.ExpectQuery("WHERE result_count = 0").
		WillReturnRows(rows)

	adapter := NewSearchEventAdapter(postgres.NewClientFromDB(db))
	events, err := adapter.ZeroResultQueries(context.Background(), 50)
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, "xyzzy", events[0].Query)
	assert.Empty(t, events[0].UserID)
	assert.Equal(t, 0, events[0].ResultCount)
}
