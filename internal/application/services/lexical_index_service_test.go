package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uslugo/backend/internal/application/services"
	"github.com/uslugo/backend/internal/domain/entities"
)

func TestLexicalIndexService_UpsertsActiveRemovesInactive(t *testing.T) {
	engine := &MockLexicalEngine{}
	svc := services.NewLexicalIndexService(engine)

	listings := []*entities.Listing{
		{ID: "l1", Title: "Hydraulik", City: "Warszawa", IsActive: true},
		{ID: "l2", Title: "Elektryk", City: "Kraków", IsActive: true},
		{ID: "l3", Title: "Malarz", City: "Gdańsk", IsActive: false},
	}

	indexed, removed := svc.SyncListings(context.Background(), listings)

	assert.Equal(t, 2, indexed)
	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"l1", "l2"}, engine.indexed)
	assert.Equal(t, []string{"l3"}, engine.deleted)
}

func TestLexicalIndexService_SkipsFailedDocumentAndContinues(t *testing.T) {
	engine := &MockLexicalEngine{failID: "l2"}
	svc := services.NewLexicalIndexService(engine)

	listings := []*entities.Listing{
		{ID: "l1", Title: "Hydraulik", IsActive: true},
		{ID: "l2", Title: "Elektryk", IsActive: true},
		{ID: "l3", Title: "Stolarz", IsActive: true},
	}

	indexed, removed := svc.SyncListings(context.Background(), listings)

	assert.Equal(t, 2, indexed)
	assert.Equal(t, 0, removed)
	assert.Equal(t, []string{"l1", "l3"}, engine.indexed)
}

func TestLexicalIndexService_NilEngineIsNoop(t *testing.T) {
	svc := services.NewLexicalIndexService(nil)

	indexed, removed := svc.SyncListings(context.Background(), []*entities.Listing{
		{ID: "l1", IsActive: true},
	})

	assert.Equal(t, 0, indexed)
	assert.Equal(t, 0, removed)
}
