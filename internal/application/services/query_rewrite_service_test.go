package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uslugo/backend/internal/application/services"
)

func TestRewrite_CorrectsTypos(t *testing.T) {
	provider := &MockRewriteProvider{corrected: "hydraulik warszawa"}
	svc := services.NewQueryRewriteService(provider)

	result := svc.Rewrite(context.Background(), "hydrualik warszwa")

	assert.Equal(t, "hydrualik warszwa", result.Original)
	assert.Equal(t, "hydraulik warszawa", result.Corrected)
	assert.True(t, result.NeedsCorrection)
	assert.Equal(t, 0.85, result.Confidence)
}

func TestRewrite_UnchangedQueryFullConfidence(t *testing.T) {
	provider := &MockRewriteProvider{corrected: "Hydraulik Warszawa"}
	svc := services.NewQueryRewriteService(provider)

	// case-insensitive comparison: a case-only change is no correction
	result := svc.Rewrite(context.Background(), "hydraulik warszawa")

	assert.Equal(t, "hydraulik warszawa", result.Corrected)
	assert.False(t, result.NeedsCorrection)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestRewrite_ProviderFailureReturnsOriginal(t *testing.T) {
	provider := &MockRewriteProvider{err: errors.New("breaker open")}
	svc := services.NewQueryRewriteService(provider)

	result := svc.Rewrite(context.Background(), "hydraulik warszawa")

	assert.Equal(t, "hydraulik warszawa", result.Corrected)
	assert.False(t, result.NeedsCorrection)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestRewrite_NilProviderPassThrough(t *testing.T) {
	svc := services.NewQueryRewriteService(nil)

	result := svc.Rewrite(context.Background(), "  sprzątanie kraków  ")

	assert.Equal(t, "sprzątanie kraków", result.Original)
	assert.Equal(t, "sprzątanie kraków", result.Corrected)
	assert.False(t, result.NeedsCorrection)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestRewrite_EmptyCorrectionReturnsOriginal(t *testing.T) {
	provider := &MockRewriteProvider{corrected: "   "}
	svc := services.NewQueryRewriteService(provider)

	result := svc.Rewrite(context.Background(), "elektryk gdańsk")

	assert.Equal(t, "elektryk gdańsk", result.Corrected)
	assert.False(t, result.NeedsCorrection)
}

func TestRewrite_EmptyQuerySkipsProvider(t *testing.T) {
	provider := &MockRewriteProvider{corrected: "anything"}
	svc := services.NewQueryRewriteService(provider)

	result := svc.Rewrite(context.Background(), "   ")

	assert.Empty(t, result.Corrected)
	assert.Zero(t, provider.calls)
}
