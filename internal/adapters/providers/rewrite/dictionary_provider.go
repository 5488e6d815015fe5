package rewrite

import (
	"context"

	"github.com/uslugo/backend/internal/domain/providers"
	"github.com/uslugo/backend/pkg/utils"
)

// DictionaryProvider rewrites queries with a static typo/shorthand
// dictionary. It stands in for the LLM rewriter when no API key is
// configured, so the common misspellings still get corrected.
type DictionaryProvider struct {
	normalizer *utils.QueryNormalizer
}

// NewDictionaryProvider creates a dictionary-backed rewrite provider. An
// empty configPath uses the built-in dictionary.
func NewDictionaryProvider(configPath string) (*DictionaryProvider, error) {
	if configPath == "" {
		return &DictionaryProvider{normalizer: utils.NewDefaultQueryNormalizer()}, nil
	}
	normalizer, err := utils.NewQueryNormalizer(configPath)
	if err != nil {
		return nil, err
	}
	return &DictionaryProvider{normalizer: normalizer}, nil
}

// RewriteQuery implements providers.QueryRewriteProvider.
func (p *DictionaryProvider) RewriteQuery(_ context.Context, query string) (string, error) {
	return p.normalizer.Normalize(query), nil
}

var _ providers.QueryRewriteProvider = (*DictionaryProvider)(nil)
