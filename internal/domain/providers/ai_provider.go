package providers

import (
	"context"
)

// EmbeddingProvider wraps a text-embedding API. A nil provider means the
// capability is unconfigured; consumers branch once at the top of their
// operation and degrade to the non-semantic path.
type EmbeddingProvider interface {
	// EmbedQuery generates an embedding for a single query string
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, preserving
	// positional correspondence with the input. Empty/whitespace entries
	// yield a nil slot without a provider call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// EmbeddingModel returns the model tag stored alongside generated
	// vectors
	EmbeddingModel() string
}

// QueryRewriteProvider wraps an LLM used to correct typos and strip filler
// from raw queries. Same nil-means-unconfigured contract as
// EmbeddingProvider; rewriting is an optimization, never a blocking
// dependency.
type QueryRewriteProvider interface {
	// RewriteQuery returns the corrected form of the query. The provider
	// must not introduce information absent from the original.
	RewriteQuery(ctx context.Context, query string) (string, error)
}
