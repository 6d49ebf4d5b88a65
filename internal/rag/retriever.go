// Package rag retrieves indexed context and orchestrates chat turns.
package rag

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
)

// Embedder turns query text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (*pgvector.Vector, error)
}

// Searcher answers nearest-neighbor queries with raw chunk text.
type Searcher interface {
	SearchSimilar(ctx context.Context, embedding *pgvector.Vector, k int) ([]string, error)
}

// Retriever wraps an embedding function and the persistent chunk index.
type Retriever struct {
	embedder Embedder
	index    Searcher
	topK     int
}

// NewRetriever creates a new retriever with the configured fan-out.
func NewRetriever(embedder Embedder, index Searcher, topK int) *Retriever {
	if topK <= 0 {
		topK = 4
	}
	return &Retriever{
		embedder: embedder,
		index:    index,
		topK:     topK,
	}
}

// Query embeds the query text and returns the topK nearest chunk texts,
// nearest first. No relevance score is surfaced.
func (r *Retriever) Query(ctx context.Context, query string) ([]string, error) {
	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	chunks, err := r.index.SearchSimilar(ctx, embedding, r.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	return chunks, nil
}
