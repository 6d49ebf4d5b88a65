// Package vectordb stores embedded document chunks in Postgres with pgvector
// and answers nearest-neighbor queries over a single named collection.
package vectordb

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Index wraps the connection pool for the chunk index.
type Index struct {
	pool       *pgxpool.Pool
	collection string
}

// New creates a new index handle for the configured collection.
func New(ctx context.Context, connString, collection string) (*Index, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	config.MaxConns = 10
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Index{pool: pool, collection: collection}, nil
}

// EnsureSchema creates the pgvector extension and the chunks table.
func (ix *Index) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS chunks (
			id UUID PRIMARY KEY,
			collection TEXT NOT NULL,
			chunk_index INT NOT NULL,
			content TEXT NOT NULL,
			embedding vector,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_collection ON chunks (collection)`,
	}
	for _, stmt := range statements {
		if _, err := ix.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize index schema: %w", err)
		}
	}
	return nil
}

// Collection returns the configured collection name.
func (ix *Index) Collection() string {
	return ix.collection
}

// Close closes the connection pool.
func (ix *Index) Close() {
	ix.pool.Close()
}
