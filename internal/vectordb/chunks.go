package vectordb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

// Chunk is one embedded span of source document text.
type Chunk struct {
	ID         uuid.UUID
	ChunkIndex int
	Content    string
	Embedding  *pgvector.Vector
}

// DropCollection removes every chunk of the configured collection. Ingestion
// calls this before inserting a new batch: the index holds exactly one batch
// at a time.
func (ix *Index) DropCollection(ctx context.Context) error {
	_, err := ix.pool.Exec(ctx, `DELETE FROM chunks WHERE collection = $1`, ix.collection)
	if err != nil {
		return fmt.Errorf("failed to drop collection %q: %w", ix.collection, err)
	}
	return nil
}

// InsertChunks inserts chunks into the collection in one batch.
func (ix *Index) InsertChunks(ctx context.Context, chunks []*Chunk) error {
	batch := &pgx.Batch{}
	for _, chunk := range chunks {
		batch.Queue(
			`INSERT INTO chunks (id, collection, chunk_index, content, embedding)
			 VALUES ($1, $2, $3, $4, $5)`,
			chunk.ID, ix.collection, chunk.ChunkIndex, chunk.Content, chunk.Embedding,
		)
	}
	br := ix.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < len(chunks); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}
	return nil
}

// SearchSimilar returns the content of the k chunks nearest to the embedding,
// nearest first. No score is surfaced; callers consume raw text.
func (ix *Index) SearchSimilar(ctx context.Context, embedding *pgvector.Vector, k int) ([]string, error) {
	rows, err := ix.pool.Query(ctx,
		`SELECT content
		 FROM chunks
		 WHERE collection = $1 AND embedding IS NOT NULL
		 ORDER BY embedding <=> $2
		 LIMIT $3`,
		ix.collection, embedding, k,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer rows.Close()

	var contents []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		contents = append(contents, content)
	}
	return contents, rows.Err()
}

// CountChunks returns the number of chunks currently in the collection.
func (ix *Index) CountChunks(ctx context.Context) (int, error) {
	var n int
	err := ix.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM chunks WHERE collection = $1`, ix.collection,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return n, nil
}
