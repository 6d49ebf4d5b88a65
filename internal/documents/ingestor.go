package documents

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/paperchat/cli/internal/vectordb"
)

// TextExtractor decodes a document byte stream into plain text.
type TextExtractor interface {
	ExtractText(data []byte) string
}

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (*pgvector.Vector, error)
}

// ChunkIndex is the slice of the vector index the pipeline writes to.
type ChunkIndex interface {
	DropCollection(ctx context.Context) error
	InsertChunks(ctx context.Context, chunks []*vectordb.Chunk) error
}

// Ingestor runs the PDF ingestion pipeline: extract, chunk, embed, store.
//
// Every batch rebuilds the collection from scratch: the previous contents are
// dropped before the new chunks go in. Two concurrent Ingest calls would race
// a drop against an insert, so calls are serialized.
type Ingestor struct {
	mu       sync.Mutex
	parser   TextExtractor
	splitter *Splitter
	embedder Embedder
	index    ChunkIndex
	logger   *slog.Logger

	// OnBatch, when set, observes the wall-clock duration of each batch.
	OnBatch func(d time.Duration)
}

// NewIngestor creates a new ingestor
func NewIngestor(parser TextExtractor, splitter *Splitter, embedder Embedder, index ChunkIndex, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		parser:   parser,
		splitter: splitter,
		embedder: embedder,
		index:    index,
		logger:   logger,
	}
}

// Ingest processes a batch of PDF byte streams and returns the number of
// chunks stored. Documents that fail to decode contribute nothing; the rest
// of the batch proceeds.
func (ing *Ingestor) Ingest(ctx context.Context, pdfs [][]byte) (int, error) {
	ing.mu.Lock()
	defer ing.mu.Unlock()

	start := time.Now()
	defer func() {
		if ing.OnBatch != nil {
			ing.OnBatch(time.Since(start))
		}
	}()

	// Chunk everything up front so the window between drop and insert stays
	// as small as the embedding calls allow.
	var texts []string
	for i, pdf := range pdfs {
		text := ing.parser.ExtractText(pdf)
		if text == "" {
			ing.logger.Warn("document yielded no text, skipping", "document", i)
			continue
		}
		texts = append(texts, ing.splitter.Split(text)...)
	}

	if err := ing.index.DropCollection(ctx); err != nil {
		return 0, fmt.Errorf("failed to reset collection: %w", err)
	}

	if len(texts) == 0 {
		ing.logger.Info("ingested empty batch", "documents", len(pdfs))
		return 0, nil
	}

	chunks := make([]*vectordb.Chunk, 0, len(texts))
	for i, text := range texts {
		embedding, err := ing.embedder.Embed(ctx, text)
		if err != nil {
			return 0, fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}
		chunks = append(chunks, &vectordb.Chunk{
			ID:         uuid.New(),
			ChunkIndex: i,
			Content:    text,
			Embedding:  embedding,
		})
	}

	if err := ing.index.InsertChunks(ctx, chunks); err != nil {
		return 0, fmt.Errorf("failed to store chunks: %w", err)
	}

	ing.logger.Info("ingested batch", "documents", len(pdfs), "chunks", len(chunks))
	return len(chunks), nil
}
