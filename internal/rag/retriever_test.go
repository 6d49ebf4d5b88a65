package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/pgvector/pgvector-go"
)

type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) (*pgvector.Vector, error) {
	if s.err != nil {
		return nil, s.err
	}
	v := pgvector.NewVector([]float32{1, 2, 3})
	return &v, nil
}

type stubSearcher struct {
	gotK   int
	chunks []string
	err    error
}

func (s *stubSearcher) SearchSimilar(ctx context.Context, embedding *pgvector.Vector, k int) ([]string, error) {
	s.gotK = k
	return s.chunks, s.err
}

func TestRetrieverQueryUsesConfiguredFanout(t *testing.T) {
	searcher := &stubSearcher{chunks: []string{"a", "b"}}
	r := NewRetriever(&stubEmbedder{}, searcher, 7)

	chunks, err := r.Query(context.Background(), "question")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if searcher.gotK != 7 {
		t.Errorf("expected fan-out 7, got %d", searcher.gotK)
	}
	if len(chunks) != 2 || chunks[0] != "a" || chunks[1] != "b" {
		t.Errorf("chunk order must be preserved, got %v", chunks)
	}
}

func TestRetrieverDefaultFanout(t *testing.T) {
	searcher := &stubSearcher{}
	r := NewRetriever(&stubEmbedder{}, searcher, 0)

	if _, err := r.Query(context.Background(), "q"); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if searcher.gotK <= 0 {
		t.Errorf("fan-out must default to a positive value, got %d", searcher.gotK)
	}
}

func TestRetrieverEmbedError(t *testing.T) {
	r := NewRetriever(&stubEmbedder{err: errors.New("down")}, &stubSearcher{}, 3)

	if _, err := r.Query(context.Background(), "q"); err == nil {
		t.Fatal("expected an error when embedding fails")
	}
}

func TestRetrieverSearchError(t *testing.T) {
	r := NewRetriever(&stubEmbedder{}, &stubSearcher{err: errors.New("down")}, 3)

	if _, err := r.Query(context.Background(), "q"); err == nil {
		t.Fatal("expected an error when search fails")
	}
}
