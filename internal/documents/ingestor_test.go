package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pgvector/pgvector-go"

	"github.com/paperchat/cli/internal/vectordb"
)

// fakeExtractor treats the document bytes as plain text; "BAD" decodes to
// nothing, standing in for a malformed PDF.
type fakeExtractor struct{}

func (fakeExtractor) ExtractText(data []byte) string {
	if string(data) == "BAD" {
		return ""
	}
	return string(data)
}

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) (*pgvector.Vector, error) {
	if f.err != nil {
		return nil, f.err
	}
	v := pgvector.NewVector([]float32{float32(len(text)), 0, 0})
	return &v, nil
}

type fakeIndex struct {
	ops      []string
	contents []string
}

func (f *fakeIndex) DropCollection(ctx context.Context) error {
	f.ops = append(f.ops, "drop")
	f.contents = nil
	return nil
}

func (f *fakeIndex) InsertChunks(ctx context.Context, chunks []*vectordb.Chunk) error {
	f.ops = append(f.ops, "insert")
	for _, chunk := range chunks {
		f.contents = append(f.contents, chunk.Content)
	}
	return nil
}

func newTestIngestor(index *fakeIndex, embedder *fakeEmbedder) *Ingestor {
	splitter := NewSplitter(1000, 0, nil)
	return NewIngestor(fakeExtractor{}, splitter, embedder, index, nil)
}

func TestIngestDropsBeforeInsert(t *testing.T) {
	index := &fakeIndex{}
	ing := newTestIngestor(index, &fakeEmbedder{})

	count, err := ing.Ingest(context.Background(), [][]byte{[]byte("some document text")})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 chunk, got %d", count)
	}
	if len(index.ops) != 2 || index.ops[0] != "drop" || index.ops[1] != "insert" {
		t.Errorf("expected drop then insert, got %v", index.ops)
	}
}

func TestIngestReplacesPreviousBatch(t *testing.T) {
	index := &fakeIndex{}
	ing := newTestIngestor(index, &fakeEmbedder{})
	ctx := context.Background()

	if _, err := ing.Ingest(ctx, [][]byte{[]byte("first batch")}); err != nil {
		t.Fatalf("Ingest B1: %v", err)
	}
	if _, err := ing.Ingest(ctx, [][]byte{[]byte("second batch")}); err != nil {
		t.Fatalf("Ingest B2: %v", err)
	}

	if len(index.contents) != 1 || index.contents[0] != "second batch" {
		t.Errorf("index should hold only the second batch, got %v", index.contents)
	}
}

func TestIngestSkipsMalformedDocuments(t *testing.T) {
	index := &fakeIndex{}
	ing := newTestIngestor(index, &fakeEmbedder{})

	count, err := ing.Ingest(context.Background(), [][]byte{
		[]byte("good one"),
		[]byte("BAD"),
		[]byte("good two"),
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 chunks from the good documents, got %d", count)
	}
}

func TestIngestEmptyBatchStillDrops(t *testing.T) {
	index := &fakeIndex{}
	ing := newTestIngestor(index, &fakeEmbedder{})
	ctx := context.Background()

	if _, err := ing.Ingest(ctx, [][]byte{[]byte("old content")}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	count, err := ing.Ingest(ctx, [][]byte{[]byte("BAD")})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 chunks, got %d", count)
	}
	if len(index.contents) != 0 {
		t.Errorf("old content must be gone after an all-bad batch, got %v", index.contents)
	}
}

func TestIngestEmbedFailure(t *testing.T) {
	index := &fakeIndex{}
	ing := newTestIngestor(index, &fakeEmbedder{err: errors.New("backend down")})

	_, err := ing.Ingest(context.Background(), [][]byte{[]byte("text")})
	if err == nil {
		t.Fatal("expected an error when embedding fails")
	}
	for _, op := range index.ops {
		if op == "insert" {
			t.Error("nothing should be inserted when embedding fails")
		}
	}
}

func TestIngestTimingHook(t *testing.T) {
	index := &fakeIndex{}
	ing := newTestIngestor(index, &fakeEmbedder{})

	var observed time.Duration
	called := false
	ing.OnBatch = func(d time.Duration) {
		called = true
		observed = d
	}

	if _, err := ing.Ingest(context.Background(), [][]byte{[]byte("text")}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if !called {
		t.Error("timing hook was not invoked")
	}
	if observed < 0 {
		t.Errorf("negative duration %v", observed)
	}
}
