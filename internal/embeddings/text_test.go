package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestEmbedReturnsVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var payload struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if payload.Model != "bge-m3:latest" {
			t.Errorf("wrong model %q", payload.Model)
		}
		if payload.Prompt != "some text" {
			t.Errorf("wrong prompt %q", payload.Prompt)
		}
		json.NewEncoder(w).Encode(map[string][]float32{"embedding": {0.1, 0.2, 0.3}})
	}))
	defer server.Close()

	e := NewTextEmbedder(server.URL, "bge-m3:latest", time.Second)
	vec, err := e.Embed(context.Background(), "some text")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if got := vec.Slice(); len(got) != 3 || got[0] != 0.1 {
		t.Errorf("unexpected vector %v", got)
	}
}

func TestEmbedRejectsEmptyText(t *testing.T) {
	e := NewTextEmbedder("http://localhost:11434", "", time.Second)
	if _, err := e.Embed(context.Background(), "   "); err == nil {
		t.Fatal("expected an error for blank text")
	}
}

func TestEmbedEmptyEmbeddingIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string][]float32{"embedding": {}})
	}))
	defer server.Close()

	e := NewTextEmbedder(server.URL, "", time.Second)
	if _, err := e.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected an error for an empty embedding")
	}
}

func TestEmbedServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such model", http.StatusNotFound)
	}))
	defer server.Close()

	e := NewTextEmbedder(server.URL, "", time.Second)
	if _, err := e.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}

func TestEmbedDefaultsModel(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		gotModel = payload.Model
		json.NewEncoder(w).Encode(map[string][]float32{"embedding": {1}})
	}))
	defer server.Close()

	e := NewTextEmbedder(server.URL, "", time.Second)
	if _, err := e.Embed(context.Background(), "text"); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if gotModel != "bge-m3:latest" {
		t.Errorf("empty model should fall back to bge-m3, got %q", gotModel)
	}
}
