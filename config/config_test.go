package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Splitter.ChunkSize != 500 {
		t.Errorf("default chunk size: got %d, want 500", cfg.Splitter.ChunkSize)
	}
	if cfg.Splitter.ChunkOverlap != 50 {
		t.Errorf("default overlap: got %d, want 50", cfg.Splitter.ChunkOverlap)
	}
	if len(cfg.Splitter.Separators) == 0 || cfg.Splitter.Separators[len(cfg.Splitter.Separators)-1] != "" {
		t.Errorf("separators should end with the empty catch-all, got %v", cfg.Splitter.Separators)
	}
	if cfg.Chat.RetrievedDocuments <= 0 {
		t.Errorf("retrieval fan-out must be positive, got %d", cfg.Chat.RetrievedDocuments)
	}
	if cfg.Ollama.BaseURL == "" {
		t.Error("default ollama base URL missing")
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".paperchat")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	yaml := "splitter:\n  chunk_size: 1234\nchat:\n  memory_length: 3\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Splitter.ChunkSize != 1234 {
		t.Errorf("chunk size not overridden: got %d", cfg.Splitter.ChunkSize)
	}
	if cfg.Chat.MemoryLength != 3 {
		t.Errorf("memory length not overridden: got %d", cfg.Chat.MemoryLength)
	}
	// Untouched keys keep their defaults.
	if cfg.Index.CollectionName != "pdfs" {
		t.Errorf("collection name should keep its default, got %q", cfg.Index.CollectionName)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	// The default location stays empty so any fallback would be visible.
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "custom.yaml")
	yaml := "index:\n  collection_name: papers\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Index.CollectionName != "papers" {
		t.Errorf("explicit config path ignored, collection %q", cfg.Index.CollectionName)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := Default()
	cfg.Ollama.DefaultModel = "qwen2.5:latest"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Ollama.DefaultModel != "qwen2.5:latest" {
		t.Errorf("model not round-tripped: got %q", loaded.Ollama.DefaultModel)
	}
}
