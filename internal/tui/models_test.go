package tui

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/paperchat/cli/config"
	"github.com/paperchat/cli/internal/ollama"
)

func TestModelsReloadTracksListedModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]any{
				{"name": "qwen2.5:latest"},
				{"name": "nomic-embed-text"},
				{"name": "llama3:8b"},
			},
		})
	}))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := ollama.NewClient(server.URL, time.Second)
	a := NewApp(config.Default(), logger, nil, nil, nil, client, "test-model")

	mv := a.modelsView
	mv.Reload()

	if len(mv.models) != 2 {
		t.Fatalf("expected 2 chat models, got %v", mv.models)
	}
	if mv.models[0] != "qwen2.5:latest" || mv.models[1] != "llama3:8b" {
		t.Errorf("unexpected models %v", mv.models)
	}
	if got := mv.list.GetItemCount(); got != 2 {
		t.Errorf("list shows %d items, want 2", got)
	}
	if name, _ := mv.list.GetItemText(1); name != mv.models[1] {
		t.Errorf("list item %q out of sync with models %v", name, mv.models)
	}
}
