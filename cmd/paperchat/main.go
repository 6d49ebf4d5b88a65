package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/paperchat/cli/config"
	"github.com/paperchat/cli/internal/documents"
	"github.com/paperchat/cli/internal/embeddings"
	"github.com/paperchat/cli/internal/ollama"
	"github.com/paperchat/cli/internal/rag"
	"github.com/paperchat/cli/internal/store"
	"github.com/paperchat/cli/internal/tui"
	"github.com/paperchat/cli/internal/vectordb"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to config file (default ~/.paperchat/config.yaml)")
		ingestDir  = flag.String("ingest", "", "Ingest every PDF in the directory and exit")
		debugFlag  = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	// .env overrides nothing that is already exported.
	_ = godotenv.Load()

	level := slog.LevelInfo
	if *debugFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if s := os.Getenv("OLLAMA_HOST"); s != "" {
		cfg.Ollama.BaseURL = s
	}

	if err := run(cfg, logger, *ingestDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, ingestDir string) error {
	ctx := context.Background()
	timeout := time.Duration(cfg.Ollama.TimeoutSeconds) * time.Second

	st, err := store.Open(cfg.Database.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to open chat history: %w", err)
	}
	defer st.Close()

	index, err := vectordb.New(ctx, cfg.Database.ConnectionString, cfg.Index.CollectionName)
	if err != nil {
		return fmt.Errorf("failed to connect to vector index: %w", err)
	}
	defer index.Close()

	if err := index.EnsureSchema(ctx); err != nil {
		return err
	}

	embedder := embeddings.NewTextEmbedder(cfg.Ollama.BaseURL, cfg.Ollama.EmbeddingModel, timeout)
	client := ollama.NewClient(cfg.Ollama.BaseURL, timeout)

	parser := documents.NewPDFParser(logger)
	splitter := documents.NewSplitter(cfg.Splitter.ChunkSize, cfg.Splitter.ChunkOverlap, cfg.Splitter.Separators)
	ingestor := documents.NewIngestor(parser, splitter, embedder, index, logger)
	ingestor.OnBatch = func(d time.Duration) {
		logger.Info("ingestion batch finished", "duration", d)
	}

	if ingestDir != "" {
		return ingestFolder(ctx, ingestor, ingestDir, logger)
	}

	retriever := rag.NewRetriever(embedder, index, cfg.Chat.RetrievedDocuments)
	orchestrator := rag.NewOrchestrator(client, retriever)

	model, err := client.DefaultModel(ctx, cfg.Ollama.DefaultModel)
	if err != nil {
		logger.Warn("failed to pick a model, is ollama running?", "error", err)
		model = cfg.Ollama.DefaultModel
		if model == "" {
			model = "qwen2.5:latest"
		}
	}

	app := tui.NewApp(cfg, logger, st, ingestor, orchestrator, client, model)
	return app.Run()
}

// ingestFolder rebuilds the index from every PDF in dir, headless.
func ingestFolder(ctx context.Context, ingestor *documents.Ingestor, dir string, logger *slog.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var pdfs [][]byte
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			logger.Warn("failed to read PDF", "name", entry.Name(), "error", err)
			continue
		}
		pdfs = append(pdfs, data)
	}

	count, err := ingestor.Ingest(ctx, pdfs)
	if err != nil {
		return err
	}
	fmt.Printf("Indexed %d chunks from %d PDFs\n", count, len(pdfs))
	return nil
}
