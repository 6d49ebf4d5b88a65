package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Database struct {
		SQLitePath       string `yaml:"sqlite_path"`
		ConnectionString string `yaml:"connection_string"`
	} `yaml:"database"`
	Ollama struct {
		BaseURL        string `yaml:"base_url"`
		DefaultModel   string `yaml:"default_model"`
		EmbeddingModel string `yaml:"embedding_model"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"ollama"`
	Splitter struct {
		ChunkSize    int      `yaml:"chunk_size"`
		ChunkOverlap int      `yaml:"chunk_overlap"`
		Separators   []string `yaml:"separators"`
	} `yaml:"splitter"`
	Chat struct {
		RetrievedDocuments int `yaml:"retrieved_documents"`
		MemoryLength       int `yaml:"memory_length"`
	} `yaml:"chat"`
	Index struct {
		CollectionName string `yaml:"collection_name"`
	} `yaml:"index"`
	Paths struct {
		DocumentsDir string `yaml:"documents_dir"`
	} `yaml:"paths"`
}

// Load loads configuration from path, or from config.yaml under
// $HOME/.paperchat when path is empty. A missing file returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".paperchat", "config.yaml")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to file
func (c *Config) Save() error {
	configDir := filepath.Join(os.Getenv("HOME"), ".paperchat")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// Default returns default configuration
func Default() *Config {
	cfg := &Config{}

	homeDir := os.Getenv("HOME")
	cfg.Database.SQLitePath = filepath.Join(homeDir, ".paperchat", "chat_history.db")
	cfg.Database.ConnectionString = "postgres://postgres@localhost/postgres?sslmode=disable"
	cfg.Ollama.BaseURL = "http://localhost:11434"
	cfg.Ollama.DefaultModel = ""
	cfg.Ollama.EmbeddingModel = "bge-m3:latest"
	cfg.Ollama.TimeoutSeconds = 300
	cfg.Splitter.ChunkSize = 500
	cfg.Splitter.ChunkOverlap = 50
	cfg.Splitter.Separators = []string{"\n\n", "\n", " ", ""}
	cfg.Chat.RetrievedDocuments = 4
	cfg.Chat.MemoryLength = 10
	cfg.Index.CollectionName = "pdfs"
	cfg.Paths.DocumentsDir = filepath.Join(homeDir, "documents")

	return cfg
}
