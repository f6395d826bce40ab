package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Retrieval.TopK != 5 {
		t.Errorf("TopK = %d, want 5", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.MaxFeatures != 5000 {
		t.Errorf("MaxFeatures = %d, want 5000", cfg.Retrieval.MaxFeatures)
	}
	if cfg.Embedder.Type != "tfidf" {
		t.Errorf("Embedder.Type = %q, want tfidf", cfg.Embedder.Type)
	}
	if cfg.VectorStore.Type != "memory" {
		t.Errorf("VectorStore.Type = %q, want memory", cfg.VectorStore.Type)
	}
}

func TestLoadAppliesDefaultsToPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
paths:
  case_base: my/cases.json
retrieval:
  top_k: 10
embedder:
  type: openai
  openai:
    model: custom-embed
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Paths.CaseBase != "my/cases.json" {
		t.Errorf("CaseBase = %q", cfg.Paths.CaseBase)
	}
	if cfg.Paths.Predictions == "" {
		t.Error("Predictions path default not applied")
	}
	if cfg.Retrieval.TopK != 10 {
		t.Errorf("TopK = %d, want 10", cfg.Retrieval.TopK)
	}
	if cfg.Embedder.OpenAI.Model != "custom-embed" {
		t.Errorf("Model = %q", cfg.Embedder.OpenAI.Model)
	}
	if cfg.Embedder.OpenAI.BaseURL == "" || cfg.Embedder.OpenAI.APIKeyEnv == "" {
		t.Error("openai defaults not applied")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Retrieval.TopK = 7
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Retrieval.TopK != 7 {
		t.Errorf("TopK = %d, want 7", loaded.Retrieval.TopK)
	}
}
