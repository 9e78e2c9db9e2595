package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected Addr=:8080, got %s", cfg.Server.Addr)
	}
	if cfg.Budget.MaxTokens != 16385 {
		t.Errorf("expected MaxTokens=16385, got %d", cfg.Budget.MaxTokens)
	}
	if cfg.Budget.CharsPerToken != 4 {
		t.Errorf("expected CharsPerToken=4, got %d", cfg.Budget.CharsPerToken)
	}
	if cfg.MarketData.MaxConcurrency != 4 {
		t.Errorf("expected MaxConcurrency=4, got %d", cfg.MarketData.MaxConcurrency)
	}
	if cfg.LLM.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("expected APIKeyEnv=OPENAI_API_KEY, got %s", cfg.LLM.APIKeyEnv)
	}
}

func TestBudget_MaxCharacters(t *testing.T) {
	b := BudgetConfig{MaxTokens: 1000, CharsPerToken: 4}
	if got := b.MaxCharacters(); got != 4000 {
		t.Errorf("expected 4000, got %d", got)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "finsight.yaml")

	content := `
llm:
  model: gpt-4o
  temperature: 0.2
budget:
  max_tokens: 32768
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LLM.Model != "gpt-4o" {
		t.Errorf("expected Model=gpt-4o, got %s", cfg.LLM.Model)
	}
	if cfg.LLM.Temperature != 0.2 {
		t.Errorf("expected Temperature=0.2, got %f", cfg.LLM.Temperature)
	}
	if cfg.Budget.MaxTokens != 32768 {
		t.Errorf("expected MaxTokens=32768, got %d", cfg.Budget.MaxTokens)
	}
	// Unset sections keep their defaults.
	if cfg.MarketData.BaseURL == "" {
		t.Error("expected default market data base URL")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "finsight.yaml")

	content := `
server:
  addr: ":9090"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected Addr=:9090, got %s", cfg.Server.Addr)
	}
}

func TestLoadFromDir_Defaults(t *testing.T) {
	cfg, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default Addr, got %s", cfg.Server.Addr)
	}
}
