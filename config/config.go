package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the assistant.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	LLM        LLMConfig        `yaml:"llm"`
	MarketData MarketDataConfig `yaml:"market_data"`
	Budget     BudgetConfig     `yaml:"budget"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// LLMConfig holds chat-model provider configuration.
type LLMConfig struct {
	Model       string  `yaml:"model"`
	APIKeyEnv   string  `yaml:"api_key_env"` // Environment variable for API key
	BaseURL     string  `yaml:"base_url"`    // Empty means the provider default
	Temperature float64 `yaml:"temperature"`
}

// MarketDataConfig holds financial data provider configuration.
type MarketDataConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	MaxConcurrency int    `yaml:"max_concurrency"`
}

// BudgetConfig sizes the prompt character budget.
type BudgetConfig struct {
	MaxTokens     int `yaml:"max_tokens"`
	CharsPerToken int `yaml:"chars_per_token"`
}

// MaxCharacters converts the token budget to the character budget the
// prompt builder enforces.
func (b BudgetConfig) MaxCharacters() int {
	return b.MaxTokens * b.CharsPerToken
}

// CatalogConfig holds keyword catalogue overlay configuration.
type CatalogConfig struct {
	Includes []string `yaml:"includes"` // Glob patterns for overlay YAML files
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"*"},
		},
		LLM: LLMConfig{
			Model:       "gpt-4o-mini",
			APIKeyEnv:   "OPENAI_API_KEY",
			Temperature: 0.5,
		},
		MarketData: MarketDataConfig{
			BaseURL:        "https://financialmodelingprep.com/api/v3",
			APIKeyEnv:      "FMP_API_KEY",
			MaxConcurrency: 4,
		},
		Budget: BudgetConfig{
			MaxTokens:     16385,
			CharsPerToken: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for finsight.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "finsight.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".finsight", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
