// Package llm adapts an OpenAI-compatible chat API to the completion and
// extraction ports via langchaingo.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"finsight/internal/domain"
)

// extractionTemperature keeps the extractor near-deterministic regardless
// of the answer temperature.
const extractionTemperature = 0.3

const extractionSystemPrompt = `You are a financial company name and time period extractor.
1. Extract all possible *company* stock symbols associated with entities mentioned in the query. Do not include personal names (e.g., "Bill Gates").
If the query includes an individual related to a company (e.g., CEO, founder, employee), return their associated company instead (e.g., "AAPL" for Tim Cook, "SPOT" for Daniel Ek).
Extract all company stock symbols, forex, ETFs, and other financial instruments mentioned in the query, always prioritizing retrieving company symbol over all other entities.

2. Extract time periods inferred from the query as a list of {"year": number, "quarter": string}:
  - the year field must be a number like 2024; quarter is optional and must be one of: "Q1", "Q2", "Q3", "Q4". No other string is allowed.
  - Specific quarters (Q1 2024, first quarter 2022, last quarter)
  - Specific year(s) (2024, 1995)
  - Ranges (2021-2024)
  - Recent terms should return the current year with a few recent quarters (recent earnings call, latest comments, last few talks, new deals etc.)
  - Relative terms should return the inferred year and quarter (this year, last quarter, this quarter)
  - do not extract duplicate or overlapping time periods
  - extract up to 4 time periods maximum, ordered by newest

Return a JSON object with extracted companies and time periods:
{
  "companies": ["AMZN", "AAPL"],
  "timePeriods": [
    {"year": 2024, "quarter": "Q3"},
    {"year": 2024, "quarter": "Q2"}
  ]
}
If nothing can be found, return empty companies and timePeriods:
{
  "companies": [],
  "timePeriods": []
}`

// Config holds provider settings for both the completer and the extractor.
type Config struct {
	Model       string
	APIKeyEnv   string
	BaseURL     string
	Temperature float64
}

// Client implements the completion and extraction ports against one
// OpenAI-compatible endpoint.
type Client struct {
	llm         *openai.LLM
	model       string
	temperature float64
	log         zerolog.Logger
}

// New creates a client reading the API key from the configured environment
// variable.
func New(cfg Config, log zerolog.Logger) (*Client, error) {
	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", cfg.APIKeyEnv)
	}

	opts := []openai.Option{
		openai.WithModel(cfg.Model),
		openai.WithToken(apiKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return &Client{
		llm:         client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		log:         log,
	}, nil
}

// ModelName reports the configured model identifier.
func (c *Client) ModelName() string { return c.model }

// Complete sends the assembled conversation and returns the model's answer.
func (c *Client) Complete(ctx context.Context, turns []domain.Turn) (string, error) {
	messages := make([]llms.MessageContent, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, llms.TextParts(roleOf(t.Role), t.Content))
	}

	resp, err := c.llm.GenerateContent(ctx, messages, llms.WithTemperature(c.temperature))
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return resp.Choices[0].Content, nil
}

func roleOf(r domain.Role) schema.ChatMessageType {
	switch r {
	case domain.RoleSystem:
		return schema.ChatMessageTypeSystem
	case domain.RoleAssistant:
		return schema.ChatMessageTypeAI
	default:
		return schema.ChatMessageTypeHuman
	}
}

type extractionResponse struct {
	Companies   []string `json:"companies"`
	TimePeriods []struct {
		Year    int    `json:"year"`
		Quarter string `json:"quarter"`
	} `json:"timePeriods"`
}

// Extract pulls company names and time periods from a free-form query.
// An unparseable model response yields an empty extraction, not an error:
// the pipeline treats that the same as a query with no entities.
func (c *Client) Extract(ctx context.Context, query string) (domain.Extraction, error) {
	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, extractionSystemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, query),
	}

	resp, err := c.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(extractionTemperature),
		llms.WithJSONMode(),
	)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("extraction request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.Extraction{}, fmt.Errorf("extraction returned no choices")
	}

	var parsed extractionResponse
	if err := json.Unmarshal([]byte(resp.Choices[0].Content), &parsed); err != nil {
		c.log.Warn().Err(err).Msg("extraction response was not valid JSON, continuing without entities")
		return domain.Extraction{}, nil
	}

	out := domain.Extraction{Companies: parsed.Companies}
	for _, p := range parsed.TimePeriods {
		out.TimePeriods = append(out.TimePeriods, domain.TimePeriod{
			Year:    p.Year,
			Quarter: strings.ToUpper(strings.TrimSpace(p.Quarter)),
		})
	}
	return out, nil
}
