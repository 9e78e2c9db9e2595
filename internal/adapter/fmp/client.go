// Package fmp implements the market-data port against the Financial
// Modeling Prep HTTP API.
package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"finsight/internal/domain"
)

// Client calls the FMP API for company search and per-category data.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type searchResult struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// New creates a client reading the API key from the given environment
// variable.
func New(baseURL, apiKeyEnv string) (*Client, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
	}
	return NewWithKey(baseURL, apiKey), nil
}

// NewWithKey creates a client with an explicit API key.
func NewWithKey(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Search resolves a company name or ticker to its best symbol match.
func (c *Client) Search(ctx context.Context, name string) (domain.CompanyRef, error) {
	u := fmt.Sprintf("%s/search?query=%s&limit=1&apikey=%s", c.baseURL, url.QueryEscape(name), url.QueryEscape(c.apiKey))

	body, err := c.get(ctx, u)
	if err != nil {
		return domain.CompanyRef{}, fmt.Errorf("company search for %q failed: %w", name, err)
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return domain.CompanyRef{}, fmt.Errorf("failed to parse search response for %q: %w", name, err)
	}
	if len(results) == 0 {
		return domain.CompanyRef{}, fmt.Errorf("no symbol found for %q", name)
	}

	return domain.CompanyRef{Name: results[0].Name, Symbol: results[0].Symbol}, nil
}

// Fetch retrieves one category endpoint for a symbol. Period fields map to
// year/quarter query parameters; the zero period adds neither.
func (c *Client) Fetch(ctx context.Context, symbol string, category domain.KeywordCategory, period domain.TimePeriod) (json.RawMessage, error) {
	endpoint := strings.ReplaceAll(category.Endpoint, "{symbol}", url.PathEscape(symbol))

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	if period.Year != 0 {
		params.Set("year", strconv.Itoa(period.Year))
	}
	if q := period.QuarterNumber(); q != 0 {
		params.Set("quarter", strconv.Itoa(q))
	}

	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	u := c.baseURL + endpoint + sep + params.Encode()

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetching %s for %s failed: %w", category.ID, symbol, err)
	}
	return json.RawMessage(body), nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200]
		}
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, preview)
	}

	return body, nil
}
