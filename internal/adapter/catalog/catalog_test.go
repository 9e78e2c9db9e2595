package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	if len(c.Categories()) != 6 {
		t.Errorf("expected 6 default categories, got %d", len(c.Categories()))
	}

	first := c.Categories()[0]
	if first.ID != "earning_call_transcript" {
		t.Errorf("expected transcripts declared first, got %s", first.ID)
	}
	if !first.PeriodSensitive {
		t.Error("transcripts should be period-sensitive")
	}

	income, ok := c.Get("income_statement")
	if !ok {
		t.Fatal("income_statement missing from default catalogue")
	}
	if income.PeriodSensitive {
		t.Error("income_statement should not be period-sensitive")
	}

	hasRevenue := false
	for _, kw := range income.Keywords {
		if kw == "revenue" {
			hasRevenue = true
		}
	}
	if !hasRevenue {
		t.Errorf("expected 'revenue' keyword, got %v", income.Keywords)
	}
}

func TestLoad_MergesOverlay(t *testing.T) {
	dir := t.TempDir()

	overlay := `categories:
  - id: income_statement
    name: Income Statements
    endpoint: /income-statement/{symbol}
    keywords: [revenue, ebitda]
  - id: stock_news
    name: Stock News
    endpoint: /stock_news?tickers={symbol}
    keywords: [news, update, development]
`
	path := filepath.Join(dir, "extra.yaml")
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load([]string{filepath.Join(dir, "*.yaml")})
	if err != nil {
		t.Fatal(err)
	}

	// Replaced in place: declaration order preserved.
	if c.Categories()[1].ID != "income_statement" {
		t.Errorf("expected income_statement to keep position 1, got %s", c.Categories()[1].ID)
	}
	income, _ := c.Get("income_statement")
	if len(income.Keywords) != 2 {
		t.Errorf("expected overlay keywords to replace defaults, got %v", income.Keywords)
	}

	// New category appended after the defaults.
	if _, ok := c.Get("stock_news"); !ok {
		t.Error("expected stock_news appended from overlay")
	}
	if last := c.Categories()[len(c.Categories())-1]; last.ID != "stock_news" {
		t.Errorf("expected stock_news appended last, got %s", last.ID)
	}
}

func TestLoad_NoPatterns(t *testing.T) {
	c, err := Load(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Categories()) != 6 {
		t.Errorf("expected default catalogue, got %d categories", len(c.Categories()))
	}
}
