package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"finsight/internal/adapter/catalog"
	"finsight/internal/domain"
	"finsight/internal/port"
)

// maxTimePeriods caps how many extracted periods are fetched per query.
const maxTimePeriods = 4

// DefaultSystemInstruction is the answer persona used when no override is
// configured.
const DefaultSystemInstruction = `You are a sophisticated financial analyst with expertise in interpreting various types of financial data.
Focus on specifically answering the user's question.
Format your response in a clear, structured way using markdown, bolding key words.
Support your statements with specific data points when available.`

// AnswerUseCase runs the full query-to-answer pipeline: category matching
// and entity/period extraction in parallel, a bounded fan-out of data
// fetches, budget-constrained prompt assembly, and the completion call.
type AnswerUseCase struct {
	matcher   port.Matcher
	extractor port.Extractor
	market    port.MarketData
	completer port.Completer
	builder   port.PromptBuilder
	catalog   *catalog.Catalog

	budget            int
	systemInstruction string
	maxConcurrency    int
	log               zerolog.Logger
	now               func() time.Time

	// OnCompanyFetched, when set, is called after each company's data
	// fetch completes. Used by the CLI for progress display.
	OnCompanyFetched func(domain.CompanyRef)
}

// NewAnswerUseCase creates the pipeline orchestrator.
func NewAnswerUseCase(
	matcher port.Matcher,
	extractor port.Extractor,
	market port.MarketData,
	completer port.Completer,
	builder port.PromptBuilder,
	cat *catalog.Catalog,
	budget int,
	systemInstruction string,
	maxConcurrency int,
	log zerolog.Logger,
) *AnswerUseCase {
	if maxConcurrency <= 0 {
		maxConcurrency = 4
	}
	return &AnswerUseCase{
		matcher:           matcher,
		extractor:         extractor,
		market:            market,
		completer:         completer,
		builder:           builder,
		catalog:           cat,
		budget:            budget,
		systemInstruction: systemInstruction,
		maxConcurrency:    maxConcurrency,
		log:               log,
		now:               time.Now,
	}
}

// Answer resolves a query into an LLM response grounded in fetched
// financial data. It returns domain.ErrNoEntityFound when no company in
// the query resolves to a symbol.
func (u *AnswerUseCase) Answer(ctx context.Context, query string, history []domain.Turn) (string, error) {
	var (
		categoryIDs []string
		extracted   domain.Extraction
	)

	// Matching and extraction have no data dependency; run both before
	// any fetch starts.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		categoryIDs = u.matcher.FindRelevantCategories(query)
		return nil
	})
	g.Go(func() error {
		var err error
		extracted, err = u.extractor.Extract(gctx, query)
		if err != nil {
			return fmt.Errorf("entity extraction failed: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	periods := u.normalizePeriods(extracted.TimePeriods)

	u.log.Debug().
		Strs("categories", categoryIDs).
		Strs("companies", extracted.Companies).
		Int("periods", len(periods)).
		Msg("query analyzed")

	companies := u.fetchAll(ctx, extracted.Companies, categoryIDs, periods)
	if len(companies) == 0 {
		return "", domain.ErrNoEntityFound
	}

	turns, err := u.builder.Build(query, companies, history, u.budget, u.systemInstruction)
	if err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}

	answer, err := u.completer.Complete(ctx, turns)
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	return answer, nil
}

// normalizePeriods drops malformed and duplicate periods, caps the count,
// and defaults to the current year when extraction produced nothing. Each
// (year, quarter) pair is fetched at most once per query.
func (u *AnswerUseCase) normalizePeriods(periods []domain.TimePeriod) []domain.TimePeriod {
	valid := make([]domain.TimePeriod, 0, len(periods))
	seen := make(map[domain.TimePeriod]bool, len(periods))
	for _, p := range periods {
		if !p.Valid() || seen[p] {
			continue
		}
		seen[p] = true
		valid = append(valid, p)
		if len(valid) == maxTimePeriods {
			break
		}
	}
	if len(valid) == 0 {
		return []domain.TimePeriod{{Year: u.now().Year()}}
	}
	return valid
}

// fetchAll resolves each company and fetches every relevant category for
// it. Companies that fail to resolve are skipped; a resolved company with
// zero successful fetches is still retained with empty data.
func (u *AnswerUseCase) fetchAll(ctx context.Context, names, categoryIDs []string, periods []domain.TimePeriod) []domain.CompanyData {
	results := make([]*domain.CompanyData, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.maxConcurrency)

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			ref, err := u.market.Search(gctx, name)
			if err != nil {
				u.log.Warn().Err(err).Str("company", name).Msg("company resolution failed, skipping")
				return nil
			}

			data := u.fetchCompany(gctx, ref, categoryIDs, periods)
			results[i] = &data
			if u.OnCompanyFetched != nil {
				u.OnCompanyFetched(ref)
			}
			return nil
		})
	}
	// Tasks capture their own failures; the join never reports one.
	_ = g.Wait()

	companies := make([]domain.CompanyData, 0, len(names))
	for _, r := range results {
		if r != nil {
			companies = append(companies, *r)
		}
	}
	return companies
}

// fetchCompany fetches all relevant categories for one resolved company.
// Per-category failures are logged and omitted; siblings keep going.
func (u *AnswerUseCase) fetchCompany(ctx context.Context, ref domain.CompanyRef, categoryIDs []string, periods []domain.TimePeriod) domain.CompanyData {
	payloads := make([]*domain.CategoryPayload, len(categoryIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.maxConcurrency)

	for i, id := range categoryIDs {
		cat, ok := u.catalog.Get(id)
		if !ok {
			continue
		}
		i, cat := i, cat
		g.Go(func() error {
			payload, err := u.fetchCategory(gctx, ref.Symbol, cat, periods)
			if err != nil {
				u.log.Warn().Err(err).
					Str("symbol", ref.Symbol).
					Str("category", cat.ID).
					Msg("category fetch failed, skipping")
				return nil
			}
			payloads[i] = &payload
			return nil
		})
	}
	// Tasks capture their own failures; the join never reports one.
	_ = g.Wait()

	data := domain.CompanyData{
		Company:  ref,
		Payloads: make(map[string]domain.CategoryPayload),
	}
	for i, p := range payloads {
		if p != nil {
			data.Payloads[categoryIDs[i]] = *p
		}
	}
	data.Recompute()
	return data
}

// fetchCategory fetches one category. Period-insensitive categories are
// fetched once, ignoring periods. Period-sensitive ones are fetched per
// period with the quarter-then-year fallback: an empty quarter-specific
// result triggers one year-level retry before the period is given up.
func (u *AnswerUseCase) fetchCategory(ctx context.Context, symbol string, cat domain.KeywordCategory, periods []domain.TimePeriod) (domain.CategoryPayload, error) {
	if !cat.PeriodSensitive {
		raw, err := u.market.Fetch(ctx, symbol, cat, domain.TimePeriod{})
		if err != nil {
			return domain.CategoryPayload{}, err
		}
		return decodePayload(raw), nil
	}

	var entries []domain.TranscriptEntry
	var raws []json.RawMessage

	for _, period := range periods {
		raw, err := u.market.Fetch(ctx, symbol, cat, period)
		if err != nil {
			u.log.Warn().Err(err).
				Str("symbol", symbol).
				Str("category", cat.ID).
				Int("year", period.Year).
				Msg("period fetch failed, skipping period")
			continue
		}
		if isEmptyResult(raw) && period.Quarter != "" {
			raw, err = u.market.Fetch(ctx, symbol, cat, domain.TimePeriod{Year: period.Year})
			if err != nil {
				continue
			}
		}
		if isEmptyResult(raw) {
			continue
		}

		if batch, ok := asTranscript(raw); ok {
			entries = append(entries, batch...)
		} else {
			raws = append(raws, raw)
		}
	}

	// Periods of one category can decode to different shapes; keep both
	// rather than letting one kind shadow the other.
	if len(raws) > 0 {
		merged, err := json.Marshal(raws)
		if err != nil {
			return domain.CategoryPayload{}, err
		}
		return domain.CategoryPayload{Entries: entries, Raw: merged}, nil
	}
	if entries != nil {
		return domain.CategoryPayload{Entries: entries}, nil
	}
	return domain.CategoryPayload{Raw: json.RawMessage("[]")}, nil
}

// decodePayload recognizes transcript-shaped payloads so the budgeter can
// trim them per entry; anything else stays opaque.
func decodePayload(raw json.RawMessage) domain.CategoryPayload {
	if entries, ok := asTranscript(raw); ok {
		return domain.CategoryPayload{Entries: entries}
	}
	return domain.CategoryPayload{Raw: raw}
}

// asTranscript decodes raw as a time-ordered transcript record array.
// Records must carry both a date and free text; arrays of other shapes
// would lose fields on re-serialization and stay opaque instead.
func asTranscript(raw json.RawMessage) ([]domain.TranscriptEntry, bool) {
	var entries []domain.TranscriptEntry
	if err := json.Unmarshal(raw, &entries); err != nil || len(entries) == 0 {
		return nil, false
	}
	if entries[0].Date == "" || entries[0].Content == "" {
		return nil, false
	}
	return entries, true
}

func isEmptyResult(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "[]", "{}", "null":
		return true
	}
	return false
}
