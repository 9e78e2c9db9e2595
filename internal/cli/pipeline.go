package cli

import (
	"fmt"

	"finsight/config"
	"finsight/internal/adapter/analyzer"
	"finsight/internal/adapter/catalog"
	"finsight/internal/adapter/fmp"
	"finsight/internal/adapter/llm"
	"finsight/internal/usecase"
)

// buildPipeline wires the full query-to-answer pipeline from configuration.
func buildPipeline(cfg *config.Config) (*usecase.AnswerUseCase, error) {
	cat, err := catalog.Load(cfg.Catalog.Includes)
	if err != nil {
		return nil, fmt.Errorf("failed to load keyword catalogue: %w", err)
	}

	matcher := usecase.NewMatcher(
		analyzer.NewTokenizer(),
		analyzer.NewPorterStemmer(),
		analyzer.NewDictLemmatizer(),
		analyzer.NewJaroWinkler(),
		cat,
	)

	market, err := fmp.New(cfg.MarketData.BaseURL, cfg.MarketData.APIKeyEnv)
	if err != nil {
		return nil, err
	}

	model, err := llm.New(llm.Config{
		Model:       cfg.LLM.Model,
		APIKeyEnv:   cfg.LLM.APIKeyEnv,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
	}, log)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("model", model.ModelName()).Msg("pipeline ready")

	return usecase.NewAnswerUseCase(
		matcher,
		model,
		market,
		model,
		usecase.NewPromptBuilder(),
		cat,
		cfg.Budget.MaxCharacters(),
		usecase.DefaultSystemInstruction,
		cfg.MarketData.MaxConcurrency,
		log,
	), nil
}
