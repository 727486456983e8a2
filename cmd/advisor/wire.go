package main

import (
	"context"
	"fmt"
	"log/slog"

	advisor "github.com/ourstudio-se/shopping-advisor"
	"github.com/ourstudio-se/shopping-advisor/llm/anthropic"
	"github.com/ourstudio-se/shopping-advisor/llm/openai"
	"github.com/ourstudio-se/shopping-advisor/profile/postgres"
	"github.com/ourstudio-se/shopping-advisor/profile/sqlite"
)

// newLLM builds the configured LLM gateway.
func newLLM(cfg LLMConfig, logger *slog.Logger) (advisor.LLMClient, error) {
	switch cfg.Provider {
	case "anthropic":
		return anthropic.New(anthropic.Config{
			APIKey:       cfg.AnthropicAPIKey,
			BaseURL:      cfg.BaseURL,
			Language:     cfg.Language,
			DefaultModel: cfg.Model,
			MaxTokens:    cfg.MaxTokens,
			Timeout:      cfg.Timeout,
		}, logger)
	case "openai":
		return openai.New(openai.Config{
			APIKey:       cfg.OpenAIAPIKey,
			BaseURL:      cfg.BaseURL,
			Language:     cfg.Language,
			DefaultModel: cfg.Model,
			Timeout:      cfg.Timeout,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// openStore opens the configured profile store. The returned closer releases it.
func openStore(ctx context.Context, cfg StoreConfig) (advisor.ProfileStore, func() error, error) {
	switch cfg.Driver {
	case "memory":
		return advisor.NewMemoryStore(), func() error { return nil }, nil
	case "sqlite":
		store, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, store.Close, nil
	case "postgres":
		store, err := postgres.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("migrate postgres store: %w", err)
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func loadCategories(path string) (*advisor.Categories, error) {
	if path == "" {
		return advisor.DefaultCategories(), nil
	}
	return advisor.LoadCategories(path)
}

// modelFor returns the model the advisor asks for. An unset model falls back to
// the provider's default.
func modelFor(cfg LLMConfig) string {
	if cfg.Model != "" {
		return cfg.Model
	}
	if cfg.Provider == "anthropic" {
		return anthropic.DefaultModel
	}
	return advisor.DefaultModel
}
