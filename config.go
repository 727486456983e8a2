package advisor

import "log/slog"

// DefaultModel is the model used for extraction and synthesis when none is configured.
const DefaultModel = "gpt-4o-mini"

// Config configures an Advisor.
type Config struct {
	// LLM answers the extraction and synthesis prompts.
	// Required.
	LLM LLMClient

	// Catalog provides device search and specifications.
	// Required.
	Catalog Catalog

	// Profiles stores user profiles.
	// Optional - defaults to an in-memory store.
	Profiles ProfileStore

	// Categories resolves extracted category names.
	// Optional - defaults to the embedded table.
	Categories *Categories

	// ExtractionModel is the model asked to extract search filters.
	// Defaults to "gpt-4o-mini".
	ExtractionModel string

	// SynthesisModel is the model asked to write recommendations and comparisons.
	// Defaults to "gpt-4o-mini".
	SynthesisModel string

	// SearchLimit caps the number of search hits fetched for a recommendation.
	// Defaults to 5.
	SearchLimit int

	// FetchConcurrency bounds parallel specification fetches.
	// Defaults to 1 (sequential).
	FetchConcurrency int

	// Logger is the structured logger.
	// Optional - defaults to slog.Default().
	Logger *slog.Logger
}

// withDefaults applies default values to the config.
func (c Config) withDefaults() Config {
	if c.Profiles == nil {
		c.Profiles = NewMemoryStore()
	}
	if c.Categories == nil {
		c.Categories = DefaultCategories()
	}
	if c.ExtractionModel == "" {
		c.ExtractionModel = DefaultModel
	}
	if c.SynthesisModel == "" {
		c.SynthesisModel = DefaultModel
	}
	if c.SearchLimit <= 0 {
		c.SearchLimit = 5
	}
	if c.FetchConcurrency <= 0 {
		c.FetchConcurrency = 1
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// validate checks that required config fields are set.
func (c Config) validate() error {
	if c.LLM == nil {
		return &ConfigError{Field: "LLM", Message: "is required"}
	}
	if c.Catalog == nil {
		return &ConfigError{Field: "Catalog", Message: "is required"}
	}
	return nil
}
