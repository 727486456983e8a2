// Package advisor recommends and compares consumer electronics for free-text user requirements.
//
// An Advisor asks a language model to turn the requirements into catalog search
// filters, fetches full specifications for the matching devices and asks the model
// again for a recommendation or comparison grounded in those specifications.
// Every failure below the Advisor surfaces as a localized message, never as an error.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ourstudio-se/shopping-advisor/i18n"
	"github.com/ourstudio-se/shopping-advisor/metrics"
)

// specSeparator separates flattened device blocks in synthesis prompts.
const specSeparator = "\n\n---\n\n"

const (
	opRecommend = "recommend"
	opCompare   = "compare"
)

// Advisor orchestrates extraction, catalog lookups and synthesis.
type Advisor struct {
	llm              LLMClient
	catalog          Catalog
	profiles         ProfileStore
	categories       *Categories
	extractionModel  string
	synthesisModel   string
	searchLimit      int
	fetchConcurrency int
	logger           *slog.Logger
}

// New creates an Advisor from cfg.
func New(cfg Config) (*Advisor, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Advisor{
		llm:              cfg.LLM,
		catalog:          cfg.Catalog,
		profiles:         cfg.Profiles,
		categories:       cfg.Categories,
		extractionModel:  cfg.ExtractionModel,
		synthesisModel:   cfg.SynthesisModel,
		searchLimit:      cfg.SearchLimit,
		fetchConcurrency: cfg.FetchConcurrency,
		logger:           cfg.Logger,
	}, nil
}

// Recommend returns a recommendation for the device that best fits requirements,
// written in lang. When no recommendation can be produced it returns the localized
// explanation instead.
func (a *Advisor) Recommend(ctx context.Context, requirements, lang string) (result string) {
	defer a.recoverInto(&result, opRecommend, lang)

	a.logger.Info("generating recommendation",
		slog.String("requirements", requirements),
		slog.String("lang", lang),
	)

	query, err := a.ExtractQuery(ctx, requirements)
	if errors.Is(err, ErrParseFailure) {
		return a.message(opRecommend, "error_llm_parse", lang)
	}
	if err != nil {
		a.logger.Error("failed to extract search filters", slog.String("error", err.Error()))
		return a.message(opRecommend, "error", lang)
	}

	hits := a.catalog.Search(ctx, SearchParams{
		Query:      query.Keywords,
		Category:   query.Category,
		Brand:      query.Brand,
		Limit:      a.searchLimit,
		KeepCasing: true,
	})
	if len(hits) == 0 {
		a.logger.Warn("no devices found",
			slog.String("keywords", query.Keywords),
			slog.String("category", query.Category),
			slog.String("brand", query.Brand),
		)
		return a.message(opRecommend, "no_devices_found", lang)
	}
	if len(hits) > a.searchLimit {
		hits = hits[:a.searchLimit]
	}

	specs := a.fetchSpecs(ctx, hits, lang)
	if len(specs) == 0 {
		a.logger.Error("no detailed specifications retrieved", slog.Int("devices", len(hits)))
		return a.message(opRecommend, "error_no_detailed_specs", lang)
	}

	prompt, err := renderPrompt(recommendationTemplate, recommendationPromptData{
		Requirements: requirements,
		Specs:        joinSpecs(specs),
		Language:     i18n.LanguageName(lang),
	})
	if err != nil {
		a.logger.Error("failed to build recommendation prompt", slog.String("error", err.Error()))
		return a.message(opRecommend, "error", lang)
	}

	a.logger.Info("requesting recommendation", slog.Int("devices", len(specs)), slog.String("lang", lang))
	metrics.Advice.WithLabelValues(opRecommend, "completion").Inc()
	return a.llm.Complete(ctx, prompt, a.synthesisModel)
}

// Compare returns a comparison of the named devices, weighted by profileSummary and
// written in lang. Names that cannot be resolved are skipped.
func (a *Advisor) Compare(ctx context.Context, names []string, profileSummary, lang string) (result string) {
	defer a.recoverInto(&result, opCompare, lang)

	a.logger.Info("comparing devices",
		slog.String("devices", strings.Join(names, ", ")),
		slog.String("profile", profileSummary),
		slog.String("lang", lang),
	)

	var specs []DeviceSpecification
	for _, name := range names {
		hits := a.catalog.Search(ctx, SearchParams{Query: name, Limit: 1, KeepCasing: true})
		if len(hits) == 0 {
			a.logger.Warn("device not found", slog.String("name", name))
			continue
		}

		spec := a.catalog.FetchByID(ctx, FetchParams{ID: hits[0].ID, Language: lang, KeepCasing: true})
		if len(spec) == 0 {
			a.logger.Warn("no specifications for device",
				slog.String("name", name),
				slog.String("id", hits[0].ID),
			)
			continue
		}
		specs = append(specs, spec)
	}

	if len(specs) == 0 {
		return a.message(opCompare, "error_no_comparison_specs", lang)
	}

	prompt, err := renderPrompt(comparisonTemplate, comparisonPromptData{
		ProfileSummary: profileSummary,
		Specs:          joinSpecs(specs),
		Language:       i18n.LanguageName(lang),
	})
	if err != nil {
		a.logger.Error("failed to build comparison prompt", slog.String("error", err.Error()))
		return a.message(opCompare, "error", lang)
	}

	a.logger.Info("requesting comparison", slog.Int("devices", len(specs)), slog.String("lang", lang))
	metrics.Advice.WithLabelValues(opCompare, "completion").Inc()
	return a.llm.Complete(ctx, prompt, a.synthesisModel)
}

// fetchSpecs fetches the specification of every hit and drops empty results.
// The returned slice keeps the order of hits.
func (a *Advisor) fetchSpecs(ctx context.Context, hits []DeviceSummary, lang string) []DeviceSpecification {
	fetched := make([]DeviceSpecification, len(hits))
	// A panicking fetch counts as a failed one. Parallel fetches run on their own
	// goroutines, out of reach of the caller's recover.
	fetch := func(i int) {
		defer func() {
			if r := recover(); r != nil {
				a.logger.Error("panic recovered during specification fetch",
					slog.String("id", hits[i].ID),
					slog.String("error", fmt.Sprintf("%v", r)),
					slog.String("stack", string(debug.Stack())),
				)
				fetched[i] = nil
			}
		}()
		fetched[i] = a.catalog.FetchByID(ctx, FetchParams{ID: hits[i].ID, Language: lang, KeepCasing: true})
	}

	if a.fetchConcurrency <= 1 {
		for i := range hits {
			fetch(i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(a.fetchConcurrency)
		for i := range hits {
			g.Go(func() error {
				fetch(i)
				return nil
			})
		}
		_ = g.Wait()
	}

	specs := make([]DeviceSpecification, 0, len(fetched))
	for i, spec := range fetched {
		if len(spec) == 0 {
			a.logger.Warn("no specifications for device", slog.String("id", hits[i].ID))
			continue
		}
		specs = append(specs, spec)
	}
	return specs
}

func joinSpecs(specs []DeviceSpecification) string {
	blocks := make([]string, len(specs))
	for i, spec := range specs {
		blocks[i] = FlattenSpec(spec)
	}
	return strings.Join(blocks, specSeparator)
}

// message returns the localized text for key and counts it as the operation's result.
func (a *Advisor) message(op, key, lang string) string {
	metrics.Advice.WithLabelValues(op, key).Inc()
	return i18n.Text(key, lang)
}

func (a *Advisor) recoverInto(result *string, op, lang string) {
	if r := recover(); r != nil {
		a.logger.Error("panic recovered",
			slog.String("operation", op),
			slog.String("error", fmt.Sprintf("%v", r)),
			slog.String("stack", string(debug.Stack())),
		)
		*result = a.message(op, "error", lang)
	}
}
