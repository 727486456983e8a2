package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const (
	categoryWildcard = "all"
	brandWildcard    = "any"
)

const extractionSchemaJSON = `{
	"type": "object",
	"required": ["category", "brand"],
	"properties": {
		"category": {"type": "string"},
		"brand": {"type": "string"},
		"keywords": {"type": "string"}
	}
}`

var extractionSchema = mustCompileSchema(extractionSchemaJSON)

func mustCompileSchema(schema string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("advisor: compiling schema: %v", err))
	}
	return s
}

// ExtractQuery asks the extraction model to turn free-text requirements into search filters.
// A reply that is not a JSON object of the expected shape yields an error wrapping ErrParseFailure.
func (a *Advisor) ExtractQuery(ctx context.Context, requirements string) (ExtractedQuery, error) {
	prompt, err := renderPrompt(extractionTemplate, extractionPromptData{
		Categories:   strings.Join(a.categories.Vocabulary(), ", "),
		Requirements: requirements,
	})
	if err != nil {
		return ExtractedQuery{}, err
	}

	reply := a.llm.Complete(ctx, prompt, a.extractionModel)

	query, err := parseExtraction(reply, requirements, a.categories)
	if err != nil {
		a.logger.Error("failed to parse extraction reply",
			slog.String("reply", reply),
			slog.String("error", err.Error()),
		)
		return ExtractedQuery{}, err
	}

	a.logger.Info("extracted search filters",
		slog.String("category", query.Category),
		slog.String("brand", query.Brand),
		slog.String("keywords", query.Keywords),
	)
	return query, nil
}

// parseExtraction decodes and normalizes a model reply.
func parseExtraction(reply, requirements string, categories *Categories) (ExtractedQuery, error) {
	body := stripCodeFence(reply)

	var doc any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return ExtractedQuery{}, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}

	result, err := extractionSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return ExtractedQuery{}, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return ExtractedQuery{}, fmt.Errorf("%w: %s", ErrParseFailure, strings.Join(problems, "; "))
	}

	fields := doc.(map[string]any)
	category, _ := fields["category"].(string)
	brand, _ := fields["brand"].(string)
	keywords, ok := fields["keywords"].(string)

	query := ExtractedQuery{
		Category: categories.Canonical(strings.TrimSpace(category)),
		Brand:    strings.TrimSpace(brand),
		Keywords: strings.TrimSpace(keywords),
	}
	if strings.EqualFold(query.Category, categoryWildcard) {
		query.Category = ""
	}
	if strings.EqualFold(query.Brand, brandWildcard) {
		query.Brand = ""
	}
	if !ok || query.Keywords == "" {
		query.Keywords = strings.TrimSpace(requirements)
	}
	return query, nil
}

// stripCodeFence removes a Markdown code block wrapper around a JSON reply.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
