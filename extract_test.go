package advisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtraction(t *testing.T) {
	categories := DefaultCategories()
	const requirements = "  I need a tablet for drawing  "

	tests := []struct {
		name  string
		reply string
		want  ExtractedQuery
	}{
		{
			name:  "plain json",
			reply: `{"category": "Smartphones", "brand": "Samsung", "keywords": "great camera, long battery"}`,
			want:  ExtractedQuery{Category: "Smartphones", Brand: "Samsung", Keywords: "great camera, long battery"},
		},
		{
			name:  "fenced json",
			reply: "```json\n{\"category\": \"Notebooks\", \"brand\": \"Apple\", \"keywords\": \"light\"}\n```",
			want:  ExtractedQuery{Category: "Notebooks", Brand: "Apple", Keywords: "light"},
		},
		{
			name:  "wildcards clear filters",
			reply: `{"category": "ALL", "brand": "Any", "keywords": "battery"}`,
			want:  ExtractedQuery{Category: "", Brand: "", Keywords: "battery"},
		},
		{
			name:  "czech category synonym",
			reply: `{"category": "Tablety", "brand": "any", "keywords": "drawing"}`,
			want:  ExtractedQuery{Category: "Tablets", Brand: "", Keywords: "drawing"},
		},
		{
			name:  "multi word synonym",
			reply: `{"category": "Chytré hodinky", "brand": "Garmin", "keywords": "gps"}`,
			want:  ExtractedQuery{Category: "Smartwatches", Brand: "Garmin", Keywords: "gps"},
		},
		{
			name:  "unknown category passes through",
			reply: `{"category": "Cameras", "brand": "any", "keywords": "zoom"}`,
			want:  ExtractedQuery{Category: "Cameras", Brand: "", Keywords: "zoom"},
		},
		{
			name:  "trims values",
			reply: `{"category": " stolní počítače ", "brand": " Dell ", "keywords": " quiet "}`,
			want:  ExtractedQuery{Category: "Desktops", Brand: "Dell", Keywords: "quiet"},
		},
		{
			name:  "missing keywords default to requirements",
			reply: `{"category": "all", "brand": "any"}`,
			want:  ExtractedQuery{Keywords: "I need a tablet for drawing"},
		},
		{
			name:  "blank keywords default to requirements",
			reply: `{"category": "all", "brand": "any", "keywords": "  "}`,
			want:  ExtractedQuery{Keywords: "I need a tablet for drawing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseExtraction(tt.reply, requirements, categories)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseExtractionRejects(t *testing.T) {
	categories := DefaultCategories()

	replies := map[string]string{
		"not json":         "This is not JSON",
		"apology text":     "We are sorry, an error occurred while processing your request.",
		"array":            `["Smartphones", "Samsung"]`,
		"string":           `"Smartphones"`,
		"missing category": `{"brand": "Samsung", "keywords": "camera"}`,
		"missing brand":    `{"category": "Smartphones", "keywords": "camera"}`,
		"non string brand": `{"category": "Smartphones", "brand": 42}`,
		"keywords list":    `{"category": "Smartphones", "brand": "any", "keywords": ["camera"]}`,
		"truncated":        `{"category": "Smartphones", "brand":`,
	}

	for name, reply := range replies {
		t.Run(name, func(t *testing.T) {
			_, err := parseExtraction(reply, "camera", categories)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParseFailure))
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("  {\"a\":1}  "))
}

func TestExtractQueryPrompt(t *testing.T) {
	llm := &fakeLLM{replies: []string{`{"category": "all", "brand": "any", "keywords": "x"}`}}
	a, err := New(Config{
		LLM:             llm,
		Catalog:         &fakeCatalog{},
		ExtractionModel: "extract-model",
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	_, err = a.ExtractQuery(context.Background(), "phone with a big battery")
	require.NoError(t, err)

	prompt := llm.lastPrompt()
	assert.Contains(t, prompt, "Smartphones, Tablety, Smartwatches, Notebooky, Stolní počítače")
	assert.Contains(t, prompt, `User requirements: "phone with a big battery"`)
	assert.Contains(t, prompt, `state "all"`)
	assert.Contains(t, prompt, `state "any"`)
	assert.Equal(t, []string{"extract-model"}, llm.models)
}
