// Package anthropic is the Anthropic Messages API gateway.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ourstudio-se/shopping-advisor/i18n"
	"github.com/ourstudio-se/shopping-advisor/metrics"
	"github.com/ourstudio-se/shopping-advisor/tracer"
)

const provider = "anthropic"

const (
	// DefaultModel is used when a call names no model.
	DefaultModel = "claude-3-5-haiku-latest"

	// DefaultMaxTokens caps reply length.
	DefaultMaxTokens = 2048

	// DefaultTimeout bounds every message request.
	DefaultTimeout = 60 * time.Second
)

// ErrMissingAPIKey is returned by New when no API key is configured.
var ErrMissingAPIKey = errors.New("anthropic: missing API key")

// Config for the Anthropic gateway.
type Config struct {
	APIKey       string
	BaseURL      string
	Language     string
	DefaultModel string
	MaxTokens    int

	// Timeout bounds each request. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// Client implements advisor.LLMClient with the Anthropic API.
type Client struct {
	client       anthropic.Client
	defaultModel string
	maxTokens    int64
	apology      string
	logger       *slog.Logger
}

// New creates a gateway. Requests are never retried.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		client:       anthropic.NewClient(opts...),
		defaultModel: cfg.DefaultModel,
		maxTokens:    int64(cfg.MaxTokens),
		apology:      i18n.Text("llm_apology", cfg.Language),
		logger:       logger,
	}, nil
}

// Complete sends prompt as a single user message and returns the concatenated text blocks.
func (c *Client) Complete(ctx context.Context, prompt, model string) string {
	if model == "" {
		model = c.defaultModel
	}

	ctx, span := tracer.StartSpan(ctx, "anthropic.complete",
		tracer.StringAttr("model", model),
		tracer.IntAttr("prompt_length", len(prompt)),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.LLMCompletionDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	}()

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})

	var text string
	if err == nil {
		for _, block := range resp.Content {
			if block.Type == "text" {
				text += block.Text
			}
		}
		if text == "" {
			err = fmt.Errorf("anthropic returned no text content")
		}
	}
	if err != nil {
		c.logger.Error("error calling LLM API",
			slog.String("provider", provider),
			slog.String("model", model),
			slog.String("error", err.Error()),
		)
		tracer.RecordError(span, err)
		metrics.LLMCompletions.WithLabelValues(provider, metrics.OutcomeError).Inc()
		return c.apology
	}

	c.logger.Debug("LLM completion",
		slog.String("provider", provider),
		slog.String("model", model),
		slog.Int64("input_tokens", resp.Usage.InputTokens),
		slog.Int64("output_tokens", resp.Usage.OutputTokens),
	)
	tracer.SetOK(span)
	metrics.LLMCompletions.WithLabelValues(provider, metrics.OutcomeSuccess).Inc()
	return text
}
