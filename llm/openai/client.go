// Package openai is the OpenAI chat-completion gateway.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	oai "github.com/sashabaranov/go-openai"

	"github.com/ourstudio-se/shopping-advisor/i18n"
	"github.com/ourstudio-se/shopping-advisor/metrics"
	"github.com/ourstudio-se/shopping-advisor/tracer"
)

const provider = "openai"

const (
	// DefaultModel is used when a call names no model.
	DefaultModel = "gpt-4o-mini"

	// DefaultTimeout bounds every completion request.
	DefaultTimeout = 60 * time.Second
)

// ErrMissingAPIKey is returned by New when no API key is configured.
var ErrMissingAPIKey = errors.New("openai: missing API key")

// Config configures the gateway.
type Config struct {
	// APIKey authenticates requests.
	// Required.
	APIKey string

	// BaseURL overrides the API endpoint, e.g. for a proxy or a test server.
	BaseURL string

	// Language selects the apology returned when a completion fails.
	// Defaults to English.
	Language string

	// DefaultModel is used when Complete receives an empty model.
	// Defaults to "gpt-4o-mini".
	DefaultModel string

	// Timeout bounds each request, independent of the caller's context.
	// Defaults to DefaultTimeout.
	Timeout time.Duration
}

// Client implements advisor.LLMClient with the OpenAI API.
type Client struct {
	client       *oai.Client
	defaultModel string
	apology      string
	logger       *slog.Logger
}

// New creates a gateway.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientCfg := oai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		client:       oai.NewClientWithConfig(clientCfg),
		defaultModel: cfg.DefaultModel,
		apology:      i18n.Text("llm_apology", cfg.Language),
		logger:       logger,
	}, nil
}

// Complete sends prompt as a single user message and returns the reply text.
// Any failure is logged and answered with the configured apology.
func (c *Client) Complete(ctx context.Context, prompt, model string) string {
	if model == "" {
		model = c.defaultModel
	}

	ctx, span := tracer.StartSpan(ctx, "openai.complete",
		tracer.StringAttr("model", model),
		tracer.IntAttr("prompt_length", len(prompt)),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.LLMCompletionDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	}()

	resp, err := c.client.CreateChatCompletion(ctx, oai.ChatCompletionRequest{
		Model: model,
		Messages: []oai.ChatCompletionMessage{
			{Role: oai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err == nil && len(resp.Choices) == 0 {
		err = fmt.Errorf("openai returned no choices")
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
		slog.Int("prompt_tokens", resp.Usage.PromptTokens),
		slog.Int("completion_tokens", resp.Usage.CompletionTokens),
	)
	tracer.SetOK(span)
	metrics.LLMCompletions.WithLabelValues(provider, metrics.OutcomeSuccess).Inc()
	return resp.Choices[0].Message.Content
}
