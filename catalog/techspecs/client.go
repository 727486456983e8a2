// Package techspecs is a client for the TechSpecs v5 product-specification API.
package techspecs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	advisor "github.com/ourstudio-se/shopping-advisor"
	"github.com/ourstudio-se/shopping-advisor/metrics"
	"github.com/ourstudio-se/shopping-advisor/tracer"
)

const (
	// DefaultBaseURL is the TechSpecs v5 API root.
	DefaultBaseURL = "https://api.techspecs.io/v5"

	// DefaultTimeout bounds every request.
	DefaultTimeout = 10 * time.Second

	maxErrorBody = 2048
)

// ErrMissingCredential is returned by New when the API id or key is empty.
var ErrMissingCredential = errors.New("techspecs: missing API credential")

// Error kinds reported in logs and metrics.
const (
	kindHTTPStatus = "http_status"
	kindConnection = "connection"
	kindTimeout    = "timeout"
	kindTransport  = "transport"
	kindUnexpected = "unexpected"
)

// StatusError is a non-2xx API response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d - %s", e.StatusCode, e.Body)
}

// Config configures the client.
type Config struct {
	// APIID is sent as the x-api-id header.
	// Required.
	APIID string

	// APIKey is sent as the x-api-key header.
	// Required.
	APIKey string

	// BaseURL defaults to DefaultBaseURL.
	BaseURL string

	// Timeout defaults to DefaultTimeout.
	Timeout time.Duration

	// HTTPClient overrides the transport. Its own timeout is replaced by Timeout.
	HTTPClient *http.Client
}

// Client implements advisor.Catalog.
type Client struct {
	baseURL string
	apiID   string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a client.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIID == "" {
		return nil, fmt.Errorf("%w: api id", ErrMissingCredential)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: api key", ErrMissingCredential)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := &http.Client{}
	if cfg.HTTPClient != nil {
		c := *cfg.HTTPClient
		httpClient = &c
	}
	httpClient.Timeout = cfg.Timeout

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiID:   cfg.APIID,
		apiKey:  cfg.APIKey,
		http:    httpClient,
		logger:  logger,
	}, nil
}

type searchResponse struct {
	Products []struct {
		ID   json.RawMessage `json:"id"`
		Name json.RawMessage `json:"name"`
	} `json:"products"`
}

// Search returns the products matching params. Entries without id or name are dropped.
// Any failure yields an empty result.
func (c *Client) Search(ctx context.Context, params advisor.SearchParams) []advisor.DeviceSummary {
	ctx, span := tracer.StartSpan(ctx, "techspecs.search",
		tracer.StringAttr("query", params.Query),
		tracer.StringAttr("category", params.Category),
		tracer.StringAttr("brand", params.Brand),
		tracer.IntAttr("size", params.Limit),
	)
	defer span.End()

	q := url.Values{}
	q.Set("query", params.Query)
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("size", strconv.Itoa(params.Limit))
	q.Set("keepCasing", strconv.FormatBool(params.KeepCasing))
	if params.Category != "" {
		q.Set("category", params.Category)
	}
	if params.Brand != "" {
		q.Set("brand", params.Brand)
	}

	c.logger.Info("searching devices",
		slog.String("query", params.Query),
		slog.String("category", params.Category),
		slog.String("brand", params.Brand),
	)

	body, err := c.get(ctx, "search", "product/search", q)
	if err != nil {
		tracer.RecordError(span, err)
		return nil
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.fail("search", fmt.Errorf("decoding search response: %w", err))
		tracer.RecordError(span, err)
		return nil
	}
	if resp.Products == nil {
		c.logger.Warn("unexpected search response format",
			slog.String("query", params.Query),
			slog.String("body", truncate(string(body))),
		)
		metrics.CatalogRequests.WithLabelValues("search", metrics.OutcomeEmpty).Inc()
		return nil
	}

	devices := make([]advisor.DeviceSummary, 0, len(resp.Products))
	for _, p := range resp.Products {
		id, name := rawID(p.ID), rawName(p.Name)
		if id == "" || name == "" {
			continue
		}
		devices = append(devices, advisor.DeviceSummary{ID: id, Name: name})
	}

	outcome := metrics.OutcomeSuccess
	if len(devices) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.CatalogRequests.WithLabelValues("search", outcome).Inc()
	span.SetAttributes(tracer.IntAttr("results", len(devices)))
	tracer.SetOK(span)
	return devices
}

// FetchByID returns the full specification of one product, or an empty
// specification when the request fails or the body carries no id.
func (c *Client) FetchByID(ctx context.Context, params advisor.FetchParams) advisor.DeviceSpecification {
	ctx, span := tracer.StartSpan(ctx, "techspecs.fetch",
		tracer.StringAttr("id", params.ID),
		tracer.StringAttr("language", params.Language),
	)
	defer span.End()

	q := url.Values{}
	q.Set("keepCasing", strconv.FormatBool(params.KeepCasing))
	q.Set("language", params.Language)

	c.logger.Info("fetching device specifications",
		slog.String("id", params.ID),
		slog.String("lang", params.Language),
	)

	body, err := c.get(ctx, "fetch", "product/"+url.PathEscape(params.ID), q)
	if err != nil {
		tracer.RecordError(span, err)
		return advisor.DeviceSpecification{}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var spec map[string]any
	if err := dec.Decode(&spec); err != nil {
		c.fail("fetch", fmt.Errorf("decoding product response: %w", err))
		tracer.RecordError(span, err)
		return advisor.DeviceSpecification{}
	}
	if _, ok := spec["id"]; !ok {
		c.logger.Warn("unexpected product response format",
			slog.String("id", params.ID),
			slog.String("body", truncate(string(body))),
		)
		metrics.CatalogRequests.WithLabelValues("fetch", metrics.OutcomeEmpty).Inc()
		return advisor.DeviceSpecification{}
	}

	metrics.CatalogRequests.WithLabelValues("fetch", metrics.OutcomeSuccess).Inc()
	tracer.SetOK(span)
	return advisor.DeviceSpecification(spec)
}

// get performs an authenticated GET and returns the body of a 2xx response.
// Failures are logged and counted before being returned.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.CatalogRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+path+"?"+params.Encode(), nil)
	if err != nil {
		c.fail(endpoint, err)
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("x-api-id", c.apiID)
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.fail(endpoint, err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.fail(endpoint, fmt.Errorf("reading response body: %w", err))
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body))}
		c.fail(endpoint, err)
		return nil, err
	}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(body, &envelope) == nil && len(envelope.Error) > 0 && string(envelope.Error) != "null" {
		err := fmt.Errorf("api error: %s", envelope.Error)
		c.fail(endpoint, err)
		return nil, err
	}

	return body, nil
}

// fail logs err as one of the distinct error kinds and counts it.
func (c *Client) fail(endpoint string, err error) {
	kind := classify(err)
	attrs := []any{
		slog.String("endpoint", endpoint),
		slog.String("kind", kind),
		slog.String("error", err.Error()),
	}

	switch kind {
	case kindHTTPStatus:
		var se *StatusError
		errors.As(err, &se)
		c.logger.Error("catalog returned HTTP error", append(attrs, slog.Int("status", se.StatusCode), slog.String("body", se.Body))...)
	case kindConnection:
		c.logger.Error("could not connect to catalog", attrs...)
	case kindTimeout:
		c.logger.Error("catalog request timed out", attrs...)
	case kindTransport:
		c.logger.Error("catalog request failed", attrs...)
	default:
		c.logger.Error("unexpected catalog error", attrs...)
	}

	metrics.CatalogRequests.WithLabelValues(endpoint, metrics.OutcomeError).Inc()
}

func classify(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return kindHTTPStatus
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return kindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return kindTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return kindConnection
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return kindConnection
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return kindTransport
	}
	return kindUnexpected
}

// rawID renders a product id given as a JSON string or number.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// rawName returns a product name given as a JSON string, or "" for any other value.
func rawName(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func truncate(s string) string {
	if len(s) <= maxErrorBody {
		return s
	}
	return s[:maxErrorBody] + "..."
}
