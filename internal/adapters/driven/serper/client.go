// Package serper provides a RankProvider backed by the Serper Google
// search API.
package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
	"github.com/custodia-labs/rankwatch/internal/core/ports/driven"
	"github.com/custodia-labs/rankwatch/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.RankProvider = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = domain.DefaultProviderBaseURL
	DefaultTimeout = time.Duration(domain.DefaultTimeoutSeconds) * time.Second
	DefaultBurst   = 1

	searchPath = "/search"
	maxBody    = 4 << 20
)

// Config holds configuration for the Serper client.
type Config struct {
	// APIKey is sent as X-API-KEY. An empty key makes Validate fail.
	APIKey string

	// BaseURL is the API base URL (default: https://google.serper.dev).
	BaseURL string

	// Region is the gl parameter (default: tr).
	Region string

	// Language is the hl parameter (default: tr).
	Language string

	// Timeout bounds each HTTP request (default: 30s).
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing requests. Zero disables throttling.
	RequestsPerSecond float64
}

// ConfigFrom builds a client config from the application config.
func ConfigFrom(cfg domain.ProviderConfig) Config {
	return Config{
		APIKey:            cfg.APIKey,
		BaseURL:           cfg.BaseURL,
		Region:            cfg.Region,
		Language:          cfg.Language,
		Timeout:           time.Duration(cfg.TimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}
}

// Client queries the Serper search endpoint.
type Client struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	region   string
	language string
	limiter  *RateLimiter
}

// searchRequest is the Serper /search request format.
type searchRequest struct {
	Query    string `json:"q"`
	Region   string `json:"gl"`
	Language string `json:"hl"`
	Num      int    `json:"num"`
}

// searchResponse is the subset of the Serper /search response we use.
type searchResponse struct {
	Organic []struct {
		Title    string `json:"title"`
		Link     string `json:"link"`
		Position int    `json:"position"`
	} `json:"organic"`
	Message string `json:"message,omitempty"`
}

// NewClient creates a Serper client. A missing API key is not an error
// here; Validate reports it before any check run starts.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Region == "" {
		cfg.Region = domain.DefaultRegion
	}
	if cfg.Language == "" {
		cfg.Language = domain.DefaultLanguage
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   strings.TrimSpace(cfg.APIKey),
		region:   cfg.Region,
		language: cfg.Language,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = NewRateLimiter(cfg.RequestsPerSecond, DefaultBurst)
	}
	return c
}

// Validate reports whether an API key is configured.
func (c *Client) Validate() error {
	if c.apiKey == "" {
		return domain.ErrProviderNotConfigured
	}
	return nil
}

// Search returns the organic results for query in rank order.
func (c *Client) Search(ctx context.Context, query string) ([]domain.OrganicResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	jsonBody, err := json.Marshal(searchRequest{
		Query:    query,
		Region:   c.region,
		Language: c.language,
		Num:      domain.ResultCount,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+searchPath, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	logger.Debug("serper: searching %q (gl=%s hl=%s)", query, c.region, c.language)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusTooManyRequests && c.limiter != nil {
			c.limiter.RecordRateLimitError(parseRetryAfter(resp.Header.Get("Retry-After")))
		}
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, &domain.ProviderStatusError{StatusCode: resp.StatusCode}
	}

	var out searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]domain.OrganicResult, 0, len(out.Organic))
	for _, o := range out.Organic {
		// Positions are taken as given; an entry without one cannot rank.
		if o.Position <= 0 {
			logger.Debug("serper: dropping result without position: %s", o.Link)
			continue
		}
		results = append(results, domain.OrganicResult{
			Position: o.Position,
			URL:      o.Link,
			Title:    o.Title,
		})
	}

	logger.Debug("serper: %d organic results for %q", len(results), query)
	return results, nil
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
