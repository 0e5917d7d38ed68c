// Package leakosint is the breach lookup API client.
package leakosint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/osintinfo/internal/domain"
	"github.com/kailas-cloud/osintinfo/internal/domain/search/request"
	"github.com/kailas-cloud/osintinfo/internal/domain/search/response"
	"github.com/kailas-cloud/osintinfo/internal/metrics"
)

// Defaults for the public endpoint.
const (
	DefaultBaseURL = "https://leakosintapi.com/"
	DefaultTimeout = 15 * time.Second

	// maxBodyBytes caps upstream answers.
	maxBodyBytes = 32 << 20
)

// Client posts lookups to the breach API.
type Client struct {
	http     *http.Client
	baseURL  string
	token    string
	provider string
	logger   *zap.Logger
}

// Config holds the breach API settings.
type Config struct {
	Token      string
	BaseURL    string
	Timeout    time.Duration
	Provider   string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient creates a breach API client.
func NewClient(cfg *Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "leakosint"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:     hc,
		baseURL:  baseURL,
		token:    cfg.Token,
		provider: provider,
		logger:   logger,
	}
}

type searchBody struct {
	Token   string `json:"token"`
	Request any    `json:"request"`
	Limit   int    `json:"limit"`
	Lang    string `json:"lang"`
	Type    string `json:"type"`
}

// Search runs one lookup. A missing token gives domain.ErrProviderNotConfigured,
// a timeout domain.ErrProviderTimeout, a non-2xx answer *domain.UpstreamError.
func (c *Client) Search(ctx context.Context, req request.Request) (response.Response, error) {
	if c.token == "" {
		return response.Response{}, fmt.Errorf("leakosint: %w", domain.ErrProviderNotConfigured)
	}

	payload, err := json.Marshal(searchBody{
		Token:   c.token,
		Request: req.Payload(),
		Limit:   req.Limit(),
		Lang:    req.Lang(),
		Type:    "json",
	})
	if err != nil {
		return response.Response{}, fmt.Errorf("encode search: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return response.Response{}, fmt.Errorf("build search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return response.Response{}, c.transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	duration := time.Since(start)
	if err != nil {
		return response.Response{}, c.transportError(err)
	}

	status := strconv.Itoa(resp.StatusCode)
	metrics.ProviderRequestsTotal.WithLabelValues(c.provider, status).Inc()
	metrics.ProviderRequestDuration.WithLabelValues(c.provider).Observe(duration.Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ProviderErrorsTotal.WithLabelValues(c.provider, "upstream_status").Inc()
		c.logger.Warn("Breach API returned an error",
			zap.Int("status", resp.StatusCode),
			zap.Int("bytes", len(body)),
		)
		return response.Response{}, domain.NewUpstreamError(resp.StatusCode, string(body))
	}

	return response.New(resp.Header.Get("Content-Type"), body), nil
}

func (c *Client) transportError(err error) error {
	if isTimeout(err) {
		metrics.ProviderErrorsTotal.WithLabelValues(c.provider, "timeout").Inc()
		return fmt.Errorf("leakosint: %w", domain.ErrProviderTimeout)
	}
	metrics.ProviderErrorsTotal.WithLabelValues(c.provider, "transport").Inc()
	return fmt.Errorf("leakosint: %v: %w", err, domain.ErrProviderError)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
