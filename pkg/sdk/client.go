package osintinfo

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/osintinfo/internal/domain/payload"
	"github.com/kailas-cloud/osintinfo/internal/domain/result"
	"github.com/kailas-cloud/osintinfo/internal/domain/search/request"
	"github.com/kailas-cloud/osintinfo/internal/domain/search/response"
	"github.com/kailas-cloud/osintinfo/internal/export"
	"github.com/kailas-cloud/osintinfo/internal/transport/leakosint"
	searchuc "github.com/kailas-cloud/osintinfo/internal/usecase/search"
)

// Internal seams, swapped in tests.
type provider interface {
	Search(ctx context.Context, req request.Request) (response.Response, error)
}

type searchUseCase interface {
	Proxy(ctx context.Context, req request.Request) (response.Response, error)
}

// Client is the osintinfo SDK entry point.
type Client struct {
	searchSvc searchUseCase
	formatter *export.Formatter
	obs       *observer
}

// New creates a Client. No network call is made until Search.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	p := leakosint.NewClient(&leakosint.Config{
		Token:      cfg.apiKey,
		BaseURL:    cfg.baseURL,
		Timeout:    cfg.timeout,
		HTTPClient: cfg.httpClient,
	})
	return wireClient(p, cfg, obs), nil
}

func wireClient(p provider, cfg *clientConfig, obs *observer) *Client {
	return &Client{
		searchSvc: searchuc.New(p, nil, nil, nil, zap.NewNop()),
		formatter: export.New(export.Options{Site: cfg.site}),
		obs:       obs,
	}
}

// Normalize parses a JSON answer and normalizes it.
// Malformed JSON gives ErrInvalidPayload.
func (c *Client) Normalize(data []byte) (res Results, err error) {
	start := time.Now()
	defer func() { c.obs.observe("normalize", start, err) }()

	raw, err := payload.Parse(data)
	if err != nil {
		return Results{}, fmt.Errorf("normalize: %w", err)
	}
	return toResults(result.NormalizeSearchResults(raw)), nil
}

// NormalizeValue normalizes an already decoded value. Go maps have no member
// order, so their keys are taken in sorted order.
func (c *Client) NormalizeValue(v any) Results {
	start := time.Now()
	defer c.obs.observe("normalize", start, nil)

	return toResults(result.NormalizeSearchResults(v))
}

// Search runs a live lookup and normalizes the answer.
// Found reports whether the raw answer carried any hit.
func (c *Client) Search(ctx context.Context, query string, opts ...SearchOption) (out SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	sc := searchConfig{}
	for _, o := range opts {
		o(&sc)
	}

	req, err := request.New(query, sc.limit, sc.lang)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	resp, err := c.searchSvc.Proxy(ctx, req)
	if err != nil {
		return SearchResult{}, err
	}

	raw := searchuc.DecodeBody(resp)
	return SearchResult{
		Query:       req.Query(),
		Found:       payload.HasResults(raw),
		ContentType: resp.ContentType(),
		Body:        resp.Body(),
		Results:     toResults(result.NormalizeSearchResults(raw)),
	}, nil
}

// Text renders the plain-text export.
func (c *Client) Text(query string, res Results) string {
	return c.formatter.Text(query, fromResults(res))
}

// Markdown renders the markdown export.
func (c *Client) Markdown(query string, res Results) string {
	return c.formatter.Markdown(query, fromResults(res))
}

// Filename returns the download name for an export of query, e.g.
// "osint-info-results-john-example-com.txt".
func Filename(query, ext string) string {
	return export.Filename(query, ext)
}
