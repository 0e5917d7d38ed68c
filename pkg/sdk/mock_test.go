package osintinfo

import (
	"context"

	"github.com/kailas-cloud/osintinfo/internal/domain/search/request"
	"github.com/kailas-cloud/osintinfo/internal/domain/search/response"
)

// --- provider mock ---

type mockProvider struct {
	searchFn func(ctx context.Context, req request.Request) (response.Response, error)
	calls    []request.Request
}

func (m *mockProvider) Search(ctx context.Context, req request.Request) (response.Response, error) {
	m.calls = append(m.calls, req)
	return m.searchFn(ctx, req)
}

func jsonProvider(body string) *mockProvider {
	return &mockProvider{
		searchFn: func(_ context.Context, _ request.Request) (response.Response, error) {
			return response.New("application/json; charset=utf-8", []byte(body)), nil
		},
	}
}

func textProvider(body string) *mockProvider {
	return &mockProvider{
		searchFn: func(_ context.Context, _ request.Request) (response.Response, error) {
			return response.New("text/plain", []byte(body)), nil
		},
	}
}

func newTestClient(p provider, opts ...Option) *Client {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		panic(err)
	}
	return wireClient(p, cfg, obs)
}
