package ratelimit

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/osintinfo/internal/metrics"
)

// Service applies a per-client rate to search requests.
type Service struct {
	backend Backend
	name    string
	logger  *zap.Logger
}

// New creates a Service. name labels metrics ("memory" or "redis").
func New(backend Backend, name string, logger *zap.Logger) *Service {
	return &Service{backend: backend, name: name, logger: logger}
}

// Allow reports whether client may run one more request.
// Backend failures let the request through.
func (s *Service) Allow(ctx context.Context, client string) bool {
	ok, err := s.backend.Allow(ctx, client)
	if err != nil {
		s.logger.Warn("Rate limit backend failed, allowing request",
			zap.String("backend", s.name),
			zap.String("client", client),
			zap.Error(err),
		)
		return true
	}
	if !ok {
		metrics.RateLimitedTotal.WithLabelValues(s.name).Inc()
	}
	return ok
}
