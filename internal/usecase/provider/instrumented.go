package provider

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/osintinfo/internal/domain"
	"github.com/kailas-cloud/osintinfo/internal/domain/search/request"
	"github.com/kailas-cloud/osintinfo/internal/domain/search/response"
	"github.com/kailas-cloud/osintinfo/internal/metrics"
)

// InstrumentedProvider wraps a Provider with budget enforcement and logging.
// Transport metrics (requests, duration, errors) are recorded in transport/leakosint.
// This layer owns budget tracking and budget-related metrics only.
type InstrumentedProvider struct {
	inner    Provider
	provider string
	budget   BudgetChecker
	logger   *zap.Logger
}

// NewInstrumentedProvider wraps a provider with budget and observability.
// budget may be nil (unlimited).
func NewInstrumentedProvider(
	inner Provider, provider string,
	budget BudgetChecker, logger *zap.Logger,
) *InstrumentedProvider {
	return &InstrumentedProvider{
		inner:    inner,
		provider: provider,
		budget:   budget,
		logger:   logger,
	}
}

// Search checks the budget, delegates to the inner provider and records one search.
func (p *InstrumentedProvider) Search(
	ctx context.Context, req request.Request,
) (response.Response, error) {
	if p.budget != nil {
		if err := p.budget.Check(ctx); err != nil {
			p.logger.Error("Budget exceeded",
				zap.String("provider", p.provider),
				zap.Error(err),
			)
			return response.Response{}, fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()
	resp, err := p.inner.Search(ctx, req)
	duration := time.Since(start)

	if err != nil {
		p.logger.Error("Provider search failed",
			zap.String("provider", p.provider),
			zap.Int("terms", len(req.Terms())),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return response.Response{}, fmt.Errorf("provider search: %w", err)
	}

	domain.UsageFromContext(ctx).AddProviderCall()

	if p.budget != nil {
		p.budget.Record(1)
		remaining := metrics.ProviderBudgetSearchesRemaining
		remaining.WithLabelValues(p.provider, "daily").Set(float64(p.budget.RemainingDaily()))
		remaining.WithLabelValues(p.provider, "monthly").Set(float64(p.budget.RemainingMonthly()))
	}

	p.logger.Debug("Provider search completed",
		zap.String("provider", p.provider),
		zap.Int("terms", len(req.Terms())),
		zap.Int("limit", req.Limit()),
		zap.String("content_type", resp.ContentType()),
		zap.Int("bytes", len(resp.Body())),
		zap.Duration("duration", duration),
	)

	return resp, nil
}
