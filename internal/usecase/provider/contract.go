package provider

import (
	"context"

	"github.com/kailas-cloud/osintinfo/internal/domain/search/request"
	"github.com/kailas-cloud/osintinfo/internal/domain/search/response"
)

// Provider performs one upstream breach lookup.
type Provider interface {
	Search(ctx context.Context, req request.Request) (response.Response, error)
}

// BudgetChecker is the local interface for budget enforcement.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(searches int64)
	RemainingDaily() int64
	RemainingMonthly() int64
}
