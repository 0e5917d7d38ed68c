package search

import (
	"context"

	"github.com/kailas-cloud/osintinfo/internal/domain/credit"
	"github.com/kailas-cloud/osintinfo/internal/domain/handoff"
	"github.com/kailas-cloud/osintinfo/internal/domain/result"
	"github.com/kailas-cloud/osintinfo/internal/domain/search/request"
	"github.com/kailas-cloud/osintinfo/internal/domain/search/response"
	"github.com/kailas-cloud/osintinfo/internal/usecase/track"
)

// Provider performs upstream breach lookups.
type Provider interface {
	Search(ctx context.Context, req request.Request) (response.Response, error)
}

// HandoffStore parks normalized results for a later page load.
type HandoffStore interface {
	Save(ctx context.Context, query string, normalized result.Results, hasResults bool) (handoff.Handoff, error)
	Load(ctx context.Context, id string) (handoff.Handoff, error)
}

// CreditLedger charges searches to users.
type CreditLedger interface {
	Ensure(ctx context.Context, uid, email, name string) (credit.Profile, error)
	Consume(ctx context.Context, uid string, n int) (credit.Profile, error)
}

// Tracker reports search events without blocking.
type Tracker interface {
	NotifyAsync(e track.Event)
}
