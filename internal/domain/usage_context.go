package domain

import "context"

type searchUsageKey struct{}

// SearchUsage collects per-request accounting for a single HTTP request.
// The handler puts a mutable pointer into the context before calling the service;
// the service writes after the upstream call; the handler reads it for response headers.
type SearchUsage struct {
	ProviderCalls int
	// Remaining is the caller's credit balance after the request, -1 when unknown.
	Remaining int
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *SearchUsage) {
	u := &SearchUsage{Remaining: -1}
	return context.WithValue(ctx, searchUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *SearchUsage {
	u, _ := ctx.Value(searchUsageKey{}).(*SearchUsage)
	return u
}

// AddProviderCall records one upstream call.
func (u *SearchUsage) AddProviderCall() {
	if u != nil {
		u.ProviderCalls++
	}
}

// SetRemaining records the credit balance.
func (u *SearchUsage) SetRemaining(n int) {
	if u != nil {
		u.Remaining = n
	}
}
