package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/osintinfo/internal/domain"
	"github.com/kailas-cloud/osintinfo/internal/domain/handoff"
	"github.com/kailas-cloud/osintinfo/internal/domain/payload"
	"github.com/kailas-cloud/osintinfo/internal/domain/result"
	"github.com/kailas-cloud/osintinfo/internal/domain/search/request"
	"github.com/kailas-cloud/osintinfo/internal/domain/search/response"
	"github.com/kailas-cloud/osintinfo/internal/logger"
	"github.com/kailas-cloud/osintinfo/internal/metrics"
	"github.com/kailas-cloud/osintinfo/internal/usecase/track"
)

// User identifies the caller for credit accounting. Empty ID means anonymous.
type User struct {
	ID    string
	Email string
}

// Outcome is the result of a full search run.
type Outcome struct {
	ID         string
	Query      string
	HasResults bool
	Normalized result.Results
}

// Service orchestrates breach lookups.
type Service struct {
	provider Provider
	handoffs HandoffStore
	ledger   CreditLedger
	tracker  Tracker
	logger   *zap.Logger
}

// New creates a search service. ledger and tracker can be nil.
func New(provider Provider, handoffs HandoffStore, ledger CreditLedger, tracker Tracker, logger *zap.Logger) *Service {
	return &Service{
		provider: provider,
		handoffs: handoffs,
		ledger:   ledger,
		tracker:  tracker,
		logger:   logger,
	}
}

// Proxy runs the upstream lookup and returns its answer untouched.
func (s *Service) Proxy(ctx context.Context, req request.Request) (response.Response, error) {
	resp, err := s.provider.Search(ctx, req)
	if err != nil {
		return response.Response{}, fmt.Errorf("proxy search: %w", err)
	}
	return resp, nil
}

// Run performs a lookup for user, normalizes the answer and saves it for handoff.
// Users with an id must have at least one search left; a search costs one
// credit when the raw answer is a hit and its normalized records carry data. Credit and tracking failures after the lookup are
// logged and do not fail the run.
func (s *Service) Run(ctx context.Context, req request.Request, user User) (Outcome, error) {
	log := logger.FromContext(ctx)

	if err := s.precheck(ctx, user); err != nil {
		return Outcome{}, err
	}

	resp, err := s.provider.Search(ctx, req)
	if err != nil {
		return Outcome{}, fmt.Errorf("run search: %w", err)
	}

	raw := DecodeBody(resp)
	normalized := result.NormalizeSearchResults(raw)
	metrics.NormalizedRecords.Observe(float64(normalized.RecordCount()))

	found := payload.HasResults(raw)

	saved, err := s.handoffs.Save(ctx, req.Query(), normalized, found)
	if err != nil {
		return Outcome{}, fmt.Errorf("run search: %w", err)
	}

	out := Outcome{
		ID:         saved.ID(),
		Query:      req.Query(),
		HasResults: saved.HasResults(),
		Normalized: normalized,
	}

	if s.tracker != nil {
		s.tracker.NotifyAsync(track.Event{Email: user.Email, Query: req.Query(), Found: out.HasResults})
	}

	if user.ID != "" && s.ledger != nil && chargeable(found, normalized) {
		p, err := s.ledger.Consume(ctx, user.ID, 1)
		if err != nil {
			log.Warn("Failed to consume search credit", zap.String("uid", user.ID), zap.Error(err))
		} else {
			domain.UsageFromContext(ctx).SetRemaining(p.Remaining())
		}
	}

	log.Info("Search completed",
		zap.String("handoff_id", out.ID),
		zap.Int("terms", len(req.Terms())),
		zap.Int("records", normalized.RecordCount()),
		zap.Int("fields", normalized.FieldCount()),
		zap.Bool("has_results", out.HasResults),
	)
	return out, nil
}

// chargeable reports whether a run costs a credit. Text answers such as
// "No results found" normalize into a meaningful scalar record, so the raw
// hit test gates the charge too.
func chargeable(found bool, normalized result.Results) bool {
	return found && normalized.HasMeaningfulData()
}

func (s *Service) precheck(ctx context.Context, user User) error {
	if user.ID == "" || s.ledger == nil {
		return nil
	}
	p, err := s.ledger.Ensure(ctx, user.ID, user.Email, "")
	if err != nil {
		return fmt.Errorf("credit precheck: %w", err)
	}
	domain.UsageFromContext(ctx).SetRemaining(p.Remaining())
	if p.Remaining() < 1 {
		return fmt.Errorf("credit precheck: %w", domain.ErrNoSearchesRemaining)
	}
	return nil
}

// Handoff loads saved results.
func (s *Service) Handoff(ctx context.Context, id string) (handoff.Handoff, error) {
	h, err := s.handoffs.Load(ctx, id)
	if err != nil {
		return handoff.Handoff{}, fmt.Errorf("load results: %w", err)
	}
	return h, nil
}

// DecodeBody turns an upstream answer into a raw payload. JSON answers are
// parsed (empty means an empty object); anything unparsable stays text.
func DecodeBody(resp response.Response) any {
	body := resp.Body()
	if !resp.IsJSON() {
		return string(body)
	}
	if len(body) == 0 {
		return payload.NewObject()
	}
	raw, err := payload.Parse(body)
	if err != nil {
		return string(body)
	}
	return raw
}
