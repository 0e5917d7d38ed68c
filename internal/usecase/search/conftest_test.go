package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kailas-cloud/osintinfo/internal/domain"
	"github.com/kailas-cloud/osintinfo/internal/domain/credit"
	"github.com/kailas-cloud/osintinfo/internal/domain/handoff"
	"github.com/kailas-cloud/osintinfo/internal/domain/result"
	"github.com/kailas-cloud/osintinfo/internal/domain/search/request"
	"github.com/kailas-cloud/osintinfo/internal/domain/search/response"
	"github.com/kailas-cloud/osintinfo/internal/usecase/track"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type mockProvider struct {
	resp   response.Response
	err    error
	calls  int
	lastRq request.Request
}

func (m *mockProvider) Search(_ context.Context, req request.Request) (response.Response, error) {
	m.calls++
	m.lastRq = req
	return m.resp, m.err
}

type memHandoffs struct {
	mu      sync.Mutex
	saved   map[string]handoff.Handoff
	saveErr error
	seq     int
}

func newMemHandoffs() *memHandoffs {
	return &memHandoffs{saved: map[string]handoff.Handoff{}}
}

func (m *memHandoffs) Save(
	_ context.Context, query string, normalized result.Results, hasResults bool,
) (handoff.Handoff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return handoff.Handoff{}, m.saveErr
	}
	m.seq++
	h := handoff.New(fmt.Sprintf("h-%d", m.seq), query, normalized, hasResults, testNow)
	m.saved[h.ID()] = h
	return h, nil
}

func (m *memHandoffs) Load(_ context.Context, id string) (handoff.Handoff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.saved[id]
	if !ok {
		return handoff.Handoff{}, domain.ErrHandoffNotFound
	}
	return h, nil
}

type mockLedger struct {
	profile    credit.Profile
	ensureErr  error
	consumeErr error
	ensured    []string
	consumed   int
}

func (m *mockLedger) Ensure(_ context.Context, uid, _, _ string) (credit.Profile, error) {
	m.ensured = append(m.ensured, uid)
	return m.profile, m.ensureErr
}

func (m *mockLedger) Consume(_ context.Context, _ string, n int) (credit.Profile, error) {
	if m.consumeErr != nil {
		return credit.Profile{}, m.consumeErr
	}
	p, err := m.profile.Consume(n, testNow)
	if err != nil {
		return credit.Profile{}, err
	}
	m.profile = p
	m.consumed += n
	return p, nil
}

type mockTracker struct {
	events []track.Event
}

func (m *mockTracker) NotifyAsync(e track.Event) {
	m.events = append(m.events, e)
}

func mustRequest(q string) request.Request {
	req, err := request.New(q, nil, nil)
	if err != nil {
		panic(err)
	}
	return req
}
