package chi

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/osintinfo/internal/domain"
	"github.com/kailas-cloud/osintinfo/internal/domain/credit"
	"github.com/kailas-cloud/osintinfo/internal/domain/handoff"
	"github.com/kailas-cloud/osintinfo/internal/domain/result"
	"github.com/kailas-cloud/osintinfo/internal/domain/search/request"
	"github.com/kailas-cloud/osintinfo/internal/domain/search/response"
	"github.com/kailas-cloud/osintinfo/internal/export"
	archiveuc "github.com/kailas-cloud/osintinfo/internal/usecase/archive"
	credituc "github.com/kailas-cloud/osintinfo/internal/usecase/credit"
	healthuc "github.com/kailas-cloud/osintinfo/internal/usecase/health"
	searchuc "github.com/kailas-cloud/osintinfo/internal/usecase/search"
	trackuc "github.com/kailas-cloud/osintinfo/internal/usecase/track"
	usageuc "github.com/kailas-cloud/osintinfo/internal/usecase/usage"
)

var testCreatedAt = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

type stubProvider struct {
	resp  response.Response
	err   error
	calls int
	last  request.Request
}

func (p *stubProvider) Search(ctx context.Context, req request.Request) (response.Response, error) {
	p.calls++
	p.last = req
	if p.err != nil {
		return response.Response{}, p.err
	}
	domain.UsageFromContext(ctx).AddProviderCall()
	return p.resp, nil
}

type memHandoffs struct {
	mu    sync.Mutex
	items map[string]handoff.Handoff
	seq   int
}

func (m *memHandoffs) Save(
	_ context.Context, query string, normalized result.Results, hasResults bool,
) (handoff.Handoff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	h := handoff.New(fmt.Sprintf("id-%d", m.seq), query, normalized, hasResults, testCreatedAt)
	m.items[h.ID()] = h
	return h, nil
}

func (m *memHandoffs) Load(_ context.Context, id string) (handoff.Handoff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.items[id]
	if !ok {
		return handoff.Handoff{}, fmt.Errorf("load %s: %w", id, domain.ErrHandoffNotFound)
	}
	return h, nil
}

type memProfiles struct {
	mu       sync.Mutex
	profiles map[string]credit.Profile
}

func (m *memProfiles) Get(_ context.Context, uid string) (credit.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[uid]
	if !ok {
		return credit.Profile{}, domain.ErrProfileNotFound
	}
	return p, nil
}

func (m *memProfiles) Create(_ context.Context, p credit.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.UID()] = p
	return nil
}

func (m *memProfiles) UsernameTaken(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.Username() == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memProfiles) Update(
	_ context.Context, uid string, fn func(credit.Profile) (credit.Profile, error),
) (credit.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[uid]
	if !ok {
		return credit.Profile{}, domain.ErrProfileNotFound
	}
	next, err := fn(p)
	if err != nil {
		return credit.Profile{}, err
	}
	m.profiles[uid] = next
	return next, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubUploader struct{}

func (stubUploader) Upload(_ context.Context, key, _ string, _ []byte) (string, error) {
	return "https://files.example.com/" + key, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Send(_ context.Context, content string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, content)
	return nil
}

type testEnv struct {
	provider *stubProvider
	handoffs *memHandoffs
	profiles *memProfiles
	notifier *recordingNotifier
	router   http.Handler
}

type envOption func(*envConfig)

type envConfig struct {
	uploader  archiveuc.Uploader
	ledger    bool
	limiter   RateLimiter
	apiKeys   []string
	dbPingErr error
}

func withUploader() envOption {
	return func(c *envConfig) { c.uploader = stubUploader{} }
}

func withLedger() envOption {
	return func(c *envConfig) { c.ledger = true }
}

func withAPIKeys(keys ...string) envOption {
	return func(c *envConfig) { c.apiKeys = keys }
}

func withLimiter(l RateLimiter) envOption {
	return func(c *envConfig) { c.limiter = l }
}

func withDBDown(err error) envOption {
	return func(c *envConfig) { c.dbPingErr = err }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	var cfg envConfig
	for _, o := range opts {
		o(&cfg)
	}

	logger := zap.NewNop()
	env := &testEnv{
		provider: &stubProvider{},
		handoffs: &memHandoffs{items: map[string]handoff.Handoff{}},
		profiles: &memProfiles{profiles: map[string]credit.Profile{}},
		notifier: &recordingNotifier{},
	}

	tracker := trackuc.New(env.notifier, 8, time.Second, logger)
	t.Cleanup(tracker.Close)

	var (
		credits *credituc.Service
		ledger  searchuc.CreditLedger
	)
	if cfg.ledger {
		credits = credituc.New(env.profiles, logger)
		ledger = credits
	}

	exporter := export.New(export.DefaultOptions())
	searchSvc := searchuc.New(env.provider, env.handoffs, ledger, tracker, logger)
	archiveSvc := archiveuc.New(env.handoffs, exporter, cfg.uploader, "exports/", logger)
	usageSvc := usageuc.New("leakosint", nil)
	healthSvc := healthuc.New(stubPinger{err: cfg.dbPingErr}, nil)

	server := NewServer(searchSvc, archiveSvc, credits, tracker, usageSvc, healthSvc, exporter,
		Options{PingMessage: "pong"}, logger)

	r := chi.NewRouter()
	r.Use(JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(logger))
	r.Use(CORSMiddleware())
	r.Use(BearerAuthMiddleware(cfg.apiKeys))
	r.Use(RateLimitMiddleware(cfg.limiter))
	env.router = HandlerWithOptions(server, ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: ParamErrorHandler,
	})
	return env
}

func (e *testEnv) saveHandoff(t *testing.T, query string, res result.Results) string {
	t.Helper()
	h, err := e.handoffs.Save(context.Background(), query, res, res.HasMeaningfulData())
	if err != nil {
		t.Fatalf("save handoff: %v", err)
	}
	return h.ID()
}

func sampleResults() result.Results {
	return result.NewResults([]result.Record{
		result.NewRecord("record-1", "Site A", "", []result.Field{
			result.NewField("Email", "Email", result.String("a@b.c")),
			result.NewField("Password", "Password", result.String("hunter2")),
		}),
	})
}
