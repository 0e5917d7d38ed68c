package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/kailas-cloud/osintinfo/internal/domain"
	"github.com/kailas-cloud/osintinfo/internal/domain/credit"
	"github.com/kailas-cloud/osintinfo/internal/domain/payload"
	"github.com/kailas-cloud/osintinfo/internal/domain/result"
	"github.com/kailas-cloud/osintinfo/internal/domain/search/request"
	domusage "github.com/kailas-cloud/osintinfo/internal/domain/usage"
	"github.com/kailas-cloud/osintinfo/internal/export"
	"github.com/kailas-cloud/osintinfo/internal/logger"
	"github.com/kailas-cloud/osintinfo/internal/metrics"
	archiveuc "github.com/kailas-cloud/osintinfo/internal/usecase/archive"
	credituc "github.com/kailas-cloud/osintinfo/internal/usecase/credit"
	healthuc "github.com/kailas-cloud/osintinfo/internal/usecase/health"
	searchuc "github.com/kailas-cloud/osintinfo/internal/usecase/search"
	trackuc "github.com/kailas-cloud/osintinfo/internal/usecase/track"
	usageuc "github.com/kailas-cloud/osintinfo/internal/usecase/usage"
)

// Identity headers set by the auth proxy in front of the API.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
)

// Client-facing messages kept stable for the web front end.
const (
	msgInvalidQuery    = "Invalid query"
	msgMissingQuery    = "Missing query"
	msgNotConfigured   = "Server not configured. Missing LEAKOSINT_API_KEY."
	msgProviderTimeout = "Search provider timed out. Please retry."
	msgRateLimited     = "Rate limit exceeded. Max 1 request per second per IP."
	msgResultsNotFound = "Results not found or expired."
	msgNoSearchesLeft  = "No searches remaining. Purchase more to continue."
	msgInvalidPayload  = "Request body must be valid JSON."
	msgCreditsDisabled = "Credit ledger is not enabled."
)

const (
	defaultPingMessage   = "ping"
	defaultMaxBodyBytes  = 1 << 20
	contentTypeJSON      = "application/json"
	contentTypeText      = "text/plain; charset=utf-8"
	contentTypeMarkdown  = "text/markdown; charset=utf-8"
	exportExtText        = "txt"
	exportExtMarkdown    = "md"
	locationResultsFmt   = "/api/results/%s"
	searchesRemainingHdr = "X-Searches-Remaining"
	providerCallsHdr     = "X-Provider-Calls"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Options configures a Server.
type Options struct {
	PingMessage  string
	MaxBodyBytes int64
}

// Server implements ServerInterface.
type Server struct {
	search        *searchuc.Service
	archive       *archiveuc.Service
	credits       *credituc.Service
	tracker       *trackuc.Service
	usage         *usageuc.Service
	health        *healthuc.Service
	exporter      *export.Formatter
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server. credits and tracker can be nil.
func NewServer(
	search *searchuc.Service,
	archive *archiveuc.Service,
	credits *credituc.Service,
	tracker *trackuc.Service,
	usage *usageuc.Service,
	health *healthuc.Service,
	exporter *export.Formatter,
	opts Options,
	logger *zap.Logger,
) *Server {
	if opts.PingMessage == "" {
		opts.PingMessage = defaultPingMessage
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	s := &Server{
		search:   search,
		archive:  archive,
		credits:  credits,
		tracker:  tracker,
		usage:    usage,
		health:   health,
		exporter: exporter,
		opts:     opts,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		upstreamHandler,
		messageHandler(domain.ErrProviderNotConfigured,
			http.StatusInternalServerError, CodeProviderNotConfigured, msgNotConfigured),
		messageHandler(domain.ErrProviderTimeout, http.StatusBadGateway, CodeProviderTimeout, msgProviderTimeout),
		messageHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited, msgRateLimited),
		messageHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeInvalidQuery, msgInvalidQuery),
		messageHandler(domain.ErrMissingQuery, http.StatusBadRequest, CodeMissingQuery, msgMissingQuery),
		messageHandler(domain.ErrHandoffNotFound, http.StatusNotFound, CodeResultsNotFound, msgResultsNotFound),
		messageHandler(domain.ErrNoSearchesRemaining,
			http.StatusPaymentRequired, CodeNoSearchesRemaining, msgNoSearchesLeft),
		messageHandler(domain.ErrInvalidPayload, http.StatusBadRequest, CodeInvalidPayload, msgInvalidPayload),
		sentinelHandler(domain.ErrProfileNotFound, http.StatusNotFound, CodeProfileNotFound),
		sentinelHandler(domain.ErrInvalidAmount, http.StatusBadRequest, CodeInvalidAmount),
		sentinelHandler(domain.ErrProviderQuotaExceeded, http.StatusPaymentRequired, CodeProviderQuotaExceeded),
		sentinelHandler(domain.ErrProviderError, http.StatusBadGateway, CodeProviderError),
		sentinelHandler(domain.ErrNotImplemented, http.StatusNotImplemented, CodeNotImplemented),
	}
	return s
}

// SearchRaw handles GET|POST /api/search.
func (s *Server) SearchRaw(w http.ResponseWriter, r *http.Request) {
	req, ok := s.bindSearchRequest(w, r)
	if !ok {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	resp, err := s.search.Proxy(ctx, req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setUsageHeaders(w, usage)
	ct := resp.ContentType()
	if ct == "" {
		ct = contentTypeText
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(resp.Body())
}

// CreateResults handles POST /api/results.
func (s *Server) CreateResults(w http.ResponseWriter, r *http.Request) {
	req, ok := s.bindSearchRequest(w, r)
	if !ok {
		return
	}

	user := searchuc.User{
		ID:    r.Header.Get(HeaderUserID),
		Email: r.Header.Get(HeaderUserEmail),
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	out, err := s.search.Run(ctx, req, user)
	if err != nil {
		setUsageHeaders(w, usage)
		s.handleDomainError(w, r, err)
		return
	}

	setUsageHeaders(w, usage)
	w.Header().Set("Location", fmt.Sprintf(locationResultsFmt, out.ID))
	writeJSON(w, http.StatusCreated, resultsResponse{
		ID:         out.ID,
		Query:      out.Query,
		HasResults: out.HasResults,
		Normalized: out.Normalized,
	})
}

// GetResults handles GET /api/results/{id}.
func (s *Server) GetResults(w http.ResponseWriter, r *http.Request, id ResultsID) {
	h, err := s.search.Handoff(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	createdAt := h.CreatedAt().UTC()
	writeJSON(w, http.StatusOK, resultsResponse{
		ID:         h.ID(),
		Query:      h.Query(),
		HasResults: h.HasResults(),
		Normalized: h.Normalized(),
		CreatedAt:  &createdAt,
	})
}

// ExportResults handles GET /api/results/{id}/export.
func (s *Server) ExportResults(w http.ResponseWriter, r *http.Request, id ResultsID, params ExportResultsParams) {
	format := ExportFormatText
	if params.Format != nil {
		format = *params.Format
	}
	if format != ExportFormatText && format != ExportFormatMarkdown {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "format must be text or markdown")
		return
	}

	h, err := s.search.Handoff(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	body, ct, ext := s.exporter.Text(h.Query(), h.Normalized()), contentTypeText, exportExtText
	if format == ExportFormatMarkdown {
		body, ct, ext = s.exporter.Markdown(h.Query(), h.Normalized()), contentTypeMarkdown, exportExtMarkdown
	}

	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(h.Query(), ext)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}

// ArchiveResults handles POST /api/results/{id}/archive.
func (s *Server) ArchiveResults(w http.ResponseWriter, r *http.Request, id ResultsID) {
	if s.archive == nil {
		s.handleDomainError(w, r, domain.ErrNotImplemented)
		return
	}
	out, err := s.archive.Archive(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, archiveResponse{Key: out.Key, URL: out.URL})
}

// NormalizePayload handles POST /api/normalize.
func (s *Server) NormalizePayload(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	raw, err := payload.Parse(body)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	normalized := result.NormalizeSearchResults(raw)
	metrics.NormalizedRecords.Observe(float64(normalized.RecordCount()))
	writeJSON(w, http.StatusOK, resultsResponse{
		HasResults: payload.HasResults(raw),
		Normalized: normalized,
	})
}

// TrackSearch handles POST /api/track-search.
// Fields of the wrong type are treated as absent.
func (s *Server) TrackSearch(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	e := trackuc.Event{}
	if v := gjson.GetBytes(body, "email"); v.Type == gjson.String {
		e.Email = v.Str
	}
	if v := gjson.GetBytes(body, "query"); v.Type == gjson.String {
		e.Query = v.Str
	}
	if v := gjson.GetBytes(body, "found"); v.IsBool() {
		e.Found = v.Bool()
	}
	if v := gjson.GetBytes(body, "timestamp"); v.Type == gjson.String {
		e.Timestamp = v.Str
	}

	if s.tracker == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := s.tracker.Notify(r.Context(), e); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Ping handles GET /api/ping.
func (s *Server) Ping(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, pingResponse{Message: s.opts.PingMessage})
}

// GetCredits handles GET /api/users/{uid}/credits.
func (s *Server) GetCredits(w http.ResponseWriter, r *http.Request, uid UserID) {
	if s.credits == nil {
		writeError(w, http.StatusNotImplemented, CodeNotImplemented, msgCreditsDisabled)
		return
	}
	p, err := s.credits.Get(r.Context(), uid)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileToResponse(p))
}

// PurchaseCredits handles POST /api/users/{uid}/credits.
func (s *Server) PurchaseCredits(w http.ResponseWriter, r *http.Request, uid UserID) {
	if s.credits == nil {
		writeError(w, http.StatusNotImplemented, CodeNotImplemented, msgCreditsDisabled)
		return
	}
	var req purchaseRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	p, err := s.credits.Purchase(r.Context(), uid, req.Amount)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileToResponse(p))
}

// EnsureUser handles PUT /api/users/{uid}.
func (s *Server) EnsureUser(w http.ResponseWriter, r *http.Request, uid UserID) {
	if s.credits == nil {
		writeError(w, http.StatusNotImplemented, CodeNotImplemented, msgCreditsDisabled)
		return
	}
	var req ensureUserRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)).Decode(&req); err != nil &&
			!errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}
	p, err := s.credits.Ensure(r.Context(), uid, req.Email, req.Name)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileToResponse(p))
}

// GetUsage handles GET /usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request, params GetUsageParams) {
	raw := ""
	if params.Period != nil {
		raw = *params.Period
	}
	period, ok := domusage.ParsePeriod(raw)
	if !ok {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "period must be day, month or total")
		return
	}

	report := s.usage.GetReport(r.Context(), period)

	resp := usageResponse{
		Period:   string(report.Period()),
		Provider: report.Provider(),
		Usage:    usageMetrics{Searches: report.Metrics().Searches()},
		Budget: budgetStatus{
			SearchesLimit:     report.Budget().SearchesLimit(),
			SearchesRemaining: report.Budget().SearchesRemaining(),
			IsExhausted:       report.Budget().IsExhausted(),
		},
	}
	if report.PeriodStart() > 0 {
		start := time.UnixMilli(report.PeriodStart()).UTC()
		end := time.UnixMilli(report.PeriodEnd()).UTC()
		resp.PeriodStartAt = &start
		resp.PeriodEndAt = &end
	}
	if report.Budget().ResetsAt() > 0 {
		resetsAt := time.UnixMilli(report.Budget().ResetsAt()).UTC()
		resp.Budget.ResetsAt = &resetsAt
	}

	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, CodeBadRequest, "Request body too large")
		return nil, false
	}
	return body, true
}

func (s *Server) bindSearchRequest(w http.ResponseWriter, r *http.Request) (request.Request, bool) {
	var body []byte
	if r.Method != http.MethodGet {
		var ok bool
		if body, ok = s.readBody(w, r); !ok {
			return request.Request{}, false
		}
	}
	req, err := request.FromInput(body, r.URL.Query())
	if err != nil {
		s.handleDomainError(w, r, err)
		return request.Request{}, false
	}
	return req, true
}

func setUsageHeaders(w http.ResponseWriter, usage *domain.SearchUsage) {
	if usage == nil {
		return
	}
	if usage.ProviderCalls > 0 {
		w.Header().Set(providerCallsHdr, strconv.Itoa(usage.ProviderCalls))
	}
	if usage.Remaining >= 0 {
		w.Header().Set(searchesRemainingHdr, strconv.Itoa(usage.Remaining))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrProfileNotFound,
		domain.ErrInvalidAmount,
		domain.ErrProviderQuotaExceeded,
		domain.ErrProviderError,
		domain.ErrNotImplemented,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// messageHandler is a sentinelHandler with a fixed client message.
func messageHandler(sentinel error, status int, code ErrorResponseCode, message string) errorHandler {
	return func(w http.ResponseWriter, err error, _ string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, message)
		return true
	}
}

// upstreamHandler relays a breach API failure with its status and body.
func upstreamHandler(w http.ResponseWriter, err error, _ string) bool {
	var ue *domain.UpstreamError
	if !errors.As(err, &ue) {
		return false
	}
	status := ue.Status
	if status < 400 || status > 599 {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, UpstreamErrorResponse{
		Code:     CodeUpstreamError,
		Message:  ue.Message(),
		Status:   ue.Status,
		Upstream: true,
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func profileToResponse(p credit.Profile) profileResponse {
	return profileResponse{
		UID:                    p.UID(),
		Email:                  p.Email(),
		Name:                   p.Name(),
		Username:               p.Username(),
		Role:                   p.Role(),
		UniquePurchaseID:       p.UniquePurchaseID(),
		FreeSearches:           p.FreeSearches(),
		PurchasedSearches:      p.PurchasedSearches(),
		UsedSearches:           p.UsedSearches(),
		TotalSearchesRemaining: p.Remaining(),
		CreatedAt:              p.CreatedAt().UTC(),
		UpdatedAt:              p.UpdatedAt().UTC(),
	}
}
