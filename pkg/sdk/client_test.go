package osintinfo

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/osintinfo/internal/domain"
	"github.com/kailas-cloud/osintinfo/internal/domain/search/request"
	"github.com/kailas-cloud/osintinfo/internal/domain/search/response"
)

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}
	logger := slog.Default()
	reg := prometheus.NewRegistry()
	hc := &http.Client{}

	for _, o := range []Option{
		WithAPIKey("key"),
		WithBaseURL("http://localhost:9/"),
		WithTimeout(3 * time.Second),
		WithHTTPClient(hc),
		WithSiteName("Acme"),
		WithLogger(logger),
		WithPrometheus(reg),
	} {
		o.apply(cfg)
	}

	if cfg.apiKey != "key" || cfg.baseURL != "http://localhost:9/" || cfg.timeout != 3*time.Second {
		t.Errorf("connection options not applied: %+v", cfg)
	}
	if cfg.httpClient != hc || cfg.site != "Acme" {
		t.Errorf("http client/site not applied")
	}
	if cfg.logger != logger || cfg.metricsReg != reg {
		t.Errorf("observability options not applied")
	}
}

func TestNew_WithoutAPIKey(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.Search(context.Background(), "a@b.c")
	if !errors.Is(err, ErrProviderNotConfigured) {
		t.Errorf("expected ErrProviderNotConfigured, got %v", err)
	}
}

func TestNew_LiveEndpoint(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(r.Body)
		got = buf.String()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"email":"a@x.com"}]`))
	}))
	defer srv.Close()

	client, err := New(WithAPIKey("tok"), WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := client.Search(context.Background(), "a@x.com", WithLimit(5), WithLang("ru"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Found || out.Results.RecordCount != 1 {
		t.Errorf("out = %+v", out)
	}
	for _, want := range []string{`"token":"tok"`, `"limit":5`, `"lang":"ru"`, `"type":"json"`} {
		if !strings.Contains(got, want) {
			t.Errorf("upstream body %s missing %s", got, want)
		}
	}
}

func TestNew_IncompatibleRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "osintinfo",
		Subsystem: "sdk",
		Name:      "operations_total",
		Help:      "clash",
	}))

	if _, err := New(WithPrometheus(reg)); err == nil {
		t.Fatal("expected error for incompatible collector")
	}
}

func TestNormalize(t *testing.T) {
	client := newTestClient(nil)

	res, err := client.Normalize([]byte(`{"name":"Acme","accounts":[{"user":"bob"}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Results{
		Records: []Record{
			{ID: "record-1", Title: "Acme", Fields: []Field{{Key: "name", Label: "Name", Value: "Acme", Text: "Acme"}}},
			{ID: "record-2", Title: "Accounts", Fields: []Field{{Key: "user", Label: "User", Value: "bob", Text: "bob"}}},
		},
		RecordCount:       2,
		FieldCount:        2,
		HasMeaningfulData: true,
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_InvalidJSON(t *testing.T) {
	client := newTestClient(nil)

	_, err := client.Normalize([]byte(`{"broken`))
	if !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestNormalizeValue_GoMap(t *testing.T) {
	client := newTestClient(nil)

	res := client.NormalizeValue(map[string]any{"phone": "123", "email": "a@x.com"})
	if res.RecordCount != 1 {
		t.Fatalf("RecordCount = %d, want 1", res.RecordCount)
	}
	keys := make([]string, 0, 2)
	for _, f := range res.Records[0].Fields {
		keys = append(keys, f.Key)
	}
	if diff := cmp.Diff([]string{"email", "phone"}, keys); diff != "" {
		t.Errorf("field order mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeValue_MappingKeepsOrder(t *testing.T) {
	client := newTestClient(nil)

	res, err := client.Normalize([]byte(`{"name":"x","address":{"zip":"1","city":"Oslo"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var addr Field
	for _, f := range res.Records[0].Fields {
		if f.Key == "address" {
			addr = f
		}
	}
	want := []Entry{{Key: "zip", Value: "1"}, {Key: "city", Value: "Oslo"}}
	if diff := cmp.Diff(want, addr.Value); diff != "" {
		t.Errorf("mapping mismatch (-want +got):\n%s", diff)
	}
	if addr.Text != "zip: 1, city: Oslo" {
		t.Errorf("Text = %q", addr.Text)
	}
}

func TestSearch_JSON(t *testing.T) {
	p := jsonProvider(`[{"email":"a@x.com"},{"email":"b@x.com"}]`)
	client := newTestClient(p)

	out, err := client.Search(context.Background(), "  x.com ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Query != "x.com" || !out.Found {
		t.Errorf("query/found = %q/%v", out.Query, out.Found)
	}
	if out.Results.RecordCount != 2 || out.Results.Records[1].Title != "b@x.com" {
		t.Errorf("results = %+v", out.Results)
	}
	if len(p.calls) != 1 || p.calls[0].Limit() != request.DefaultLimit || p.calls[0].Lang() != request.DefaultLang {
		t.Errorf("provider calls = %+v", p.calls)
	}
}

func TestSearch_NoResultsText(t *testing.T) {
	client := newTestClient(textProvider("No results found"))

	out, err := client.Search(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Found {
		t.Error("expected Found=false")
	}
	if string(out.Body) != "No results found" || out.ContentType != "text/plain" {
		t.Errorf("body/content type = %q/%q", out.Body, out.ContentType)
	}
}

func TestSearch_InvalidQuery(t *testing.T) {
	p := jsonProvider(`{}`)
	client := newTestClient(p)

	_, err := client.Search(context.Background(), "   ")
	if !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery, got %v", err)
	}
	if len(p.calls) != 0 {
		t.Error("provider must not be called")
	}
}

func TestSearch_UpstreamError(t *testing.T) {
	p := &mockProvider{
		searchFn: func(_ context.Context, _ request.Request) (response.Response, error) {
			return response.Response{}, domain.NewUpstreamError(http.StatusForbidden, "bad token")
		},
	}
	client := newTestClient(p)

	_, err := client.Search(context.Background(), "a@b.c")
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected *UpstreamError, got %v", err)
	}
	if upstream.Status != http.StatusForbidden || !errors.Is(err, ErrProviderError) {
		t.Errorf("upstream = %+v", upstream)
	}
}

func TestText_RoundTrip(t *testing.T) {
	client := newTestClient(nil, WithSiteName("Acme Lookup"))

	res := client.NormalizeValue([]any{map[string]any{"email": "a@x.com", "active": true}})
	got := client.Text("a@x.com", res)

	for _, want := range []string{
		`Acme Lookup for "a@x.com"`,
		"Results (1)",
		"1. a@x.com",
		"- Email: a@x.com",
		"- Active: true",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("text export missing %q:\n%s", want, got)
		}
	}
}

func TestMarkdown_Empty(t *testing.T) {
	client := newTestClient(nil)

	got := client.Markdown("", Results{})
	if !strings.HasPrefix(got, `# Osint Info Results for "Query"`) {
		t.Errorf("heading = %q", strings.SplitN(got, "\n", 2)[0])
	}
	if !strings.Contains(got, "_No results found._") {
		t.Errorf("markdown missing empty marker:\n%s", got)
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("John@Example.com", "md"); got != "osint-info-results-john-example-com.md" {
		t.Errorf("Filename = %q", got)
	}
}

func TestObserver_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	client := newTestClient(jsonProvider(`{}`), WithPrometheus(reg))

	_ = client.NormalizeValue("x")
	_, _ = client.Normalize([]byte(`nope`))

	if got := testutil.ToFloat64(client.obs.metrics.operations.WithLabelValues("normalize", "ok")); got != 1 {
		t.Errorf("normalize ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(client.obs.metrics.operations.WithLabelValues("normalize", "error")); got != 1 {
		t.Errorf("normalize error = %v, want 1", got)
	}
}

func TestObserver_NilSafe(t *testing.T) {
	var o *observer
	o.observe("noop", time.Now(), nil)
}
