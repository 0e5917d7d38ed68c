// Package apigw serves an http.Handler behind API Gateway proxy events.
package apigw

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

const defaultContentType = "application/json"

// Adapter converts proxy events to requests against h.
type Adapter struct {
	h      http.Handler
	logger *zap.Logger
}

// New creates an Adapter.
func New(h http.Handler, logger *zap.Logger) *Adapter {
	return &Adapter{h: h, logger: logger}
}

// Handle serves one API Gateway proxy event.
func (a *Adapter) Handle(ctx context.Context, ev events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	req, err := toRequest(ctx, ev)
	if err != nil {
		a.logger.Warn("Rejected malformed proxy event", zap.Error(err))
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": defaultContentType},
			Body:       `{"code":"bad_request","message":"malformed request"}`,
		}, nil
	}

	rec := newRecorder()
	a.h.ServeHTTP(rec, req)
	return rec.result(), nil
}

// toRequest builds the request: header names are lowercased, a base64 body
// is decoded, an empty body is dropped and non-GET requests without a
// content type are treated as JSON.
func toRequest(ctx context.Context, ev events.APIGatewayProxyRequest) (*http.Request, error) {
	headers := make(http.Header, len(ev.Headers))
	for k, v := range ev.Headers {
		headers[strings.ToLower(k)] = []string{v}
	}
	for k, vs := range ev.MultiValueHeaders {
		headers[strings.ToLower(k)] = append([]string(nil), vs...)
	}

	var body io.Reader = http.NoBody
	var length int64
	if ev.Body != "" {
		raw := []byte(ev.Body)
		if ev.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(ev.Body)
			if err != nil {
				return nil, fmt.Errorf("decode body: %w", err)
			}
			raw = decoded
		}
		if len(raw) > 0 {
			body = bytes.NewReader(raw)
			length = int64(len(raw))
		}
	}

	method := ev.HTTPMethod
	if method == "" {
		method = http.MethodGet
	}
	if method != http.MethodGet && firstHeader(headers, "content-type") == "" {
		headers["content-type"] = []string{defaultContentType}
	}

	u := &url.URL{Path: ev.Path, RawQuery: query(ev).Encode()}
	req, err := http.NewRequestWithContext(ctx, method, u.RequestURI(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.ContentLength = length
	if ip := ev.RequestContext.Identity.SourceIP; ip != "" {
		req.RemoteAddr = ip + ":0"
	}
	if h := firstHeader(headers, "host"); h != "" {
		req.Host = h
	}
	return req, nil
}

func query(ev events.APIGatewayProxyRequest) url.Values {
	q := url.Values{}
	for k, vs := range ev.MultiValueQueryStringParameters {
		q[k] = append([]string(nil), vs...)
	}
	for k, v := range ev.QueryStringParameters {
		if _, ok := q[k]; !ok {
			q.Set(k, v)
		}
	}
	return q
}

func firstHeader(h http.Header, key string) string {
	if vs := h[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// recorder collects a handler response in memory.
type recorder struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newRecorder() *recorder {
	return &recorder{header: http.Header{}}
}

func (r *recorder) Header() http.Header { return r.header }

func (r *recorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
}

func (r *recorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.body.Write(b)
}

func (r *recorder) result() events.APIGatewayProxyResponse {
	status := r.status
	if status == 0 {
		status = http.StatusOK
	}
	single := make(map[string]string, len(r.header))
	multi := make(map[string][]string, len(r.header))
	for k, vs := range r.header {
		if len(vs) == 0 {
			continue
		}
		single[k] = vs[0]
		multi[k] = vs
	}
	return events.APIGatewayProxyResponse{
		StatusCode:        status,
		Headers:           single,
		MultiValueHeaders: multi,
		Body:              r.body.String(),
	}
}
