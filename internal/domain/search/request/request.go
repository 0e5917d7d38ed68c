package request

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/kailas-cloud/osintinfo/internal/domain"
	"github.com/kailas-cloud/osintinfo/internal/domain/payload"
)

// Search parameter limits.
const (
	DefaultLimit = 100
	MinLimit     = 1
	MaxLimit     = 10000
	DefaultLang  = "en"
)

// candidateKeys are read from the body first, then from the query string.
var candidateKeys = []string{"request", "query", "q"}

// Request is a validated breach lookup.
type Request struct {
	terms []string
	batch bool
	limit int
	lang  string
}

// New coerces raw request parameters.
// candidate is a string, number, bool or a list of those; limit is anything
// numeric-looking (missing or non-finite → DefaultLimit, then floor and clamp
// to [MinLimit, MaxLimit]); lang defaults to DefaultLang.
func New(candidate, limit, lang any) (Request, error) {
	terms, batch, ok := coerceTerms(candidate)
	if !ok {
		return Request{}, fmt.Errorf("coerce request: %w", domain.ErrInvalidQuery)
	}
	return Request{
		terms: terms,
		batch: batch,
		limit: ClampLimit(limit),
		lang:  coerceLang(lang),
	}, nil
}

// FromInput picks request, limit and lang from a body and a query string.
// A JSON object body wins over the query string key by key; a body that is
// not JSON at all is the request text itself.
func FromInput(body []byte, query url.Values) (Request, error) {
	fields := bodyFields(body)

	var candidate any
	found := false
	for _, k := range candidateKeys {
		if v, ok := fields[k]; ok && v != nil {
			candidate, found = v, true
			break
		}
	}
	if !found {
		for _, k := range candidateKeys {
			if query.Has(k) {
				candidate, found = query.Get(k), true
				break
			}
		}
	}

	limit, ok := fields["limit"]
	if !ok || limit == nil {
		limit = nil
		if query.Has("limit") {
			limit = query.Get("limit")
		}
	}
	lang, ok := fields["lang"]
	if !ok || lang == nil {
		lang = nil
		if query.Has("lang") {
			lang = query.Get("lang")
		}
	}

	return New(candidate, limit, lang)
}

func bodyFields(body []byte) map[string]any {
	fields := make(map[string]any)
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return fields
	}
	parsed, err := payload.Parse(body)
	if err != nil {
		fields["request"] = trimmed
		return fields
	}
	if obj, ok := parsed.(*payload.Object); ok {
		obj.Each(func(key string, v any) { fields[key] = v })
	}
	return fields
}

func coerceTerms(v any) ([]string, bool, bool) {
	if items, ok := v.([]any); ok {
		terms := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := coerceScalar(item); ok {
				terms = append(terms, s)
			}
		}
		return terms, true, len(terms) > 0
	}
	if s, ok := coerceScalar(v); ok {
		return []string{s}, false, true
	}
	return nil, false, false
}

func coerceScalar(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		s = strconv.Itoa(t)
	case bool:
		s = strconv.FormatBool(t)
	default:
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// ClampLimit turns a raw limit into a bounded result count.
func ClampLimit(v any) int {
	var n float64
	switch t := v.(type) {
	case nil:
		return DefaultLimit
	case float64:
		n = t
	case int:
		n = float64(t)
	case bool:
		if t {
			n = 1
		}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			break
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return DefaultLimit
		}
		n = f
	default:
		return DefaultLimit
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return DefaultLimit
	}
	n = math.Floor(n)
	if n < MinLimit {
		return MinLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return int(n)
}

func coerceLang(v any) string {
	s, ok := v.(string)
	if !ok {
		return DefaultLang
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultLang
	}
	return s
}

// Terms returns the lookup terms.
func (r Request) Terms() []string { return r.terms }

// IsBatch reports whether the request was given as a list.
func (r Request) IsBatch() bool { return r.batch }

// Query returns the terms as one display string.
func (r Request) Query() string { return strings.Join(r.terms, ", ") }

// Payload returns the request in its wire form: a string or a list of strings.
func (r Request) Payload() any {
	if r.batch {
		return r.terms
	}
	return r.terms[0]
}

// Limit returns the maximum number of upstream results.
func (r Request) Limit() int { return r.limit }

// Lang returns the upstream result language.
func (r Request) Lang() string { return r.lang }
