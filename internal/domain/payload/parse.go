package payload

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/tidwall/gjson"

	"github.com/kailas-cloud/osintinfo/internal/domain"
)

var (
	noResultsRegex = regexp.MustCompile(`(?i)no results`)
	errNotObject   = errors.New("payload is not an object")
)

// Parse decodes JSON text into the payload model: *Object, []any, string,
// float64, bool or nil.
func Parse(data []byte) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parse payload: %w", domain.ErrInvalidPayload)
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func fromResult(r gjson.Result) any {
	switch {
	case r.IsObject():
		obj := NewObject()
		r.ForEach(func(key, value gjson.Result) bool {
			obj.Set(key.Str, fromResult(value))
			return true
		})
		return obj
	case r.IsArray():
		items := make([]any, 0)
		r.ForEach(func(_, value gjson.Result) bool {
			items = append(items, fromResult(value))
			return true
		})
		return items
	}

	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Num
	case gjson.True:
		return true
	case gjson.False:
		return false
	default:
		return nil
	}
}

// HasResults reports whether a raw payload looks like a hit:
// a non-empty list, an object with members, or a non-empty string
// that does not say "no results".
func HasResults(raw any) bool {
	switch v := raw.(type) {
	case []any:
		return len(v) > 0
	case *Object:
		return v != nil && v.Len() > 0
	case map[string]any:
		return len(v) > 0
	case string:
		return v != "" && !noResultsRegex.MatchString(v)
	default:
		return false
	}
}
