package result

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// CircularReference replaces an object that is already being normalized
// higher up the same descent path.
const CircularReference = "Circular reference"

var unmeaningfulStrings = map[string]struct{}{
	"": {}, "n/a": {}, "na": {}, "none": {}, "null": {}, "undefined": {},
	"unknown": {}, "no data": {}, "circular reference": {},
}

// Seen holds the identities of the objects on the current descent path.
type Seen map[any]struct{}

// NewSeen returns an empty path set.
func NewSeen() Seen { return make(Seen) }

// NormalizeValue converts a raw payload value into its canonical form.
// Strings are trimmed, noise members are dropped, members that normalize to
// Null or to an empty container are pruned, and an object met again on its
// own descent path becomes the CircularReference string.
// Lists share seen with their elements; objects add themselves to seen for
// the duration of their members only.
func NormalizeValue(raw any, seen Seen) Value {
	if seen == nil {
		seen = NewSeen()
	}

	switch v := raw.(type) {
	case nil:
		return Null()
	case string:
		return String(strings.TrimSpace(v))
	case bool:
		return Bool(v)
	case float64:
		return Number(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return String(strings.TrimSpace(v.String()))
		}
		return Number(f)
	case []byte:
		return String(strings.TrimSpace(string(v)))
	}

	if n, ok := asNumber(raw); ok {
		return Number(n)
	}
	if items, ok := asList(raw); ok {
		out := make([]Value, len(items))
		for i, item := range items {
			out[i] = NormalizeValue(item, seen)
		}
		return List(out...)
	}
	if obj, ok := asObject(raw); ok {
		return normalizeObject(obj, seen)
	}
	if isNilPointer(raw) {
		return Null()
	}
	return String(fmt.Sprint(raw))
}

func normalizeObject(obj object, seen Seen) Value {
	if _, ok := seen[obj.id]; ok {
		return String(CircularReference)
	}
	seen[obj.id] = struct{}{}
	defer delete(seen, obj.id)

	entries := make([]Entry, 0, len(obj.members))
	for _, m := range obj.members {
		if IsNoiseKey(m.key) {
			continue
		}
		nv := NormalizeValue(m.value, seen)
		if nv.IsNull() {
			continue
		}
		if (nv.kind == KindList || nv.kind == KindMapping) && !HasMeaningfulValue(nv) {
			continue
		}
		entries = append(entries, Entry{Key: m.key, Value: nv})
	}
	return Mapping(entries...)
}

// HasMeaningfulValue reports whether a value carries information worth showing.
// Containers are meaningful only through a meaningful descendant.
func HasMeaningfulValue(v Value) bool {
	switch v.kind {
	case KindString:
		_, blank := unmeaningfulStrings[strings.ToLower(strings.TrimSpace(v.text))]
		return !blank
	case KindNumber:
		return !math.IsNaN(v.num)
	case KindBool:
		return true
	case KindList:
		for _, item := range v.items {
			if HasMeaningfulValue(item) {
				return true
			}
		}
		return false
	case KindMapping:
		for _, e := range v.entries {
			if HasMeaningfulValue(e.Value) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func asNumber(raw any) (float64, bool) {
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func isNilPointer(raw any) bool {
	rv := reflect.ValueOf(raw)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
