package result

import (
	"reflect"
	"sort"

	"github.com/kailas-cloud/osintinfo/internal/domain/payload"
)

// member is one key/value pair of an object-like input.
type member struct {
	key   string
	value any
}

// mapIdentity identifies a Go map by its header pointer.
type mapIdentity uintptr

// object is a read-only view over the object-like inputs the builder accepts.
type object struct {
	id      any
	members []member
}

// asObject recognizes *payload.Object (ordered) and Go maps with string keys
// (members sorted by key, since Go maps carry no order).
func asObject(raw any) (object, bool) {
	switch v := raw.(type) {
	case *payload.Object:
		if v == nil {
			return object{}, false
		}
		members := make([]member, 0, v.Len())
		v.Each(func(key string, value any) {
			members = append(members, member{key: key, value: value})
		})
		return object{id: v, members: members}, true
	case map[string]any:
		if v == nil {
			return object{}, false
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]member, len(keys))
		for i, k := range keys {
			members[i] = member{key: k, value: v[k]}
		}
		return object{id: mapIdentity(reflect.ValueOf(v).Pointer()), members: members}, true
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
		return object{}, false
	}
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	members := make([]member, len(keys))
	for i, k := range keys {
		members[i] = member{key: k.String(), value: rv.MapIndex(k).Interface()}
	}
	return object{id: mapIdentity(rv.Pointer()), members: members}, true
}

// asList recognizes []any and any other slice or array except []byte.
func asList(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []byte:
		return nil, false
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}
