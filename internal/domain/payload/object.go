// Package payload models untrusted breach API responses as plain Go values
// with JSON object member order preserved.
package payload

// Object is a JSON object that remembers member insertion order.
// A pointer to Object is its identity.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Set stores a member. A repeated key keeps its first position and takes the new value.
func (o *Object) Set(key string, v any) *Object {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
	return o
}

// Get returns the member value.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns member keys in insertion order.
func (o *Object) Keys() []string { return o.keys }

// Len returns the number of members.
func (o *Object) Len() int { return len(o.keys) }

// Each calls fn for every member in insertion order.
func (o *Object) Each(fn func(key string, v any)) {
	for _, k := range o.keys {
		fn(k, o.values[k])
	}
}
