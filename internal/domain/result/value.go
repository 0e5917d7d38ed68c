// Package result turns untrusted breach API payloads into render-ready records.
package result

// Kind enumerates canonical value kinds.
type Kind int

// Value kinds.
const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Entry is a single mapping member.
type Entry struct {
	Key   string
	Value Value
}

// Value is the canonical form of a payload value: a primitive,
// an ordered list, or an insertion-ordered mapping.
type Value struct {
	kind    Kind
	text    string
	num     float64
	boolean bool
	items   []Value
	entries []Entry
}

// Null returns the absent value.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, text: s} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// List returns an ordered list value.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, items: items}
}

// Mapping returns a mapping value with entries in the given order.
func Mapping(entries ...Entry) Value {
	if entries == nil {
		entries = []Entry{}
	}
	return Value{kind: KindMapping, entries: entries}
}

// Kind returns the value kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Text returns the string payload of a KindString value.
func (v Value) Text() string { return v.text }

// Num returns the numeric payload of a KindNumber value.
func (v Value) Num() float64 { return v.num }

// Bool returns the boolean payload of a KindBool value.
func (v Value) Bool() bool { return v.boolean }

// Items returns list elements.
func (v Value) Items() []Value { return v.items }

// Entries returns mapping members in order.
func (v Value) Entries() []Entry { return v.entries }

// Lookup returns the mapping member with the given key.
func (v Value) Lookup(key string) (Value, bool) {
	for _, e := range v.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}
