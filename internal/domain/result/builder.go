package result

import (
	"strconv"
	"strings"
)

// shape is the dispatch class of a value handed to the builder.
type shape int

const (
	shapeScalar shape = iota
	shapeObjectArray
	shapeMixedArray
	shapePlainObject
)

func classify(raw any) shape {
	if items, ok := asList(raw); ok {
		for _, item := range items {
			if _, isObj := asObject(item); !isObj {
				return shapeMixedArray
			}
		}
		return shapeObjectArray
	}
	if _, ok := asObject(raw); ok {
		return shapePlainObject
	}
	return shapeScalar
}

// sequence hands out record ids for a single normalization run.
type sequence struct {
	n int
}

func (s *sequence) next() string {
	s.n++
	return "record-" + strconv.Itoa(s.n)
}

type builder struct {
	seq     sequence
	records []Record
}

// NormalizeSearchResults splits a raw payload into records:
// a list of objects gives one record per object, any other list gives one
// record holding its meaningful elements, an object gives a record of its
// non-list members followed by the records of each nested list (labeled by
// its key), and a scalar gives a single-field record.
// Record ids restart at record-1 on every call.
func NormalizeSearchResults(raw any) Results {
	b := &builder{}
	b.process(raw, "")

	kept := make([]Record, 0, len(b.records))
	for _, r := range b.records {
		if hasMeaningfulField(r) {
			kept = append(kept, r)
		}
	}
	return NewResults(kept)
}

func (b *builder) process(raw any, contextLabel string) {
	switch classify(raw) {
	case shapeObjectArray:
		items, _ := asList(raw)
		for _, item := range items {
			obj, _ := asObject(item)
			b.appendObject(obj.members, contextLabel)
		}

	case shapeMixedArray:
		items, _ := asList(raw)
		kept := make([]Value, 0, len(items))
		for _, item := range items {
			v := NormalizeValue(item, NewSeen())
			if HasMeaningfulValue(v) {
				kept = append(kept, v)
			}
		}
		if len(kept) == 0 {
			return
		}
		b.appendSingle(contextLabel, "Values", List(kept...))

	case shapePlainObject:
		obj, _ := asObject(raw)
		var base, nested []member
		for _, m := range obj.members {
			if IsNoiseKey(m.key) {
				continue
			}
			if _, isList := asList(m.value); isList {
				nested = append(nested, m)
				continue
			}
			base = append(base, m)
		}
		b.appendObject(base, contextLabel)
		for _, m := range nested {
			b.process(m.value, FormatLabel(m.key))
		}

	default:
		v := NormalizeValue(raw, NewSeen())
		if !HasMeaningfulValue(v) {
			return
		}
		b.appendSingle(contextLabel, "Value", v)
	}
}

// appendObject builds a record from object members. Each member gets its own
// seen set, so a cycle inside one member cannot affect the others.
func (b *builder) appendObject(members []member, contextLabel string) {
	fields := make([]Field, 0, len(members))
	for _, m := range members {
		if IsNoiseKey(m.key) {
			continue
		}
		v := NormalizeValue(m.value, NewSeen())
		if !HasMeaningfulValue(v) {
			continue
		}
		fields = append(fields, NewField(m.key, FormatLabel(m.key), v))
	}
	if len(fields) == 0 {
		return
	}

	title := deriveTitle(members)
	if title == "" {
		title = contextLabel
	}
	if contextLabel == title {
		contextLabel = ""
	}
	b.records = append(b.records, NewRecord(b.seq.next(), title, contextLabel, fields))
}

// appendSingle wraps a value as a one-field record. Title and context both
// carry the list label here; only object records drop a duplicated context.
func (b *builder) appendSingle(contextLabel, fallback string, v Value) {
	label := contextLabel
	if label == "" {
		label = fallback
	}
	field := NewField(strings.ToLower(label), FormatLabel(label), v)
	b.records = append(b.records, NewRecord(b.seq.next(), contextLabel, contextLabel, []Field{field}))
}

// deriveTitle returns the trimmed string value of the first member, in object
// order, whose key names a title candidate. Candidate priority is not applied:
// {"email": ..., "name": ...} is titled by email.
func deriveTitle(members []member) string {
	for _, m := range members {
		s, ok := m.value.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s != "" && isTitleKey(m.key) {
			return s
		}
	}
	return ""
}

func hasMeaningfulField(r Record) bool {
	for _, f := range r.fields {
		if HasMeaningfulValue(f.value) {
			return true
		}
	}
	return false
}
