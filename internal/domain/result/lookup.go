package result

import (
	"sort"
	"strconv"
	"strings"
)

// Candidate keys for record provenance.
var (
	SourceKeys  = []string{"source", "breach", "leak name", "leak"}
	DatasetKeys = []string{"database", "db", "table", "collection"}
)

// ExtractFirstText returns the first non-empty text inside v, depth first.
// Booleans read as "Yes" or "No".
func ExtractFirstText(v Value) (string, bool) {
	switch v.kind {
	case KindString:
		s := strings.TrimSpace(v.text)
		return s, s != ""
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64), true
	case KindBool:
		if v.boolean {
			return "Yes", true
		}
		return "No", true
	case KindList:
		for _, item := range v.items {
			if s, ok := ExtractFirstText(item); ok {
				return s, true
			}
		}
	case KindMapping:
		for _, e := range v.entries {
			if s, ok := ExtractFirstText(e.Value); ok {
				return s, true
			}
		}
	}
	return "", false
}

// FindFieldValue returns the first text of the first field whose normalized
// key is one of candidates.
func FindFieldValue(fields []Field, candidates ...string) (string, bool) {
	want := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		want[strings.ToLower(c)] = struct{}{}
	}
	for _, f := range fields {
		if _, ok := want[NormalizeKey(f.key)]; !ok {
			continue
		}
		if s, ok := ExtractFirstText(f.value); ok {
			return s, true
		}
	}
	return "", false
}

// CollectDistinctFieldValues gathers FindFieldValue over records,
// deduplicated and sorted.
func CollectDistinctFieldValues(records []Record, candidates ...string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range records {
		s, ok := FindFieldValue(r.fields, candidates...)
		if !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
