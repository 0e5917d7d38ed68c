package osintinfo

import (
	"github.com/kailas-cloud/osintinfo/internal/domain/result"
	"github.com/kailas-cloud/osintinfo/internal/export"
)

// Results is a normalized breach answer.
type Results struct {
	Records           []Record `json:"records"`
	RecordCount       int      `json:"recordCount"`
	FieldCount        int      `json:"fieldCount"`
	HasMeaningfulData bool     `json:"hasMeaningfulData"`
}

// Record is one display card. Source and Dataset are read from well-known
// keys such as "source" and "database".
type Record struct {
	ID           string  `json:"id"`
	Title        string  `json:"title,omitempty"`
	ContextLabel string  `json:"contextLabel,omitempty"`
	Source       string  `json:"source,omitempty"`
	Dataset      string  `json:"dataset,omitempty"`
	Fields       []Field `json:"fields"`
}

// Field is one labelled value of a record.
//
// Value holds nil, string, float64, bool, []any or []Entry; mappings keep
// their member order as []Entry. Text is Value flattened to one line.
type Field struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value any    `json:"value"`
	Text  string `json:"text"`
}

// Entry is one member of a mapping value.
type Entry struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// SearchResult is the outcome of a live lookup.
type SearchResult struct {
	Query       string
	Found       bool
	ContentType string
	Body        []byte
	Results     Results
}

func toResults(r result.Results) Results {
	records := make([]Record, len(r.Records()))
	for i, rec := range r.Records() {
		fields := make([]Field, len(rec.Fields()))
		for j, f := range rec.Fields() {
			fields[j] = Field{
				Key:   f.Key(),
				Label: f.Label(),
				Value: toAny(f.Value()),
				Text:  export.Stringify(f.Value()),
			}
		}
		source, _ := rec.Source()
		dataset, _ := rec.Dataset()
		records[i] = Record{
			ID:           rec.ID(),
			Title:        rec.Title(),
			ContextLabel: rec.ContextLabel(),
			Source:       source,
			Dataset:      dataset,
			Fields:       fields,
		}
	}
	return Results{
		Records:           records,
		RecordCount:       r.RecordCount(),
		FieldCount:        r.FieldCount(),
		HasMeaningfulData: r.HasMeaningfulData(),
	}
}

// fromResults rebuilds the domain value; counters are recomputed.
func fromResults(r Results) result.Results {
	records := make([]result.Record, len(r.Records))
	for i, rec := range r.Records {
		fields := make([]result.Field, len(rec.Fields))
		for j, f := range rec.Fields {
			fields[j] = result.NewField(f.Key, f.Label, fromAny(f.Value))
		}
		records[i] = result.NewRecord(rec.ID, rec.Title, rec.ContextLabel, fields)
	}
	return result.NewResults(records)
}

func toAny(v result.Value) any {
	switch v.Kind() {
	case result.KindString:
		return v.Text()
	case result.KindNumber:
		return v.Num()
	case result.KindBool:
		return v.Bool()
	case result.KindList:
		items := make([]any, len(v.Items()))
		for i, item := range v.Items() {
			items[i] = toAny(item)
		}
		return items
	case result.KindMapping:
		entries := make([]Entry, len(v.Entries()))
		for i, e := range v.Entries() {
			entries[i] = Entry{Key: e.Key, Value: toAny(e.Value)}
		}
		return entries
	default:
		return nil
	}
}

func fromAny(v any) result.Value {
	switch t := v.(type) {
	case string:
		return result.String(t)
	case float64:
		return result.Number(t)
	case int:
		return result.Number(float64(t))
	case bool:
		return result.Bool(t)
	case []any:
		items := make([]result.Value, len(t))
		for i, item := range t {
			items[i] = fromAny(item)
		}
		return result.List(items...)
	case []Entry:
		entries := make([]result.Entry, len(t))
		for i, e := range t {
			entries[i] = result.Entry{Key: e.Key, Value: fromAny(e.Value)}
		}
		return result.Mapping(entries...)
	default:
		return result.Null()
	}
}
