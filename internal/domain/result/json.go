package result

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"github.com/kailas-cloud/osintinfo/internal/domain"
)

// MarshalJSON encodes the value with mapping member order preserved.
// Non-finite numbers encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindString:
		b, err := json.Marshal(v.text)
		if err != nil {
			return fmt.Errorf("encode string: %w", err)
		}
		buf.Write(b)
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			buf.WriteString("null")
			return nil
		}
		b, err := json.Marshal(v.num)
		if err != nil {
			return fmt.Errorf("encode number: %w", err)
		}
		buf.Write(b)
	case KindBool:
		if v.boolean {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMapping:
		buf.WriteByte('{')
		for i, e := range v.entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(e.Key)
			if err != nil {
				return fmt.Errorf("encode key: %w", err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := e.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		buf.WriteString("null")
	}
	return nil
}

// UnmarshalJSON decodes any JSON value, keeping object member order.
func (v *Value) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("decode value: %w", domain.ErrInvalidPayload)
	}
	*v = fromGJSON(gjson.ParseBytes(data))
	return nil
}

func fromGJSON(r gjson.Result) Value {
	switch {
	case r.IsObject():
		entries := make([]Entry, 0)
		r.ForEach(func(key, value gjson.Result) bool {
			entries = append(entries, Entry{Key: key.Str, Value: fromGJSON(value)})
			return true
		})
		return Mapping(entries...)
	case r.IsArray():
		items := make([]Value, 0)
		r.ForEach(func(_, value gjson.Result) bool {
			items = append(items, fromGJSON(value))
			return true
		})
		return List(items...)
	}

	switch r.Type {
	case gjson.String:
		return String(r.Str)
	case gjson.Number:
		return Number(r.Num)
	case gjson.True:
		return Bool(true)
	case gjson.False:
		return Bool(false)
	default:
		return Null()
	}
}

type fieldJSON struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value Value  `json:"value"`
}

type recordJSON struct {
	ID           string      `json:"id"`
	Title        string      `json:"title,omitempty"`
	ContextLabel string      `json:"contextLabel,omitempty"`
	Fields       []fieldJSON `json:"fields"`
}

type resultsJSON struct {
	Records           []recordJSON `json:"records"`
	RecordCount       int          `json:"recordCount"`
	FieldCount        int          `json:"fieldCount"`
	HasMeaningfulData bool         `json:"hasMeaningfulData"`
}

// MarshalJSON encodes a record in the camelCase wire shape.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(toRecordJSON(r))
}

// MarshalJSON encodes the results in the camelCase wire shape.
func (r Results) MarshalJSON() ([]byte, error) {
	out := resultsJSON{
		Records:           make([]recordJSON, len(r.records)),
		RecordCount:       r.recordCount,
		FieldCount:        r.fieldCount,
		HasMeaningfulData: r.hasMeaningfulData,
	}
	for i, rec := range r.records {
		out.Records[i] = toRecordJSON(rec)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the wire shape. Counters are recomputed from records.
// Non-finite numbers were written as null, so fields whose value is no longer
// meaningful are dropped, and so are records left without fields.
func (r *Results) UnmarshalJSON(data []byte) error {
	var in resultsJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decode results: %w", err)
	}
	records := make([]Record, 0, len(in.Records))
	for _, rec := range in.Records {
		fields := make([]Field, 0, len(rec.Fields))
		for _, f := range rec.Fields {
			if HasMeaningfulValue(f.Value) {
				fields = append(fields, NewField(f.Key, f.Label, f.Value))
			}
		}
		if len(fields) == 0 {
			continue
		}
		records = append(records, NewRecord(rec.ID, rec.Title, rec.ContextLabel, fields))
	}
	*r = NewResults(records)
	return nil
}

// UnmarshalResults decodes results from their wire shape.
func UnmarshalResults(data []byte) (Results, error) {
	var r Results
	if err := json.Unmarshal(data, &r); err != nil {
		return Results{}, err
	}
	return r, nil
}

func toRecordJSON(r Record) recordJSON {
	fields := make([]fieldJSON, len(r.fields))
	for i, f := range r.fields {
		fields[i] = fieldJSON{Key: f.key, Label: f.label, Value: f.value}
	}
	return recordJSON{ID: r.id, Title: r.title, ContextLabel: r.contextLabel, Fields: fields}
}
