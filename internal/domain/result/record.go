package result

// Field is one labeled value of a record.
type Field struct {
	key   string
	label string
	value Value
}

// NewField creates a field.
func NewField(key, label string, value Value) Field {
	return Field{key: key, label: label, value: value}
}

// Key returns the original source key.
func (f Field) Key() string { return f.key }

// Label returns the display label.
func (f Field) Label() string { return f.label }

// Value returns the normalized value.
func (f Field) Value() Value { return f.value }

// Record is one card of normalized output.
type Record struct {
	id           string
	title        string
	contextLabel string
	fields       []Field
}

// NewRecord creates a record.
func NewRecord(id, title, contextLabel string, fields []Field) Record {
	return Record{id: id, title: title, contextLabel: contextLabel, fields: fields}
}

// ID returns the record identifier ("record-N").
func (r Record) ID() string { return r.id }

// Title returns the record title, or "" when none was derived.
func (r Record) Title() string { return r.title }

// ContextLabel returns the label of the nested list that produced the record, or "".
func (r Record) ContextLabel() string { return r.contextLabel }

// Fields returns the record fields in source order.
func (r Record) Fields() []Field { return r.fields }

// Source returns the first source-like field text (source, breach, leak name, leak).
func (r Record) Source() (string, bool) { return FindFieldValue(r.fields, SourceKeys...) }

// Dataset returns the first dataset-like field text (database, db, table, collection).
func (r Record) Dataset() (string, bool) { return FindFieldValue(r.fields, DatasetKeys...) }

// Results is the outcome of one normalization run.
type Results struct {
	records           []Record
	recordCount       int
	fieldCount        int
	hasMeaningfulData bool
}

// NewResults wraps records and derives the counters.
func NewResults(records []Record) Results {
	if records == nil {
		records = []Record{}
	}
	fields := 0
	for _, r := range records {
		fields += len(r.fields)
	}
	return Results{
		records:           records,
		recordCount:       len(records),
		fieldCount:        fields,
		hasMeaningfulData: len(records) > 0,
	}
}

// Records returns the records in output order.
func (r Results) Records() []Record { return r.records }

// RecordCount returns the number of records.
func (r Results) RecordCount() int { return r.recordCount }

// FieldCount returns the total number of fields across records.
func (r Results) FieldCount() int { return r.fieldCount }

// HasMeaningfulData reports whether at least one record survived.
func (r Results) HasMeaningfulData() bool { return r.hasMeaningfulData }
