package domain

// FieldType classifies how a field is analyzed and matched.
type FieldType string

// Available field types.
const (
	// FieldText is analyzed, searchable text (lower-cased, stemmed).
	FieldText FieldType = "text"

	// FieldKeyword is an exact-match term, case-folded but never stemmed.
	FieldKeyword FieldType = "keyword"

	// FieldNumeric is a sortable, range-queryable number.
	FieldNumeric FieldType = "numeric"

	// FieldDatetime is a sortable, range-queryable timestamp.
	FieldDatetime FieldType = "datetime"

	// FieldStored is retrievable only, never searched.
	FieldStored FieldType = "stored"
)

// FieldSpec declares the behaviour of a single index field.
type FieldSpec struct {
	// Name is the field name used in queries and filters.
	Name string

	// Type selects the analyzer and match semantics.
	Type FieldType

	// Stored fields are retrievable from search hits.
	Stored bool

	// Sortable fields can order results.
	Sortable bool

	// Boost is the relevance weight multiplier for text fields.
	// Zero means the default weight of 1.0.
	Boost float64

	// MultiValued marks keyword fields that hold a set of values.
	MultiValued bool
}

// Schema is the single source of truth for field behaviour.
// Changing it requires a full re-index.
type Schema struct {
	fields []FieldSpec
	byName map[string]FieldSpec
}

// NewSchema builds a schema from the given field specs.
func NewSchema(fields []FieldSpec) Schema {
	byName := make(map[string]FieldSpec, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}
	return Schema{fields: fields, byName: byName}
}

// Fields returns the field specs in declaration order.
func (s Schema) Fields() []FieldSpec {
	return s.fields
}

// FieldNames returns all field names in declaration order.
func (s Schema) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Field looks up a field spec by name.
func (s Schema) Field(name string) (FieldSpec, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// Has reports whether the schema declares the named field.
func (s Schema) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Facetable reports whether the field can carry facet counts.
// Only keyword and numeric fields aggregate into facets.
func (s Schema) Facetable(name string) bool {
	f, ok := s.byName[name]
	return ok && (f.Type == FieldKeyword || f.Type == FieldNumeric)
}

// Sortable reports whether results may be ordered by the field.
func (s Schema) Sortable(name string) bool {
	f, ok := s.byName[name]
	return ok && f.Sortable
}

// TitleBoost is the relevance weight of the title field relative to content.
const TitleBoost = 2.0

// DefaultSchema returns the document schema. Every searchable field
// declares an explicit analyzer through its type; keyword fields are
// case-folded but never stemmed.
func DefaultSchema() Schema {
	return NewSchema([]FieldSpec{
		{Name: "id", Type: FieldKeyword, Stored: true},
		{Name: "path", Type: FieldKeyword, Stored: true},
		{Name: "title", Type: FieldText, Stored: true, Sortable: true, Boost: TitleBoost},
		{Name: "content", Type: FieldText},
		{Name: "description", Type: FieldText, Stored: true},
		{Name: "format", Type: FieldKeyword, Stored: true},
		{Name: "category", Type: FieldKeyword, Stored: true},
		{Name: "status", Type: FieldKeyword, Stored: true},
		{Name: "tags", Type: FieldKeyword, Stored: true, MultiValued: true},
		{Name: "keywords", Type: FieldKeyword, Stored: true, MultiValued: true},
		{Name: "path_components", Type: FieldKeyword, Stored: true, MultiValued: true},
		{Name: "content_hash", Type: FieldKeyword, Stored: true},
		{Name: "created_at", Type: FieldDatetime, Stored: true, Sortable: true},
		{Name: "modified_at", Type: FieldDatetime, Stored: true, Sortable: true},
		{Name: "indexed_at", Type: FieldDatetime, Stored: true, Sortable: true},
		{Name: "size", Type: FieldNumeric, Stored: true, Sortable: true},
		{Name: "score", Type: FieldNumeric, Stored: true, Sortable: true},
		{Name: "year", Type: FieldNumeric, Stored: true, Sortable: true},
		{Name: "month", Type: FieldNumeric, Stored: true, Sortable: true},
		{Name: "snippet", Type: FieldStored, Stored: true},
		{Name: "metadata_json", Type: FieldStored, Stored: true},
	})
}
