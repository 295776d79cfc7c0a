package domain

import (
	"fmt"
	"strings"
	"time"
)

// Query is a node in the parsed query tree. Parsers always produce a
// valid tree; malformed input degrades to a fallback query rather
// than surfacing an error.
type Query interface {
	// String renders the node in query syntax, for logging.
	String() string

	isQuery()
}

// MatchAllQuery matches every document. Empty or whitespace-only
// query strings parse to this node.
type MatchAllQuery struct{}

func (MatchAllQuery) isQuery()       {}
func (MatchAllQuery) String() string { return "*:*" }

// TermQuery matches a single analyzed term across the default search
// fields (title, content, tags, keywords).
type TermQuery struct {
	Term string
}

func (TermQuery) isQuery()         {}
func (q TermQuery) String() string { return q.Term }

// FieldTermQuery matches a term within a specific field.
type FieldTermQuery struct {
	Field string
	Term  string
}

func (FieldTermQuery) isQuery() {}
func (q FieldTermQuery) String() string {
	return q.Field + ":" + q.Term
}

// PhraseQuery matches an exact phrase. An empty Field searches the
// default fields.
type PhraseQuery struct {
	Field  string
	Phrase string
}

func (PhraseQuery) isQuery() {}
func (q PhraseQuery) String() string {
	if q.Field == "" {
		return fmt.Sprintf("%q", q.Phrase)
	}
	return fmt.Sprintf("%s:%q", q.Field, q.Phrase)
}

// WildcardQuery matches terms against a pattern containing * or ?.
type WildcardQuery struct {
	Field   string
	Pattern string
}

func (WildcardQuery) isQuery() {}
func (q WildcardQuery) String() string {
	if q.Field == "" {
		return q.Pattern
	}
	return q.Field + ":" + q.Pattern
}

// FuzzyQuery matches terms within an edit distance of the given term.
type FuzzyQuery struct {
	Field    string
	Term     string
	Distance int
}

func (FuzzyQuery) isQuery() {}
func (q FuzzyQuery) String() string {
	base := q.Term
	if q.Field != "" {
		base = q.Field + ":" + q.Term
	}
	if q.Distance > 0 {
		return fmt.Sprintf("%s~%d", base, q.Distance)
	}
	return base + "~"
}

// RangeQuery matches numeric or datetime values within bounds.
// Exactly one of the bound pairs is populated, according to the
// field's schema type. Nil/zero bounds are open.
type RangeQuery struct {
	Field string

	// Numeric bounds.
	Min *float64
	Max *float64

	// Datetime bounds. Zero time means unbounded.
	Start time.Time
	End   time.Time
}

func (RangeQuery) isQuery() {}
func (q RangeQuery) String() string {
	lo, hi := "*", "*"
	switch {
	case !q.Start.IsZero() || !q.End.IsZero():
		if !q.Start.IsZero() {
			lo = q.Start.Format("2006-01-02")
		}
		if !q.End.IsZero() {
			hi = q.End.Format("2006-01-02")
		}
	default:
		if q.Min != nil {
			lo = fmt.Sprintf("%g", *q.Min)
		}
		if q.Max != nil {
			hi = fmt.Sprintf("%g", *q.Max)
		}
	}
	return fmt.Sprintf("%s:[%s TO %s]", q.Field, lo, hi)
}

// AndQuery matches documents satisfying every child.
type AndQuery struct {
	Children []Query
}

func (AndQuery) isQuery() {}
func (q AndQuery) String() string {
	return "(" + joinQueries(q.Children, " AND ") + ")"
}

// OrQuery matches documents satisfying at least one child.
type OrQuery struct {
	Children []Query
}

func (OrQuery) isQuery() {}
func (q OrQuery) String() string {
	return "(" + joinQueries(q.Children, " OR ") + ")"
}

// NotQuery excludes documents matching the child.
type NotQuery struct {
	Child Query
}

func (NotQuery) isQuery() {}
func (q NotQuery) String() string {
	return "NOT " + q.Child.String()
}

func joinQueries(queries []Query, sep string) string {
	parts := make([]string, len(queries))
	for i, q := range queries {
		parts[i] = q.String()
	}
	return strings.Join(parts, sep)
}

// FilterKind discriminates the filter value union.
type FilterKind int

const (
	// FilterSingle is one exact value.
	FilterSingle FilterKind = iota

	// FilterList is a set of values, any of which may match.
	FilterList

	// FilterRange is a from/to bound pair.
	FilterRange
)

// FilterValue is a tagged union of the filter shapes callers may
// supply: a single value, a list of values, or a range. Bounds are
// carried as strings and interpreted against the schema field type
// (numeric or datetime) when the filter query is built.
type FilterValue struct {
	Kind   FilterKind
	Single string
	List   []string
	From   string
	To     string
}

// FilterTerm builds a single-value filter.
func FilterTerm(value string) FilterValue {
	return FilterValue{Kind: FilterSingle, Single: value}
}

// FilterIn builds a list filter matching any of the values.
func FilterIn(values ...string) FilterValue {
	return FilterValue{Kind: FilterList, List: values}
}

// FilterBetween builds a range filter. Empty bounds are open.
func FilterBetween(from, to string) FilterValue {
	return FilterValue{Kind: FilterRange, From: from, To: to}
}
